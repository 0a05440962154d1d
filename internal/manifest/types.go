package manifest

// Manifest is the top-level output of a jpegtx batch run.
type Manifest struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Recipe      string           `json:"recipe"`
	Steps       string           `json:"steps"`
	BuildInfo   *BuildInfo       `json:"build_info,omitempty"`
	Entries     map[string]Entry `json:"entries"`
	Stats       Stats            `json:"stats"`
}

// BuildInfo captures run-time parameters for diagnostics.
type BuildInfo struct {
	Workers   int    `json:"workers"`
	Tool      string `json:"tool"`
	MaxMemory string `json:"max_memory,omitempty"`
}

// Entry is the result of running the recipe on one source file.
type Entry struct {
	Source     SourceInfo  `json:"source"`
	Output     *OutputInfo `json:"output,omitempty"` // nil when the run failed
	Args       []string    `json:"args,omitempty"`
	ExitCode   int         `json:"exit_code"`
	Stderr     string      `json:"stderr,omitempty"`
	Error      string      `json:"error,omitempty"` // set when jpegtran was not run
	DurationMS int64       `json:"duration_ms"`
}

// OK reports whether the entry produced an output file.
func (e Entry) OK() bool { return e.Error == "" && e.ExitCode == 0 && e.Output != nil }

// SourceInfo describes the input file.
type SourceInfo struct {
	Path   string `json:"path"` // relative to the input directory
	Size   int64  `json:"size"`
	Format string `json:"format,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// OutputInfo describes a written file.
type OutputInfo struct {
	Path     string `json:"path"` // relative to the manifest
	Size     int64  `json:"size"`
	Hash     string `json:"hash"` // first 16 hex chars of xxhash64
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Verified bool   `json:"verified,omitempty"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalSources     int   `json:"total_sources"`
	Succeeded        int   `json:"succeeded"`
	Failed           int   `json:"failed"`
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
}

// SupportedManifestVersion is the current schema version.
const SupportedManifestVersion = 1

// FileName is the manifest name inside an output directory.
const FileName = "jpegtx.manifest.json"
