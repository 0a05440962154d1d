package jpegtran

// DefaultBinary is the executable looked up in PATH when Settings.Binary
// is empty.
const DefaultBinary = "jpegtran"

// Settings holds invocation parameters that are not per-transform options.
type Settings struct {
	// Binary is the jpegtran executable, a bare name or a path.
	Binary string
	// MaxMemory is passed as -maxmemory when non-empty (e.g. "64M").
	MaxMemory string
}

// DefaultSettings returns settings that run jpegtran from PATH with no
// memory ceiling.
func DefaultSettings() Settings {
	return Settings{Binary: DefaultBinary}
}

func (s Settings) binary() string {
	if s.Binary == "" {
		return DefaultBinary
	}
	return s.Binary
}
