package pipeline

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// Source represents a discovered JPEG file.
type Source struct {
	// AbsPath is the absolute path to the file on disk.
	AbsPath string
	// RelPath is the path relative to the input directory, with forward slashes.
	RelPath string
	// Key is RelPath without its extension.
	Key string
	// Size is the file size in bytes.
	Size int64
}

// jpegExtensions lists file extensions jpegtran is run on.
var jpegExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".jpe":  true,
}

// ScanJPEGs walks the input directory and returns all JPEG sources in
// lexical order. Hidden directories are skipped. Keys are unique: files
// that differ only by extension (photo.jpg, photo.jpeg) keep their
// extension in the key.
func ScanJPEGs(inputDir string) ([]Source, error) {
	var sources []Source

	err := filepath.WalkDir(inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != inputDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(path)
		if !jpegExtensions[strings.ToLower(ext)] {
			return nil
		}

		relPath, err := filepath.Rel(inputDir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		relPath = filepath.ToSlash(relPath)
		sources = append(sources, Source{
			AbsPath: path,
			RelPath: relPath,
			Key:     strings.TrimSuffix(relPath, ext),
			Size:    info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	uniqueKeys(sources)
	return sources, nil
}

// uniqueKeys replaces every key shared by more than one source with the
// source's RelPath. RelPaths are unique, so repeating until no key is
// shared always terminates.
func uniqueKeys(sources []Source) {
	for {
		count := make(map[string]int, len(sources))
		for _, s := range sources {
			count[s.Key]++
		}
		changed := false
		for i := range sources {
			if count[sources[i].Key] > 1 && sources[i].Key != sources[i].RelPath {
				sources[i].Key = sources[i].RelPath
				changed = true
			}
		}
		if !changed {
			return
		}
	}
}
