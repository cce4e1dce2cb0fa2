package runner

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// FindCases returns every file under dir whose name ends with ext, sorted by path.
func FindCases(dir, ext string) ([]string, error) {
	if ext == "" {
		return nil, errors.New("case extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing cases in %s: %w", dir, err)
	}

	sort.Strings(files)
	return files, nil
}
