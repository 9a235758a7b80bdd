package cmd

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ScenarioExt is the file extension of scenario files.
const ScenarioExt = ".pet"

// FindScenariosImpl expands paths into a sorted, de-duplicated list of
// scenario files. Files are taken as given; directories are walked for
// *.pet files, skipping hidden subdirectories. It is an Impl function: it
// performs OS filesystem operations.
func FindScenariosImpl(_ context.Context, paths []string) ([]string, error) {
	var files []string
	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, filepath.Clean(root))
			continue
		}
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, ScenarioExt) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}
