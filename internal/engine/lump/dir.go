package lump

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Ext is the file extension of a lump stored on its own.
const Ext = ".lmp"

// ReadDir loads NAME.lmp files for every known lump. Absent files are skipped.
func ReadDir(dir string) (Lumps, error) {
	lumps := make(Lumps)
	for _, name := range Names {
		data, err := os.ReadFile(filepath.Join(dir, name+Ext))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		lumps[name] = data
	}
	return lumps, nil
}

// WriteDir stores each lump as NAME.lmp, creating dir if needed.
func WriteDir(dir string, lumps Lumps) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range Names {
		data, ok := lumps[name]
		if !ok {
			continue
		}
		if err := os.WriteFile(filepath.Join(dir, name+Ext), data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
	return nil
}
