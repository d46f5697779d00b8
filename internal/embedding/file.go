// Mealrec - Restaurant Menu Meal-Completion Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mealrec

package embedding

import (
	"fmt"
	"os"
	"path/filepath"
)

// SaveFile writes m to path so that readers only ever observe a complete
// file: the matrix goes to a temp file in the same directory, is synced, and
// is then renamed over path.
//
//nolint:gosec // G304: path comes from operator configuration
func SaveFile(path string, m *Matrix) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := writeAndSync(tmp, m); err != nil {
		os.Remove(tmpName) //nolint:errcheck // Best effort cleanup on error
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName) //nolint:errcheck // Best effort cleanup on error
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName) //nolint:errcheck // Best effort cleanup on error
		return fmt.Errorf("failed to publish %s: %w", path, err)
	}

	// Persist the rename itself. Not every platform can sync a directory.
	if d, err := os.Open(dir); err == nil {
		d.Sync()  //nolint:errcheck // Best effort directory sync
		d.Close() //nolint:errcheck // Best effort cleanup
	}
	return nil
}

func writeAndSync(f *os.File, m *Matrix) error {
	if err := WriteNPY(f, m); err != nil {
		f.Close() //nolint:errcheck // Best effort cleanup on error
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close() //nolint:errcheck // Best effort cleanup on error
		return fmt.Errorf("failed to sync embeddings: %w", err)
	}
	return f.Close()
}

// FileStamp identifies a file version by size and modification time.
type FileStamp struct {
	Size    int64
	ModTime int64
}

// Stat returns the current stamp of path.
func Stat(path string) (FileStamp, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return FileStamp{}, err
	}
	return FileStamp{Size: fi.Size(), ModTime: fi.ModTime().UnixNano()}, nil
}
