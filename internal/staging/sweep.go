package staging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SweepResult reports what a sweep removed.
type SweepResult struct {
	Removed int
	Bytes   int64
}

// Sweep deletes staged files in dir older than maxAge. Files left behind by a
// crashed request are never referenced again, so age alone decides.
func Sweep(dir string, maxAge time.Duration, now time.Time) (SweepResult, error) {
	var result SweepResult

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return result, nil
		}
		return result, fmt.Errorf("read staging dir: %w", err)
	}

	cutoff := now.Add(-maxAge)
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), filePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, err)
			}
			continue
		}
		result.Removed++
		result.Bytes += info.Size()
	}

	return result, errors.Join(errs...)
}
