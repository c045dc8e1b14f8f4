package csvstore

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetField scans path for the first row whose idColumn equals id and returns
// its valueColumn. ok is false when no row matches.
func GetField(path, id, idColumn, valueColumn string) (value string, ok bool, err error) {
	var h Header
	err = ReadFile(path, func(_ int, row []string) error {
		if h == nil {
			var herr error
			h, herr = ParseHeader(row, idColumn, valueColumn)
			return herr
		}
		if h.Field(row, idColumn) == id {
			value, ok = h.Field(row, valueColumn), true
			return ErrStop
		}
		return nil
	})
	if err != nil {
		return "", false, err
	}
	if h == nil {
		return "", false, fmt.Errorf("read %s: %w", path, &ColumnError{Missing: []string{idColumn, valueColumn}})
	}
	return value, ok, nil
}

// EditField rewrites path with valueColumn set to value on the first row whose
// idColumn equals id. Every other row is copied unchanged, so the row count
// does not change. When no row matches the store is left untouched and
// ErrRowNotFound is returned.
func EditField(path, id, value, idColumn, valueColumn string) error {
	return WriteAtomic(path, func(w *Writer) error {
		var h Header
		updated := false
		err := ReadFile(path, func(_ int, row []string) error {
			if h == nil {
				var herr error
				if h, herr = ParseHeader(row, idColumn, valueColumn); herr != nil {
					return herr
				}
			} else if !updated && h.Field(row, idColumn) == id {
				if i := h[valueColumn]; i < len(row) {
					row[i] = value
					updated = true
				}
			}
			return w.WriteRow(row...)
		})
		if err != nil {
			return err
		}
		if !updated {
			return fmt.Errorf("edit %q in %s: %w", id, filepath.Base(path), ErrRowNotFound)
		}
		return nil
	})
}

// WriteAtomic creates a temp file next to path, lets fn fill it, then renames
// it over path. If fn or any write fails the temp file is removed and path is
// left as it was.
func WriteAtomic(path string, fn func(w *Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	w := NewWriter(tmp)
	if err := fn(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	committed = true
	return nil
}
