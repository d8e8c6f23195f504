package writer

import (
	"fmt"
	"os"
	"path/filepath"
)

// CreateFile opens path for writing via a temp file in the same
// directory, so that a crash or early return never leaves a truncated
// file at path: the temp file is renamed onto path only once Close
// succeeds. Mirrors the original mfile-backed writer, which always
// wrote through a fully-sized mapping and only exposed the file once
// the write was complete.
type CreateFile struct {
	Writer *Writer

	path string
	tmp  *os.File
}

// Create opens a new CreateFile writing to a temp file beside path.
func Create(path string) (*CreateFile, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("writer: create temp file for %s: %w", path, err)
	}
	return &CreateFile{
		Writer: New(tmp),
		path:   path,
		tmp:    tmp,
	}, nil
}

// Close flushes buffered output, syncs, and renames the temp file onto
// the target path. On any error the temp file is removed and the target
// path is left untouched.
func (f *CreateFile) Close() error {
	if err := f.Writer.Err(); err != nil {
		f.abort()
		return fmt.Errorf("writer: %s: %w", f.path, err)
	}
	if err := f.Writer.Flush(); err != nil {
		f.abort()
		return fmt.Errorf("writer: flush %s: %w", f.path, err)
	}
	if err := f.tmp.Sync(); err != nil {
		f.abort()
		return fmt.Errorf("writer: sync %s: %w", f.path, err)
	}
	if err := f.tmp.Close(); err != nil {
		os.Remove(f.tmp.Name())
		return fmt.Errorf("writer: close %s: %w", f.path, err)
	}
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		return fmt.Errorf("writer: rename into %s: %w", f.path, err)
	}
	return nil
}

func (f *CreateFile) abort() {
	f.tmp.Close()
	os.Remove(f.tmp.Name())
}
