// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assemble

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// WriteError reports a failure to persist the assembled output. The target
// path is never left partially written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing output %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// writeAtomic merges files into outPath via a temp file in the same
// directory, renamed into place on success. The temp file is removed on
// every failure path so an existing output is never clobbered by a partial
// write.
func writeAtomic(files []string, outPath string, conf *model.Configuration) error {
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Path: outPath, Err: err}
	}

	tmp, err := os.CreateTemp(dir, ".bind-*.pdf")
	if err != nil {
		return &WriteError{Path: outPath, Err: err}
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := api.MergeCreateFile(files, tmpPath, false, conf); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: outPath, Err: err}
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		os.Remove(tmpPath)
		return &WriteError{Path: outPath, Err: err}
	}
	return nil
}
