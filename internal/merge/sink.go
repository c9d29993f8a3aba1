package merge

import (
	"context"
	"os"
	"path/filepath"

	"pdfmerge/internal/errors"
	"pdfmerge/internal/log"
	"pdfmerge/pkg/types"
)

// Sink receives a finished artifact, for example by saving or uploading it.
type Sink interface {
	Deliver(ctx context.Context, a types.Artifact) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, a types.Artifact) error

// Deliver calls fn.
func (fn SinkFunc) Deliver(ctx context.Context, a types.Artifact) error {
	return fn(ctx, a)
}

// FileSink writes artifacts into a directory. The file appears under its
// final name only once it has been written completely.
type FileSink struct {
	Dir string
}

// Path returns where a is written.
func (s FileSink) Path(a types.Artifact) string {
	return filepath.Join(s.Dir, a.Filename)
}

// Deliver implements Sink.
func (s FileSink) Deliver(ctx context.Context, a types.Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return errors.NewFileError("failed to create output directory", s.Dir, errors.FileCreateFailed, err)
	}

	tmp, err := os.CreateTemp(s.Dir, ".pdfmerge-*.part")
	if err != nil {
		return errors.NewFileError("failed to create output file", s.Dir, errors.FileCreateFailed, err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return errors.NewFileError("failed to create output file", tmp.Name(), errors.FileCreateFailed, err)
	}
	if _, err := tmp.Write(a.Bytes); err != nil {
		tmp.Close()
		return errors.NewFileError("failed to write output file", tmp.Name(), errors.FileOperationFailed, err)
	}
	if err := tmp.Close(); err != nil {
		return errors.NewFileError("failed to write output file", tmp.Name(), errors.FileOperationFailed, err)
	}

	dest := s.Path(a)
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return errors.NewFileError("failed to move output file into place", dest, errors.FileOperationFailed, err)
	}
	log.LogWithFields(log.F("path", dest), log.F("bytes", len(a.Bytes))).Info("Merged PDF saved")
	return nil
}
