package types

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ContentSource gives access to the raw bytes of a candidate file.
type ContentSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads content from a path on disk.
type FileSource string

// Open opens the file.
func (p FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.Open(string(p))
}

// MemorySource serves content from memory.
type MemorySource []byte

// Open returns a reader over the bytes.
func (m MemorySource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(m)), nil
}

// CandidateFile is a file the user selected for merging. It is immutable
// once created; the file list only holds references to it.
type CandidateFile struct {
	Name         string        `json:"name"`
	Size         int64         `json:"size"`
	MimeHint     string        `json:"mime,omitempty"`
	LastModified time.Time     `json:"last_modified"`
	RelativePath string        `json:"relative_path"`
	Content      ContentSource `json:"-"`
}

// NewFileCandidate builds a candidate from a file on disk. rel is the
// path relative to the directory the user picked, or empty for a file
// picked directly.
func NewFileCandidate(path, rel string, info os.FileInfo, mime string) *CandidateFile {
	name := filepath.Base(path)
	if rel == "" {
		rel = name
	}
	return &CandidateFile{
		Name:         name,
		Size:         info.Size(),
		MimeHint:     mime,
		LastModified: info.ModTime(),
		RelativePath: filepath.ToSlash(rel),
		Content:      FileSource(path),
	}
}

// NewMemoryCandidate builds a candidate whose content is held in memory.
func NewMemoryCandidate(name, mime string, data []byte, modified time.Time) *CandidateFile {
	return &CandidateFile{
		Name:         name,
		Size:         int64(len(data)),
		MimeHint:     mime,
		LastModified: modified,
		RelativePath: name,
		Content:      MemorySource(data),
	}
}

// Extension returns the lower-cased text after the last dot, or "".
func (f *CandidateFile) Extension() string {
	i := strings.LastIndexByte(f.Name, '.')
	if i < 0 || i == len(f.Name)-1 {
		return ""
	}
	return strings.ToLower(f.Name[i+1:])
}

// ReadAll loads the whole content.
func (f *CandidateFile) ReadAll(ctx context.Context) ([]byte, error) {
	if f.Content == nil {
		return nil, fmt.Errorf("%s has no content source", f.Name)
	}
	rc, err := f.Content.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// String returns a human-readable representation
func (f *CandidateFile) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("File: %s\n", f.RelativePath))
	if f.MimeHint != "" {
		sb.WriteString(fmt.Sprintf("Type: %s\n", f.MimeHint))
	}
	sb.WriteString(fmt.Sprintf("Size: %d bytes\n", f.Size))
	return sb.String()
}
