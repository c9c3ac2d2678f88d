// Package fsutil wraps the tree-level filesystem operations the builder
// needs: clone, existence check and subtree removal, backed by the afs
// abstract file system.
package fsutil

import (
	"bytes"
	"context"
	"io/fs"
	"path/filepath"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// Service exposes the filesystem operations used by case builds.
type Service struct {
	fs afs.Service
}

// New creates a Service backed by the default afs service.
func New() *Service {
	return &Service{fs: afs.New()}
}

// Exists reports whether the given path exists.
func (s *Service) Exists(ctx context.Context, path string) (bool, error) {
	return s.fs.Exists(ctx, path)
}

// CopyTree clones the source directory into dest.
func (s *Service) CopyTree(ctx context.Context, source, dest string) error {
	return s.fs.Copy(ctx, source, dest)
}

// RemoveTree deletes a directory and everything beneath it.
func (s *Service) RemoveTree(ctx context.Context, path string) error {
	return s.fs.Delete(ctx, path)
}

// ReadFile returns the content of a single file.
func (s *Service) ReadFile(ctx context.Context, path string) ([]byte, error) {
	return s.fs.DownloadWithURL(ctx, path)
}

// WriteFile replaces the content of a single file.
func (s *Service) WriteFile(ctx context.Context, path string, data []byte) error {
	return s.fs.Upload(ctx, path, file.DefaultFileOsMode, bytes.NewReader(data))
}

// RelativeFiles walks root and returns every regular file's path relative
// to root, in lexical walk order.
func RelativeFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
