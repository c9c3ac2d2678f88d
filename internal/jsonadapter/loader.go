// Package jsonadapter is the JSON-specific implementation of the
// mapping.Loader interface. It accepts the historical mapping.json schema:
//
//	{"files": [{"path": "...", "updates": [{"type": "key", ...}]}]}
package jsonadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/vk/sweepgen/internal/ctxlog"
	"github.com/vk/sweepgen/internal/mapping"
)

// Loader loads mapping documents written in JSON.
type Loader struct{}

// NewLoader creates a new JSON mapping loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot mirrors the JSON wire schema.
type fileRoot struct {
	Files []struct {
		Path    string `json:"path"`
		Updates []struct {
			Type        string            `json:"type"`
			Key         string            `json:"key"`
			Param       string            `json:"param"`
			Pattern     string            `json:"pattern"`
			Replacement string            `json:"replacement"`
			Params      map[string]string `json:"params"`
		} `json:"updates"`
	} `json:"files"`
}

// Load parses one .json mapping file and translates it into the
// format-agnostic document.
func (l *Loader) Load(ctx context.Context, path string) (*mapping.Document, error) {
	logger := ctxlog.FromContext(ctx)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	var root fileRoot
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to decode mapping file %s: %w", path, err)
	}

	doc := &mapping.Document{}
	for _, file := range root.Files {
		spec := &mapping.FileSpec{Path: file.Path}
		for _, upd := range file.Updates {
			spec.Updates = append(spec.Updates, &mapping.UpdateSpec{
				Type:        upd.Type,
				Key:         upd.Key,
				Param:       upd.Param,
				Pattern:     upd.Pattern,
				Replacement: upd.Replacement,
				Params:      upd.Params,
			})
		}
		doc.Files = append(doc.Files, spec)
	}

	logger.Debug("JSON mapping loaded.", "path", path, "files", len(doc.Files))
	return doc, nil
}
