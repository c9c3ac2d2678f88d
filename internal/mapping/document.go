package mapping

import "context"

// Loader is the interface for a format-specific mapping document loader.
type Loader interface {
	// Load reads a mapping document from the given path and translates it
	// into the format-agnostic Document. Load performs no semantic
	// validation; that is Compile's job.
	Load(ctx context.Context, path string) (*Document, error)
}

// Document is the raw, untyped form of a mapping specification: an ordered
// list of target files, each with an ordered list of rule descriptors.
type Document struct {
	Files []*FileSpec
}

// FileSpec groups the rule descriptors declared for one target file. Path is
// relative to the reference tree root.
type FileSpec struct {
	Path    string
	Updates []*UpdateSpec
}

// UpdateSpec is one raw rule descriptor, tagged by Type ("key" or "regex").
// Which of the remaining fields are meaningful depends on the tag; Compile
// enforces the per-type contract.
type UpdateSpec struct {
	Type        string
	Key         string
	Param       string
	Pattern     string
	Replacement string
	Params      map[string]string
}
