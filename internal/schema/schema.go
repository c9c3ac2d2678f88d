// Package schema declares the HCL block structures for the mapping document.
package schema

import "github.com/hashicorp/hcl/v2"

// Update represents one `update` block inside a file block: a single rule
// descriptor tagged by its `type` attribute. Params stays an hcl.Expression
// so the adapter can evaluate it into a plain string map.
type Update struct {
	Type        string         `hcl:"type"`
	Key         string         `hcl:"key,optional"`
	Param       string         `hcl:"param,optional"`
	Pattern     string         `hcl:"pattern,optional"`
	Replacement string         `hcl:"replacement,optional"`
	Params      hcl.Expression `hcl:"params,optional"`
}

// File represents a `file "<path>" { ... }` block: the ordered list of
// updates targeting one file of the reference tree.
type File struct {
	Path    string    `hcl:"path,label"`
	Updates []*Update `hcl:"update,block"`
}

// Mapping represents the top-level structure of a mapping document.
type Mapping struct {
	Files  []*File  `hcl:"file,block"`
	Remain hcl.Body `hcl:",remain"`
}
