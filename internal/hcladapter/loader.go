// Package hcladapter is the HCL-specific implementation of the
// mapping.Loader interface.
package hcladapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/sweepgen/internal/ctxlog"
	"github.com/vk/sweepgen/internal/mapping"
	"github.com/vk/sweepgen/internal/schema"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Loader loads mapping documents written in HCL.
type Loader struct{}

// NewLoader creates a new HCL mapping loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses one .hcl mapping file and translates it into the
// format-agnostic document.
func (l *Loader) Load(ctx context.Context, path string) (*mapping.Document, error) {
	logger := ctxlog.FromContext(ctx)

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse mapping file %s: %w", path, diags)
	}

	var root schema.Mapping
	diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode mapping file %s: %w", path, diags)
	}

	doc := &mapping.Document{}
	for _, file := range root.Files {
		spec := &mapping.FileSpec{Path: file.Path}
		for _, upd := range file.Updates {
			params, err := paramsFromExpression(upd.Params)
			if err != nil {
				return nil, fmt.Errorf("file %q: %w", file.Path, err)
			}
			spec.Updates = append(spec.Updates, &mapping.UpdateSpec{
				Type:        upd.Type,
				Key:         upd.Key,
				Param:       upd.Param,
				Pattern:     upd.Pattern,
				Replacement: upd.Replacement,
				Params:      params,
			})
		}
		doc.Files = append(doc.Files, spec)
	}

	logger.Debug("HCL mapping loaded.", "path", path, "files", len(doc.Files))
	return doc, nil
}

// paramsFromExpression evaluates a `params = { name = "column" }` attribute
// into a plain string map. A nil or absent expression yields a nil map.
func paramsFromExpression(expr hcl.Expression) (map[string]string, error) {
	if expr == nil {
		return nil, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate params: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("params must be a map of placeholder to column name, got %s", val.Type().FriendlyName())
	}

	params := make(map[string]string)
	for name, v := range val.AsValueMap() {
		str, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("params entry %q is not convertible to string: %w", name, err)
		}
		params[name] = str.AsString()
	}
	return params, nil
}
