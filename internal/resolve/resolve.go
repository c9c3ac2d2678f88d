// Package resolve binds one parameter row to the compiled rule set,
// producing the per-case build plan consumed by the builder. No value-domain
// validation happens here: raw row text passes through verbatim, because the
// target file format is solver specific and outside the engine's knowledge.
package resolve

import (
	"fmt"

	"github.com/vk/sweepgen/internal/mapping"
	"github.com/vk/sweepgen/internal/patch"
	"github.com/vk/sweepgen/internal/table"
)

// Plan is the fully resolved patch plan for one case: every rule bound to
// concrete values, grouped by target file in declaration order.
type Plan struct {
	CaseName string
	Files    []*FilePatches
}

// FilePatches holds the resolved patches for one target file.
type FilePatches struct {
	Path    string
	Patches []patch.Resolved
}

// MissingColumnError reports a rule that references a parameter-table
// column absent from the row.
type MissingColumnError struct {
	CaseName string
	Column   string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("case %q: parameter table has no column %q", e.CaseName, e.Column)
}

// Resolver binds rows against one compiled rule set.
type Resolver struct {
	set *mapping.RuleSet
}

// NewResolver creates a Resolver for the given compiled rule set.
func NewResolver(set *mapping.RuleSet) *Resolver {
	return &Resolver{set: set}
}

// Resolve produces the build plan for one row. Each plan is created fresh
// per row and owned by a single builder invocation.
func (res *Resolver) Resolve(row *table.Row) (*Plan, error) {
	plan := &Plan{CaseName: row.CaseName}

	for _, file := range res.set.Files {
		group := &FilePatches{Path: file.Path}
		for _, rule := range file.Rules {
			resolved, err := resolveRule(rule, row)
			if err != nil {
				return nil, err
			}
			group.Patches = append(group.Patches, resolved)
		}
		plan.Files = append(plan.Files, group)
	}
	return plan, nil
}

// resolveRule binds a single rule to the row's values.
func resolveRule(rule mapping.Rule, row *table.Row) (patch.Resolved, error) {
	switch r := rule.(type) {
	case *mapping.KeyRule:
		value, ok := row.Lookup(r.Param)
		if !ok {
			return nil, &MissingColumnError{CaseName: row.CaseName, Column: r.Param}
		}
		return &patch.KeyPatch{Key: r.Key, Value: value, Line: r.Line}, nil

	case *mapping.RegexRule:
		values := make(map[string]string, len(r.Params))
		for name, col := range r.Params {
			value, ok := row.Lookup(col)
			if !ok {
				return nil, &MissingColumnError{CaseName: row.CaseName, Column: col}
			}
			values[name] = value
		}
		return &patch.RegexPatch{
			Pattern:     r.Pattern,
			Replacement: patch.Interpolate(r.Replacement, values),
		}, nil

	default:
		return nil, fmt.Errorf("unexpected rule variant %T", rule)
	}
}
