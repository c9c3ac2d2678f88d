package mapping

import "regexp"

// RuleSet is the compiled form of a mapping document. File groups appear in
// declaration order, and rules within a group are applied in declaration
// order, because later rules may depend on earlier rules' effects on the
// same file.
type RuleSet struct {
	Files []*FileRules
}

// FileRules holds the compiled rules targeting one file.
type FileRules struct {
	Path  string
	Rules []Rule
}

// Rule is the closed variant over the two rule kinds. The concrete type is
// resolved exactly once, at compile time; downstream code binds row values
// per kind in the resolver and never re-inspects descriptor tags.
type Rule interface {
	// Columns returns the parameter-table columns this rule reads.
	Columns() []string

	// Describe returns a short human-readable label for logs and reports.
	Describe() string
}

// KeyRule rewrites the value segment of the first line shaped like
// `<key>   <value>;` in its target file, preserving indentation, the
// terminator, and any trailing same-line comment.
type KeyRule struct {
	Key   string
	Param string // parameter-table column supplying the value

	// Line matches the addressed line; compiled once, groups are
	// (prefix)(value)(terminator)(trailer).
	Line *regexp.Regexp
}

// Columns implements Rule.
func (r *KeyRule) Columns() []string { return []string{r.Param} }

// Describe implements Rule.
func (r *KeyRule) Describe() string { return "key " + r.Key }

// RegexRule performs a global search-and-replace over the whole file text.
// Replacement is a template holding {name} placeholders; Params maps each
// placeholder to the parameter-table column supplying its value.
type RegexRule struct {
	Pattern     *regexp.Regexp
	Replacement string
	Params      map[string]string
}

// Columns implements Rule.
func (r *RegexRule) Columns() []string {
	cols := make([]string, 0, len(r.Params))
	for _, col := range r.Params {
		cols = append(cols, col)
	}
	return cols
}

// Describe implements Rule.
func (r *RegexRule) Describe() string { return "regex " + r.Pattern.String() }
