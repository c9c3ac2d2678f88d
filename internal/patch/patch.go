// Package patch applies a single resolved rule to in-memory file content.
// It is the only place that edits text: deterministic, no filesystem access,
// no hidden state. The same resolved patch applied to the same content
// always yields the same output.
package patch

import (
	"fmt"
	"regexp"
)

// Change records what one patch did to one file, for dry-run reporting and
// verbose output.
type Change struct {
	File    string
	Rule    string // human-readable rule label
	Before  string // first matched span before the edit
	After   string // the same span after the edit
	Matches int
}

// Resolved is a patch rule bound to concrete row values, ready to apply.
type Resolved interface {
	// Describe returns the rule label used in logs and reports.
	Describe() string

	// Apply transforms content and returns the new content plus a change
	// record. It fails hard when the rule's target is absent: an unmatched
	// rule means the reference tree diverged from the mapping's assumptions.
	Apply(file, content string) (string, *Change, error)
}

// KeyPatch rewrites the value of the first `<key>   <value>;` line. The
// line matcher comes pre-compiled from the rule compiler.
type KeyPatch struct {
	Key   string
	Value string
	Line  *regexp.Regexp
}

// Describe implements Resolved.
func (p *KeyPatch) Describe() string {
	return fmt.Sprintf("key %s = %s", p.Key, p.Value)
}

// Apply implements Resolved. Only the first occurrence is patched;
// indentation, the terminator and any trailing comment are preserved, so
// re-applying the same value is a no-op on the text.
func (p *KeyPatch) Apply(file, content string) (string, *Change, error) {
	loc := p.Line.FindStringSubmatchIndex(content)
	if loc == nil {
		return "", nil, &KeyNotFoundError{File: file, Key: p.Key}
	}

	// Submatch groups: (prefix)(value)(terminator)(trailer).
	prefix := content[loc[2]:loc[3]]
	terminator := content[loc[6]:loc[7]]
	trailer := content[loc[8]:loc[9]]

	oldLine := content[loc[0]:loc[1]]
	newLine := prefix + p.Value + terminator + trailer
	newContent := content[:loc[0]] + newLine + content[loc[1]:]

	return newContent, &Change{
		File:    file,
		Rule:    p.Describe(),
		Before:  oldLine,
		After:   newLine,
		Matches: 1,
	}, nil
}

// RegexPatch performs a global search-and-replace. Replacement has already
// had its {name} placeholders interpolated; any $1-style group references
// are expanded by the regexp engine per match.
type RegexPatch struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// Describe implements Resolved.
func (p *RegexPatch) Describe() string {
	return fmt.Sprintf("regex %s -> %s", p.Pattern.String(), p.Replacement)
}

// Apply implements Resolved. All matches are replaced: one rule may patch
// repeated boilerplate blocks in a single pass.
func (p *RegexPatch) Apply(file, content string) (string, *Change, error) {
	matches := p.Pattern.FindAllString(content, -1)
	if len(matches) == 0 {
		return "", nil, &PatternNotFoundError{File: file, Pattern: p.Pattern.String()}
	}

	newContent := p.Pattern.ReplaceAllString(content, p.Replacement)

	return newContent, &Change{
		File:    file,
		Rule:    p.Describe(),
		Before:  matches[0],
		After:   p.Pattern.ReplaceAllString(matches[0], p.Replacement),
		Matches: len(matches),
	}, nil
}

// placeholderRe matches {name} placeholders in replacement templates. The
// leading letter requirement keeps $1-style group references out of
// placeholder territory.
var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Interpolate substitutes each {name} placeholder in a replacement template
// with its value, in a single pass over the template: inserted values are
// never re-scanned, so a value containing another placeholder's {name} text
// stays verbatim. Values are not regex-escaped; callers supply regex-safe
// text when it matters. Names without a value (none survive compile-time
// validation) are left untouched.
func Interpolate(template string, values map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(m string) string {
		if value, ok := values[m[1:len(m)-1]]; ok {
			return value
		}
		return m
	})
}
