package mapping

import (
	"fmt"
	"strings"
)

// Error aggregates every problem found while compiling a document, so the
// author sees the full list in one pass instead of fixing one at a time.
type Error struct {
	Errs []error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("mapping validation failed:\n- %s", strings.Join(msgs, "\n- "))
}

// Unwrap exposes the individual problems to errors.Is / errors.As.
func (e *Error) Unwrap() []error { return e.Errs }

// InvalidPatternError reports a regex rule whose pattern does not compile.
type InvalidPatternError struct {
	File    string
	Pattern string
	Err     error
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("file %q: invalid pattern %q: %v", e.File, e.Pattern, e.Err)
}

func (e *InvalidPatternError) Unwrap() error { return e.Err }

// UnboundPlaceholderError reports a {name} placeholder in a replacement
// template that has no corresponding entry in the rule's params mapping.
type UnboundPlaceholderError struct {
	File        string
	Placeholder string
}

func (e *UnboundPlaceholderError) Error() string {
	return fmt.Sprintf("file %q: replacement references placeholder {%s} which is not declared in params", e.File, e.Placeholder)
}

// UnknownRuleTypeError reports a rule descriptor whose type tag is neither
// "key" nor "regex".
type UnknownRuleTypeError struct {
	File string
	Type string
}

func (e *UnknownRuleTypeError) Error() string {
	return fmt.Sprintf("file %q: unknown rule type %q", e.File, e.Type)
}
