package mapping

import (
	"context"
	"fmt"
	"regexp"

	"github.com/vk/sweepgen/internal/ctxlog"
)

// placeholderRe matches {name} placeholders in replacement templates. The
// leading letter requirement keeps Go regex group references like ${1} out
// of placeholder territory.
var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Compile validates a raw document and produces the typed rule set. It is a
// pure transformation: every problem in the document is collected and
// returned as a single *Error, and no rule set is produced unless the whole
// document is valid.
func Compile(ctx context.Context, doc *Document) (*RuleSet, error) {
	logger := ctxlog.FromContext(ctx)

	set := &RuleSet{}
	var errs []error

	for _, file := range doc.Files {
		if file.Path == "" {
			errs = append(errs, fmt.Errorf("mapping declares a file block with an empty path"))
			continue
		}
		group := &FileRules{Path: file.Path}

		for _, upd := range file.Updates {
			switch upd.Type {
			case "key":
				rule, err := compileKeyRule(file.Path, upd)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				group.Rules = append(group.Rules, rule)
			case "regex":
				rule, ruleErrs := compileRegexRule(file.Path, upd)
				if len(ruleErrs) > 0 {
					errs = append(errs, ruleErrs...)
					continue
				}
				group.Rules = append(group.Rules, rule)
			default:
				errs = append(errs, &UnknownRuleTypeError{File: file.Path, Type: upd.Type})
			}
		}
		set.Files = append(set.Files, group)
	}

	if len(errs) > 0 {
		return nil, &Error{Errs: errs}
	}

	logger.Debug("Mapping compiled.", "files", len(set.Files))
	return set, nil
}

// compileKeyRule builds a KeyRule, defaulting the bound column to the key
// name when no explicit param is declared.
func compileKeyRule(path string, upd *UpdateSpec) (*KeyRule, error) {
	if upd.Key == "" {
		return nil, fmt.Errorf("file %q: key rule requires a non-empty key", path)
	}
	param := upd.Param
	if param == "" {
		param = upd.Key
	}
	// Matches `<indent><key>   <value><spaces>;<trailer>` on a single line.
	line := regexp.MustCompile(`(?m)^(\s*` + regexp.QuoteMeta(upd.Key) + `\s+)(.*?)(\s*;)([^\n\r]*)$`)
	return &KeyRule{Key: upd.Key, Param: param, Line: line}, nil
}

// compileRegexRule builds a RegexRule, checking both that the pattern
// compiles and that every placeholder in the replacement is bound.
func compileRegexRule(path string, upd *UpdateSpec) (*RegexRule, []error) {
	var errs []error

	if upd.Pattern == "" {
		errs = append(errs, fmt.Errorf("file %q: regex rule requires a non-empty pattern", path))
	}

	var pattern *regexp.Regexp
	if upd.Pattern != "" {
		var err error
		pattern, err = regexp.Compile(upd.Pattern)
		if err != nil {
			errs = append(errs, &InvalidPatternError{File: path, Pattern: upd.Pattern, Err: err})
		}
	}

	for _, match := range placeholderRe.FindAllStringSubmatch(upd.Replacement, -1) {
		name := match[1]
		if _, ok := upd.Params[name]; !ok {
			errs = append(errs, &UnboundPlaceholderError{File: path, Placeholder: name})
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	params := make(map[string]string, len(upd.Params))
	for name, col := range upd.Params {
		params[name] = col
	}
	return &RegexRule{Pattern: pattern, Replacement: upd.Replacement, Params: params}, nil
}
