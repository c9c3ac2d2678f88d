package patch

import "fmt"

// KeyNotFoundError reports a key rule whose addressed line is absent from
// the target file.
type KeyNotFoundError struct {
	File string
	Key  string
}

func (e *KeyNotFoundError) Error() string {
	return fmt.Sprintf("file %q: key %q not found", e.File, e.Key)
}

// PatternNotFoundError reports a regex rule that matched nothing in the
// target file.
type PatternNotFoundError struct {
	File    string
	Pattern string
}

func (e *PatternNotFoundError) Error() string {
	return fmt.Sprintf("file %q: pattern %q matched nothing", e.File, e.Pattern)
}
