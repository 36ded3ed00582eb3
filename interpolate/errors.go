package interpolate

import (
	"fmt"
	"strings"
)

// UnterminatedTokenError is returned when a '{' has no closing '}'.
type UnterminatedTokenError struct {
	Path   string
	Offset int
}

func (e *UnterminatedTokenError) Error() string {
	return fmt.Sprintf("%s: unterminated token at byte %d", e.Path, e.Offset)
}

// UnresolvedKeyError is returned when a key is missing from the value map.
type UnresolvedKeyError struct {
	Path string
	Key  string
}

func (e *UnresolvedKeyError) Error() string {
	return fmt.Sprintf("%s: key %q not found", e.Path, e.Key)
}

// NestedExpansionError wraps a failure inside an included file.
type NestedExpansionError struct {
	Path string
	Err  error
}

func (e *NestedExpansionError) Error() string {
	return fmt.Sprintf("expanding %s: %v", e.Path, e.Err)
}

func (e *NestedExpansionError) Unwrap() error { return e.Err }

// CyclicInclusionError is returned when a file includes itself, directly
// or through other files. Chain lists the include path, ending with the
// repeated file.
type CyclicInclusionError struct {
	Chain []string
}

func (e *CyclicInclusionError) Error() string {
	return "cyclic inclusion: " + strings.Join(e.Chain, " -> ")
}

// DepthExceededError is returned when the include chain grows past Limit.
type DepthExceededError struct {
	Path  string
	Limit int
}

func (e *DepthExceededError) Error() string {
	return fmt.Sprintf("%s: include depth exceeds %d", e.Path, e.Limit)
}
