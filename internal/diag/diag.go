// Package diag wraps translation errors with the statement/function context
// they occurred in, the way the rest of this module already reports errors:
// a single human-readable message built with fmt.Errorf and %w, not a
// structured diagnostic type.
package diag

import "fmt"

// Func wraps err with the name of the function being translated.
func Func(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("function %s: %w", name, err)
}

// Stat wraps err with the index of the statement being translated within
// its enclosing list.
func Stat(index int, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("statement %d: %w", index, err)
}
