/*
File    : cmini/internal/source/source.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package source reads a compilation unit's source file into a string
// that the lexer then owns exclusively for the lifetime of the run.
package source

import (
	"fmt"
	"os"
)

// ReadFile reads path and returns its contents as a string. The
// original C implementation (os_read_file_as_string) referenced an
// undeclared `pathname` variable instead of its own `filepath`
// parameter on its Linux branch; this is the fixed version, which
// actually uses path.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("could not read file %q: %w", path, err)
	}
	return string(data), nil
}
