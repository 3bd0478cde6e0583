/*
File    : cmini/internal/diag/diag.go
Author  : Akash Maji
Contact : akashmaji(@iisc.ac.in)
*/

// Package diag defines the single diagnostic shape shared by the
// parser and the checker. Every failure in the front end — lexical,
// syntactic, redeclaration, or semantic — is reported the same way:
// a source position and a message. There is no multi-error
// accumulation; the first Diagnostic produced aborts the run.
package diag

import (
	"fmt"

	"github.com/akashmaji946/cmini/internal/token"
)

// Diagnostic names the offending token's source position and a
// human-readable message.
type Diagnostic struct {
	Line    int
	Col     int
	Message string
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("(%d,%d): %s", d.Line, d.Col, d.Message)
}

// At builds a Diagnostic anchored on t's start position.
func At(t token.Token, message string) *Diagnostic {
	return &Diagnostic{Line: t.Line, Col: t.Col0, Message: message}
}

// Atf is At with fmt.Sprintf-style formatting.
func Atf(t token.Token, format string, args ...any) *Diagnostic {
	return At(t, fmt.Sprintf(format, args...))
}
