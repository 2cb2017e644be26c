package ioc

import (
	"fmt"
	"sync/atomic"
)

var tokenSeq atomic.Uint64

// Token is an opaque identity for a requested capability. Tokens are
// compared by pointer, never by name: two tokens created with the same
// name are distinct registry keys. The name exists for diagnostics only.
//
// Example:
//
//	var (
//		Logger = ioc.NewToken("logger")
//		Repo   = ioc.NewToken("user-repository")
//	)
type Token struct {
	name string
	seq  uint64
}

// NewToken creates a new token. The name should be a short descriptive
// label; it appears in error messages and introspection output.
func NewToken(name string) *Token {
	return &Token{name: name, seq: tokenSeq.Add(1)}
}

// Name returns the diagnostic label of the token.
func (t *Token) Name() string {
	return t.name
}

func (t *Token) String() string {
	return fmt.Sprintf("Token(%s#%d)", t.name, t.seq)
}
