package ioc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenIdentity(t *testing.T) {
	a := NewToken("db")
	b := NewToken("db")

	assert.Equal(t, "db", a.Name())
	assert.Equal(t, "db", b.Name())
	assert.NotSame(t, a, b)

	m := map[*Token]int{a: 1, b: 2}
	assert.Equal(t, 1, m[a])
	assert.Equal(t, 2, m[b])
}

func TestTokenString(t *testing.T) {
	tok := NewToken("cache")
	assert.Contains(t, tok.String(), "cache")
}
