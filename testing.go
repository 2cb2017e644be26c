package ioc

import "testing"

// Override replaces resolutions of token with a fixed value, bypassing
// the registered descriptor (the token does not even need one). It is
// only allowed while running under `go test`. The returned function
// restores the previous behavior.
func (c *Container) Override(token *Token, value any) (restore func()) {
	if !testing.Testing() {
		panic("overrides are only allowed during testing")
	}

	c.mu.Lock()
	c.overrides[token] = value
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.overrides, token)
		c.mu.Unlock()
	}
}
