package di

import (
	"slices"
	"strings"
)

// dependencyChain tracks the keys currently being constructed.
type dependencyChain struct {
	stack []Key
}

// Enter pushes key onto the chain.
// It panics with a *CircularDependencyError if key is already being constructed.
func (c *dependencyChain) Enter(key Key) {
	if slices.Contains(c.stack, key) {
		panic(&CircularDependencyError{
			Chain: slices.Clone(c.stack),
			Key:   key,
		})
	}
	c.stack = append(c.stack, key)
}

func (c *dependencyChain) Leave() {
	c.stack = c.stack[:len(c.stack)-1]
}

// Keys returns the keys being constructed, outermost first.
func (c *dependencyChain) Keys() []Key {
	return slices.Clone(c.stack)
}

// Trail returns a string representation of the dependency chain.
func (c *dependencyChain) Trail() string {
	keys := make([]string, len(c.stack))
	for i, key := range c.stack {
		keys[i] = key.String()
	}
	return strings.Join(keys, " -> ")
}
