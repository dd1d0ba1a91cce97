package testtypes

import (
	"context"

	"github.com/sectrean/di-context"
)

// Factory counts constructor calls.
type Factory struct {
	count int
}

func (f *Factory) Count() int {
	return f.count
}

func (f *Factory) NewStructA(*di.Container) *StructA {
	a := &StructA{
		Tag: f.count,
	}
	f.count++

	return a
}

func (f *Factory) NewStructAAsync(_ context.Context, c *di.Container) *StructA {
	return f.NewStructA(c)
}

func (f *Factory) NewInt(*di.Container) int {
	f.count++
	return f.count
}

func ExpectStructA(count int) []*StructA {
	var s []*StructA
	for i := range count {
		s = append(s, &StructA{Tag: i})
	}
	return s
}
