package testtypes

import (
	"context"
	"sync"

	"github.com/sectrean/di-context"
)

// Recorder records the order in which instances are closed.
type Recorder struct {
	mu     sync.Mutex
	closed []string
}

func (r *Recorder) Record(name string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = append(r.closed, name)
}

func (r *Recorder) Closed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.closed...)
}

type InterfaceA interface {
	A()
	Close(context.Context) error
}

type InterfaceB interface {
	B()
	Close(context.Context)
}

type InterfaceC interface {
	C()
	Close() error
}

type InterfaceD interface {
	D()
	Close()
}

type StructA struct {
	Tag any
	rec *Recorder
}

func (*StructA) A() {}
func (a *StructA) Close(context.Context) error {
	a.rec.Record("A")
	return nil
}

type StructB struct {
	A   *StructA
	rec *Recorder
}

func (*StructB) B() {}
func (b *StructB) Close(context.Context) {
	b.rec.Record("B")
}

type StructC struct {
	B   *StructB
	rec *Recorder
}

func (*StructC) C() {}
func (c *StructC) Close() error {
	c.rec.Record("C")
	return nil
}

type StructD struct {
	C   *StructC
	rec *Recorder
}

func (*StructD) D() {}
func (d *StructD) Close() {
	d.rec.Record("D")
}

func recorder(c *di.Container) *Recorder {
	rec, _ := di.GetSingleOption[*Recorder](c)
	return rec
}

func NewStructA(c *di.Container) *StructA {
	return &StructA{rec: recorder(c)}
}

func NewStructB(c *di.Container) *StructB {
	return &StructB{A: di.Resolve[*StructA](c), rec: recorder(c)}
}

func NewStructC(c *di.Container) *StructC {
	return &StructC{B: di.Resolve[*StructB](c), rec: recorder(c)}
}

func NewStructD(c *di.Container) *StructD {
	return &StructD{C: di.Resolve[*StructC](c), rec: recorder(c)}
}

func ToInterfaceA(a *StructA) InterfaceA { return a }
func ToInterfaceB(b *StructB) InterfaceB { return b }
func ToInterfaceC(c *StructC) InterfaceC { return c }
func ToInterfaceD(d *StructD) InterfaceD { return d }

// CycleA and CycleB depend on each other.
type CycleA struct{ B *CycleB }
type CycleB struct{ A *CycleA }

func NewCycleA(c *di.Container) *CycleA {
	return &CycleA{B: di.Resolve[*CycleB](c)}
}

func NewCycleB(c *di.Container) *CycleB {
	return &CycleB{A: di.Resolve[*CycleA](c)}
}
