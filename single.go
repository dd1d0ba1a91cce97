package di

// Single is an instance cached by a [Container].
type Single[T any] struct {
	instance T
	clone    func(T) T
}

// Get returns the cached instance.
func (s *Single[T]) Get() T {
	return s.instance
}

// Owned returns a copy of the cached instance.
// It returns false for single owner instances, which cannot be copied.
func (s *Single[T]) Owned() (T, bool) {
	if s.clone == nil {
		var zero T
		return zero, false
	}
	return s.clone(s.instance), true
}

// DynSingle is a type-erased [Single].
//
// Use [SingleAs] to get the typed single back.
type DynSingle struct {
	typ    Type
	single any
	value  any
	closer Closer
}

func newDynSingle[T any](s *Single[T], closerFactory func(T) Closer) *DynSingle {
	d := &DynSingle{
		typ:    TypeOf[T](),
		single: s,
		value:  s.instance,
	}
	if closerFactory != nil {
		d.closer = closerFactory(s.instance)
	}
	return d
}

// Type returns the type of the cached instance.
func (s *DynSingle) Type() Type {
	return s.typ
}

// Value returns the cached instance.
func (s *DynSingle) Value() any {
	return s.value
}

// SingleAs returns the typed single if s holds a T.
func SingleAs[T any](s *DynSingle) (*Single[T], bool) {
	if s == nil || s.typ != TypeOf[T]() {
		return nil, false
	}
	typed, ok := s.single.(*Single[T])
	return typed, ok
}
