package loginit

import "fmt"

// Option is a value that is either unset or explicitly set. The zero value is
// unset, which is distinct from a set zero value such as false or "".
type Option[T any] struct {
	value T
	set   bool
}

// Some returns a set [Option] holding v.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, set: true}
}

// None returns an unset [Option].
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the value and whether it is set.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether o holds a value.
func (o Option[T]) IsSet() bool {
	return o.set
}

// ValueOr returns the value if set, otherwise def.
func (o Option[T]) ValueOr(def T) T {
	if o.set {
		return o.value
	}

	return def
}

// Or returns o if set, otherwise other.
func (o Option[T]) Or(other Option[T]) Option[T] {
	if o.set {
		return o
	}

	return other
}

// OrElse returns o if set, otherwise a set [Option] holding fn's result. fn
// is only called when o is unset.
func (o Option[T]) OrElse(fn func() T) Option[T] {
	if o.set {
		return o
	}

	return Some(fn())
}

// String renders the value, or "<unset>".
func (o Option[T]) String() string {
	if !o.set {
		return "<unset>"
	}

	return fmt.Sprint(o.value)
}

// First returns the first set option, or an unset one if none is set.
func First[T any](opts ...Option[T]) Option[T] {
	for _, o := range opts {
		if o.set {
			return o
		}
	}

	return None[T]()
}
