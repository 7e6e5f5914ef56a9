package generate

// Recovered is the outcome of a step that degrades instead of failing. A
// Primary value came from the provider; a Fallback value was produced
// locally because the provider's output was unusable, and carries the
// reason.
type Recovered[T any] struct {
	Value T

	fallback bool
	reason   string
}

// Primary wraps a value produced by the provider.
func Primary[T any](v T) Recovered[T] {
	return Recovered[T]{Value: v}
}

// Fallback wraps a locally produced value along with why the provider's
// output was discarded.
func Fallback[T any](v T, reason string) Recovered[T] {
	return Recovered[T]{Value: v, fallback: true, reason: reason}
}

// IsFallback reports whether the value was produced locally.
func (r Recovered[T]) IsFallback() bool { return r.fallback }

// Reason is empty for primary values.
func (r Recovered[T]) Reason() string { return r.reason }
