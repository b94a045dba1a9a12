package domain

// Section carries the outcome of one ingestion sub-section for one entity.
// A failed section holds a human-readable reason instead of a value; failures
// are data, never panics, so one broken source can not take down a sibling.
type Section[T any] struct {
	Value *T     `json:"value,omitempty"`
	Err   string `json:"error,omitempty"`
}

// Ok wraps a successfully produced value.
func Ok[T any](v T) Section[T] {
	return Section[T]{Value: &v}
}

// Fail records a failure reason for the section.
func Fail[T any](reason string) Section[T] {
	return Section[T]{Err: reason}
}

// OK reports whether the section carries a value.
func (s Section[T]) OK() bool {
	return s.Err == "" && s.Value != nil
}

// Get returns the value and whether it is present.
func (s Section[T]) Get() (T, bool) {
	if s.Value == nil {
		var zero T
		return zero, false
	}
	return *s.Value, true
}
