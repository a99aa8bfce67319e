package engine

// Envelope is the uniform result of every engine operation.
//
// Success is Err == nil. On failure Data holds the zero value of T. A select
// that finds nothing is a success with empty (or nil) Data.
type Envelope[T any] struct {
	Data T
	Err  *Error
}

// OK reports whether the operation succeeded.
func (e Envelope[T]) OK() bool {
	return e.Err == nil
}

// Unpack returns Data and Err as a conventional (value, error) pair. The
// error is a true nil interface on success.
func (e Envelope[T]) Unpack() (T, error) {
	if e.Err != nil {
		return e.Data, e.Err
	}
	return e.Data, nil
}

func success[T any](data T) Envelope[T] {
	return Envelope[T]{Data: data}
}

func fail[T any](err *Error) Envelope[T] {
	return Envelope[T]{Err: err}
}
