package restaurant

// Outcome is the result shape handed to the UI: a success flag, a message
// fit for display, and the data on success.
type Outcome[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func succeeded[T any](message string, data T) Outcome[T] {
	return Outcome[T]{Success: true, Message: message, Data: data}
}

func failed[T any](message string) Outcome[T] {
	return Outcome[T]{Message: message}
}
