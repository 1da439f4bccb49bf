package api

// Result is the outcome of one client operation. Operations never panic or
// return a bare error; callers branch on Success.
type Result[T any] struct {
	Success    bool
	Data       T
	Kind       Kind
	Message    string
	StatusCode int
	Endpoint   string

	cause error
}

func succeed[T any](endpoint string, data T) Result[T] {
	return Result[T]{Success: true, Data: data, Endpoint: endpoint}
}

func fail[T any](err *Error) Result[T] {
	return Result[T]{
		Kind:       err.Kind,
		Message:    err.Message,
		StatusCode: err.StatusCode,
		Endpoint:   err.Endpoint,
		cause:      err.Cause,
	}
}

// Err returns the failure as an *Error, or nil on success
func (r Result[T]) Err() error {
	if r.Success {
		return nil
	}
	return &Error{
		Kind:       r.Kind,
		Message:    r.Message,
		StatusCode: r.StatusCode,
		Endpoint:   r.Endpoint,
		Cause:      r.cause,
	}
}
