package services

// ValidationError marks a request missing required data
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NotFoundError marks a referenced entity that does not exist
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

// DependencyError wraps a failure of the database, mail transport or payment
// processor. The message is the underlying error's unless Message is set.
type DependencyError struct {
	Dependency string
	Message    string
	Err        error
}

func (e *DependencyError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *DependencyError) Unwrap() error { return e.Err }

func dependencyError(dependency string, err error) error {
	return &DependencyError{Dependency: dependency, Err: err}
}
