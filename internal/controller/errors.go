package controller

import "fmt"

// PanicError surfaces a value recovered from a panicking loader.
// Value holds exactly what the loader panicked with, so no information
// is lost even when the loader threw something other than an error.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("loader panic: %v", e.Value)
}
