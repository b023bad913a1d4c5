/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import "fmt"

// CLIError is an error with a hint telling the user how to fix it.
type CLIError struct {
	Message string
	Hint    string
	Err     error
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error { return e.Err }

// NewCLIError wraps err with a user-facing message and hint
func NewCLIError(message, hint string, err error) *CLIError {
	return &CLIError{Message: message, Hint: hint, Err: err}
}
