package services

import "fmt"

// Every service failure is one of the types below. The handlers package maps
// each type to an HTTP status; Message is safe to show to callers, the
// wrapped Err is for the operational log only.

type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string { return e.Message }

type AuthError struct{ Message string }

func (e *AuthError) Error() string { return e.Message }

type ConfigurationError struct {
	Message string
	Setting string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s is not set", e.Message, e.Setting)
}

type GatewayError struct {
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *GatewayError) Unwrap() error { return e.Err }

type PersistenceError struct {
	Message string
	Err     error
}

func (e *PersistenceError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error { return e.Err }
