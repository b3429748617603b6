package core

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Callers compare against these with errors.Is; concrete
// errors are produced by the Err* constructors below, which wrap a sentinel
// with a formatted message via fmt.Errorf("...: %w").
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidInput  = errors.New("invalid input")
	ErrContractError = errors.New("contract error")
	ErrOutOfGas      = errors.New("out of gas")
	ErrOutOfCallDepth = errors.New("out of call stack")
	ErrStorageError  = errors.New("storage error")
	ErrPendingState  = errors.New("pending state error")
	ErrFatal         = errors.New("fatal error")
	ErrPoisoned      = errors.New("poisoned lock")
)

// NotFound wraps ErrNotFound with context, e.g. NotFound("account", addr.String()).
func NotFound(what, key string) error {
	return fmt.Errorf("%s %s: %w", what, key, ErrNotFound)
}

// AlreadyExists wraps ErrAlreadyExists with context.
func AlreadyExists(what, key string) error {
	return fmt.Errorf("%s %s: %w", what, key, ErrAlreadyExists)
}

// Unauthorized wraps ErrUnauthorized with context.
func Unauthorized(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrUnauthorized)
}

// InvalidInput wraps ErrInvalidInput with context.
func InvalidInput(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrInvalidInput)
}

// ContractErrorf wraps ErrContractError with a formatted reason.
func ContractErrorf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrContractError)...)
}

// Fatalf wraps ErrFatal with a formatted reason. Callers that receive a
// Fatal-wrapped error must treat the process as being in an undefined state.
func Fatalf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrFatal)...)
}

// PendingStatef wraps ErrPendingState with a formatted reason: the
// finalize_block/commit call sequence was violated (spec §7's PendingState
// kind), e.g. commit with nothing pending or finalize_block with a pending
// batch not yet committed.
func PendingStatef(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrPendingState)...)
}
