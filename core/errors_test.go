package core

import (
	"errors"
	"testing"
)

func TestSentinelErrorsWrapCorrectly(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
	}{
		{NotFound("account", "abc"), ErrNotFound},
		{AlreadyExists("code", "abc"), ErrAlreadyExists},
		{Unauthorized("not owner"), ErrUnauthorized},
		{InvalidInput("bad field"), ErrInvalidInput},
		{ContractErrorf("trap at %d", 4), ErrContractError},
		{Fatalf("disk full: %d", 1), ErrFatal},
		{PendingStatef("commit called with no pending batch"), ErrPendingState},
	}
	for _, c := range cases {
		if !errors.Is(c.err, c.sentinel) {
			t.Fatalf("expected %v to wrap %v", c.err, c.sentinel)
		}
	}
}
