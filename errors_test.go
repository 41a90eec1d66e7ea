package hound

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func ExampleError() {
	fmt.Println(&Error{
		Inner:   nil,
		Kind:    ErrInternal,
		Message: "test",
		Op:      "ExampleError",
	})

	fmt.Println(&Error{
		Inner:   context.DeadlineExceeded,
		Kind:    ErrTransient,
		Message: "probe timed out",
		Op:      "Exists",
	})
	err := &Error{
		Inner: &Error{
			Inner:   context.DeadlineExceeded,
			Kind:    ErrTransient,
			Message: "probe timed out",
			Op:      "Exists",
		},
		Kind: ErrPrecondition,
	}
	fmt.Println(err)
	fmt.Println(fmt.Errorf("somepackage: oops: %w", &Error{
		Kind:    ErrNotFound,
		Message: "unexpected status 404",
		Op:      "Exists",
	}))

	// Output:
	// ExampleError [internal]: test
	// Exists [transient]: probe timed out: context deadline exceeded
	// Exists [transient]: probe timed out: context deadline exceeded
	// somepackage: oops: Exists [not found]: unexpected status 404
}

func TestErrorIs(t *testing.T) {
	tt := []struct {
		Name string
		Err  error
		Is   []error
		Not  []error
	}{
		{
			Name: "Simple",
			Err:  &Error{Kind: ErrNotFound, Op: "Exists"},
			Is:   []error{ErrNotFound},
			Not:  []error{ErrTransient, ErrPrecondition},
		},
		{
			Name: "Nested",
			Err: &Error{
				Kind:  ErrPrecondition,
				Inner: &Error{Kind: ErrTransient, Inner: context.Canceled},
			},
			Is:  []error{ErrPrecondition, ErrTransient, context.Canceled},
			Not: []error{ErrNotFound},
		},
		{
			Name: "Wrapped",
			Err:  fmt.Errorf("wrapped: %w", &Error{Kind: ErrInvalid}),
			Is:   []error{ErrInvalid},
			Not:  []error{ErrInternal},
		},
	}
	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			t.Log(tc.Err)
			for _, k := range tc.Is {
				if !errors.Is(tc.Err, k) {
					t.Errorf("expected errors.Is(%v)", k)
				}
			}
			for _, k := range tc.Not {
				if errors.Is(tc.Err, k) {
					t.Errorf("unexpected errors.Is(%v)", k)
				}
			}
			var e *Error
			if !errors.As(tc.Err, &e) {
				t.Error("expected errors.As to find *Error")
			}
		})
	}
}
