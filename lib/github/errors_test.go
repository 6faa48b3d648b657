// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package github

import (
	"fmt"
	"testing"
)

func TestAPIError_Error(t *testing.T) {
	t.Parallel()

	err := &APIError{
		StatusCode: 422,
		Message:    "Validation Failed",
		Errors: []ValidationError{
			{Resource: "PullRequest", Field: "head", Message: "A pull request already exists."},
			{Resource: "PullRequest", Field: "base", Code: "invalid"},
		},
	}

	got := err.Error()
	want := "github: HTTP 422: Validation Failed; PullRequest.head: A pull request already exists.; PullRequest.base: invalid"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		err             error
		notFound        bool
		validationError bool
		rateLimited     bool
	}{
		{
			name:     "not found",
			err:      &APIError{StatusCode: 404, Message: "Not Found"},
			notFound: true,
		},
		{
			name:            "validation failed",
			err:             &APIError{StatusCode: 422, Message: "Validation Failed"},
			validationError: true,
		},
		{
			name:        "secondary rate limit",
			err:         &APIError{StatusCode: 429, Message: "too many requests"},
			rateLimited: true,
		},
		{
			name:        "primary rate limit as 403",
			err:         &APIError{StatusCode: 403, Message: "API rate limit exceeded for user"},
			rateLimited: true,
		},
		{
			name: "permission denied 403 is not a rate limit",
			err:  &APIError{StatusCode: 403, Message: "Resource not accessible by integration"},
		},
		{
			name: "wrapped API error",
			err: fmt.Errorf("creating PR: %w",
				&APIError{StatusCode: 422, Message: "Validation Failed"}),
			validationError: true,
		},
		{
			name: "non-API error",
			err:  fmt.Errorf("connection refused"),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := IsNotFound(test.err); got != test.notFound {
				t.Errorf("IsNotFound = %v, want %v", got, test.notFound)
			}
			if got := IsValidationFailed(test.err); got != test.validationError {
				t.Errorf("IsValidationFailed = %v, want %v", got, test.validationError)
			}
			if got := IsRateLimited(test.err); got != test.rateLimited {
				t.Errorf("IsRateLimited = %v, want %v", got, test.rateLimited)
			}
		})
	}
}
