package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validation("bad field"), http.StatusBadRequest},
		{Unauthenticated("no token"), http.StatusUnauthorized},
		{Forbidden("not allowed"), http.StatusForbidden},
		{NotFound("Listing"), http.StatusNotFound},
		{Conflict("duplicate"), http.StatusConflict},
		{Internal(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain error"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err))
	}
}

func TestWrappedErrorKeepsCode(t *testing.T) {
	inner := NotFound("Listing")
	wrapped := &Error{Code: CodeInternal, Message: "lookup failed", Err: inner}

	assert.Equal(t, CodeInternal, Code(wrapped))
	assert.ErrorContains(t, wrapped, "lookup failed")
	assert.True(t, errors.Is(errors.Unwrap(wrapped), inner))
}
