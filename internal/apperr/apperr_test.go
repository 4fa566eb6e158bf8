package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        *Error
		wantStatus int
	}{
		{"validation", Validation("search is required"), http.StatusBadRequest},
		{"unauthorized", Unauthorized(""), http.StatusUnauthorized},
		{"forbidden", Forbidden(""), http.StatusForbidden},
		{"not found", NotFound(""), http.StatusNotFound},
		{"provider unavailable", ProviderUnavailable(errors.New("dial tcp: timeout")), http.StatusNotFound},
		{"no active like", NoActiveLike(""), http.StatusNotFound},
		{"internal", New(KindInternal, "boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.Status())
		})
	}
}

func TestFrom(t *testing.T) {
	t.Run("keeps classified errors", func(t *testing.T) {
		err := NotFound("book not found")
		got := From(fmt.Errorf("service: %w", err))
		assert.Equal(t, KindNotFound, got.Kind)
		assert.Equal(t, "book not found", got.Message)
	})

	t.Run("hides unclassified detail", func(t *testing.T) {
		got := From(errors.New("pq: connection refused"))
		assert.Equal(t, KindInternal, got.Kind)
		assert.Equal(t, "Internal Server Error", got.Message)
	})

	t.Run("cause stays reachable", func(t *testing.T) {
		cause := errors.New("dial tcp: timeout")
		err := ProviderUnavailable(cause)
		assert.True(t, errors.Is(err, cause))
	})
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NoActiveLike(""))
	assert.True(t, IsKind(err, KindNoActiveLike))
	assert.False(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(errors.New("plain"), KindNotFound))
}
