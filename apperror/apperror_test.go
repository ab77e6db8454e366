package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	cases := map[Kind]int{
		InvalidRequest:           http.StatusBadRequest,
		Unauthorized:             http.StatusUnauthorized,
		Forbidden:                http.StatusForbidden,
		NotFound:                 http.StatusNotFound,
		EventEnded:               http.StatusConflict,
		InsufficientInventory:    http.StatusConflict,
		AlreadyCancelled:         http.StatusConflict,
		CancellationWindowClosed: http.StatusConflict,
		Conflict:                 http.StatusConflict,
		Internal:                 http.StatusInternalServerError,
		Kind("SOMETHING_ELSE"):   http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, New(kind, "x").Status(), kind)
	}
}

func TestKindOfWrapped(t *testing.T) {
	base := Insufficient(3)
	wrapped := fmt.Errorf("create order: %w", base)

	assert.Equal(t, InsufficientInventory, KindOf(wrapped))
	assert.True(t, Is(wrapped, InsufficientInventory))
	assert.Equal(t, 3, From(wrapped).Details["remaining"])
	assert.Contains(t, base.Error(), "only 3 tickets remaining")
}

func TestFromUnknownError(t *testing.T) {
	cause := errors.New("connection reset")
	err := From(cause)

	assert.Equal(t, Internal, err.Kind)
	assert.ErrorIs(t, err, cause)
	assert.False(t, Is(nil, Internal))
}
