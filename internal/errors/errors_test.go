package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewError("bad").Mark(ErrValidation), http.StatusBadRequest},
		{"not found", NewError("missing").Mark(ErrNotFound), http.StatusNotFound},
		{"not initialized", NewError("no counter").Mark(ErrNotInitialized), http.StatusNotFound},
		{"conflict", NewError("dup").Mark(ErrConflict), http.StatusConflict},
		{"permission", NewError("nope").Mark(ErrPermissionDenied), http.StatusUnauthorized},
		{"database", NewError("down").Mark(ErrDatabase), http.StatusInternalServerError},
		{"unmarked", fmt.Errorf("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromErr(tt.err))
		})
	}
}

func TestFromStorage(t *testing.T) {
	unique := &pq.Error{Code: pqUniqueViolation, Constraint: "invoices_sequence_no_unique"}
	err := FromStorage(fmt.Errorf("insert: %w", unique), "Failed to save invoice")
	assert.True(t, IsConflict(err))
	assert.False(t, IsDatabase(err))

	err = FromStorage(fmt.Errorf("connection reset"), "Failed to save invoice")
	assert.True(t, IsDatabase(err))
	assert.False(t, IsConflict(err))
}
