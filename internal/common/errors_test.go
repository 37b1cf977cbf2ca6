package common

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestWithDetailsDoesNotMutateSentinel(t *testing.T) {
	e := ErrNotFound.WithDetails("Workout not found.")

	assert.Equal(t, "Workout not found.", e.Details)
	assert.Nil(t, ErrNotFound.Details)
	assert.True(t, errors.Is(e, ErrNotFound))
	assert.False(t, errors.Is(e, ErrConflict))
}

func TestIsMatchesWrappedAPIError(t *testing.T) {
	err := fmt.Errorf("provisioning identity: %w", ErrValidation.WithDetails("bad email"))

	assert.ErrorIs(t, err, ErrValidation)
	apiErr, ok := IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
}

func TestTranslateDBError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want *APIError
	}{
		{"record not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"gorm duplicated key", gorm.ErrDuplicatedKey, ErrConflict},
		{"sqlite unique", errors.New("UNIQUE constraint failed: profiles.email"), ErrConflict},
		{"postgres unique", errors.New(`ERROR: duplicate key value violates unique constraint "idx_profiles_email"`), ErrConflict},
		{"gorm foreign key", gorm.ErrForeignKeyViolated, ErrConflict},
		{"sqlite foreign key", errors.New("FOREIGN KEY constraint failed"), ErrConflict},
		{"api error passes through", ErrPolicyDenied, ErrPolicyDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, TranslateDBError(tt.in, "missing"), tt.want)
		})
	}

	plain := errors.New("connection reset")
	assert.Equal(t, plain, TranslateDBError(plain, "missing"))
	assert.NoError(t, TranslateDBError(nil, "missing"))
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole(" Admin ")
	assert.True(t, ok)
	assert.Equal(t, RoleAdmin, r)

	_, ok = ParseRole("superuser")
	assert.False(t, ok)
}

func TestPaginationQuery(t *testing.T) {
	pq := PaginationQuery{Page: 3, PageSize: 500}
	assert.Equal(t, MaxPageSize, pq.Limit())
	assert.Equal(t, 200, pq.Offset())

	p := NewPagination(41, 2, 20)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)
}
