package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindsAndStatus(t *testing.T) {
	tests := []struct {
		code   Code
		kind   error
		status int
	}{
		{MissingFields, ErrValidation, http.StatusBadRequest},
		{FileTooLarge, ErrValidation, http.StatusRequestEntityTooLarge},
		{DuplicateName, ErrConflict, http.StatusBadRequest},
		{EmailConflict, ErrConflict, http.StatusBadRequest},
		{IncorrectPassword, ErrAuth, http.StatusBadRequest},
		{InvalidToken, ErrAuth, http.StatusUnauthorized},
		{NoRefreshToken, ErrAuth, http.StatusForbidden},
		{SourceNotFound, ErrNotFound, http.StatusNotFound},
		{UploadFailed, ErrUpstream, http.StatusBadGateway},
		{Internal, ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := New(tt.code)
			assert.True(t, errors.Is(err, tt.kind))
			assert.Equal(t, tt.status, err.Status)
			assert.NotEmpty(t, err.Message)
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("upload: %w", Wrap(UploadFailed, cause))

	assert.True(t, errors.Is(err, cause))
	assert.True(t, errors.Is(err, ErrUpstream))
	assert.True(t, errors.Is(err, New(UploadFailed)))
	assert.False(t, errors.Is(err, New(DownloadFailed)))
	assert.True(t, HasCode(err, UploadFailed))
}

func TestFromUnknownIsInternal(t *testing.T) {
	ae := From(errors.New("boom"))
	require.NotNil(t, ae)
	assert.Equal(t, Internal, ae.Code)
	assert.Equal(t, http.StatusInternalServerError, ae.Status)
	assert.NotContains(t, ae.Message, "boom")
}

func TestWithMessageCopies(t *testing.T) {
	base := New(InvalidInput)
	custom := base.WithMessage("pages must be positive")
	assert.Equal(t, "pages must be positive", custom.Message)
	assert.NotEqual(t, base.Message, custom.Message)
	assert.Equal(t, InvalidInput, custom.Code)
}
