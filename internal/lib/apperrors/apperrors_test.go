package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
)

func TestKindSurvivesWrapping(t *testing.T) {
	base := apperrors.Duplicate("application already exists")
	wrapped := fmt.Errorf("%s: %w", "services.application.Submit", base)
	wrappedTwice := fmt.Errorf("%s: %w", "handlers.application.submit", wrapped)

	assert.Equal(t, apperrors.KindDuplicate, apperrors.KindOf(wrappedTwice))
	assert.True(t, apperrors.Is(wrappedTwice, apperrors.KindDuplicate))
	assert.False(t, apperrors.Is(wrappedTwice, apperrors.KindConflict))

	appErr, ok := apperrors.As(wrappedTwice)
	require.True(t, ok)
	assert.Equal(t, "application already exists", appErr.Message)
}

func TestPlainErrorHasNoKind(t *testing.T) {
	err := errors.New("connection reset")

	assert.Equal(t, apperrors.Kind(""), apperrors.KindOf(err))
	assert.False(t, apperrors.Is(nil, apperrors.KindNotFound))
}

func TestGatewayKeepsCause(t *testing.T) {
	cause := errors.New("context deadline exceeded")
	err := apperrors.Gateway("gateway verify failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.NotEmpty(t, err.Stack)
	assert.Contains(t, err.Error(), "GATEWAY_ERROR")
}
