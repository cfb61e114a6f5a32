package application

import (
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/his-platform/inventory-service/pkg/errors"
)

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, code, appErr.Code)
}
