package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	shared "github.com/davicafu/agrofarm/internal/shared/domain"
)

// violationCodes extrae los códigos de un error de validación.
func violationCodes(t *testing.T, err error) []string {
	t.Helper()
	var dErr *shared.Error
	require.True(t, errors.As(err, &dErr), "expected domain error, got %v", err)
	require.Equal(t, shared.KindValidation, dErr.Kind)

	codes := make([]string, 0, len(dErr.Violations))
	for _, v := range dErr.Violations {
		codes = append(codes, v.Code)
	}
	return codes
}

func ptr[T any](v T) *T { return &v }
