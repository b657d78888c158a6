package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/apperrors"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "regular password", password: "password123"},
		{name: "special chars", password: "p@ssw0rd!@#$%^&*()"},
		{name: "exactly min length", password: "12345678"},
		{name: "exactly bcrypt limit", password: strings.Repeat("a", MaxBytes)},
		{name: "too short", password: "short", wantErr: true},
		{name: "longer than bcrypt accepts", password: strings.Repeat("a", 80), wantErr: true},
		{name: "multibyte over the byte limit", password: strings.Repeat("ж", 40), wantErr: true},
		{name: "empty", password: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := Hash(tt.password)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.KindValidation))
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, tt.password, hash)
			assert.NoError(t, Compare(hash, tt.password))
		})
	}
}

func TestCompareRejectsWrongPassword(t *testing.T) {
	hash, err := Hash("correct_password")
	require.NoError(t, err)

	assert.Error(t, Compare(hash, "wrong_password"))
	assert.Error(t, Compare(hash, ""))
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("same_password")
	require.NoError(t, err)
	second, err := Hash("same_password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
