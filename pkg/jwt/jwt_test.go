package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := Generate("secreto", 42, "ana", "bodeguero", "inventario-admin", 5)
	require.NoError(t, err)

	claims, err := Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.Equal(t, "bodeguero", claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := Generate("secreto", 1, "ana", "admin", "x", 5)
	require.NoError(t, err)

	_, err = Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, err := Generate("secreto", 1, "ana", "admin", "x", -1)
	require.NoError(t, err)

	_, err = Parse("secreto", token)
	assert.Error(t, err)
}

func TestGenerate_SecretoVacio(t *testing.T) {
	_, err := Generate("", 1, "ana", "admin", "x", 5)
	assert.Error(t, err)
}
