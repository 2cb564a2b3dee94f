package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/inventory-core/pkg/jwt"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cret", 42, "ana", "MANAGER", "inventory-core", 5)
	require.NoError(t, err)

	id, username, role, err := pkgjwt.Parse("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "ana", username)
	assert.Equal(t, "MANAGER", role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cret", 1, "ana", "STAFF", "inventory-core", 5)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate("s3cret", 1, "ana", "STAFF", "inventory-core", -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse("s3cret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", 1, "ana", "STAFF", "x", 5)
	assert.Error(t, err)
}
