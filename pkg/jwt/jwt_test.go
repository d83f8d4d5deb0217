package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/papeleria-api/pkg/jwt"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := jwt.Generate("secreto", "u-1", "t-1", "vendedor", "papeleria-api", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "t-1", claims.TenantID)
	assert.Equal(t, "vendedor", claims.Role)
}

func TestParse_Rejects(t *testing.T) {
	token, err := jwt.Generate("secreto", "u-1", "t-1", "admin", "papeleria-api", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", token)
	assert.Error(t, err, "firma incorrecta")

	expired, err := jwt.Generate("secreto", "u-1", "t-1", "admin", "papeleria-api", -1)
	require.NoError(t, err)
	_, err = jwt.Parse("secreto", expired)
	assert.Error(t, err, "token expirado")

	_, err = jwt.Generate("", "u-1", "t-1", "admin", "x", 5)
	assert.Error(t, err)
}
