package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndParseJWT(t *testing.T) {
	tokenStr, err := GenerateJWT("user-1", string(RoleOfficer), "org-1", "customs_clearance_service")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenStr)

	claims, err := ParseJWT(tokenStr)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, string(RoleOfficer), claims.Role)
	assert.Equal(t, "org-1", claims.OrgID)
}

func TestParseJWT_Garbage(t *testing.T) {
	_, err := ParseJWT("not-a-token")
	assert.Error(t, err)
}

func TestJWTWrapper_Stubbable(t *testing.T) {
	orig := GenerateJWTFunc
	defer func() { GenerateJWTFunc = orig }()

	GenerateJWTFunc = func(userID, role, orgID, issuer string) (string, error) {
		return "stubbed", nil
	}

	got, err := GenerateJWTWrapper("u", "r", "o", "i")
	assert.NoError(t, err)
	assert.Equal(t, "stubbed", got)
}
