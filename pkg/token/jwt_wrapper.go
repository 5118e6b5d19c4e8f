package token

// Wrapper variables so usecase tests can stub token handling.
var (
	GenerateJWTFunc = GenerateJWT
	ParseJWTFunc    = ParseJWT
)

// GenerateJWTWrapper indirect call point for GenerateJWT
func GenerateJWTWrapper(userID, role, orgID, issuer string) (string, error) {
	return GenerateJWTFunc(userID, role, orgID, issuer)
}

// ParseJWTWrapper indirect call point for ParseJWT
func ParseJWTWrapper(t string) (*Claims, error) {
	return ParseJWTFunc(t)
}
