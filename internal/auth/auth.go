package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// JWTClaims defines the payload for the JWT. EmployeeID is the actor id the
// workflow records on every transition; it is always taken from the token,
// never from the request body.
type JWTClaims struct {
	Email      string `json:"email"`
	Role       string `json:"role"`
	BranchID   string `json:"branchID"`
	EmployeeID string `json:"employeeID"`
	jwt.RegisteredClaims
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

var (
	jwtSecret     []byte
	jwtExpiration = 24 * time.Hour
)

// Init sets the signing secret and token lifetime from configuration. Must
// be called before any token is issued or verified.
func Init(secret, expiration string) {
	jwtSecret = []byte(secret)
	if d, err := time.ParseDuration(expiration); err == nil && d > 0 {
		jwtExpiration = d
	}
}

// Secret returns the configured signing key for token verification.
func Secret() []byte {
	return jwtSecret
}

func GenerateJWT(email, role, branchID, employeeID string) (string, error) {
	claims := &JWTClaims{
		Email:      email,
		Role:       role,
		BranchID:   branchID,
		EmployeeID: employeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(jwtExpiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}
