package appMiddleware

import "github.com/golang-jwt/jwt/v5"

type contextKey string

const UserIDKey contextKey = "userID"
const UserRoleKey contextKey = "userRole"

type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JwtSecretKey should be loaded from secure configuration, NOT hardcoded.
// This is a placeholder only.
var JwtSecretKey = []byte("replace-with-secure-env-var")
