package api

import (
	"github.com/golang-jwt/jwt/v5"
)

// Response represents a generic API response for success or error messages.
type Response struct {
	Success bool   `json:"success" example:"true"`                           // Indicates if the operation was successful.
	Message string `json:"message,omitempty" example:"Operation successful"` // Optional success message.
	Error   string `json:"error,omitempty" example:"Resource not found"`     // Optional error message.
}

// FieldErrorResponse reports per-field validation failures (e.g. an
// out-of-range days or radius_meters parameter).
type FieldErrorResponse struct {
	Success bool              `json:"success" example:"false"`
	Error   string            `json:"error" example:"validation failed"`
	Fields  map[string]string `json:"fields"`
}

// Claims represents the custom claims included in the JWT access token.
// Token issuance lives in the external auth service; this API only validates.
type Claims struct {
	UserID               string `json:"uid"`           // Custom claim for User ID.
	Username             string `json:"usr,omitempty"` // Custom claim for Username.
	Email                string `json:"eml"`           // Custom claim for Email.
	Role                 string `json:"rol"`           // Custom claim for User Role.
	jwt.RegisteredClaims        // Embed standard claims (ExpiresAt, IssuedAt, Subject, etc.).
}
