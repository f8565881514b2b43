package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is a terminal request failure with a stable code. Every auth or
// identity failure is converted to one of these at the middleware/handler
// boundary; none of them are retried.
type APIError struct {
	Code    string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

var (
	ErrMissingField       = &APIError{Code: "MissingField", Status: http.StatusBadRequest, Message: "Values missing in request"}
	ErrInvalidCredentials = &APIError{Code: "InvalidCredentials", Status: http.StatusBadRequest, Message: "Username or password is not correct."}
	ErrTokenMissing       = &APIError{Code: "TokenMissing", Status: http.StatusUnauthorized, Message: "Token is missing in the request"}
	ErrTokenInvalid       = &APIError{Code: "TokenInvalid", Status: http.StatusUnauthorized, Message: "Token is invalid or does not exist"}
	ErrTokenExpired       = &APIError{Code: "TokenExpired", Status: http.StatusUnauthorized, Message: "Token has expired"}
	ErrIdentityMissing    = &APIError{Code: "IdentityMissing", Status: http.StatusUnauthorized, Message: "User ID is missing from the request"}
	ErrIdentityUnknown    = &APIError{Code: "IdentityUnknown", Status: http.StatusUnauthorized, Message: "User not found"}
	ErrForbidden          = &APIError{Code: "Forbidden", Status: http.StatusForbidden, Message: "Forbidden"}
	ErrRoleNotConfigured  = &APIError{Code: "RoleNotConfigured", Status: http.StatusInternalServerError, Message: "No role configured for user"}
	// ErrInternal carries a generic message only, never storage details.
	ErrInternal = &APIError{Code: "InternalError", Status: http.StatusInternalServerError, Message: "Internal server error"}
)

// duplicateIdentityError builds the DuplicateIdentity error with the exact
// message for the email/username/both cases.
func duplicateIdentityError(message string) *APIError {
	return &APIError{Code: "DuplicateIdentity", Status: http.StatusBadRequest, Message: message}
}

// missingFieldError keeps the MissingField code with a case-specific message.
func missingFieldError(message string) *APIError {
	return &APIError{Code: "MissingField", Status: http.StatusBadRequest, Message: message}
}

// respondError writes the error body without stopping the handler chain.
func respondError(c *gin.Context, err *APIError) {
	c.JSON(err.Status, gin.H{"error": err.Message, "code": err.Code})
}

// abortWithError writes the error body and stops the handler chain.
func abortWithError(c *gin.Context, err *APIError) {
	c.AbortWithStatusJSON(err.Status, gin.H{"error": err.Message, "code": err.Code})
}
