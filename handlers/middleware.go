package handlers

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/priceoptimizer/backend/database"
	"github.com/priceoptimizer/backend/models"
	"gorm.io/gorm"
)

// headerUserID is the header carrying the caller's claimed user id.
const headerUserID = "user_id"

// Context keys set by RequireToken for downstream handlers.
const (
	ctxUserID = "auth_user_id"
	ctxToken  = "auth_token"
	ctxRole   = "auth_role"
)

// RequireIdentity verifies that the header-declared user id exists. It is a
// plausibility check; RequireToken binds the id to the token by filtering
// the token lookup on the same value.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		headerID := c.GetHeader(headerUserID)
		if headerID == "" {
			abortWithError(c, ErrIdentityMissing)
			return
		}

		userID, err := strconv.ParseUint(headerID, 10, 64)
		if err != nil {
			abortWithError(c, ErrIdentityUnknown)
			return
		}

		var count int64
		if err := database.DB.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
			abortWithError(c, ErrInternal)
			return
		}
		if count == 0 {
			abortWithError(c, ErrIdentityUnknown)
			return
		}

		c.Next()
	}
}

// RequireToken validates the bearer token against the stored token record.
//
// The lookup filters on (token, header user id, expired=false), so a token
// presented with another user's id is invalid. Expiry is lazy: an over-age
// row is flagged expired on the first validation attempt that sees it. On
// success the resolved user id, raw token and server-side role name are
// placed in the request context; the role is never read from the client.
func RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, ErrTokenMissing)
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, err := strconv.ParseUint(c.GetHeader(headerUserID), 10, 64)
		if err != nil {
			abortWithError(c, ErrTokenInvalid)
			return
		}

		var record models.Token
		err = database.DB.
			Where("token = ? AND user_id = ? AND expired = ?", tokenString, userID, false).
			First(&record).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortWithError(c, ErrTokenInvalid)
			} else {
				abortWithError(c, ErrInternal)
			}
			return
		}

		if record.ExpiresAt.Before(time.Now()) {
			database.DB.Model(&record).Update("expired", true)
			abortWithError(c, ErrTokenExpired)
			return
		}

		c.Set(ctxUserID, record.UserID)
		c.Set(ctxToken, tokenString)

		var userRole models.UserRole
		if err := database.DB.Preload("Role").Where("user_id = ?", record.UserID).First(&userRole).Error; err == nil {
			c.Set(ctxRole, userRole.Role.Name)
		}

		c.Next()
	}
}

// RequireRole gates an endpoint on the role resolved by RequireToken.
func RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ctxRole)
		for _, name := range allowed {
			if role == name {
				c.Next()
				return
			}
		}
		abortWithError(c, ErrForbidden)
	}
}

// authUserID returns the user id resolved by RequireToken.
func authUserID(c *gin.Context) uint {
	v, _ := c.Get(ctxUserID)
	id, _ := v.(uint)
	return id
}
