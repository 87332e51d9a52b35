package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"github.com/HannanShehzad/TaskManager/internal/apperror"
	"github.com/HannanShehzad/TaskManager/internal/models"
	"github.com/HannanShehzad/TaskManager/internal/services"
)

// ContextUserID is the gin context key carrying the authenticated user id.
const ContextUserID = "user_id"

// BearerAuth validates the Authorization header and stores the requester's
// identity in the context. Any failure aborts with 401 before the handler
// touches the task store.
func BearerAuth(db *gorm.DB, auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortUnauthenticated(c, "you are not logged in, please log in to get access")
			return
		}

		userID, err := auth.ParseAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abortUnauthenticated(c, apperror.Message(err))
			return
		}

		// The token may outlive the account.
		var user models.User
		if err := db.Select("id").Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortUnauthenticated(c, "the user belonging to this token no longer exists")
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"status":  "error",
				"message": "something went wrong",
			})
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"status":  "fail",
		"message": message,
	})
}

// UserID extracts the authenticated user id set by BearerAuth.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
