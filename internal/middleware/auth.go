package middleware

import (
	"net/http"

	"divelink/internal/db"
	"divelink/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"
const UnreadCountKey = "unread_count"

// LoadUser resolves the session user and sets it on the context together
// with the unread notification count for the bell badge.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			var user models.User
			result := db.DB.First(&user, userID)
			if result.Error == nil {
				c.Set(CheckUserKey, &user)

				var count int64
				db.DB.Model(&models.Notification{}).
					Where("recipient_id = ? AND is_read = ?", user.ID, false).
					Count(&count)
				c.Set(UnreadCountKey, count)
			}
		}
		c.Next()
	}
}

// AuthRequired rejects anonymous requests.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "로그인이 필요합니다."})
			return
		}
		c.Next()
	}
}

// VerifiedRequired blocks users who have not finished email verification
// from the member-only boards.
func VerifiedRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, exists := c.Get(CheckUserKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "로그인이 필요합니다."})
			return
		}
		if !u.(*models.User).IsVerified {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "이메일 인증 후 이용할 수 있습니다."})
			return
		}
		c.Next()
	}
}

// AdminRequired restricts a route group to admins.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, exists := c.Get(CheckUserKey)
		if !exists || !u.(*models.User).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "관리자만 접근할 수 있습니다."})
			return
		}
		c.Next()
	}
}
