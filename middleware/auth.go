package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ChiragRathod25/balmandal-backend/models"
	"github.com/ChiragRathod25/balmandal-backend/utils"
)

// AuthUser is the authenticated principal for one request. Handlers receive
// it through CurrentUser instead of reading loose context keys.
type AuthUser struct {
	ID   primitive.ObjectID
	Role string
}

// IsAdmin reports whether the principal may perform admin operations.
func (u AuthUser) IsAdmin() bool {
	return u.Role == models.RoleAdmin
}

const authUserKey = "authUser"

// CurrentUser returns the principal set by Auth. ok is false when the route
// was not behind the Auth middleware.
func CurrentUser(c *gin.Context) (AuthUser, bool) {
	v, exists := c.Get(authUserKey)
	if !exists {
		return AuthUser{}, false
	}
	u, ok := v.(AuthUser)
	return u, ok
}

// tokenFromRequest looks for the access token in the accessToken cookie
// first, then in the Authorization: Bearer header.
func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// Auth validates the access token and stores the principal in the context.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			utils.Fail(c, http.StatusUnauthorized, "authentication required")
			return
		}

		userHex, role, err := utils.ParseToken(utils.AccessToken, tokenStr)
		if err != nil {
			utils.Fail(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		userID, err := primitive.ObjectIDFromHex(userHex)
		if err != nil {
			utils.Fail(c, http.StatusUnauthorized, "invalid token subject")
			return
		}

		c.Set(authUserKey, AuthUser{ID: userID, Role: role})
		c.Next()
	}
}

// RequireAdmin gates a route group to admin principals. It must run after
// Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.Fail(c, http.StatusUnauthorized, "authentication required")
			return
		}
		if !user.IsAdmin() {
			utils.Fail(c, http.StatusForbidden, "admin access required")
			return
		}
		c.Next()
	}
}
