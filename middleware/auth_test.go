package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ChiragRathod25/balmandal-backend/models"
	"github.com/ChiragRathod25/balmandal-backend/utils"
)

func authRouter(t *testing.T) (*gin.Engine, primitive.ObjectID) {
	t.Helper()
	t.Setenv("ACCESS_TOKEN_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	userID := primitive.NewObjectID()
	router := gin.New()
	router.GET("/whoami", Auth(), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID.Hex(), "role": user.Role})
	})
	router.GET("/admin-only", Auth(), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router, userID
}

func TestAuthRejectsMissingToken(t *testing.T) {
	router, _ := authRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	router, _ := authRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	router, userID := authRouter(t)

	token, err := utils.GenerateToken(utils.AccessToken, userID.Hex(), models.RoleMember)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
}

func TestAuthAcceptsCookieToken(t *testing.T) {
	router, userID := authRouter(t)

	token, err := utils.GenerateToken(utils.AccessToken, userID.Hex(), models.RoleMember)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
}

func TestRequireAdmin(t *testing.T) {
	router, userID := authRouter(t)

	memberToken, err := utils.GenerateToken(utils.AccessToken, userID.Hex(), models.RoleMember)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	adminToken, err := utils.GenerateToken(utils.AccessToken, userID.Hex(), models.RoleAdmin)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+memberToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("member: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin-only", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: status = %d, want 200", rec.Code)
	}
}
