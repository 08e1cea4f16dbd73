package controllers

import (
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ChiragRathod25/balmandal-backend/config"
	"github.com/ChiragRathod25/balmandal-backend/middleware"
	"github.com/ChiragRathod25/balmandal-backend/models"
	"github.com/ChiragRathod25/balmandal-backend/utils"
)

// RegisterInput is the registration request body.
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Mobile    string `json:"mobile"`
	Password  string `json:"password"`
}

// LoginInput is the login request body.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ForgotPasswordInput identifies the account requesting a reset link.
type ForgotPasswordInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ResetPasswordInput carries the new password; the token travels in the path.
type ResetPasswordInput struct {
	Password string `json:"password"`
}

// UpdatePasswordInput is the authenticated password change body.
type UpdatePasswordInput struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// usernameFilter builds an anchored case-insensitive match. QuoteMeta keeps
// regex metacharacters in a submitted username from widening the match.
func usernameFilter(username string) bson.M {
	return bson.M{"username": primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(username) + "$",
		Options: "i",
	}}
}

func setSessionCookies(c *gin.Context, accessToken, refreshToken string) {
	secure := gin.Mode() == gin.ReleaseMode
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("accessToken", accessToken, 15*60, "/", "", secure, true)
	c.SetCookie("refreshToken", refreshToken, 7*24*60*60, "/", "", secure, true)
}

func clearSessionCookies(c *gin.Context) {
	secure := gin.Mode() == gin.ReleaseMode
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("accessToken", "", -1, "/", "", secure, true)
	c.SetCookie("refreshToken", "", -1, "/", "", secure, true)
}

// issueSessionTokens generates an access/refresh pair and persists the
// refresh token on the user record.
func issueSessionTokens(c *gin.Context, user *models.User) (accessToken, refreshToken string, err error) {
	accessToken, err = utils.GenerateToken(utils.AccessToken, user.ID.Hex(), user.Role)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = utils.GenerateToken(utils.RefreshToken, user.ID.Hex(), user.Role)
	if err != nil {
		return "", "", err
	}

	ctx, cancel := opCtx(c)
	defer cancel()
	_, err = config.DB.Collection(config.UsersCollection).UpdateByID(ctx, user.ID,
		bson.M{"$set": bson.M{"refreshToken": refreshToken}})
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// Register creates a member account. The welcome mail is best-effort: a send
// failure is logged and never fails the registration.
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	input.Password = strings.TrimSpace(input.Password)

	for _, field := range []string{input.Username, input.Email, input.FirstName, input.LastName, input.Mobile, input.Password} {
		if field == "" {
			utils.Fail(c, http.StatusBadRequest, "all fields are required")
			return
		}
	}

	ctx, cancel := opCtx(c)
	defer cancel()
	users := config.DB.Collection(config.UsersCollection)

	var existing models.User
	err := users.FindOne(ctx, usernameFilter(input.Username)).Decode(&existing)
	if err == nil {
		utils.Fail(c, http.StatusConflict, "user already exists with username "+input.Username)
		return
	}
	if err != mongo.ErrNoDocuments {
		utils.Fail(c, http.StatusInternalServerError, "database error")
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Mobile:    input.Mobile,
		Password:  hash,
		Role:      models.RoleMember,
		IsActive:  true,
		CreatedAt: now,
	}

	if _, err := users.InsertOne(ctx, user); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	go func(to, username string) {
		body := "Welcome " + username + "!\nThank you for joining us."
		if err := utils.SendMail(to, "Welcome to Bal Mandal", body); err != nil {
			logrus.WithError(err).Warn("welcome mail not sent")
		}
	}(user.Email, user.Username)

	utils.Respond(c, http.StatusCreated, user.Public(), "User created successfully")
}

// Login authenticates by username (case-insensitive) and password, rejects
// inactive accounts, and issues the session token pair.
func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}
	input.Username = strings.TrimSpace(input.Username)
	input.Password = strings.TrimSpace(input.Password)
	if input.Username == "" || input.Password == "" {
		utils.Fail(c, http.StatusBadRequest, "username and password are required")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	var user models.User
	err := config.DB.Collection(config.UsersCollection).
		FindOne(ctx, usernameFilter(input.Username)).Decode(&user)
	if err != nil {
		utils.Fail(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := utils.CheckPassword(user.Password, input.Password); err != nil {
		utils.Fail(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if !user.IsActive {
		utils.Fail(c, http.StatusForbidden, "account is not active, contact an admin to activate it")
		return
	}

	accessToken, refreshToken, err := issueSessionTokens(c, &user)
	if err != nil {
		logrus.WithError(err).Error("token issuance failed")
		utils.Fail(c, http.StatusInternalServerError, "could not generate tokens")
		return
	}

	setSessionCookies(c, accessToken, refreshToken)
	utils.Respond(c, http.StatusOK, gin.H{
		"user":         user.Public(),
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, "User logged in successfully")
}

// Logout clears the session cookies. When the presented refresh token still
// verifies it is also blanked server-side; a bad token is not an error.
func Logout(c *gin.Context) {
	refreshToken := refreshTokenFromRequest(c)
	if refreshToken != "" {
		if userHex, _, err := utils.ParseToken(utils.RefreshToken, refreshToken); err == nil {
			if userID, err := primitive.ObjectIDFromHex(userHex); err == nil {
				ctx, cancel := opCtx(c)
				defer cancel()
				_, err := config.DB.Collection(config.UsersCollection).UpdateOne(ctx,
					bson.M{"_id": userID, "refreshToken": refreshToken},
					bson.M{"$set": bson.M{"refreshToken": ""}})
				if err != nil {
					logrus.WithError(err).Warn("could not blank refresh token on logout")
				}
			}
		}
	}

	clearSessionCookies(c)
	utils.Respond(c, http.StatusOK, gin.H{}, "User logged out successfully")
}

func refreshTokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie("refreshToken"); err == nil && cookie != "" {
		return cookie
	}
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&body); err == nil && body.RefreshToken != "" {
		return body.RefreshToken
	}
	authHeader := c.GetHeader("Authorization")
	return strings.TrimPrefix(authHeader, "Bearer ")
}

// RefreshAccessToken rotates the session pair when the presented refresh
// token matches the one stored on the user.
func RefreshAccessToken(c *gin.Context) {
	incoming := refreshTokenFromRequest(c)
	if incoming == "" {
		utils.Fail(c, http.StatusBadRequest, "refresh token is required")
		return
	}

	userHex, _, err := utils.ParseToken(utils.RefreshToken, incoming)
	if err != nil {
		utils.Fail(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	userID, err := primitive.ObjectIDFromHex(userHex)
	if err != nil {
		utils.Fail(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	var user models.User
	if err := config.DB.Collection(config.UsersCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.Fail(c, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	if user.RefreshToken != incoming {
		utils.Fail(c, http.StatusUnauthorized, "refresh token is expired or revoked")
		return
	}

	accessToken, refreshToken, err := issueSessionTokens(c, &user)
	if err != nil {
		logrus.WithError(err).Error("token rotation failed")
		utils.Fail(c, http.StatusInternalServerError, "could not refresh tokens")
		return
	}

	setSessionCookies(c, accessToken, refreshToken)
	utils.Respond(c, http.StatusOK, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, "Access token refreshed successfully")
}

// ForgotPassword stores a signed reset token on the account and emails the
// reset link. Unlike the welcome mail, this send failing fails the request.
func ForgotPassword(c *gin.Context) {
	var input ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil || input.Username == "" || input.Email == "" {
		utils.Fail(c, http.StatusBadRequest, "username and email are required")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()
	users := config.DB.Collection(config.UsersCollection)

	filter := usernameFilter(input.Username)
	filter["email"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(input.Email) + "$", Options: "i"}

	var user models.User
	if err := users.FindOne(ctx, filter).Decode(&user); err != nil {
		utils.Fail(c, http.StatusNotFound, "email or username are invalid")
		return
	}

	resetToken, err := utils.GenerateToken(utils.ResetToken, user.ID.Hex(), user.Role)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not generate reset token")
		return
	}
	if _, err := users.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{"resetToken": resetToken}}); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not store reset token")
		return
	}

	resetURL := strings.TrimRight(strings.TrimSpace(getEnvOr("WEBSITE_URL", "http://localhost:5173")), "/") +
		"/reset-password/" + resetToken
	body := "Hello " + user.Username + ",\n\nReset your password using this link:\n" + resetURL
	if err := utils.SendMail(user.Email, "Request for password reset link", body); err != nil {
		logrus.WithError(err).Error("reset mail not sent")
		utils.Fail(c, http.StatusInternalServerError, "error while sending email")
		return
	}

	utils.Respond(c, http.StatusOK, gin.H{}, "Reset password link sent successfully")
}

// ResetPassword verifies the emailed token against the stored one and sets
// the new password.
func ResetPassword(c *gin.Context) {
	resetToken := c.Param("resetToken")
	if resetToken == "" {
		utils.Fail(c, http.StatusBadRequest, "reset token is required")
		return
	}

	userHex, _, err := utils.ParseToken(utils.ResetToken, resetToken)
	if err != nil {
		utils.Fail(c, http.StatusUnauthorized, "invalid or expired reset token")
		return
	}
	userID, err := primitive.ObjectIDFromHex(userHex)
	if err != nil {
		utils.Fail(c, http.StatusUnauthorized, "invalid reset token")
		return
	}

	var input ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Password) == "" {
		utils.Fail(c, http.StatusBadRequest, "password is required")
		return
	}

	hash, err := utils.HashPassword(strings.TrimSpace(input.Password))
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not hash password")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	result, err := config.DB.Collection(config.UsersCollection).UpdateOne(ctx,
		bson.M{"_id": userID, "resetToken": resetToken},
		bson.M{"$set": bson.M{"password": hash, "resetToken": "", "updatedAt": time.Now().UTC()}})
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not reset password")
		return
	}
	if result.MatchedCount == 0 {
		utils.Fail(c, http.StatusUnauthorized, "invalid or expired reset token")
		return
	}

	utils.Respond(c, http.StatusOK, gin.H{}, "User password updated successfully")
}

// UpdatePassword changes the caller's password after verifying the old one.
func UpdatePassword(c *gin.Context) {
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var input UpdatePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil || input.OldPassword == "" || input.NewPassword == "" {
		utils.Fail(c, http.StatusBadRequest, "old password and new password are required")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()
	users := config.DB.Collection(config.UsersCollection)

	var user models.User
	if err := users.FindOne(ctx, bson.M{"_id": principal.ID}).Decode(&user); err != nil {
		utils.Fail(c, http.StatusNotFound, "user not found")
		return
	}
	if err := utils.CheckPassword(user.Password, input.OldPassword); err != nil {
		utils.Fail(c, http.StatusUnauthorized, "invalid old password")
		return
	}

	hash, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not hash password")
		return
	}
	if _, err := users.UpdateByID(ctx, user.ID, bson.M{"$set": bson.M{"password": hash, "updatedAt": time.Now().UTC()}}); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not update password")
		return
	}

	utils.Respond(c, http.StatusOK, gin.H{}, "User password updated successfully")
}

func getEnvOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
