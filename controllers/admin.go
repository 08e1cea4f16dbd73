package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ChiragRathod25/balmandal-backend/config"
	"github.com/ChiragRathod25/balmandal-backend/models"
	"github.com/ChiragRathod25/balmandal-backend/utils"
)

// AdminUpdatePasswordInput is the admin-set password body.
type AdminUpdatePasswordInput struct {
	Password string `json:"password"`
}

// AdminUpdateUsernameInput is the rename body.
type AdminUpdateUsernameInput struct {
	NewUsername string `json:"newUsername"`
}

// publicProjection drops credential and token fields from roster queries.
var publicProjection = bson.M{"password": 0, "refreshToken": 0, "resetToken": 0}

// GetAllUsers lists every user, active accounts first, then newest.
func GetAllUsers(c *gin.Context) {
	ctx, cancel := opCtx(c)
	defer cancel()

	cursor, err := config.DB.Collection(config.UsersCollection).Find(ctx, bson.M{},
		options.Find().
			SetProjection(publicProjection).
			SetSort(bson.D{{Key: "isActive", Value: -1}, {Key: "createdAt", Value: -1}}))
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch users")
		return
	}

	users := []models.PublicUser{}
	if err := cursor.All(ctx, &users); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch users")
		return
	}

	utils.Respond(c, http.StatusOK, users, "All users fetched successfully")
}

// GetAllActiveUsers lists users with the active flag set.
func GetAllActiveUsers(c *gin.Context) {
	ctx, cancel := opCtx(c)
	defer cancel()

	cursor, err := config.DB.Collection(config.UsersCollection).Find(ctx,
		bson.M{"isActive": true},
		options.Find().SetProjection(publicProjection))
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch users")
		return
	}

	users := []models.PublicUser{}
	if err := cursor.All(ctx, &users); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch users")
		return
	}

	utils.Respond(c, http.StatusOK, users, "All users fetched successfully")
}

// GetUserProfile returns one user joined with their talents.
func GetUserProfile(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": userID}}},
		{{Key: "$project", Value: publicProjection}},
		{{Key: "$lookup", Value: bson.M{
			"from":         config.TalentsCollection,
			"localField":   "_id",
			"foreignField": "userId",
			"as":           "talents",
		}}},
	}

	cursor, err := config.DB.Collection(config.UsersCollection).Aggregate(ctx, pipeline)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch user profile")
		return
	}
	var profiles []bson.M
	if err := cursor.All(ctx, &profiles); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch user profile")
		return
	}
	if len(profiles) == 0 {
		utils.Fail(c, http.StatusNotFound, "user not found")
		return
	}

	utils.Respond(c, http.StatusOK, profiles[0], "User details fetched successfully")
}

// ToggleActiveStatus flips a user's active flag.
func ToggleActiveStatus(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()
	users := config.DB.Collection(config.UsersCollection)

	var user models.User
	if err := users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.Fail(c, http.StatusNotFound, "user not found")
		return
	}

	user.IsActive = !user.IsActive
	if _, err := users.UpdateByID(ctx, userID, bson.M{"$set": bson.M{"isActive": user.IsActive, "updatedAt": time.Now().UTC()}}); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not update user status")
		return
	}

	utils.Respond(c, http.StatusOK, user.Public(), "User status updated successfully")
}

// AdminUpdateUserPassword sets a user's password without the old one.
func AdminUpdateUserPassword(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var input AdminUpdatePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Password) == "" {
		utils.Fail(c, http.StatusBadRequest, "password is required")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()
	users := config.DB.Collection(config.UsersCollection)

	var user models.User
	if err := users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.Fail(c, http.StatusNotFound, "user not found")
		return
	}

	hash, err := utils.HashPassword(strings.TrimSpace(input.Password))
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not hash password")
		return
	}
	if _, err := users.UpdateByID(ctx, userID, bson.M{"$set": bson.M{"password": hash, "updatedAt": time.Now().UTC()}}); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not update password")
		return
	}

	utils.Respond(c, http.StatusOK, user.Public(), "User password updated successfully")
}

// AdminUpdateUsername renames a user after a duplicate check.
func AdminUpdateUsername(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	var input AdminUpdateUsernameInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.NewUsername) == "" {
		utils.Fail(c, http.StatusBadRequest, "username is required")
		return
	}
	newUsername := strings.TrimSpace(input.NewUsername)

	ctx, cancel := opCtx(c)
	defer cancel()
	users := config.DB.Collection(config.UsersCollection)

	var user models.User
	if err := users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.Fail(c, http.StatusNotFound, "user not found")
		return
	}

	var existing models.User
	err = users.FindOne(ctx, usernameFilter(newUsername)).Decode(&existing)
	if err == nil && existing.ID != userID {
		utils.Fail(c, http.StatusBadRequest, "username already exists")
		return
	}
	if err != nil && err != mongo.ErrNoDocuments {
		utils.Fail(c, http.StatusInternalServerError, "database error")
		return
	}

	user.Username = newUsername
	if _, err := users.UpdateByID(ctx, userID, bson.M{"$set": bson.M{"username": newUsername, "updatedAt": time.Now().UTC()}}); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not update username")
		return
	}

	utils.Respond(c, http.StatusOK, user.Public(), "User name updated successfully")
}

// GetPendingPosts lists posts awaiting approval.
func GetPendingPosts(c *gin.Context) {
	ctx, cancel := opCtx(c)
	defer cancel()

	cursor, err := config.DB.Collection(config.PostsCollection).Find(ctx,
		bson.M{"isApproved": false},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch posts")
		return
	}

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch posts")
		return
	}

	utils.Respond(c, http.StatusOK, posts, "Posts found successfully")
}
