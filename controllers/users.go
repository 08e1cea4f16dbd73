package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ChiragRathod25/balmandal-backend/config"
	"github.com/ChiragRathod25/balmandal-backend/middleware"
	"github.com/ChiragRathod25/balmandal-backend/models"
	"github.com/ChiragRathod25/balmandal-backend/utils"
)

// ProfileUpdateInput lists every updatable profile field as optional. A nil
// field is untouched; a blank or unchanged value is ignored.
type ProfileUpdateInput struct {
	FirstName     *string `json:"firstName,omitempty"`
	MiddleName    *string `json:"middleName,omitempty"`
	LastName      *string `json:"lastName,omitempty"`
	Email         *string `json:"email,omitempty"`
	Mobile        *string `json:"mobile,omitempty"`
	DOB           *string `json:"dob,omitempty"`
	School        *string `json:"school,omitempty"`
	Std           *string `json:"std,omitempty"`
	MediumOfStudy *string `json:"mediumOfStudy,omitempty"`
	Address       *string `json:"address,omitempty"`
}

// applyProfileUpdate merges the input into the user and returns the bson
// $set document of the fields that actually changed.
func applyProfileUpdate(user *models.User, input ProfileUpdateInput) bson.M {
	set := bson.M{}
	apply := func(key string, dst *string, src *string) {
		if src == nil {
			return
		}
		val := strings.TrimSpace(*src)
		if val == "" || val == *dst {
			return
		}
		*dst = val
		set[key] = val
	}

	apply("firstName", &user.FirstName, input.FirstName)
	apply("middleName", &user.MiddleName, input.MiddleName)
	apply("lastName", &user.LastName, input.LastName)
	apply("email", &user.Email, input.Email)
	apply("mobile", &user.Mobile, input.Mobile)
	apply("dob", &user.DOB, input.DOB)
	apply("school", &user.School, input.School)
	apply("std", &user.Std, input.Std)
	apply("mediumOfStudy", &user.MediumOfStudy, input.MediumOfStudy)
	apply("address", &user.Address, input.Address)
	return set
}

// GetCurrentUser returns the caller's own record.
func GetCurrentUser(c *gin.Context) {
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	var user models.User
	if err := config.DB.Collection(config.UsersCollection).FindOne(ctx, bson.M{"_id": principal.ID}).Decode(&user); err != nil {
		utils.Fail(c, http.StatusNotFound, "user not found")
		return
	}

	utils.Respond(c, http.StatusOK, user.Public(), "User details fetched successfully")
}

// GetUserByID fetches any user's public record.
func GetUserByID(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	var user models.User
	if err := config.DB.Collection(config.UsersCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		utils.Fail(c, http.StatusNotFound, "user not found")
		return
	}

	utils.Respond(c, http.StatusOK, user.Public(), "User fetched successfully")
}

// UpdateUserDetails applies a partial profile update to the caller.
func UpdateUserDetails(c *gin.Context) {
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var input ProfileUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid request body")
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

	set := applyProfileUpdate(&user, input)
	if len(set) > 0 {
		if _, err := users.UpdateByID(ctx, user.ID, bson.M{"$set": set}); err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not update user details")
			return
		}
	}

	utils.Respond(c, http.StatusOK, user.Public(), "User details updated successfully")
}
