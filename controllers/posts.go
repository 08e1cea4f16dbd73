package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ChiragRathod25/balmandal-backend/config"
	"github.com/ChiragRathod25/balmandal-backend/middleware"
	"github.com/ChiragRathod25/balmandal-backend/models"
	"github.com/ChiragRathod25/balmandal-backend/utils"
)

// CreatePostInput is the post creation body. Posts start unapproved.
type CreatePostInput struct {
	Title   string   `json:"title" binding:"required"`
	Content string   `json:"content" binding:"required"`
	Images  []string `json:"images,omitempty"`
}

// CreatePost stores a new post pending admin approval.
func CreatePost(c *gin.Context) {
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var input CreatePostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, "title and content are required")
		return
	}

	post := models.Post{
		ID:         primitive.NewObjectID(),
		Title:      input.Title,
		Content:    input.Content,
		Images:     input.Images,
		CreatedBy:  principal.ID,
		IsApproved: false,
		CreatedAt:  time.Now().UTC(),
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	if _, err := config.DB.Collection(config.PostsCollection).InsertOne(ctx, post); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not create post")
		return
	}

	utils.Respond(c, http.StatusCreated, post, "Post created successfully")
}

// ListApprovedPosts lists approved posts, newest first.
func ListApprovedPosts(c *gin.Context) {
	ctx, cancel := opCtx(c)
	defer cancel()

	cursor, err := config.DB.Collection(config.PostsCollection).Find(ctx,
		bson.M{"isApproved": true},
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

	utils.Respond(c, http.StatusOK, posts, "Posts fetched successfully")
}

// ListMyPosts lists the caller's posts regardless of approval.
func ListMyPosts(c *gin.Context) {
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	cursor, err := config.DB.Collection(config.PostsCollection).Find(ctx,
		bson.M{"createdBy": principal.ID},
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

	utils.Respond(c, http.StatusOK, posts, "Posts fetched successfully")
}

// ApprovePost marks a pending post approved.
func ApprovePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid post id")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	var updated models.Post
	err = config.DB.Collection(config.PostsCollection).
		FindOneAndUpdate(ctx,
			bson.M{"_id": postID},
			bson.M{"$set": bson.M{"isApproved": true, "updatedAt": time.Now().UTC()}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.Fail(c, http.StatusNotFound, "post not found")
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "could not approve post")
		return
	}

	utils.Respond(c, http.StatusOK, updated, "Post approved successfully")
}

// ToggleLike likes the post for the caller, or removes the like when it
// already exists.
func ToggleLike(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid post id")
		return
	}
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()
	likes := config.DB.Collection(config.LikesCollection)

	filter := bson.M{"postId": postID, "createdBy": principal.ID}
	var existing models.Like
	err = likes.FindOne(ctx, filter).Decode(&existing)
	switch {
	case err == nil:
		if _, err := likes.DeleteOne(ctx, bson.M{"_id": existing.ID}); err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not remove like")
			return
		}
		utils.Respond(c, http.StatusOK, gin.H{"liked": false}, "Like removed successfully")
	case errors.Is(err, mongo.ErrNoDocuments):
		like := models.Like{
			ID:        primitive.NewObjectID(),
			PostID:    postID,
			CreatedBy: principal.ID,
			CreatedAt: time.Now().UTC(),
		}
		if _, err := likes.InsertOne(ctx, like); err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not add like")
			return
		}
		utils.Respond(c, http.StatusOK, gin.H{"liked": true}, "Like added successfully")
	default:
		utils.Fail(c, http.StatusInternalServerError, "database error")
	}
}

// DeletePost removes a post; only the author or an admin may delete it.
func DeletePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("postId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid post id")
		return
	}
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()
	posts := config.DB.Collection(config.PostsCollection)

	var post models.Post
	if err := posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post); err != nil {
		utils.Fail(c, http.StatusNotFound, "post not found")
		return
	}
	if post.CreatedBy != principal.ID && !principal.IsAdmin() {
		utils.Fail(c, http.StatusForbidden, "only the author or an admin can delete a post")
		return
	}

	if _, err := posts.DeleteOne(ctx, bson.M{"_id": postID}); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not delete post")
		return
	}
	// Likes for a removed post are dead weight; failure here is non-critical.
	if _, err := config.DB.Collection(config.LikesCollection).DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		logrus.WithError(err).Warn("could not clean up likes for deleted post")
	}

	utils.Respond(c, http.StatusOK, post, "Post deleted successfully")
}
