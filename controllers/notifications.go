package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ChiragRathod25/balmandal-backend/config"
	"github.com/ChiragRathod25/balmandal-backend/middleware"
	"github.com/ChiragRathod25/balmandal-backend/models"
	"github.com/ChiragRathod25/balmandal-backend/utils"
)

// CreateNotificationInput is the admin notification body. An empty createdFor
// list means broadcast.
type CreateNotificationInput struct {
	Title            string   `json:"title" binding:"required"`
	Message          string   `json:"message" binding:"required"`
	NotificationType string   `json:"notificationType,omitempty"`
	TargetGroup      string   `json:"targetGroup,omitempty"`
	Link             string   `json:"link,omitempty"`
	CreatedFor       []string `json:"createdFor,omitempty"`
}

// CreateNotification stores a broadcast or targeted notification.
func CreateNotification(c *gin.Context) {
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var input CreateNotificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, "title and message are required")
		return
	}

	createdFor := make([]primitive.ObjectID, 0, len(input.CreatedFor))
	for _, hex := range input.CreatedFor {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			utils.Fail(c, http.StatusBadRequest, "invalid user id in createdFor")
			return
		}
		createdFor = append(createdFor, id)
	}

	notificationType := input.NotificationType
	if notificationType == "" {
		notificationType = models.NotificationInfo
	}
	targetGroup := input.TargetGroup
	if targetGroup == "" {
		if len(createdFor) > 0 {
			targetGroup = models.TargetIndividual
		} else {
			targetGroup = models.TargetAll
		}
	}

	notification := models.Notification{
		ID:               primitive.NewObjectID(),
		CreatedBy:        principal.ID,
		CreatedFor:       createdFor,
		Title:            input.Title,
		Message:          input.Message,
		NotificationType: notificationType,
		TargetGroup:      targetGroup,
		Link:             input.Link,
		CreatedAt:        time.Now().UTC(),
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	if _, err := config.DB.Collection(config.NotificationsCollection).InsertOne(ctx, notification); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not create notification")
		return
	}

	utils.Respond(c, http.StatusCreated, notification, "Notification created successfully")
}

// ListNotifications returns broadcasts plus notifications addressed to the
// caller, newest first.
func ListNotifications(c *gin.Context) {
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"createdFor": bson.M{"$size": 0}},
		{"createdFor": bson.M{"$exists": false}},
		{"createdFor": principal.ID},
	}}

	cursor, err := config.DB.Collection(config.NotificationsCollection).Find(ctx, filter,
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch notifications")
		return
	}

	notifications := []models.Notification{}
	if err := cursor.All(ctx, &notifications); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch notifications")
		return
	}

	utils.Respond(c, http.StatusOK, notifications, "Notifications fetched successfully")
}

// MarkNotificationRead appends a read receipt for the caller. Reading twice
// is a no-op.
func MarkNotificationRead(c *gin.Context) {
	notificationID, err := primitive.ObjectIDFromHex(c.Param("notificationId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid notification id")
		return
	}
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	// Guard against duplicate receipts for the same reader.
	result, err := config.DB.Collection(config.NotificationsCollection).UpdateOne(ctx,
		bson.M{"_id": notificationID, "isReadBy.userId": bson.M{"$ne": principal.ID}},
		bson.M{"$push": bson.M{"isReadBy": models.ReadReceipt{
			UserID: principal.ID,
			ReadAt: time.Now().UTC(),
		}}})
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not mark notification read")
		return
	}
	if result.MatchedCount == 0 {
		// Either the notification does not exist or it is already read.
		count, err := config.DB.Collection(config.NotificationsCollection).
			CountDocuments(ctx, bson.M{"_id": notificationID})
		if err != nil {
			utils.Fail(c, http.StatusInternalServerError, "could not mark notification read")
			return
		}
		if count == 0 {
			utils.Fail(c, http.StatusNotFound, "notification not found")
			return
		}
	}

	utils.Respond(c, http.StatusOK, gin.H{}, "Notification marked as read")
}
