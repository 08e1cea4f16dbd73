package controllers

import (
	"errors"
	"net/http"
	"strings"
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

// MarkAttendanceInput is the bulk marking request body.
type MarkAttendanceInput struct {
	AttendanceList []BulkAttendanceEntry `json:"attendanceList"`
}

// UpdateAttendanceInput carries the new status for point updates.
type UpdateAttendanceInput struct {
	Status string `json:"status"`
}

// BulkResult reports per-entry outcomes of the unordered bulk upsert.
type BulkResult struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
	Upserted int64 `json:"upserted"`
	Failed   int   `json:"failed"`
}

// InitializeAttendance creates one absent record per active user for the
// event, marked by the initiating user. An empty roster is a success with an
// empty batch.
func InitializeAttendance(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("eventId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid event id")
		return
	}
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	var event models.Event
	if err := config.DB.Collection(config.EventsCollection).FindOne(ctx, bson.M{"_id": eventID}).Decode(&event); err != nil {
		utils.Fail(c, http.StatusNotFound, "event not found")
		return
	}

	cursor, err := config.DB.Collection(config.UsersCollection).Find(ctx,
		bson.M{"isActive": true},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch users")
		return
	}
	var activeUsers []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cursor.All(ctx, &activeUsers); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch users")
		return
	}

	now := time.Now().UTC()
	markedBy := principal.ID
	records := make([]models.Attendance, 0, len(activeUsers))
	docs := make([]interface{}, 0, len(activeUsers))
	for _, user := range activeUsers {
		record := models.Attendance{
			ID:        primitive.NewObjectID(),
			EventID:   eventID,
			UserID:    user.ID,
			Status:    models.StatusAbsent,
			MarkedBy:  &markedBy,
			CreatedAt: now,
			UpdatedAt: now,
		}
		records = append(records, record)
		docs = append(docs, record)
	}

	if len(docs) > 0 {
		if _, err := config.DB.Collection(config.AttendancesCollection).InsertMany(ctx, docs); err != nil {
			logrus.WithError(err).Error("attendance initialization insert failed")
			utils.Fail(c, http.StatusInternalServerError, "could not initialize attendance")
			return
		}
	}

	utils.Respond(c, http.StatusOK, records, "Attendance initialized successfully")
}

// MarkAttendance bulk-upserts attendance records for an event. The whole list
// is validated before any write; the writes themselves run as one unordered
// batch so a single conflicting entry does not abort its siblings.
func MarkAttendance(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("eventId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid event id")
		return
	}
	principal, ok := middleware.CurrentUser(c)
	if !ok {
		utils.Fail(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var input MarkAttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.Fail(c, http.StatusBadRequest, "attendance list is required")
		return
	}

	entries, err := validateBulkEntries(input.AttendanceList)
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid attendance list", err.Error())
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	var event models.Event
	if err := config.DB.Collection(config.EventsCollection).FindOne(ctx, bson.M{"_id": eventID}).Decode(&event); err != nil {
		utils.Fail(c, http.StatusNotFound, "event not found")
		return
	}

	now := time.Now().UTC()
	writes := make([]mongo.WriteModel, 0, len(entries))
	for _, entry := range entries {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"eventId": eventID, "userId": entry.UserID}).
			SetUpdate(bson.M{
				"$set": bson.M{
					"eventId":   eventID,
					"userId":    entry.UserID,
					"status":    entry.Status,
					"markedBy":  principal.ID,
					"updatedAt": now,
				},
				"$setOnInsert": bson.M{"createdAt": now},
			}).
			SetUpsert(true))
	}

	result, err := config.DB.Collection(config.AttendancesCollection).
		BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))

	summary := BulkResult{}
	if result != nil {
		summary.Matched = result.MatchedCount
		summary.Modified = result.ModifiedCount
		summary.Upserted = result.UpsertedCount
	}
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if !errors.As(err, &bulkErr) {
			logrus.WithError(err).Error("attendance bulk write failed")
			utils.Fail(c, http.StatusInternalServerError, "could not mark attendance")
			return
		}
		// Partial failure: surviving entries were applied, report the rest.
		summary.Failed = len(bulkErr.WriteErrors)
		logrus.WithField("failed", summary.Failed).Warn("attendance bulk write partially failed")
	}

	utils.Respond(c, http.StatusOK, summary, "Attendance marked successfully")
}

// GetEventAttendance returns the complete attendance view for an event: the
// persisted records joined with user display fields, plus a synthesized
// absent entry for every user without a record, present entries first.
func GetEventAttendance(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("eventId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid event id")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"eventId": eventID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         config.UsersCollection,
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "user",
			"pipeline": mongo.Pipeline{
				{{Key: "$project", Value: bson.M{
					"firstName": 1,
					"lastName":  1,
					"username":  1,
					"isActive":  1,
					"_id":       0,
				}}},
			},
		}}},
		{{Key: "$addFields", Value: bson.M{"user": bson.M{"$first": "$user"}}}},
		{{Key: "$sort", Value: bson.M{"status": -1}}},
	}

	cursor, err := config.DB.Collection(config.AttendancesCollection).Aggregate(ctx, pipeline)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch attendances")
		return
	}
	var persisted []models.AttendanceEntry
	if err := cursor.All(ctx, &persisted); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch attendances")
		return
	}

	userCursor, err := config.DB.Collection(config.UsersCollection).Find(ctx, bson.M{})
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch users")
		return
	}
	var roster []rosterUser
	if err := userCursor.All(ctx, &roster); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch users")
		return
	}

	merged := mergeRoster(persisted, roster, eventID)
	sortByStatus(merged)

	utils.Respond(c, http.StatusOK, merged, "Attendances fetched successfully")
}

// GetUserAttendance aggregates one user's records per event category. A user
// with no records gets an empty list, not an error.
func GetUserAttendance(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         config.EventsCollection,
			"localField":   "eventId",
			"foreignField": "_id",
			"as":           "event",
		}}},
		{{Key: "$addFields", Value: bson.M{"event": bson.M{"$first": "$event"}}}},
		{{Key: "$project", Value: bson.M{
			"status":    1,
			"eventType": "$event.eventType",
		}}},
	}

	cursor, err := config.DB.Collection(config.AttendancesCollection).Aggregate(ctx, pipeline)
	if err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch attendances")
		return
	}
	var rows []categorizedStatus
	if err := cursor.All(ctx, &rows); err != nil {
		utils.Fail(c, http.StatusInternalServerError, "could not fetch attendances")
		return
	}

	utils.Respond(c, http.StatusOK, summarizeByCategory(rows), "Attendances fetched successfully")
}

// GetAttendanceStatus fetches the single record for an (event, user) pair.
func GetAttendanceStatus(c *gin.Context) {
	eventID, err := primitive.ObjectIDFromHex(c.Param("eventId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid event id")
		return
	}
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid user id")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	var record models.Attendance
	err = config.DB.Collection(config.AttendancesCollection).
		FindOne(ctx, bson.M{"eventId": eventID, "userId": userID}).Decode(&record)
	if err != nil {
		utils.Fail(c, http.StatusNotFound, "attendance not found")
		return
	}

	utils.Respond(c, http.StatusOK, record, "Attendance found")
}

// UpdateAttendance sets a record's status and re-marks it with the caller.
func UpdateAttendance(c *gin.Context) {
	updateAttendanceRecord(c, true)
}

// UpdateAttendanceStatus sets a record's status without changing who marked
// it.
func UpdateAttendanceStatus(c *gin.Context) {
	updateAttendanceRecord(c, false)
}

func updateAttendanceRecord(c *gin.Context, remark bool) {
	attendanceID, err := primitive.ObjectIDFromHex(c.Param("attendanceId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid attendance id")
		return
	}

	var input UpdateAttendanceInput
	if err := c.ShouldBindJSON(&input); err != nil || strings.TrimSpace(input.Status) == "" {
		utils.Fail(c, http.StatusBadRequest, "status is required")
		return
	}
	if !models.ValidStatus(input.Status) {
		utils.Fail(c, http.StatusBadRequest, "invalid status")
		return
	}

	set := bson.M{"status": input.Status, "updatedAt": time.Now().UTC()}
	if remark {
		principal, ok := middleware.CurrentUser(c)
		if !ok {
			utils.Fail(c, http.StatusUnauthorized, "authentication required")
			return
		}
		set["markedBy"] = principal.ID
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	var updated models.Attendance
	err = config.DB.Collection(config.AttendancesCollection).
		FindOneAndUpdate(ctx,
			bson.M{"_id": attendanceID},
			bson.M{"$set": set},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.Fail(c, http.StatusNotFound, "attendance not found")
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "could not update attendance")
		return
	}

	utils.Respond(c, http.StatusOK, updated, "Attendance updated successfully")
}

// DeleteAttendance removes a record by id.
func DeleteAttendance(c *gin.Context) {
	attendanceID, err := primitive.ObjectIDFromHex(c.Param("attendanceId"))
	if err != nil {
		utils.Fail(c, http.StatusBadRequest, "invalid attendance id")
		return
	}

	ctx, cancel := opCtx(c)
	defer cancel()

	var deleted models.Attendance
	err = config.DB.Collection(config.AttendancesCollection).
		FindOneAndDelete(ctx, bson.M{"_id": attendanceID}).Decode(&deleted)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.Fail(c, http.StatusNotFound, "attendance not found")
			return
		}
		utils.Fail(c, http.StatusInternalServerError, "could not delete attendance")
		return
	}

	utils.Respond(c, http.StatusOK, deleted, "Attendance deleted successfully")
}
