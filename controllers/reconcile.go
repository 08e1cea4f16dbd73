package controllers

import (
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ChiragRathod25/balmandal-backend/models"
)

// BulkAttendanceEntry is one {userId, status} pair from the bulk marking
// request body.
type BulkAttendanceEntry struct {
	UserID string `json:"userId"`
	Status string `json:"status"`
}

type parsedBulkEntry struct {
	UserID primitive.ObjectID
	Status string
}

// validateBulkEntries checks the whole list before any write is issued: a
// single malformed entry rejects the batch. Returns the parsed entries in
// input order.
func validateBulkEntries(entries []BulkAttendanceEntry) ([]parsedBulkEntry, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("attendance list should not be empty")
	}
	parsed := make([]parsedBulkEntry, 0, len(entries))
	for i, e := range entries {
		if e.UserID == "" {
			return nil, fmt.Errorf("entry %d: user id is required", i)
		}
		if e.Status == "" {
			return nil, fmt.Errorf("entry %d: status is required", i)
		}
		if !models.ValidStatus(e.Status) {
			return nil, fmt.Errorf("entry %d: invalid status %q", i, e.Status)
		}
		userID, err := primitive.ObjectIDFromHex(e.UserID)
		if err != nil {
			return nil, fmt.Errorf("entry %d: invalid user id", i)
		}
		parsed = append(parsed, parsedBulkEntry{UserID: userID, Status: e.Status})
	}
	return parsed, nil
}

// rosterUser is the slice of a user record the merge needs.
type rosterUser struct {
	ID        primitive.ObjectID `bson:"_id"`
	FirstName string             `bson:"firstName"`
	LastName  string             `bson:"lastName"`
	Username  string             `bson:"username"`
	IsActive  bool               `bson:"isActive"`
}

// mergeRoster combines persisted attendance entries with the full user
// roster. Persisted entries whose subject user no longer exists are dropped;
// roster users without a persisted record get a synthesized absent entry
// with no marker. Every known user appears exactly once.
func mergeRoster(persisted []models.AttendanceEntry, roster []rosterUser, eventID primitive.ObjectID) []models.AttendanceEntry {
	marked := make(map[primitive.ObjectID]struct{}, len(persisted))
	merged := make([]models.AttendanceEntry, 0, len(roster))

	for _, entry := range persisted {
		if entry.User == nil {
			continue
		}
		marked[entry.UserID] = struct{}{}
		merged = append(merged, entry)
	}

	for _, user := range roster {
		if _, ok := marked[user.ID]; ok {
			continue
		}
		merged = append(merged, models.AttendanceEntry{
			EventID: eventID,
			UserID:  user.ID,
			Status:  models.StatusAbsent,
			User: &models.AttendanceUser{
				FirstName: user.FirstName,
				LastName:  user.LastName,
				Username:  user.Username,
				IsActive:  user.IsActive,
			},
		})
	}

	return merged
}

// sortByStatus partitions entries so present precedes absent while pending
// keeps its position relative to its neighbours. The comparison only orders
// present against absent, which is not a strict weak ordering, so this is a
// stable adjacent-swap pass rather than sort.SliceStable.
func sortByStatus(entries []models.AttendanceEntry) {
	for swapped := true; swapped; {
		swapped = false
		for i := 1; i < len(entries); i++ {
			if entries[i-1].Status == models.StatusAbsent && entries[i].Status == models.StatusPresent {
				entries[i-1], entries[i] = entries[i], entries[i-1]
				swapped = true
			}
		}
	}
}

// categorizedStatus is one attendance record reduced to its status and the
// category label of its event.
type categorizedStatus struct {
	Status    string `bson:"status"`
	EventType string `bson:"eventType"`
}

// summarizeByCategory rolls records up per event category: total counts every
// record, present/absent count only their own status, pending contributes to
// total alone. Output is ordered by category label ascending.
func summarizeByCategory(rows []categorizedStatus) []models.CategorySummary {
	byType := make(map[string]*models.CategorySummary)
	for _, row := range rows {
		summary, ok := byType[row.EventType]
		if !ok {
			summary = &models.CategorySummary{EventType: row.EventType}
			byType[row.EventType] = summary
		}
		summary.Total++
		switch row.Status {
		case models.StatusPresent:
			summary.Present++
		case models.StatusAbsent:
			summary.Absent++
		}
	}

	out := make([]models.CategorySummary, 0, len(byType))
	for _, summary := range byType {
		out = append(out, *summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EventType < out[j].EventType })
	return out
}
