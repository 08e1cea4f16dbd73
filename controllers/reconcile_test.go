package controllers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ChiragRathod25/balmandal-backend/models"
)

func TestValidateBulkEntries(t *testing.T) {
	valid := primitive.NewObjectID().Hex()

	tests := []struct {
		name    string
		entries []BulkAttendanceEntry
		wantErr bool
	}{
		{"empty list", nil, true},
		{"valid single", []BulkAttendanceEntry{{UserID: valid, Status: "present"}}, false},
		{"missing user id", []BulkAttendanceEntry{{Status: "present"}}, true},
		{"missing status", []BulkAttendanceEntry{{UserID: valid}}, true},
		{"unknown status", []BulkAttendanceEntry{{UserID: valid, Status: "late"}}, true},
		{"malformed user id", []BulkAttendanceEntry{{UserID: "not-hex", Status: "absent"}}, true},
		{
			"one bad entry rejects batch",
			[]BulkAttendanceEntry{
				{UserID: valid, Status: "present"},
				{UserID: primitive.NewObjectID().Hex(), Status: ""},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := validateBulkEntries(tt.entries)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateBulkEntries() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && len(parsed) != len(tt.entries) {
				t.Fatalf("parsed %d entries, want %d", len(parsed), len(tt.entries))
			}
		})
	}
}

func TestValidateBulkEntriesPreservesOrder(t *testing.T) {
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}
	entries := []BulkAttendanceEntry{
		{UserID: ids[0].Hex(), Status: "present"},
		{UserID: ids[1].Hex(), Status: "pending"},
		{UserID: ids[2].Hex(), Status: "absent"},
	}

	parsed, err := validateBulkEntries(entries)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, p := range parsed {
		if p.UserID != ids[i] {
			t.Errorf("entry %d: user = %s, want %s", i, p.UserID.Hex(), ids[i].Hex())
		}
		if p.Status != entries[i].Status {
			t.Errorf("entry %d: status = %s, want %s", i, p.Status, entries[i].Status)
		}
	}
}

func entryFor(userID primitive.ObjectID, status string, withUser bool) models.AttendanceEntry {
	e := models.AttendanceEntry{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Status: status,
	}
	if withUser {
		e.User = &models.AttendanceUser{Username: "u-" + userID.Hex()[:6], IsActive: true}
	}
	return e
}

func TestMergeRosterCompleteness(t *testing.T) {
	eventID := primitive.NewObjectID()
	marked := primitive.NewObjectID()
	unmarked := primitive.NewObjectID()

	persisted := []models.AttendanceEntry{entryFor(marked, models.StatusPresent, true)}
	roster := []rosterUser{
		{ID: marked, Username: "marked"},
		{ID: unmarked, Username: "unmarked", FirstName: "Un", LastName: "Marked"},
	}

	merged := mergeRoster(persisted, roster, eventID)
	if len(merged) != 2 {
		t.Fatalf("merged %d entries, want 2", len(merged))
	}

	seen := map[primitive.ObjectID]int{}
	for _, e := range merged {
		seen[e.UserID]++
	}
	for _, id := range []primitive.ObjectID{marked, unmarked} {
		if seen[id] != 1 {
			t.Errorf("user %s appears %d times, want exactly once", id.Hex(), seen[id])
		}
	}
}

func TestMergeRosterSynthesizesAbsent(t *testing.T) {
	eventID := primitive.NewObjectID()
	user := primitive.NewObjectID()
	roster := []rosterUser{{ID: user, FirstName: "A", LastName: "B", Username: "ab", IsActive: true}}

	merged := mergeRoster(nil, roster, eventID)
	if len(merged) != 1 {
		t.Fatalf("merged %d entries, want 1", len(merged))
	}
	got := merged[0]
	if got.Status != models.StatusAbsent {
		t.Errorf("status = %q, want absent", got.Status)
	}
	if got.MarkedBy != nil {
		t.Errorf("markedBy = %v, want nil", got.MarkedBy)
	}
	if !got.ID.IsZero() {
		t.Errorf("synthesized entry has persisted id %s", got.ID.Hex())
	}
	if got.EventID != eventID {
		t.Errorf("eventId = %s, want %s", got.EventID.Hex(), eventID.Hex())
	}
	if got.User == nil || got.User.Username != "ab" {
		t.Errorf("user projection not carried over: %+v", got.User)
	}
}

func TestMergeRosterDropsDeletedUsers(t *testing.T) {
	eventID := primitive.NewObjectID()
	ghost := primitive.NewObjectID()

	// Record whose subject user no longer exists: no joined user document.
	persisted := []models.AttendanceEntry{entryFor(ghost, models.StatusPresent, false)}

	merged := mergeRoster(persisted, nil, eventID)
	if len(merged) != 0 {
		t.Fatalf("merged %d entries, want 0 (record for deleted user dropped)", len(merged))
	}
}

func TestSortByStatusPartition(t *testing.T) {
	ids := make([]primitive.ObjectID, 4)
	for i := range ids {
		ids[i] = primitive.NewObjectID()
	}
	entries := []models.AttendanceEntry{
		entryFor(ids[0], models.StatusAbsent, true),
		entryFor(ids[1], models.StatusPresent, true),
		entryFor(ids[2], models.StatusAbsent, true),
		entryFor(ids[3], models.StatusPresent, true),
	}

	sortByStatus(entries)

	wantStatus := []string{"present", "present", "absent", "absent"}
	wantUsers := []primitive.ObjectID{ids[1], ids[3], ids[0], ids[2]}
	for i := range entries {
		if entries[i].Status != wantStatus[i] {
			t.Errorf("position %d: status = %s, want %s", i, entries[i].Status, wantStatus[i])
		}
		if entries[i].UserID != wantUsers[i] {
			t.Errorf("position %d: user = %s, want %s (relative order not preserved)",
				i, entries[i].UserID.Hex(), wantUsers[i].Hex())
		}
	}
}

func TestSortByStatusLeavesPendingNeighbours(t *testing.T) {
	ids := make([]primitive.ObjectID, 3)
	for i := range ids {
		ids[i] = primitive.NewObjectID()
	}
	entries := []models.AttendanceEntry{
		entryFor(ids[0], models.StatusPending, true),
		entryFor(ids[1], models.StatusPending, true),
		entryFor(ids[2], models.StatusPending, true),
	}

	sortByStatus(entries)

	for i := range entries {
		if entries[i].UserID != ids[i] {
			t.Errorf("position %d: pending entry moved", i)
		}
	}
}

func TestSummarizeByCategory(t *testing.T) {
	rows := []categorizedStatus{
		{Status: "present", EventType: "A"},
		{Status: "absent", EventType: "A"},
		{Status: "present", EventType: "B"},
	}

	got := summarizeByCategory(rows)
	want := []models.CategorySummary{
		{EventType: "A", Total: 2, Present: 1, Absent: 1},
		{EventType: "B", Total: 1, Present: 1, Absent: 0},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d categories, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("category %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSummarizeByCategoryPendingCountsTotalOnly(t *testing.T) {
	rows := []categorizedStatus{
		{Status: "pending", EventType: "A"},
		{Status: "present", EventType: "A"},
	}

	got := summarizeByCategory(rows)
	if len(got) != 1 {
		t.Fatalf("got %d categories, want 1", len(got))
	}
	if got[0].Total != 2 || got[0].Present != 1 || got[0].Absent != 0 {
		t.Errorf("summary = %+v, want total=2 present=1 absent=0", got[0])
	}
}

func TestSummarizeByCategoryEmpty(t *testing.T) {
	got := summarizeByCategory(nil)
	if len(got) != 0 {
		t.Fatalf("got %d categories for no records, want 0", len(got))
	}
}
