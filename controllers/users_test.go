package controllers

import (
	"testing"

	"github.com/ChiragRathod25/balmandal-backend/models"
)

func strPtr(s string) *string { return &s }

func TestApplyProfileUpdate(t *testing.T) {
	base := func() models.User {
		return models.User{FirstName: "Asha", LastName: "Patel", Email: "asha@example.com", School: "Old School"}
	}

	t.Run("nil fields untouched", func(t *testing.T) {
		user := base()
		set := applyProfileUpdate(&user, ProfileUpdateInput{})
		if len(set) != 0 {
			t.Fatalf("set = %v, want empty", set)
		}
		if user.FirstName != "Asha" {
			t.Errorf("firstName changed to %q", user.FirstName)
		}
	})

	t.Run("blank value ignored", func(t *testing.T) {
		user := base()
		set := applyProfileUpdate(&user, ProfileUpdateInput{FirstName: strPtr("   ")})
		if len(set) != 0 {
			t.Fatalf("set = %v, want empty", set)
		}
		if user.FirstName != "Asha" {
			t.Errorf("firstName changed to %q", user.FirstName)
		}
	})

	t.Run("unchanged value ignored", func(t *testing.T) {
		user := base()
		set := applyProfileUpdate(&user, ProfileUpdateInput{Email: strPtr("asha@example.com")})
		if len(set) != 0 {
			t.Fatalf("set = %v, want empty", set)
		}
	})

	t.Run("changed values applied and trimmed", func(t *testing.T) {
		user := base()
		set := applyProfileUpdate(&user, ProfileUpdateInput{
			School:  strPtr("  New School "),
			Address: strPtr("12 Lane"),
		})
		if user.School != "New School" {
			t.Errorf("school = %q, want %q", user.School, "New School")
		}
		if user.Address != "12 Lane" {
			t.Errorf("address = %q, want %q", user.Address, "12 Lane")
		}
		if len(set) != 2 {
			t.Fatalf("set has %d keys, want 2: %v", len(set), set)
		}
		if set["school"] != "New School" || set["address"] != "12 Lane" {
			t.Errorf("set = %v", set)
		}
	})
}
