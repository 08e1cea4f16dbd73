package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRespondEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ok", func(c *gin.Context) {
		Respond(c, http.StatusOK, gin.H{"value": 1}, "done")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		StatusCode int            `json:"statusCode"`
		Data       map[string]int `json:"data"`
		Message    string         `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if body.StatusCode != 200 || body.Message != "done" || body.Data["value"] != 1 {
		t.Errorf("envelope = %+v", body)
	}
}

func TestFailEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/bad", func(c *gin.Context) {
		Fail(c, http.StatusBadRequest, "invalid input", "field is required")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bad", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if body.StatusCode != 400 || body.Message != "invalid input" {
		t.Errorf("envelope = %+v", body)
	}
	if len(body.Errors) != 1 || body.Errors[0] != "field is required" {
		t.Errorf("errors = %v", body.Errors)
	}
}

func TestFailOmitsEmptyErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/bad", func(c *gin.Context) {
		Fail(c, http.StatusNotFound, "not found")
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bad", nil))

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if _, ok := raw["errors"]; ok {
		t.Error("errors key present for error without detail")
	}
}
