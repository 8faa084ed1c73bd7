package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "cashmesh/internal/errors"
)

func TestParsePathID(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"/items/42", false},
		{"/items/0", true},
		{"/items/-1", true},
		{"/items/abc", true},
		{"/items/99999999999", false},
		{"/items/18446744073709551616", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r := gin.New()
			r.GET("/items/:id", func(c *gin.Context) {
				id, err := parsePathID(c, "id")
				if err != nil {
					respondWithError(c, err)
					return
				}
				c.JSON(http.StatusOK, gin.H{"id": id})
			})

			rec := doRequest(r, http.MethodGet, tt.path, "")
			if tt.wantErr {
				if rec.Code != http.StatusBadRequest {
					t.Fatalf("expected 400, got %d", rec.Code)
				}
				assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
				return
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
		})
	}
}

func TestGetUserID_Missing(t *testing.T) {
	r := gin.New()
	r.GET("/me", func(c *gin.Context) {
		if _, err := getUserID(c); err != nil {
			respondWithError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	rec := doRequest(r, http.MethodGet, "/me", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "UNAUTHORIZED")
}

func TestRespondWithError(t *testing.T) {
	t.Run("details are included", func(t *testing.T) {
		r := gin.New()
		r.GET("/", func(c *gin.Context) { respondWithError(c, apperrors.ErrDuplicateEmail) })

		rec := doRequest(r, http.MethodGet, "/", "")
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		assertErrorCode(t, result, "DUPLICATE_EMAIL")
		if errorDetails(t, result)["email"] == nil {
			t.Error("expected the colliding field in details")
		}
	})

	t.Run("plain errors become internal", func(t *testing.T) {
		r := gin.New()
		r.GET("/", func(c *gin.Context) { respondWithError(c, errors.New("dial tcp: refused")) })

		rec := doRequest(r, http.MethodGet, "/", "")
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INTERNAL_ERROR")
	})
}
