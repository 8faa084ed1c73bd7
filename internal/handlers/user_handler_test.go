package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "cashmesh/internal/errors"
	"cashmesh/internal/middleware"
	"cashmesh/internal/models"
	"cashmesh/internal/pagination"
	"cashmesh/internal/services"
)

// --- mock user service ---

type mockUserService struct {
	createUserFn  func(email, username string) (*models.User, error)
	getUsersFn    func(page pagination.PageRequest) (*pagination.PageResponse[models.User], error)
	getUserByIDFn func(id uint) (*models.User, error)
	updateUserFn  func(id uint, email, username string) (*models.User, error)
	deleteUserFn  func(id uint) error
}

func (m *mockUserService) CreateUser(_ context.Context, email, username string) (*models.User, error) {
	if m.createUserFn != nil {
		return m.createUserFn(email, username)
	}
	return &models.User{Base: models.Base{ID: 1}, Email: email, Username: username}, nil
}

func (m *mockUserService) GetUsers(_ context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
	if m.getUsersFn != nil {
		return m.getUsersFn(page)
	}
	resp := pagination.NewPageResponse([]models.User{}, 0, pagination.DefaultLimit, 0)
	return &resp, nil
}

func (m *mockUserService) GetUserByID(_ context.Context, id uint) (*models.User, error) {
	if m.getUserByIDFn != nil {
		return m.getUserByIDFn(id)
	}
	return &models.User{Base: models.Base{ID: id}}, nil
}

func (m *mockUserService) UpdateUser(_ context.Context, id uint, email, username string) (*models.User, error) {
	if m.updateUserFn != nil {
		return m.updateUserFn(id, email, username)
	}
	return &models.User{Base: models.Base{ID: id}, Email: email, Username: username}, nil
}

func (m *mockUserService) DeleteUser(_ context.Context, id uint) error {
	if m.deleteUserFn != nil {
		return m.deleteUserFn(id)
	}
	return nil
}

var _ services.UserServicer = (*mockUserService)(nil)

func setupUserRouter(mock *mockUserService, audit *mockAuditService) *gin.Engine {
	h := NewUserHandler(mock, audit)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	r.POST("/users", h.CreateUser)
	r.GET("/users", h.GetUsers)
	r.GET("/users/:id", h.GetUserByID)
	r.PUT("/users/:id", h.UpdateUser)
	r.DELETE("/users/:id", h.DeleteUser)
	return r
}

// --- CreateUser ---

func TestCreateUser_Success(t *testing.T) {
	audit := &mockAuditService{}
	r := setupUserRouter(&mockUserService{}, audit)

	rec := doRequest(r, http.MethodPost, "/users", `{"email":"test@example.com","username":"testuser"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	user, ok := parseJSON(t, rec)["user"].(map[string]interface{})
	if !ok {
		t.Fatal("expected user envelope")
	}
	if user["email"] != "test@example.com" || user["username"] != "testuser" {
		t.Errorf("unexpected user: %v", user)
	}
	if len(audit.entries) != 1 || audit.entries[0].action != "CREATE_USER" {
		t.Errorf("expected CREATE_USER audit entry, got %v", audit.entries)
	}
}

func TestCreateUser_InvalidBody(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing email", `{"username":"testuser"}`, "email"},
		{"malformed email", `{"email":"nope","username":"testuser"}`, "email"},
		{"missing username", `{"email":"test@example.com"}`, "username"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupUserRouter(&mockUserService{}, &mockAuditService{})

			rec := doRequest(r, http.MethodPost, "/users", tt.body)
			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("expected 422, got %d", rec.Code)
			}
			result := parseJSON(t, rec)
			assertErrorCode(t, result, "VALIDATION_FAILED")
			if errorDetails(t, result)[tt.field] == nil {
				t.Errorf("expected details.%s, got %v", tt.field, result)
			}
		})
	}
}

func TestCreateUser_Duplicates(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{apperrors.ErrDuplicateEmail, "DUPLICATE_EMAIL"},
		{apperrors.ErrDuplicateUsername, "DUPLICATE_USERNAME"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			mock := &mockUserService{
				createUserFn: func(string, string) (*models.User, error) { return nil, tt.err },
			}
			r := setupUserRouter(mock, &mockAuditService{})

			rec := doRequest(r, http.MethodPost, "/users", `{"email":"test@example.com","username":"testuser"}`)
			if rec.Code != http.StatusConflict {
				t.Fatalf("expected 409, got %d", rec.Code)
			}
			assertErrorCode(t, parseJSON(t, rec), tt.code)
		})
	}
}

// --- GetUsers / GetUserByID ---

func TestGetUsers_DefaultsPassThrough(t *testing.T) {
	var got pagination.PageRequest
	mock := &mockUserService{
		getUsersFn: func(page pagination.PageRequest) (*pagination.PageResponse[models.User], error) {
			got = page
			resp := pagination.NewPageResponse([]models.User{}, 0, pagination.DefaultLimit, 0)
			return &resp, nil
		},
	}
	r := setupUserRouter(mock, &mockAuditService{})

	rec := doRequest(r, http.MethodGet, "/users", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.Skip != 0 {
		t.Errorf("expected skip 0, got %d", got.Skip)
	}
	if data, ok := parseJSON(t, rec)["data"].([]interface{}); !ok || len(data) != 0 {
		t.Error("expected empty data array")
	}
}

func TestGetUsers_NegativeSkip(t *testing.T) {
	r := setupUserRouter(&mockUserService{}, &mockAuditService{})

	rec := doRequest(r, http.MethodGet, "/users?skip=-1", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestGetUserByID_NotFound(t *testing.T) {
	mock := &mockUserService{
		getUserByIDFn: func(uint) (*models.User, error) { return nil, apperrors.ErrUserNotFound },
	}
	r := setupUserRouter(mock, &mockAuditService{})

	rec := doRequest(r, http.MethodGet, "/users/99", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "USER_NOT_FOUND")
}

func TestGetUserByID_BadID(t *testing.T) {
	r := setupUserRouter(&mockUserService{}, &mockAuditService{})

	rec := doRequest(r, http.MethodGet, "/users/abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
}

// --- UpdateUser / DeleteUser ---

func TestUpdateUser_Success(t *testing.T) {
	r := setupUserRouter(&mockUserService{}, &mockAuditService{})

	rec := doRequest(r, http.MethodPut, "/users/3", `{"email":"new@example.com","username":"renamed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	user := parseJSON(t, rec)["user"].(map[string]interface{})
	if user["id"] != float64(3) || user["username"] != "renamed" {
		t.Errorf("unexpected user: %v", user)
	}
}

func TestDeleteUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := setupUserRouter(&mockUserService{}, &mockAuditService{})

		rec := doRequest(r, http.MethodDelete, "/users/3", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if msg := parseJSON(t, rec)["message"]; msg != "User deleted successfully" {
			t.Errorf("unexpected message %v", msg)
		}
	})

	t.Run("has dependents", func(t *testing.T) {
		mock := &mockUserService{
			deleteUserFn: func(uint) error { return apperrors.ErrUserHasDependents },
		}
		r := setupUserRouter(mock, &mockAuditService{})

		rec := doRequest(r, http.MethodDelete, "/users/3", "")
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "USER_HAS_DEPENDENTS")
	})
}
