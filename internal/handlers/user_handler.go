package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cashmesh/internal/pagination"
	"cashmesh/internal/services"
	"cashmesh/internal/validator"
)

// UserHandler handles user-related requests.
type UserHandler struct {
	userService  services.UserServicer
	auditService services.AuditServicer
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService services.UserServicer, auditService services.AuditServicer) *UserHandler {
	return &UserHandler{userService: userService, auditService: auditService}
}

// UserRequest is the payload for creating or replacing a user.
type UserRequest struct {
	Email    string `json:"email" binding:"required,max=255,mailbox" example:"alice@example.com"`
	Username string `json:"username" binding:"required,max=50" example:"alice"`
}

// CreateUser handles the creation of a new user
// @Summary     Create a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body UserRequest true "User details"
// @Success     201 {object} models.User "User created"
// @Failure     409 {object} ErrorResponse "Email or username taken"
// @Failure     422 {object} ErrorResponse "Validation failed"
// @Router      /users/ [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(validator.BindingError(err))
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), req.Email, req.Username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), user.ID, "CREATE_USER", "user", user.ID, c.ClientIP(),
		map[string]interface{}{"email": user.Email, "username": user.Username})

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// GetUsers lists users
// @Summary     List users
// @Tags        users
// @Produce     json
// @Param       skip  query int false "Rows to skip" default(0)
// @Param       limit query int false "Page size (max 1000)" default(100)
// @Success     200 {object} pagination.PageResponse[models.User]
// @Failure     422 {object} ErrorResponse "Validation failed"
// @Router      /users/ [get]
func (h *UserHandler) GetUsers(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		_ = c.Error(validator.BindingError(err))
		return
	}

	result, err := h.userService.GetUsers(c.Request.Context(), page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetUserByID fetches a single user
// @Summary     Get user by ID
// @Tags        users
// @Produce     json
// @Param       id path int true "User ID"
// @Success     200 {object} models.User
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "User not found"
// @Router      /users/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateUser replaces a user's email and username
// @Summary     Update a user
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       id      path int         true "User ID"
// @Param       request body UserRequest true "User details"
// @Success     200 {object} models.User
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "Email or username taken"
// @Failure     422 {object} ErrorResponse "Validation failed"
// @Router      /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(validator.BindingError(err))
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), id, req.Email, req.Username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), user.ID, "UPDATE_USER", "user", user.ID, c.ClientIP(),
		map[string]interface{}{"email": user.Email, "username": user.Username})

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser deletes a user without categories or transactions
// @Summary     Delete a user
// @Tags        users
// @Produce     json
// @Param       id path int true "User ID"
// @Success     200 {object} MessageResponse
// @Failure     404 {object} ErrorResponse "User not found"
// @Failure     409 {object} ErrorResponse "User still owns data"
// @Router      /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(c.Request.Context(), id, "DELETE_USER", "user", id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "User deleted successfully"})
}
