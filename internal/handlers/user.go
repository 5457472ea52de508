package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"vacationManagement/internal/users"
	"vacationManagement/internal/vacation"
	"vacationManagement/models"
)

// UserService is the administration service used by UserHandler.
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmployeeCode(ctx context.Context, code int64) (*models.User, error)
	Create(ctx context.Context, in users.CreateInput) (*models.User, error)
	Update(ctx context.Context, id int64, in users.UpdateInput) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

// UserHandler exposes user administration over HTTP.
type UserHandler struct {
	users UserService
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// employeeCode accepts a JSON number or a string of digits. Anything else
// decodes to 0, which fails the 7-digit check downstream.
type employeeCode int64

func (e *employeeCode) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	*e = 0
	for _, b := range data {
		if b < '0' || b > '9' {
			return nil
		}
	}
	if v, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*e = employeeCode(v)
	}
	return nil
}

// UserRequest is the payload of POST and PUT /api/users.
type UserRequest struct {
	Name         *string       `json:"name"`
	Email        *string       `json:"email"`
	Password     *string       `json:"password"`
	Role         *string       `json:"role"`
	EmployeeCode *employeeCode `json:"employee_code"`
}

func (r UserRequest) input() users.CreateInput {
	in := users.CreateInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     r.Role,
	}
	if r.EmployeeCode != nil {
		code := int64(*r.EmployeeCode)
		in.EmployeeCode = &code
	}
	return in
}

// List returns all users, or the single user matching ?email= or ?employee_code=.
func (h *UserHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	if email, ok := c.GetQuery("email"); ok {
		u, err := h.users.FindByEmail(ctx, email)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, []models.User{*u})
		return
	}
	if raw, ok := c.GetQuery("employee_code"); ok {
		// Unparseable codes become 0 and fail validation after the role check.
		code, _ := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		u, err := h.users.FindByEmployeeCode(ctx, code)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, []models.User{*u})
		return
	}

	list, err := h.users.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Get returns one user.
func (h *UserHandler) Get(c *gin.Context) {
	id, err := vacation.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Create adds a user.
func (h *UserHandler) Create(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid JSON")
		return
	}
	u, err := h.users.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// Update changes the supplied fields of a user.
func (h *UserHandler) Update(c *gin.Context) {
	id, err := vacation.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid JSON")
		return
	}
	u, err := h.users.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// Delete removes a user.
func (h *UserHandler) Delete(c *gin.Context) {
	id, err := vacation.ParseID(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, "User deleted")
}
