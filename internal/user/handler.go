package user

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mehmetcc/user-auth-service/internal/utils"
)

// CreateUserRequest represents the payload for creating a new user.
// @Description payload to create a user
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=16"`
}

// UpdateUserRequest represents a partial update; omitted fields are kept.
// @Description payload to update a user
type UpdateUserRequest struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Name     *string `json:"name" binding:"omitempty,min=1"`
	Password *string `json:"password" binding:"omitempty,min=8,max=16"`
	Role     *Role   `json:"role" binding:"omitempty,oneof=SYSTEM CUSTOMER ADMIN"`
	IsActive *bool   `json:"isActive"`
}

func (r UpdateUserRequest) fields() UpdateFields {
	return UpdateFields{
		Email:    r.Email,
		Name:     r.Name,
		Password: r.Password,
		Role:     r.Role,
		IsActive: r.IsActive,
	}
}

// IDRequest represents a URI ID parameter.
type IDRequest struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// Handler serves the admin-only user endpoints.
type Handler struct {
	router   *gin.RouterGroup
	service  Service
	messages *utils.Catalog
	logger   *zap.Logger
}

// NewHandler registers user endpoints on the given router group. The group is
// expected to carry the ADMIN guard already.
func NewHandler(router *gin.RouterGroup, service Service, messages *utils.Catalog, logger *zap.Logger) *Handler {
	h := &Handler{router: router, service: service, messages: messages, logger: logger}
	h.router.GET("/:id", h.ReadUserByID)
	h.router.POST("/create", h.CreateUser)
	h.router.PUT("/update/:id", h.UpdateUser)
	h.router.DELETE("/delete/:id", h.DeleteUser)
	return h
}

func (h *Handler) bindID(c *gin.Context) (string, bool) {
	var uri IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": h.messages.Message(utils.MsgInvalidID)})
		return "", false
	}
	return uri.ID, true
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	body := gin.H{"error": h.messages.Message(utils.MsgInvalidBody)}
	if fields := utils.ValidationMessages(err); fields != nil {
		body["fields"] = fields
	}
	c.JSON(http.StatusBadRequest, body)
}

// ValidationMessageKey reports the catalog key for a field validation error
// raised by the service.
func ValidationMessageKey(err error) (utils.MessageKey, bool) {
	switch {
	case errors.Is(err, ErrInvalidEmailFormat):
		return utils.MsgInvalidEmail, true
	case errors.Is(err, ErrInvalidRole):
		return utils.MsgInvalidRole, true
	case errors.Is(err, ErrPasswordBlank):
		return utils.MsgPasswordBlank, true
	case errors.Is(err, ErrPasswordTooShort):
		return utils.MsgPasswordTooShort, true
	case errors.Is(err, ErrPasswordTooLong):
		return utils.MsgPasswordTooLong, true
	}
	return "", false
}

// writeError maps directory errors to status codes.
func (h *Handler) writeError(c *gin.Context, op string, err error) {
	if key, ok := ValidationMessageKey(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": h.messages.Message(key)})
		return
	}
	switch {
	case errors.Is(err, ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": h.messages.Message(utils.MsgUserNotFound)})
	case errors.Is(err, ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": h.messages.Message(utils.MsgEmailExists)})
	default:
		h.logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": h.messages.Message(utils.MsgInternal)})
	}
}

// ReadUserByID godoc
// @Summary      Get user by ID
// @Tags         user
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  User
// @Failure      400,401,403,404  {object}  map[string]string
// @Router       /user/{id} [get]
func (h *Handler) ReadUserByID(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	u, err := h.service.FindByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "service.FindByID", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// CreateUser godoc
// @Summary      Create user
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        payload  body      CreateUserRequest  true  "User payload"
// @Success      201      {object}  User
// @Failure      400,401,403,409  {object}  map[string]string
// @Router       /user/create [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create payload", zap.Error(err))
		h.badRequest(c, err)
		return
	}
	u, err := h.service.Create(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		h.writeError(c, "service.Create", err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// UpdateUser godoc
// @Summary      Update user
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        id       path      string             true  "User ID"
// @Param        payload  body      UpdateUserRequest  true  "Fields to change"
// @Success      200      {object}  User
// @Failure      400,401,403,404,409  {object}  map[string]string
// @Router       /user/update/{id} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update payload", zap.Error(err))
		h.badRequest(c, err)
		return
	}
	u, err := h.service.Update(c.Request.Context(), id, req.fields())
	if err != nil {
		h.writeError(c, "service.Update", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DeleteUser godoc
// @Summary      Deactivate user
// @Description  Soft delete: the user is kept with isActive=false
// @Tags         user
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  User
// @Failure      400,401,403,404  {object}  map[string]string
// @Router       /user/delete/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := h.bindID(c)
	if !ok {
		return
	}
	u, err := h.service.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, "service.Deactivate", err)
		return
	}
	c.JSON(http.StatusOK, u)
}
