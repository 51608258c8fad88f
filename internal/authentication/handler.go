package authentication

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mehmetcc/user-auth-service/internal/user"
	"github.com/mehmetcc/user-auth-service/internal/utils"
)

// RegisterRequest is the payload for self-registration.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8,max=16"`
}

// LoginRequest is the payload for logging in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=16"`
}

// MessageResponse carries a human readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// AuthHandler handles authentication-related HTTP endpoints.
type AuthHandler struct {
	router   *gin.RouterGroup
	service  AuthenticationService
	guard    *Guard
	cookies  CookieSettings
	messages *utils.Catalog
	logger   *zap.Logger
}

// NewAuthHandler registers auth endpoints on the given router group.
func NewAuthHandler(
	router *gin.RouterGroup,
	service AuthenticationService,
	guard *Guard,
	cookies CookieSettings,
	messages *utils.Catalog,
	logger *zap.Logger,
) *AuthHandler {
	h := &AuthHandler{
		router:   router,
		service:  service,
		guard:    guard,
		cookies:  cookies,
		messages: messages,
		logger:   logger,
	}
	h.router.POST("/register", h.Register)
	h.router.POST("/login", h.Login)
	h.router.POST("/refresh", h.Refresh)
	h.router.GET("/logout", h.guard.Authorize(), h.Logout)
	return h
}

func (h *AuthHandler) fail(c *gin.Context, status int, key utils.MessageKey) {
	c.JSON(status, gin.H{"error": h.messages.Message(key)})
}

func (h *AuthHandler) badRequest(c *gin.Context, err error) {
	body := gin.H{"error": h.messages.Message(utils.MsgInvalidBody)}
	if fields := utils.ValidationMessages(err); fields != nil {
		body["fields"] = fields
	}
	c.JSON(http.StatusBadRequest, body)
}

// Register godoc
// @Summary      Register
// @Description  Create an account and issue tokens as cookies
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      RegisterRequest  true  "Registration payload"
// @Success      201      {object}  user.User
// @Failure      400,409,500  {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register payload", zap.Error(err))
		h.badRequest(c, err)
		return
	}
	u, pair, err := h.service.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	key, invalid := user.ValidationMessageKey(err)
	switch {
	case err == nil:
		h.cookies.SetTokens(c, pair)
		c.JSON(http.StatusCreated, u)
	case errors.Is(err, user.ErrEmailAlreadyExists):
		h.fail(c, http.StatusConflict, utils.MsgEmailExists)
	case invalid:
		h.fail(c, http.StatusBadRequest, key)
	default:
		h.logger.Error("Register service failed", zap.Error(err))
		h.fail(c, http.StatusInternalServerError, utils.MsgInternal)
	}
}

// Login godoc
// @Summary      Login
// @Description  Authenticate user and issue tokens as cookies
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      LoginRequest  true  "Login credentials"
// @Success      200      {object}  MessageResponse
// @Failure      400,401,500  {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login payload", zap.Error(err))
		h.badRequest(c, err)
		return
	}
	pair, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		h.cookies.SetTokens(c, pair)
		c.JSON(http.StatusOK, MessageResponse{Message: h.messages.Message(utils.MsgLoginSucceeded)})
	case errors.Is(err, ErrInvalidCredentials):
		h.fail(c, http.StatusUnauthorized, utils.MsgInvalidCredentials)
	default:
		h.logger.Error("Login service failed", zap.Error(err))
		h.fail(c, http.StatusInternalServerError, utils.MsgInternal)
	}
}

// Refresh godoc
// @Summary      Refresh Token
// @Description  Rotate the refreshToken cookie and issue a new pair
// @Tags         auth
// @Produce      json
// @Success      200      {object}  TokenPair
// @Failure      401      {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	raw, err := c.Cookie(RefreshTokenCookie)
	if err != nil || raw == "" {
		h.fail(c, http.StatusUnauthorized, utils.MsgRefreshTokenMissing)
		return
	}
	pair, err := h.service.Refresh(c.Request.Context(), raw)
	if err != nil {
		// every cause collapses to the same 401
		h.fail(c, http.StatusUnauthorized, utils.MsgInvalidRefreshToken)
		return
	}
	h.cookies.SetTokens(c, pair)
	c.JSON(http.StatusOK, pair)
}

// Logout godoc
// @Summary      Logout
// @Description  Revoke the caller's refresh tokens and clear both cookies
// @Tags         auth
// @Produce      json
// @Success      200      {object}  MessageResponse
// @Failure      401,500  {object}  map[string]string
// @Router       /auth/logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		h.fail(c, http.StatusUnauthorized, utils.MsgAccessTokenMissing)
		return
	}
	err := h.service.Logout(c.Request.Context(), claims.Email)
	switch {
	case err == nil, errors.Is(err, user.ErrUserNotFound):
		h.cookies.ClearTokens(c)
		c.JSON(http.StatusOK, MessageResponse{Message: h.messages.Message(utils.MsgLogoutSucceeded)})
	default:
		h.logger.Error("Logout service failed", zap.Error(err))
		h.fail(c, http.StatusInternalServerError, utils.MsgInternal)
	}
}
