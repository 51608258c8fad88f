package authentication

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	accessCookieMaxAge  = 15 * time.Minute
	refreshCookieMaxAge = 30 * 24 * time.Hour
)

// CookieSettings holds the flags shared by both token cookies.
type CookieSettings struct {
	Secure bool
}

func (s CookieSettings) set(c *gin.Context, name, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s CookieSettings) SetTokens(c *gin.Context, pair TokenPair) {
	s.set(c, AccessTokenCookie, pair.AccessToken, int(accessCookieMaxAge.Seconds()))
	s.set(c, RefreshTokenCookie, pair.RefreshToken, int(refreshCookieMaxAge.Seconds()))
}

func (s CookieSettings) ClearTokens(c *gin.Context) {
	s.set(c, AccessTokenCookie, "", -1)
	s.set(c, RefreshTokenCookie, "", -1)
}
