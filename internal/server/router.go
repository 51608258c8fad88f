// Package server assembles the gin engine from the wired services.
package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/mehmetcc/user-auth-service/internal/authentication"
	"github.com/mehmetcc/user-auth-service/internal/user"
	"github.com/mehmetcc/user-auth-service/internal/utils"
)

type Dependencies struct {
	Users          user.Service
	Auth           authentication.AuthenticationService
	Guard          *authentication.Guard
	Cookies        authentication.CookieSettings
	Messages       *utils.Catalog
	Logger         *zap.Logger
	AllowedOrigins []string
	// SwaggerAccounts enables /swagger behind basic auth when non-empty.
	SwaggerAccounts gin.Accounts
}

const defaultOrigin = "http://localhost:3000"

func NewRouter(deps Dependencies) *gin.Engine {
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{defaultOrigin}
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		utils.RequestID(),
		utils.RequestLogger(deps.Logger),
		cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", utils.RequestIDHeader},
			ExposeHeaders:    []string{utils.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if len(deps.SwaggerAccounts) > 0 {
		swaggerGroup := router.Group("/swagger", gin.BasicAuth(deps.SwaggerAccounts))
		swaggerGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authentication.NewAuthHandler(
		router.Group("/auth"),
		deps.Auth,
		deps.Guard,
		deps.Cookies,
		deps.Messages,
		deps.Logger,
	)

	adminGroup := router.Group("/user", deps.Guard.Authorize(user.Admin))
	user.NewHandler(adminGroup, deps.Users, deps.Messages, deps.Logger)

	return router
}
