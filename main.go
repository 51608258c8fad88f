package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/mehmetcc/user-auth-service/docs"
	"github.com/mehmetcc/user-auth-service/internal/authentication"
	"github.com/mehmetcc/user-auth-service/internal/lock"
	"github.com/mehmetcc/user-auth-service/internal/server"
	"github.com/mehmetcc/user-auth-service/internal/user"
	"github.com/mehmetcc/user-auth-service/internal/utils"
)

//go:generate swag init --parseInternal

// @title           User Auth Service API
// @version         1.0
// @description     Registration, cookie-based login with rotating refresh tokens, and admin user management.
//
// @host      localhost:3000
// @BasePath  /
func main() {
	// load config
	cfg, err := utils.LoadConfig(".env")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// init logger
	logger, err := utils.NewLogger(cfg.Server.Environment)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// init database
	db, err := utils.InitDatabase(cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("failed to connect to the database", zap.Error(err))
	}
	if err := db.AutoMigrate(&user.User{}, &authentication.RefreshTokenRecord{}); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}

	// per-user lock: redis when configured, in-process otherwise
	var locker lock.Locker = lock.NewLocal()
	if cfg.Redis.Enabled() {
		rdb, err := lock.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		locker = lock.NewRedis(rdb, cfg.Redis.LockTTL, logger)
		logger.Info("using redis lock", zap.String("addr", cfg.Redis.Addr))
	}

	//
	// WIRE UP SERVICES
	//
	messages := utils.NewCatalog(cfg.Server.Locale)
	hasher := utils.NewBcryptHasher(cfg.Token.BcryptCost)
	signer := utils.NewJWTSigner(cfg.Token.Secret)

	userService := user.NewService(user.NewRepository(db), hasher, logger)
	authService := authentication.NewAuthenticationService(
		userService,
		authentication.NewRecordRepository(db),
		signer,
		hasher,
		locker,
		logger,
		authentication.TokenSettings{
			AccessTTL:  cfg.Token.AccessTokenTTL,
			RefreshTTL: cfg.Token.RefreshTokenTTL,
		},
	)

	deps := server.Dependencies{
		Users:          userService,
		Auth:           authService,
		Guard:          authentication.NewGuard(signer, messages, logger),
		Cookies:        authentication.CookieSettings{Secure: cfg.Cookie.Secure},
		Messages:       messages,
		Logger:         logger,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	}
	if cfg.Admin.Username != "" && cfg.Admin.Password != "" {
		deps.SwaggerAccounts = gin.Accounts{cfg.Admin.Username: cfg.Admin.Password}
	}
	router := server.NewRouter(deps)

	//
	// START SERVER
	//
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("starting HTTP server", zap.String("addr", addr), zap.String("locale", messages.Locale().String()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped gracefully")
	}
}
