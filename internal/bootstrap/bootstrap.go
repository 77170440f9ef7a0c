package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/Nnadozi/kram-backend/internal/app/controllers"
	appMigrations "github.com/Nnadozi/kram-backend/internal/app/migrations"
	appRepos "github.com/Nnadozi/kram-backend/internal/app/repositories"
	appRoutes "github.com/Nnadozi/kram-backend/internal/app/routes"
	appServices "github.com/Nnadozi/kram-backend/internal/app/services"
	"github.com/Nnadozi/kram-backend/internal/app/store"
	"github.com/Nnadozi/kram-backend/internal/config"
	"github.com/Nnadozi/kram-backend/internal/db"
	appMiddleware "github.com/Nnadozi/kram-backend/internal/middleware"
	pkgAuth "github.com/Nnadozi/kram-backend/internal/pkg/auth"
	"github.com/Nnadozi/kram-backend/internal/pkg/email"
	"github.com/Nnadozi/kram-backend/internal/pkg/helpers"
	"github.com/Nnadozi/kram-backend/internal/pkg/logger"
	"github.com/Nnadozi/kram-backend/internal/pkg/websocket"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService     appServices.AuthService
	UserService     appServices.UserService
	GroupService    appServices.GroupService
	MeetupService   appServices.MeetupService
	MessageService  appServices.MessageService
	FeedbackService appServices.FeedbackService

	AuthController     *appControllers.AuthController
	UserController     *appControllers.UserController
	GroupController    *appControllers.GroupController
	MeetupController   *appControllers.MeetupController
	MessageController  *appControllers.MessageController
	FeedbackController *appControllers.FeedbackController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	UserStore      *store.UserStore
	Hub            *websocket.Hub
	ChatHandler    *websocket.Handler
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")
	return dbPool, nil
}

// startTokenCleanup prunes expired refresh tokens in the background so the
// table does not grow without bound
func startTokenCleanup(tokens *appRepos.TokenRepository, lgr zerolog.Logger) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			removed, err := tokens.DeleteExpired(ctx)
			cancel()
			if err != nil {
				lgr.Error().Err(err).Msg("Failed to prune expired refresh tokens")
				continue
			}
			if removed > 0 {
				lgr.Info().Int64("removed", removed).Msg("Pruned expired refresh tokens")
			}
		}
	}()
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	startTokenCleanup(deps.Repos.TokenRepository, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	// Profile cache shared by chat and the profile endpoints
	deps.UserStore = store.NewUserStore(deps.Repos.UserRepository, lgr)

	// Chat hub fans messages out to connected clients; the message handler
	// persists everything that passes through it
	deps.Hub = websocket.NewHub(lgr)
	go deps.Hub.Run()

	messageHandler := websocket.NewMessageHandler(deps.Repos.MessageRepository, deps.Hub, lgr)
	messageHandler.Start()

	deps.ChatHandler = websocket.NewHandler(deps.Hub, deps.Repos.MembershipRepository, deps.UserStore, lgr)

	emailService := email.NewEmailService(email.SMTPConfig{
		Host:       cfg.SMTP.Host,
		Port:       cfg.SMTP.Port,
		Username:   cfg.SMTP.Username,
		Password:   cfg.SMTP.Password,
		FromName:   cfg.SMTP.FromName,
		FromEmail:  cfg.SMTP.FromEmail,
		FeedbackTo: cfg.SMTP.FeedbackTo,
		UseTLS:     cfg.SMTP.Port == 465,
	}, lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)
	deps.UserService = appServices.NewUserService(
		deps.Repos.UserRepository,
		deps.Repos.MembershipRepository,
		deps.UserStore,
		lgr,
	)
	deps.GroupService = appServices.NewGroupService(
		deps.Repos.GroupRepository,
		deps.Repos.MembershipRepository,
		deps.Repos.UserRepository,
		deps.UserStore,
		lgr,
	)
	deps.MeetupService = appServices.NewMeetupService(
		deps.Repos.MeetupRepository,
		deps.Repos.MembershipRepository,
		lgr,
	)
	deps.MessageService = appServices.NewMessageService(
		deps.Repos.MessageRepository,
		deps.Repos.MembershipRepository,
		deps.UserStore,
		deps.Hub,
		lgr,
	)
	deps.FeedbackService = appServices.NewFeedbackService(
		deps.Repos.UserRepository,
		emailService,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.GroupController = appControllers.NewGroupController(deps.GroupService)
	deps.MeetupController = appControllers.NewMeetupController(deps.MeetupService)
	deps.MessageController = appControllers.NewMessageController(deps.MessageService)
	deps.FeedbackController = appControllers.NewFeedbackController(deps.FeedbackService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.Metrics())

	appRoutes.SetupSwagger(router)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.UserController,
		deps.GroupController,
		deps.MeetupController,
		deps.MessageController,
		deps.FeedbackController,
		deps.ChatHandler,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
