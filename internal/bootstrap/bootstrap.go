package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/yigit/collegeportal/internal/app/controllers"
	appMigrations "github.com/yigit/collegeportal/internal/app/migrations"
	appRoutes "github.com/yigit/collegeportal/internal/app/routes"
	appServices "github.com/yigit/collegeportal/internal/app/services"
	"github.com/yigit/collegeportal/internal/config"
	"github.com/yigit/collegeportal/internal/db"
	appMiddleware "github.com/yigit/collegeportal/internal/middleware"
	pkgAuth "github.com/yigit/collegeportal/internal/pkg/auth"
	"github.com/yigit/collegeportal/internal/pkg/email"
	"github.com/yigit/collegeportal/internal/pkg/genai"
	"github.com/yigit/collegeportal/internal/pkg/helpers"
	"github.com/yigit/collegeportal/internal/pkg/kvstore"
	"github.com/yigit/collegeportal/internal/pkg/logger"
	"github.com/yigit/collegeportal/internal/pkg/websocket"
	"github.com/yigit/collegeportal/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Portal         *appServices.Portal
	Hub            *websocket.Hub
	WSHandler      *websocket.Handler
	JWTService     *pkgAuth.JWTService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Logger         zerolog.Logger
}

// Storage is an opened collection store and whatever must be released with it
type Storage struct {
	Store *kvstore.Store
	pgDB  *db.PostgresDB
}

// Close closes the store, then any database pool behind it
func (s *Storage) Close() error {
	err := s.Store.Close()
	if s.pgDB != nil {
		s.pgDB.Close()
	}
	return err
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// OpenStorage connects the backend selected by storage.driver and seeds it on first use
func OpenStorage(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*Storage, error) {
	lgr.Info().Str("driver", cfg.Storage.Driver).Msg("Opening portal storage...")

	storage := &Storage{}
	var backend kvstore.Backend

	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		backend = kvstore.NewMemoryBackend()

	case config.StorageDriverEKV:
		b, err := kvstore.NewFileBackend(cfg.Storage.Path, cfg.Storage.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to open storage at %s: %w", cfg.Storage.Path, err)
		}
		backend = b

	case config.StorageDriverPostgres:
		pgDB, err := SetupDatabase(ctx, cfg, lgr)
		if err != nil {
			return nil, err
		}
		storage.pgDB = pgDB
		backend = kvstore.NewPostgresBackend(pgDB.Pool)

	case config.StorageDriverRedis:
		b, err := kvstore.NewRedisBackend(ctx, kvstore.RedisOptions{
			Addr:     cfg.Storage.Redis.Addr,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
			Prefix:   cfg.Storage.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		backend = b

	case config.StorageDriverMongo:
		b, err := kvstore.NewMongoBackend(ctx, cfg.Storage.Mongo.URI, cfg.Storage.Mongo.Database, cfg.Storage.Mongo.Collection)
		if err != nil {
			return nil, err
		}
		backend = b

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	storage.Store = kvstore.NewStore(backend, lgr)

	if _, err := seed.Bootstrap(ctx, storage.Store, lgr); err != nil {
		// the portal still works without the seeded admin
		lgr.Error().Err(err).Msg("Failed to seed storage, proceeding anyway...")
	}

	lgr.Info().Str("driver", cfg.Storage.Driver).Msg("Portal storage ready.")
	return storage, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.Migrate(ctx); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	return database, nil
}

// BuildDependencies initializes the portal, its collaborators and the controllers.
func BuildDependencies(ctx context.Context, cfg *config.Config, store *kvstore.Store, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}

	deps.Hub = websocket.NewHub(lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		SessionTokenExp: helpers.ParseDuration(cfg.JWT.SessionTokenExpiration, 720*time.Hour),
		ResetTokenExp:   helpers.ParseDuration(cfg.JWT.ResetTokenExpiration, 30*time.Minute),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	mailer := email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
	}, lgr)

	var gateway genai.Gateway
	client := genai.NewClient(genai.Config{
		APIKey:     cfg.AI.APIKey,
		BaseURL:    cfg.AI.BaseURL,
		TextModel:  cfg.AI.TextModel,
		ImageModel: cfg.AI.ImageModel,
		Timeout:    helpers.ParseDuration(cfg.AI.Timeout, time.Minute),
		RateLimit:  cfg.AI.RateLimit,
	}, lgr)
	if client.Configured() {
		gateway = client
	} else {
		lgr.Warn().Msg("AI API key not set, assistant features will answer with a notice")
	}

	deps.Portal = appServices.NewPortal(ctx, store, appServices.PortalOptions{
		Logger:            lgr,
		Gateway:           gateway,
		Capabilities:      cfg.Capabilities,
		Pusher:            deps.Hub,
		Mailer:            mailer,
		JWT:               deps.JWTService,
		BaseURL:           cfg.Server.BaseURL,
		VerifyPasswords:   cfg.Auth.VerifyPasswords,
		ActiveSessionOnly: cfg.Notifications.ActiveSessionOnly,
	})

	deps.WSHandler = websocket.NewHandler(
		deps.Hub,
		websocket.NewMessageHandler(deps.Portal.Chat, lgr),
		cfg.Server.CORSOrigins,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Portal.Session)

	p := deps.Portal
	deps.Controllers = appRoutes.Controllers{
		Auth:      appControllers.NewAuthController(p.Session, deps.JWTService, lgr),
		Users:     appControllers.NewUserController(p.Social, lgr),
		Chat:      appControllers.NewChatController(p.Chat, lgr),
		Content:   appControllers.NewContentController(p.Content, lgr),
		Stories:   appControllers.NewStoryController(p.Stories, lgr),
		Portal:    appControllers.NewPortalController(p.Notifications, p.Search, p.Feed),
		Assistant: appControllers.NewAssistantController(p.Assistant, lgr),
		Admin:     appControllers.NewAdminController(p.Admin, lgr),
	}

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
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
	router.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))

	appRoutes.SetupRouter(router, deps.Controllers, deps.WSHandler, deps.AuthMiddleware)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Test endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		c.AllowCredentials = false
	} else {
		c.AllowOrigins = origins
	}
	return c
}
