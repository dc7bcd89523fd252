package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"hirewise-backend/internal/applications"
	googleauth "hirewise-backend/internal/auth"
	"hirewise-backend/internal/companies"
	"hirewise-backend/internal/interviews"
	"hirewise-backend/internal/queue"
	"hirewise-backend/internal/reminders"
	"hirewise-backend/internal/services/health"
	"hirewise-backend/internal/shared/auth"
	"hirewise-backend/internal/shared/config"
	"hirewise-backend/internal/shared/server"
	"hirewise-backend/internal/shared/server/middleware"
	"hirewise-backend/internal/shared/storage/db"
	"hirewise-backend/internal/users"
	"hirewise-backend/internal/workerproc"
)

// App holds shared dependencies for the API and worker processes.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client
	SQS    *queue.SQSClient
	Events *queue.Publisher

	UsersRepo      users.Repo
	InterviewsRepo interviews.Repo

	UsersService        *users.Service
	CompaniesService    *companies.Service
	ApplicationsService *applications.Service
	InterviewsService   *interviews.Service
	Health              *health.Service

	Reminders *reminders.Sweeper
	Notifier  *workerproc.Notifier
}

// Build connects infrastructure and wires every service and route.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if err := auth.Configure(cfg.JWTSecret, cfg.IsProduction()); err != nil {
		return nil, err
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var sqsClient *queue.SQSClient
	var queueClient queue.Client = queue.NopClient{}
	if strings.TrimSpace(cfg.SQSQueueURL) != "" {
		sqsClient, err = queue.NewSQSClient(ctx, cfg.SQSQueueURL, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		queueClient = sqsClient
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Redis:  buildRedis(cfg),
		SQS:    sqsClient,
		Events: queue.NewPublisher(queueClient),
		Health: health.NewService(),
	}
	buildServices(app)
	app.registerHealthChecks()

	var limiter middleware.Limiter
	if app.Redis != nil {
		limiter = middleware.NewRedisLimiter(app.Redis, nil)
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		UserHandler:        users.NewHandler(app.UsersService),
		CompanyHandler:     companies.NewHandler(app.CompaniesService),
		ApplicationHandler: applications.NewHandler(app.ApplicationsService),
		InterviewHandler:   interviews.NewHandler(app.InterviewsService),
		GoogleAuth: googleauth.NewGoogleService(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
			cfg.UIRedirectURL,
			app.UsersService,
		),
		Health:  app.Health,
		Limiter: limiter,
	})
	return app, nil
}

// Close releases connections opened by Build.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.ConnectWithRetry(ctx, cfg.DatabaseURL, opts, cfg.DBConnectAttempts, cfg.DBConnectDelay)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildRedis(cfg config.Config) *redis.Client {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr})
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	var (
		userRepo      users.Repo
		companyRepo   companies.Repo
		appRepo       applications.Repo
		interviewRepo interviews.Repo
	)
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
		companyRepo = &companies.PGRepo{DB: app.DB}
		appRepo = &applications.PGRepo{DB: app.DB}
		interviewRepo = &interviews.PGRepo{DB: app.DB}
	} else {
		memUsers := users.NewMemoryRepo()
		userRepo = memUsers
		companyRepo = companies.NewMemoryRepo(memUsers)
		appRepo = applications.NewMemoryRepo()
		interviewRepo = interviews.NewMemoryRepo()
	}

	userSvc := users.NewService(userRepo)
	companySvc := companies.NewService(companyRepo, userSvc, app.Config.BusinessTimezone)
	appSvc := applications.NewService(appRepo)
	interviewSvc := &interviews.Service{
		Repo:       interviewRepo,
		Apps:       appSvc,
		Users:      userSvc,
		Zones:      companySvc,
		Events:     app.Events,
		EditWindow: app.Config.FeedbackEditWindow,
	}
	// a decision needs completed-with-feedback evidence from interviews
	appSvc.Evidence = interviewSvc

	app.UsersRepo = userRepo
	app.InterviewsRepo = interviewRepo
	app.UsersService = userSvc
	app.CompaniesService = companySvc
	app.ApplicationsService = appSvc
	app.InterviewsService = interviewSvc
	app.Reminders = reminders.NewSweeper(interviewRepo, app.Events)
	app.Notifier = &workerproc.Notifier{Interviews: interviewSvc, Users: userSvc}
}

func (a *App) registerHealthChecks() {
	if a.DB != nil {
		a.Health.Register("postgres", a.DB.PingContext)
	}
	if a.Redis != nil {
		a.Health.Register("redis", func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		})
	}
}
