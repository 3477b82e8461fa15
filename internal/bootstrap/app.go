package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "jobtrack-backend/internal/auth"
	"jobtrack-backend/internal/coverletters"
	"jobtrack-backend/internal/genstream"
	"jobtrack-backend/internal/jobs"
	"jobtrack-backend/internal/llm"
	openai "jobtrack-backend/internal/llm/openai"
	"jobtrack-backend/internal/profiles"
	"jobtrack-backend/internal/resumes"
	"jobtrack-backend/internal/sections"
	"jobtrack-backend/internal/services/health"
	"jobtrack-backend/internal/shared/authz"
	"jobtrack-backend/internal/shared/config"
	"jobtrack-backend/internal/shared/server"
	"jobtrack-backend/internal/shared/storage/db"
	"jobtrack-backend/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	ProfilesRepo     profiles.Repo
	ResumesRepo      resumes.Repo
	SectionsRepo     sections.Repo
	JobsRepo         jobs.Repo
	CoverLettersRepo coverletters.Repo
	UsersRepo        users.Repo

	Authorizer          *authz.Authorizer
	ProfilesService     *profiles.Service
	ResumesService      *resumes.Service
	SectionsService     *sections.Service
	SectionResolver     *sections.Resolver
	JobsService         *jobs.Service
	CoverLettersService *coverletters.Service
	UsersService        *users.Service
	GenController       *genstream.Controller

	GoogleAuth *googleauth.GoogleService
}

// Build prepares shared dependencies and the wired router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:              cfg,
		Health:              health.NewService(sqlDB),
		ProfilesHandler:     profiles.NewHandler(app.ProfilesService),
		ResumesHandler:      resumes.NewHandler(app.ResumesService),
		SectionsHandler:     sections.NewHandler(app.SectionsService),
		JobsHandler:         jobs.NewHandler(app.JobsService),
		CoverLettersHandler: coverletters.NewHandler(app.CoverLettersService),
		GenerateHandler:     genstream.NewHandler(app.GenController, app.JobsService, app.CoverLettersService),
		UsersHandler:        users.NewHandler(app.UsersService),
		GoogleAuth:          app.GoogleAuth,
	})
	return app, nil
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
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.ProfilesRepo = &profiles.PGRepo{DB: app.DB}
		app.ResumesRepo = &resumes.PGRepo{DB: app.DB}
		app.SectionsRepo = &sections.PGRepo{DB: app.DB}
		app.JobsRepo = &jobs.PGRepo{DB: app.DB}
		app.CoverLettersRepo = coverletters.NewPGRepo(app.DB)
		app.UsersRepo = &users.PGRepo{DB: app.DB}
	} else {
		sectionsRepo := sections.NewMemoryRepo()
		resumesRepo := resumes.NewMemoryRepo()
		resumesRepo.Sections = sectionsRepo

		app.ProfilesRepo = profiles.NewMemoryRepo()
		app.ResumesRepo = resumesRepo
		app.SectionsRepo = sectionsRepo
		app.JobsRepo = jobs.NewMemoryRepo()
		app.CoverLettersRepo = coverletters.NewMemoryRepo()
		app.UsersRepo = users.NewMemoryRepo()
	}

	app.Authorizer = &authz.Authorizer{
		Resumes: app.ResumesRepo,
		Jobs:    app.JobsRepo,
	}

	app.ProfilesService = &profiles.Service{Repo: app.ProfilesRepo}
	app.SectionResolver = &sections.Resolver{
		Repo:    app.SectionsRepo,
		Resumes: app.ResumesRepo,
		Auth:    app.Authorizer,
	}
	app.SectionsService = &sections.Service{
		Repo:     app.SectionsRepo,
		Resolver: app.SectionResolver,
		Auth:     app.Authorizer,
	}
	app.ResumesService = &resumes.Service{
		Repo:     app.ResumesRepo,
		Profiles: app.ProfilesService,
		Auth:     app.Authorizer,
	}
	app.JobsService = &jobs.Service{
		Repo: app.JobsRepo,
		Auth: app.Authorizer,
	}
	app.CoverLettersService = &coverletters.Service{
		Repo: app.CoverLettersRepo,
		Auth: app.Authorizer,
	}
	app.UsersService = users.NewService(app.UsersRepo)

	llmClient := llm.StreamClient(llm.PlaceholderClient{})
	if app.Config.LLMProvider == "openai" {
		client, err := openai.NewClient(app.Config.LLMAPIKey, app.Config.LLMModel, app.Config.LLMBaseURL)
		if err != nil {
			return err
		}
		llmClient = client
	}
	app.GenController = genstream.NewController(llmClient)

	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.UsersService,
	)
	return nil
}
