package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/shubhamtodkar06/Automate-recruitment/internal/cache"
	"github.com/shubhamtodkar06/Automate-recruitment/internal/config"
	"github.com/shubhamtodkar06/Automate-recruitment/internal/database"
	"github.com/shubhamtodkar06/Automate-recruitment/internal/events"
	"github.com/shubhamtodkar06/Automate-recruitment/internal/handler"
	"github.com/shubhamtodkar06/Automate-recruitment/internal/logger"
	"github.com/shubhamtodkar06/Automate-recruitment/internal/mailer"
	"github.com/shubhamtodkar06/Automate-recruitment/internal/resume"
	"github.com/shubhamtodkar06/Automate-recruitment/internal/scoring"
	"github.com/shubhamtodkar06/Automate-recruitment/internal/store"
	"github.com/shubhamtodkar06/Automate-recruitment/internal/workflow"
	"github.com/shubhamtodkar06/Automate-recruitment/internal/zoom"
)

type application struct {
	DB      *pgxpool.Pool
	Logger  *zap.Logger
	Config  *config.Config
	Handler *handler.Handler
}

func main() {
	ctx := context.Background()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, _ := logger.NewLogger(cfg.Env)
	defer log.Sync()
	sugar := log.Sugar()
	sugar.Infof("config loaded, env=%s store=%s", cfg.Env, cfg.Store.Driver)

	var (
		pool      *pgxpool.Pool
		roles     store.RoleStore
		analytics store.AnalyticsStore
		slots     store.SlotStore
	)
	switch cfg.Store.Driver {
	case "postgres":
		pool, err = database.Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			sugar.Fatal(err)
		}
		defer pool.Close()
		roles = store.NewPostgresRoleStore(pool)
		analytics = store.NewPostgresAnalyticsStore(pool)
		slots = store.NewPostgresSlotStore(pool)
	default:
		roles = store.NewJSONRoleStore(cfg.Store.DataDir)
		analytics = store.NewJSONAnalyticsStore(cfg.Store.DataDir)
		slots = store.NewJSONSlotStore(cfg.Store.DataDir)
	}

	var analyzer workflow.ResumeAnalyzer = scoring.StubAnalyzer{}
	if cfg.Scoring.Provider == "groq" {
		analyzer = scoring.NewGroqAnalyzer(cfg.Scoring.GroqKey, cfg.Scoring.GroqModel, roles, log)
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Redis.Enabled {
		rdb := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err := cache.Ping(ctx, rdb); err != nil {
			sugar.Warnf("redis unreachable, transition events disabled: %v", err)
		} else {
			publisher = events.NewRedisPublisher(rdb, log)
		}
	}

	deps := workflow.Deps{
		Roles:     roles,
		Analytics: analytics,
		Slots:     slots,
		Analyzer:  analyzer,
		Notifier:  mailer.New(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.Sender, cfg.Mail.Passkey, cfg.CompanyName),
		Scheduler: zoom.NewClient(cfg.Zoom.AccountID, cfg.Zoom.ClientID, cfg.Zoom.ClientSecret),
		Events:    publisher,
		Logger:    log,

		PassThreshold:   cfg.Workflow.PassThreshold,
		MaxReschedules:  cfg.Workflow.MaxReschedules,
		MeetingDuration: cfg.Zoom.MeetingDuration,
	}

	handlerApp := &handler.Handler{
		Logger:            log,
		Roles:             roles,
		Analytics:         analytics,
		Slots:             slots,
		Extractor:         resume.NewDocExtractor(cfg.Store.UploadsDir),
		WorkflowDeps:      deps,
		JwtSecret:         cfg.Admin.JwtSecret,
		JwtTTL:            cfg.Admin.JwtTTL,
		AdminPasswordHash: cfg.Admin.PasswordHash,
	}

	app := &application{
		DB:      pool,
		Logger:  log,
		Config:  cfg,
		Handler: handlerApp,
	}

	if err := app.serve(); err != nil {
		sugar.Fatal(err)
	}
}
