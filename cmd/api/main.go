package main

import (
	"context"
	"time"

	"github.com/vfg2006/income-report-api/infrastructure/database/postgres"
	"github.com/vfg2006/income-report-api/infrastructure/repository"
	"github.com/vfg2006/income-report-api/internal/api"
	"github.com/vfg2006/income-report-api/internal/config"
	"github.com/vfg2006/income-report-api/internal/observability/tracing"
	"github.com/vfg2006/income-report-api/internal/ratelimit"
	"github.com/vfg2006/income-report-api/internal/scheduler"
	"github.com/vfg2006/income-report-api/internal/session"
	"github.com/vfg2006/income-report-api/internal/usecases/account"
	"github.com/vfg2006/income-report-api/internal/usecases/authenticating"
	"github.com/vfg2006/income-report-api/internal/usecases/reporting"
	"github.com/vfg2006/income-report-api/pkg/credential"
	"github.com/vfg2006/income-report-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.L.Fatal(err)
	}

	log.Configure(cfg.App.Env, cfg.App.LogLevel)
	log.L.Infof("Nível de log configurado para: %s", cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, cfg.Telemetry.OTLPEndpoint, cfg.Telemetry.ServiceName, cfg.App.Env)
	if err != nil {
		log.L.WithError(err).Warn("Erro ao iniciar tracing, seguindo sem exportador")
		shutdownTracing = func(context.Context) error { return nil }
	}

	pgConn := pgconn(ctx, cfg.Database)

	userRepo := repository.NewUserRepository(pgConn)
	revenueRepo := repository.NewRevenueRepository(pgConn)

	hasher := credential.NewBcryptHasher(cfg.Auth.BcryptCost)

	authenticator := authenticating.NewService(userRepo, hasher)
	if limiter := loginLimiter(ctx, cfg); limiter != nil {
		authenticator.WithLimiter(limiter)
	}

	accountService := account.NewService(userRepo, hasher)
	reportService := reporting.NewService(cfg, revenueRepo)

	sourceProbeService := scheduler.NewSourceProbeService(revenueRepo, cfg)
	if err := sourceProbeService.Start(ctx); err != nil {
		log.L.WithError(err).Error("Erro ao iniciar o agendador de verificação das fontes de receita")
	}

	codec := session.NewTokenCodec(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	sessions := session.NewStore(codec, session.StoreOptions{
		CookieName: cfg.Auth.CookieName,
		Secure:     cfg.IsProduction(),
	})

	server, err := api.New(cfg, api.Services{
		Authenticator: authenticator,
		Accounts:      accountService,
		Reporter:      reportService,
		SourceProber:  sourceProbeService,
		Sessions:      sessions,
	})
	if err != nil {
		log.L.Fatal(err)
	}

	server.OnShutdown("postgres", func(context.Context) error { return pgConn.Close() })
	server.OnShutdown("tracing", shutdownTracing)

	if err := server.Run(ctx); err != nil {
		log.L.Error(err)
	}
}

// pgconn cria o pool do PostgreSQL. Banco fora do ar na subida não impede o
// servidor de iniciar: os relatórios respondem com dados de contingência.
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(dbConfig)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao configurar o PostgreSQL")
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := conn.Ping(pingCtx); err != nil {
		log.L.WithError(err).Warn("PostgreSQL indisponível na subida, os relatórios usarão dados de contingência")
		return conn
	}

	log.L.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}

// loginLimiter só liga o limite de tentativas quando REDIS_URL está definido
func loginLimiter(ctx context.Context, cfg *config.Config) authenticating.LoginLimiter {
	if cfg.Redis.URL == "" {
		log.L.Info("Limite de tentativas de login desabilitado: REDIS_URL não definido")
		return nil
	}

	client, err := ratelimit.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		log.L.WithError(err).Warn("Redis indisponível, limite de tentativas de login desabilitado")
		return nil
	}

	log.L.Info("Limite de tentativas de login habilitado")
	return ratelimit.NewLoginLimiter(client, cfg.LoginThrottle.MaxAttempts, cfg.LoginThrottle.Window)
}
