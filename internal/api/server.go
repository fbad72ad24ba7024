package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/vfg2006/income-report-api/internal/api/handler"
	"github.com/vfg2006/income-report-api/internal/api/handler/router"
	"github.com/vfg2006/income-report-api/internal/config"
	"github.com/vfg2006/income-report-api/internal/observability/metrics"
	"github.com/vfg2006/income-report-api/internal/scheduler"
	"github.com/vfg2006/income-report-api/internal/session"
	"github.com/vfg2006/income-report-api/internal/usecases/account"
	"github.com/vfg2006/income-report-api/internal/usecases/authenticating"
	"github.com/vfg2006/income-report-api/internal/usecases/reporting"
	"github.com/vfg2006/income-report-api/pkg/log"
	"github.com/vfg2006/income-report-api/pkg/middleware"
)

// Services reúne os casos de uso expostos pela API
type Services struct {
	Authenticator authenticating.Authenticator
	Accounts      account.AccountService
	Reporter      reporting.Reporter
	SourceProber  scheduler.SourceProber
	Sessions      *session.Store
}

const shutdownTimeout = 15 * time.Second

type closer struct {
	name string
	fn   func(context.Context) error
}

type Server struct {
	httpServer *http.Server
	closers    []closer
}

func New(config *config.Config, services Services) (*Server, error) {
	if services.Authenticator == nil || services.Accounts == nil || services.Reporter == nil || services.Sessions == nil {
		return nil, errors.New("serviços obrigatórios da API não informados")
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, services),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}, nil
}

// NewHandler monta o router com a cadeia global de middlewares
func NewHandler(config *config.Config, services Services) http.Handler {
	rt := router.New(
		router.WithRoutes(handler.Healthcheck(services.SourceProber)...),
		router.WithRoutes(router.Route{Path: "/metrics", Method: http.MethodGet, Handler: promhttp.Handler()}),
		router.WithRoutes(handler.Authentication(services.Authenticator, services.Sessions)...),
		router.WithRoutes(handler.Users(services.Accounts)...),
		router.WithRoutes(handler.Reports(services.Reporter)...),
		router.WithRoutes(handler.Probes(services.SourceProber)...),
		router.WithNotFound(handler.StaticHandler(config.Server.StaticDir)),
	)

	// Sem a verificação o token vale até expirar, mesmo com a conta desativada
	var checker middleware.ActiveChecker
	if config.Auth.VerifyActive {
		checker = services.Authenticator
	}

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		metrics.HTTPMetricsMiddleware,
		middleware.Cors(config.Server.AllowedOrigins),
		middleware.AccessGate(services.Sessions, checker),
	}

	return otelhttp.NewHandler(alice.New(middlewares...).Then(rt), "income-report-api")
}

// OnShutdown registra uma limpeza executada depois que o HTTP para de aceitar requisições
func (s *Server) OnShutdown(name string, fn func(context.Context) error) {
	s.closers = append(s.closers, closer{name: name, fn: fn})
}

func (s *Server) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)

	go func() {
		log.L.WithField("address", s.httpServer.Addr).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.L.WithError(err).Error("Erro durante a execução do servidor")
			serveErr <- err
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(done)

	select {
	case <-done:
		log.L.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		log.L.Info("Contexto de aplicação cancelado")
	case err := <-serveErr:
		s.runClosers(context.Background())
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	log.L.WithField("timeout", shutdownTimeout.String()).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.L.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	log.L.Info("Servidor desligado com sucesso")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.runClosers(ctx)
	return err
}

// runClosers executa as limpezas na ordem inversa do registro
func (s *Server) runClosers(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		c := s.closers[i]
		if err := c.fn(ctx); err != nil {
			log.L.WithError(err).Warnf("Erro ao encerrar %s", c.name)
		}
	}
}
