package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/income-report-api/infrastructure/repository"
	"github.com/vfg2006/income-report-api/internal/config"
	"github.com/vfg2006/income-report-api/internal/domain"
	"github.com/vfg2006/income-report-api/internal/observability/metrics"
)

const probeTimeout = 10 * time.Second

// SourceProber é o que as rotas de administração e o healthcheck enxergam do agendador
type SourceProber interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// SourceProbeConfig representa a configuração da verificação das views de receita
type SourceProbeConfig struct {
	CronSchedule string
	Enabled      bool
}

// SourceStatus é o resultado da última verificação de uma view
type SourceStatus struct {
	Source    domain.RevenueSource `json:"source"`
	Up        bool                 `json:"up"`
	CheckedAt time.Time            `json:"checked_at"`
	Error     string               `json:"error,omitempty"`
}

// SourceProbeService confere periodicamente se as views de receita respondem,
// para o painel saber quando os relatórios vão sair com dados de contingência
type SourceProbeService struct {
	scheduler       *gocron.Scheduler
	config          SourceProbeConfig
	revenueRepo     repository.RevenueRepository
	probeRunning    bool
	probeMutex      sync.Mutex
	lastStartedAt   time.Time
	lastCompletedAt time.Time
	results         map[domain.RevenueSource]SourceStatus
	now             func() time.Time
}

// NewSourceProbeService cria uma nova instância do serviço de verificação das fontes
func NewSourceProbeService(revenueRepo repository.RevenueRepository, appConfig *config.Config) *SourceProbeService {
	probeConfig := SourceProbeConfig{
		CronSchedule: appConfig.SourceProbe.CronSchedule,
		Enabled:      appConfig.SourceProbe.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": probeConfig.CronSchedule,
		"probe_enabled": probeConfig.Enabled,
	}).Info("Configuração da verificação das fontes de receita carregada")

	return &SourceProbeService{
		scheduler:   gocron.NewScheduler(time.Local),
		config:      probeConfig,
		revenueRepo: revenueRepo,
		results:     map[domain.RevenueSource]SourceStatus{},
		now:         time.Now,
	}
}

// Start inicia o agendador
func (s *SourceProbeService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Verificação das fontes de receita desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de verificação das fontes de receita")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.ProbeSources(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar verificação das fontes de receita: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de verificação das fontes de receita")
		s.scheduler.Stop()
	}()

	return nil
}

// ProbeSources consulta cada view numa única conexão e guarda o resultado.
// Devolve false se outra verificação já estava em andamento.
func (s *SourceProbeService) ProbeSources(ctx context.Context) bool {
	s.probeMutex.Lock()
	if s.probeRunning {
		s.probeMutex.Unlock()
		logrus.Info("Verificação das fontes já em andamento, ignorando")
		return false
	}
	s.probeRunning = true
	s.lastStartedAt = s.now()
	s.probeMutex.Unlock()

	defer func() {
		s.probeMutex.Lock()
		s.probeRunning = false
		s.lastCompletedAt = s.now()
		s.probeMutex.Unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	sources := []domain.RevenueSource{domain.SourceIncome365, domain.SourceIncomeDMS}
	results := make(map[domain.RevenueSource]SourceStatus, len(sources))

	err := s.revenueRepo.WithConn(ctx, func(q repository.RevenueQuerier) error {
		for _, source := range sources {
			status := SourceStatus{Source: source, Up: true, CheckedAt: s.now()}
			if err := q.Ping(ctx, source); err != nil {
				status.Up = false
				status.Error = err.Error()
			}
			results[source] = status
		}
		return nil
	})
	if err != nil {
		logrus.WithError(err).Warn("Sem conexão para verificar as fontes de receita")
		for _, source := range sources {
			results[source] = SourceStatus{Source: source, Up: false, CheckedAt: s.now(), Error: err.Error()}
		}
	}

	for source, status := range results {
		metrics.SetSourceUp(string(source), status.Up)
		if !status.Up {
			logrus.WithFields(logrus.Fields{
				"source": source,
				"error":  status.Error,
			}).Warn("Fonte de receita indisponível")
		}
	}

	s.probeMutex.Lock()
	s.results = results
	s.probeMutex.Unlock()

	return true
}

// TriggerManualSync inicia manualmente uma verificação em segundo plano
func (s *SourceProbeService) TriggerManualSync() bool {
	s.probeMutex.Lock()
	running := s.probeRunning
	s.probeMutex.Unlock()

	if running {
		logrus.Info("Verificação das fontes já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando verificação manual das fontes de receita")
	go s.ProbeSources(context.Background())
	return true
}

// Sources devolve o último resultado de cada fonte, em ordem de nome
func (s *SourceProbeService) Sources() []SourceStatus {
	s.probeMutex.Lock()
	defer s.probeMutex.Unlock()

	sources := make([]SourceStatus, 0, len(s.results))
	for _, status := range s.results {
		sources = append(sources, status)
	}
	sort.Slice(sources, func(i, j int) bool {
		return sources[i].Source < sources[j].Source
	})
	return sources
}

// GetStatus retorna o status atual do agendador
func (s *SourceProbeService) GetStatus() map[string]any {
	sources := s.Sources()

	s.probeMutex.Lock()
	defer s.probeMutex.Unlock()

	return map[string]any{
		"probe_enabled":           s.config.Enabled,
		"probe_cron":              s.config.CronSchedule,
		"probe_running":           s.probeRunning,
		"last_probe_started_at":   s.lastStartedAt,
		"last_probe_completed_at": s.lastCompletedAt,
		"sources":                 sources,
	}
}
