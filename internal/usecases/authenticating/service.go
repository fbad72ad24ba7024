package authenticating

import (
	"context"
	"strings"

	"github.com/vfg2006/income-report-api/infrastructure/repository"
	"github.com/vfg2006/income-report-api/internal/domain"
	"github.com/vfg2006/income-report-api/internal/observability/metrics"
	"github.com/vfg2006/income-report-api/pkg/apiErrors"
	"github.com/vfg2006/income-report-api/pkg/credential"
	"github.com/vfg2006/income-report-api/pkg/log"
)

//go:generate mockgen -source=service.go -destination=mocks/auth_mock.go -package=mocks

type Authenticator interface {
	Login(ctx context.Context, email, password, clientIP string) (*domain.Account, error)
	Me(ctx context.Context, userID int64) (*domain.Account, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	IsActive(ctx context.Context, userID int64) (bool, error)
}

// LoginLimiter conta tentativas de login por chave dentro de uma janela
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

type Service struct {
	userRepo repository.UserRepository
	hasher   credential.Hasher
	limiter  LoginLimiter
}

func NewService(userRepo repository.UserRepository, hasher credential.Hasher) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// WithLimiter habilita o limite de tentativas de login
func (s *Service) WithLimiter(limiter LoginLimiter) *Service {
	s.limiter = limiter
	return s
}

// Login confere email e senha. Email desconhecido e senha errada dão o mesmo erro.
func (s *Service) Login(ctx context.Context, email, password, clientIP string) (*domain.Account, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email e senha são obrigatórios")
	}

	email = handleEmail(email)
	limiterKey := email + "|" + clientIP

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, limiterKey)
		if err != nil {
			log.ForContext(ctx).WithError(err).Warn("Limite de login indisponível, seguindo sem limite")
		} else if !allowed {
			metrics.ObserveLogin("throttled")
			return nil, NewAuthError(ErrTooManyAttempts, apiErrors.ErrTooManyAttempts, "Aguarde antes de tentar novamente")
		}
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao consultar usuário no banco de dados")
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao consultar usuário no banco de dados")
	}

	if user == nil || !s.hasher.Verify(password, user.PasswordHash) {
		metrics.ObserveLogin("invalid")
		return nil, NewAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "Email ou senha inválidos")
	}

	if !user.Active {
		metrics.ObserveLogin("disabled")
		return nil, NewUserAuthError(ErrUserDisabled, apiErrors.ErrUserDisabled, user.ID, "Conta desativada")
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, limiterKey); err != nil {
			log.ForContext(ctx).WithError(err).Warn("Erro ao zerar tentativas de login")
		}
	}

	metrics.ObserveLogin("success")
	log.ForContext(ctx).WithFields(log.Fields{
		"user_id":   user.ID,
		"user_role": user.Role,
	}).Info("Login realizado")

	return user, nil
}

// Me relê a conta do banco; conta removida ou desativada invalida a sessão
func (s *Service) Me(ctx context.Context, userID int64) (*domain.Account, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		log.ForContext(ctx).WithError(err).Errorf("Erro ao buscar usuário %d", userID)
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao consultar usuário no banco de dados")
	}

	if user == nil {
		return nil, NewUserAuthError(ErrUserNotFound, apiErrors.ErrInvalidToken, userID, "Usuário da sessão não existe mais")
	}

	if !user.Active {
		return nil, NewUserAuthError(ErrUserDisabled, apiErrors.ErrUserDisabled, userID, "Conta desativada")
	}

	return user, nil
}

func (s *Service) IsActive(ctx context.Context, userID int64) (bool, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user != nil && user.Active, nil
}

// ChangePassword permite que um usuário altere sua própria senha
// Verifica se a senha atual está correta e se a nova senha atende aos requisitos de segurança
func (s *Service) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Informe a senha atual e a nova senha")
	}

	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return NewUserAuthError(ErrWrongPassword, apiErrors.ErrInvalidCredentials, userID, "Senha atual incorreta")
	}

	if currentPassword == newPassword {
		return NewUserAuthError(ErrSamePassword, apiErrors.ErrWeakPassword, userID, "A nova senha deve ser diferente da atual")
	}

	if err := ValidatePasswordStrength(newPassword); err != nil {
		return NewUserAuthError(ErrWeakPassword, apiErrors.ErrWeakPassword, userID, err.Error())
	}

	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return NewAuthError(ErrHashPassword, apiErrors.ErrInternalServer, err.Error())
	}

	found, err := s.userRepo.UpdatePassword(ctx, userID, passwordHash)
	if err != nil {
		log.ForContext(ctx).WithError(err).Errorf("Erro ao atualizar senha do usuário %d", userID)
		return NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao atualizar senha")
	}
	if !found {
		return NewUserAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, userID, "Usuário não encontrado")
	}

	log.ForContext(ctx).WithField("user_id", userID).Info("Senha alterada pelo próprio usuário")
	return nil
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}
