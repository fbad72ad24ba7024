package account

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/vfg2006/income-report-api/infrastructure/repository"
	"github.com/vfg2006/income-report-api/internal/domain"
	"github.com/vfg2006/income-report-api/pkg/apiErrors"
	"github.com/vfg2006/income-report-api/pkg/credential"
	"github.com/vfg2006/income-report-api/pkg/log"
)

//go:generate mockgen -source=service.go -destination=mocks/account_mock.go -package=mocks

// AccountService é o diretório de usuários do painel. Contas nunca são apagadas,
// apenas desativadas.
type AccountService interface {
	List(ctx context.Context) ([]*domain.Account, error)
	Get(ctx context.Context, id int64) (*domain.Account, error)
	Create(ctx context.Context, req domain.CreateAccountRequest) (*domain.Account, error)
	Update(ctx context.Context, actorID, id int64, req domain.UpdateAccountRequest) (*domain.Account, error)
	Deactivate(ctx context.Context, actorID, id int64) error
	Reactivate(ctx context.Context, id int64) error
	ResetPassword(ctx context.Context, id int64) (string, error)
}

type Service struct {
	userRepository repository.UserRepository
	hasher         credential.Hasher
}

func NewService(userRepository repository.UserRepository, hasher credential.Hasher) AccountService {
	return &Service{
		userRepository: userRepository,
		hasher:         hasher,
	}
}

func (s *Service) List(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := s.userRepository.ListUsers(ctx)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao listar usuários")
		return nil, databaseError("Falha ao listar usuários no banco de dados")
	}

	return accounts, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Account, error) {
	account, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		log.ForContext(ctx).WithError(err).Errorf("Erro ao buscar usuário %d", id)
		return nil, databaseError("Falha ao buscar usuário no banco de dados")
	}

	if account == nil {
		return nil, notFound(id)
	}

	return account, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateAccountRequest) (*domain.Account, error) {
	email, err := NormalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	role := domain.RoleUser
	if req.Role != nil {
		if !req.Role.IsValid() {
			return nil, NewAccountError(ErrInvalidRole, apiErrors.ErrInvalidRole, "Use user ou admin")
		}
		role = *req.Role
	}

	existing, err := s.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao consultar email no banco de dados")
		return nil, databaseError("Falha ao consultar usuário no banco de dados")
	}
	if existing != nil {
		return nil, NewAccountError(ErrAccountAlreadyExists, apiErrors.ErrUserAlreadyExists, "Já existe um usuário com este email")
	}

	passwordHash, err := s.hasher.Hash(credential.DefaultPassword(email))
	if err != nil {
		return nil, NewAccountError(ErrHashPassword, apiErrors.ErrInternalServer, err.Error())
	}

	created, err := s.userRepository.CreateUser(ctx, &domain.Account{
		Email:        email,
		Name:         trimName(req.Name),
		Role:         role,
		Active:       true,
		PasswordHash: passwordHash,
	})
	if errors.Is(err, repository.ErrDuplicateEmail) {
		return nil, NewAccountError(ErrAccountAlreadyExists, apiErrors.ErrUserAlreadyExists, "Já existe um usuário com este email")
	}
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Erro ao criar usuário")
		return nil, databaseError("Falha ao criar usuário no banco de dados")
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"user_id":   created.ID,
		"user_role": created.Role,
	}).Info("Usuário criado")

	return created, nil
}

// Update aplica uma alteração parcial. A conta que executa a ação não pode se desativar.
func (s *Service) Update(ctx context.Context, actorID, id int64, req domain.UpdateAccountRequest) (*domain.Account, error) {
	if req.Role != nil && !req.Role.IsValid() {
		return nil, NewAccountError(ErrInvalidRole, apiErrors.ErrInvalidRole, "Use user ou admin")
	}

	if req.Active != nil && !*req.Active && actorID == id {
		return nil, NewAccountErrorWithID(ErrSelfDeactivation, apiErrors.ErrSelfDeactivation, id, "Peça a outro administrador para desativar esta conta")
	}

	if req.IsEmpty() {
		return s.Get(ctx, id)
	}

	req.Name = trimName(req.Name)

	updated, err := s.userRepository.UpdateUser(ctx, id, req)
	if err != nil {
		log.ForContext(ctx).WithError(err).Errorf("Erro ao atualizar usuário %d", id)
		return nil, databaseError("Falha ao atualizar usuário no banco de dados")
	}

	if updated == nil {
		return nil, notFound(id)
	}

	return updated, nil
}

func (s *Service) Deactivate(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return NewAccountErrorWithID(ErrSelfDeactivation, apiErrors.ErrSelfDeactivation, id, "Peça a outro administrador para desativar esta conta")
	}

	return s.setActive(ctx, id, false)
}

func (s *Service) Reactivate(ctx context.Context, id int64) error {
	return s.setActive(ctx, id, true)
}

func (s *Service) setActive(ctx context.Context, id int64, active bool) error {
	updated, err := s.userRepository.UpdateUser(ctx, id, domain.UpdateAccountRequest{Active: &active})
	if err != nil {
		log.ForContext(ctx).WithError(err).Errorf("Erro ao alterar status do usuário %d", id)
		return databaseError("Falha ao alterar status do usuário no banco de dados")
	}

	if updated == nil {
		return notFound(id)
	}

	log.ForContext(ctx).WithFields(log.Fields{
		"user_id":     id,
		"user_active": active,
	}).Info("Status do usuário alterado")

	return nil
}

// ResetPassword volta a senha para a parte local do email e devolve o texto puro
// uma única vez, para o administrador repassar
func (s *Service) ResetPassword(ctx context.Context, id int64) (string, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}

	password := credential.DefaultPassword(account.Email)

	passwordHash, err := s.hasher.Hash(password)
	if err != nil {
		return "", NewAccountError(ErrHashPassword, apiErrors.ErrInternalServer, err.Error())
	}

	found, err := s.userRepository.UpdatePassword(ctx, id, passwordHash)
	if err != nil {
		log.ForContext(ctx).WithError(err).Errorf("Erro ao redefinir senha do usuário %d", id)
		return "", databaseError("Falha ao redefinir senha no banco de dados")
	}

	if !found {
		return "", notFound(id)
	}

	log.ForContext(ctx).WithField("user_id", id).Info("Senha do usuário redefinida")

	return password, nil
}

// NormalizeEmail deixa o email em minúsculas e sem espaços
func NormalizeEmail(s string) (string, error) {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")

	if email == "" {
		return "", NewAccountError(ErrMissingEmail, apiErrors.ErrMissingRequiredData, "Informe o email")
	}

	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.Count(email, "@") != 1 {
		return "", NewAccountError(ErrInvalidEmail, apiErrors.ErrInvalidFormat, "Formato de email inválido")
	}

	return email, nil
}

func trimName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	return &trimmed
}
