package authenticating

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	repomocks "github.com/vfg2006/income-report-api/infrastructure/repository/mocks"
	"github.com/vfg2006/income-report-api/internal/domain"
	"github.com/vfg2006/income-report-api/internal/usecases/authenticating/mocks"
	"github.com/vfg2006/income-report-api/pkg/apiErrors"
	"github.com/vfg2006/income-report-api/pkg/credential"
)

type fixture struct {
	service *Service
	repo    *repomocks.MockUserRepository
	limiter *mocks.MockLoginLimiter
	hasher  credential.Hasher
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockUserRepository(ctrl)
	hasher := credential.NewBcryptHasher(bcrypt.MinCost)

	return &fixture{
		service: NewService(repo, hasher),
		repo:    repo,
		limiter: mocks.NewMockLoginLimiter(ctrl),
		hasher:  hasher,
	}
}

func (f *fixture) account(t *testing.T, password string, active bool) *domain.Account {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	return &domain.Account{ID: 10, Email: "jane@example.com", Role: domain.RoleUser, Active: active, PasswordHash: hash}
}

func assertAuthError(t *testing.T, err error, base error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, base)

	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, code, authErr.Code)
}

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "Senha forte", password: "Abcdef1!", valid: true},
		{name: "Curta demais", password: "Ab1!", valid: false},
		{name: "Sem maiúscula", password: "abcdef1!", valid: false},
		{name: "Sem minúscula", password: "ABCDEF1!", valid: false},
		{name: "Sem número", password: "Abcdefg!", valid: false},
		{name: "Sem caractere especial", password: "Abcdefg1", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordStrength(tt.password)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestService_Login(t *testing.T) {
	t.Run("Credenciais corretas", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetUserByEmail(gomock.Any(), "jane@example.com").Return(f.account(t, "jane", true), nil)

		account, err := f.service.Login(context.Background(), " Jane@Example.com ", "jane", "10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, int64(10), account.ID)
	})

	t.Run("Email desconhecido e senha errada dão o mesmo erro", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetUserByEmail(gomock.Any(), "ghost@example.com").Return(nil, nil)
		f.repo.EXPECT().GetUserByEmail(gomock.Any(), "jane@example.com").Return(f.account(t, "jane", true), nil)

		_, unknownErr := f.service.Login(context.Background(), "ghost@example.com", "x", "")
		_, wrongErr := f.service.Login(context.Background(), "jane@example.com", "errada", "")

		assertAuthError(t, unknownErr, ErrInvalidCredentials, apiErrors.ErrInvalidCredentials)
		assertAuthError(t, wrongErr, ErrInvalidCredentials, apiErrors.ErrInvalidCredentials)
		assert.Equal(t, unknownErr.Error(), wrongErr.Error())
	})

	t.Run("Conta desativada", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetUserByEmail(gomock.Any(), "jane@example.com").Return(f.account(t, "jane", false), nil)

		_, err := f.service.Login(context.Background(), "jane@example.com", "jane", "")
		assertAuthError(t, err, ErrUserDisabled, apiErrors.ErrUserDisabled)
	})

	t.Run("Campos obrigatórios", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Login(context.Background(), "", "jane", "")
		assertAuthError(t, err, ErrMissingRequiredData, apiErrors.ErrMissingRequiredData)

		_, err = f.service.Login(context.Background(), "jane@example.com", "", "")
		assertAuthError(t, err, ErrMissingRequiredData, apiErrors.ErrMissingRequiredData)
	})

	t.Run("Falha no banco", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("conexão recusada"))

		_, err := f.service.Login(context.Background(), "jane@example.com", "jane", "")
		assertAuthError(t, err, ErrDatabaseOperation, apiErrors.ErrDatabaseOperation)
	})
}

func TestService_LoginWithLimiter(t *testing.T) {
	t.Run("Bloqueia acima do limite sem consultar o banco", func(t *testing.T) {
		f := newFixture(t)
		f.service.WithLimiter(f.limiter)
		f.limiter.EXPECT().Allow(gomock.Any(), "jane@example.com|10.0.0.1").Return(false, nil)

		_, err := f.service.Login(context.Background(), "jane@example.com", "jane", "10.0.0.1")
		assertAuthError(t, err, ErrTooManyAttempts, apiErrors.ErrTooManyAttempts)
	})

	t.Run("Sucesso zera as tentativas", func(t *testing.T) {
		f := newFixture(t)
		f.service.WithLimiter(f.limiter)
		f.limiter.EXPECT().Allow(gomock.Any(), "jane@example.com|10.0.0.1").Return(true, nil)
		f.repo.EXPECT().GetUserByEmail(gomock.Any(), "jane@example.com").Return(f.account(t, "jane", true), nil)
		f.limiter.EXPECT().Reset(gomock.Any(), "jane@example.com|10.0.0.1").Return(nil)

		_, err := f.service.Login(context.Background(), "jane@example.com", "jane", "10.0.0.1")
		assert.NoError(t, err)
	})

	t.Run("Limiter indisponível não bloqueia o login", func(t *testing.T) {
		f := newFixture(t)
		f.service.WithLimiter(f.limiter)
		f.limiter.EXPECT().Allow(gomock.Any(), gomock.Any()).Return(false, errors.New("redis fora do ar"))
		f.repo.EXPECT().GetUserByEmail(gomock.Any(), "jane@example.com").Return(f.account(t, "jane", true), nil)
		f.limiter.EXPECT().Reset(gomock.Any(), gomock.Any()).Return(errors.New("redis fora do ar"))

		_, err := f.service.Login(context.Background(), "jane@example.com", "jane", "10.0.0.1")
		assert.NoError(t, err)
	})
}

func TestService_Me(t *testing.T) {
	tests := []struct {
		name    string
		account *domain.Account
		err     error
		code    string
	}{
		{name: "Conta ativa", account: &domain.Account{ID: 10, Active: true}},
		{name: "Conta removida", account: nil, err: ErrUserNotFound, code: apiErrors.ErrInvalidToken},
		{name: "Conta desativada", account: &domain.Account{ID: 10, Active: false}, err: ErrUserDisabled, code: apiErrors.ErrUserDisabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.EXPECT().GetUserByID(gomock.Any(), int64(10)).Return(tt.account, nil)

			account, err := f.service.Me(context.Background(), 10)
			if tt.err != nil {
				assertAuthError(t, err, tt.err, tt.code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(10), account.ID)
		})
	}
}

func TestService_IsActive(t *testing.T) {
	f := newFixture(t)
	f.repo.EXPECT().GetUserByID(gomock.Any(), int64(1)).Return(&domain.Account{ID: 1, Active: true}, nil)
	f.repo.EXPECT().GetUserByID(gomock.Any(), int64(2)).Return(&domain.Account{ID: 2, Active: false}, nil)
	f.repo.EXPECT().GetUserByID(gomock.Any(), int64(3)).Return(nil, nil)
	f.repo.EXPECT().GetUserByID(gomock.Any(), int64(4)).Return(nil, errors.New("timeout"))

	active, err := f.service.IsActive(context.Background(), 1)
	assert.NoError(t, err)
	assert.True(t, active)

	active, err = f.service.IsActive(context.Background(), 2)
	assert.NoError(t, err)
	assert.False(t, active)

	active, err = f.service.IsActive(context.Background(), 3)
	assert.NoError(t, err)
	assert.False(t, active)

	_, err = f.service.IsActive(context.Background(), 4)
	assert.Error(t, err)
}

func TestService_ChangePassword(t *testing.T) {
	t.Run("Troca a senha", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetUserByID(gomock.Any(), int64(10)).Return(f.account(t, "jane", true), nil)
		f.repo.EXPECT().UpdatePassword(gomock.Any(), int64(10), gomock.Any()).
			DoAndReturn(func(ctx context.Context, id int64, hash string) (bool, error) {
				assert.True(t, f.hasher.Verify("Nova#Senha1", hash))
				return true, nil
			})

		assert.NoError(t, f.service.ChangePassword(context.Background(), 10, "jane", "Nova#Senha1"))
	})

	t.Run("Senha atual incorreta", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetUserByID(gomock.Any(), int64(10)).Return(f.account(t, "jane", true), nil)

		err := f.service.ChangePassword(context.Background(), 10, "outra", "Nova#Senha1")
		assertAuthError(t, err, ErrWrongPassword, apiErrors.ErrInvalidCredentials)
	})

	t.Run("Nova senha fraca", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetUserByID(gomock.Any(), int64(10)).Return(f.account(t, "jane", true), nil)

		err := f.service.ChangePassword(context.Background(), 10, "jane", "fraca")
		assertAuthError(t, err, ErrWeakPassword, apiErrors.ErrWeakPassword)
	})

	t.Run("Nova senha igual à atual", func(t *testing.T) {
		f := newFixture(t)
		f.repo.EXPECT().GetUserByID(gomock.Any(), int64(10)).Return(f.account(t, "Atual#Senha1", true), nil)

		err := f.service.ChangePassword(context.Background(), 10, "Atual#Senha1", "Atual#Senha1")
		assertAuthError(t, err, ErrSamePassword, apiErrors.ErrWeakPassword)
	})

	t.Run("Campos ausentes", func(t *testing.T) {
		f := newFixture(t)

		err := f.service.ChangePassword(context.Background(), 10, "", "Nova#Senha1")
		assertAuthError(t, err, ErrMissingRequiredData, apiErrors.ErrMissingRequiredData)
	})
}
