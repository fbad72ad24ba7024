package account

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/vfg2006/income-report-api/infrastructure/repository"
	"github.com/vfg2006/income-report-api/infrastructure/repository/mocks"
	"github.com/vfg2006/income-report-api/internal/domain"
	"github.com/vfg2006/income-report-api/pkg/apiErrors"
	"github.com/vfg2006/income-report-api/pkg/credential"
)

func stringPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}

func rolePtr(r domain.Role) *domain.Role {
	return &r
}

func newTestService(t *testing.T) (*Service, *mocks.MockUserRepository, credential.Hasher) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	hasher := credential.NewBcryptHasher(bcrypt.MinCost)
	return NewService(repo, hasher).(*Service), repo, hasher
}

func assertAccountError(t *testing.T, err error, base error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, base)

	var accountErr *AccountError
	require.True(t, errors.As(err, &accountErr))
	assert.Equal(t, code, accountErr.Code)
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		err      error
	}{
		{name: "Email com maiúsculas e espaços", input: "  Jane.Doe@Example.COM ", expected: "jane.doe@example.com"},
		{name: "Email vazio", input: "   ", err: ErrMissingEmail},
		{name: "Sem arroba", input: "jane.doe", err: ErrInvalidEmail},
		{name: "Sem parte local", input: "@example.com", err: ErrInvalidEmail},
		{name: "Sem domínio", input: "jane@", err: ErrInvalidEmail},
		{name: "Duas arrobas", input: "jane@doe@example.com", err: ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, err := NormalizeEmail(tt.input)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, email)
		})
	}
}

func TestService_Create(t *testing.T) {
	t.Run("Cria usuário com senha padrão e role user", func(t *testing.T) {
		service, repo, hasher := newTestService(t)

		repo.EXPECT().GetUserByEmail(gomock.Any(), "jane.doe@example.com").Return(nil, nil)
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, account *domain.Account) (*domain.Account, error) {
				assert.Equal(t, "jane.doe@example.com", account.Email)
				assert.Equal(t, domain.RoleUser, account.Role)
				assert.True(t, account.Active)
				assert.NotEqual(t, "jane.doe", account.PasswordHash)
				assert.True(t, hasher.Verify("jane.doe", account.PasswordHash))

				created := *account
				created.ID = 7
				return &created, nil
			})

		account, err := service.Create(context.Background(), domain.CreateAccountRequest{
			Email: "Jane.Doe@Example.com",
			Name:  stringPtr(" Jane "),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(7), account.ID)
		require.NotNil(t, account.Name)
		assert.Equal(t, "Jane", *account.Name)
	})

	t.Run("Cria administrador quando informado", func(t *testing.T) {
		service, repo, _ := newTestService(t)

		repo.EXPECT().GetUserByEmail(gomock.Any(), "boss@example.com").Return(nil, nil)
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, account *domain.Account) (*domain.Account, error) {
				return account, nil
			})

		account, err := service.Create(context.Background(), domain.CreateAccountRequest{
			Email: "boss@example.com",
			Role:  rolePtr(domain.RoleAdmin),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, account.Role)
	})

	t.Run("Email já cadastrado ignorando maiúsculas", func(t *testing.T) {
		service, repo, _ := newTestService(t)

		repo.EXPECT().GetUserByEmail(gomock.Any(), "jane@example.com").
			Return(&domain.Account{ID: 1, Email: "jane@example.com"}, nil)

		_, err := service.Create(context.Background(), domain.CreateAccountRequest{Email: "JANE@example.com"})
		assertAccountError(t, err, ErrAccountAlreadyExists, apiErrors.ErrUserAlreadyExists)
	})

	t.Run("Corrida na inserção vira email duplicado", func(t *testing.T) {
		service, repo, _ := newTestService(t)

		repo.EXPECT().GetUserByEmail(gomock.Any(), "jane@example.com").Return(nil, nil)
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil, repository.ErrDuplicateEmail)

		_, err := service.Create(context.Background(), domain.CreateAccountRequest{Email: "jane@example.com"})
		assertAccountError(t, err, ErrAccountAlreadyExists, apiErrors.ErrUserAlreadyExists)
	})

	t.Run("Role desconhecido", func(t *testing.T) {
		service, _, _ := newTestService(t)

		_, err := service.Create(context.Background(), domain.CreateAccountRequest{
			Email: "jane@example.com",
			Role:  rolePtr(domain.Role("owner")),
		})
		assertAccountError(t, err, ErrInvalidRole, apiErrors.ErrInvalidRole)
	})

	t.Run("Email ausente", func(t *testing.T) {
		service, _, _ := newTestService(t)

		_, err := service.Create(context.Background(), domain.CreateAccountRequest{})
		assertAccountError(t, err, ErrMissingEmail, apiErrors.ErrMissingRequiredData)
	})

	t.Run("Falha no banco ao inserir", func(t *testing.T) {
		service, repo, _ := newTestService(t)

		repo.EXPECT().GetUserByEmail(gomock.Any(), gomock.Any()).Return(nil, nil)
		repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).Return(nil, errors.New("conexão perdida"))

		_, err := service.Create(context.Background(), domain.CreateAccountRequest{Email: "jane@example.com"})
		assertAccountError(t, err, ErrDatabaseOperation, apiErrors.ErrDatabaseOperation)
	})
}

func TestService_Get(t *testing.T) {
	t.Run("Conta existente", func(t *testing.T) {
		service, repo, _ := newTestService(t)
		repo.EXPECT().GetUserByID(gomock.Any(), int64(3)).Return(&domain.Account{ID: 3}, nil)

		account, err := service.Get(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, int64(3), account.ID)
	})

	t.Run("Conta inexistente", func(t *testing.T) {
		service, repo, _ := newTestService(t)
		repo.EXPECT().GetUserByID(gomock.Any(), int64(3)).Return(nil, nil)

		_, err := service.Get(context.Background(), 3)
		assertAccountError(t, err, ErrAccountNotFound, apiErrors.ErrAccountNotFound)
	})
}

func TestService_List(t *testing.T) {
	service, repo, _ := newTestService(t)
	repo.EXPECT().ListUsers(gomock.Any()).Return([]*domain.Account{{ID: 2}, {ID: 1}}, nil)

	accounts, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
	assert.Equal(t, int64(2), accounts[0].ID)
}

func TestService_Update(t *testing.T) {
	t.Run("Atualiza nome e role", func(t *testing.T) {
		service, repo, _ := newTestService(t)

		repo.EXPECT().UpdateUser(gomock.Any(), int64(5), gomock.Any()).
			DoAndReturn(func(ctx context.Context, id int64, req domain.UpdateAccountRequest) (*domain.Account, error) {
				require.NotNil(t, req.Name)
				assert.Equal(t, "Novo Nome", *req.Name)
				assert.Equal(t, domain.RoleAdmin, *req.Role)
				assert.Nil(t, req.Active)
				return &domain.Account{ID: id, Name: req.Name, Role: *req.Role}, nil
			})

		account, err := service.Update(context.Background(), 1, 5, domain.UpdateAccountRequest{
			Name: stringPtr("  Novo Nome "),
			Role: rolePtr(domain.RoleAdmin),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.RoleAdmin, account.Role)
	})

	t.Run("Administrador não pode se desativar pela edição", func(t *testing.T) {
		service, _, _ := newTestService(t)

		_, err := service.Update(context.Background(), 5, 5, domain.UpdateAccountRequest{Active: boolPtr(false)})
		assertAccountError(t, err, ErrSelfDeactivation, apiErrors.ErrSelfDeactivation)
	})

	t.Run("Pode editar o próprio nome", func(t *testing.T) {
		service, repo, _ := newTestService(t)
		repo.EXPECT().UpdateUser(gomock.Any(), int64(5), gomock.Any()).Return(&domain.Account{ID: 5}, nil)

		_, err := service.Update(context.Background(), 5, 5, domain.UpdateAccountRequest{Name: stringPtr("Eu")})
		assert.NoError(t, err)
	})

	t.Run("Requisição vazia devolve a conta atual", func(t *testing.T) {
		service, repo, _ := newTestService(t)
		repo.EXPECT().GetUserByID(gomock.Any(), int64(5)).Return(&domain.Account{ID: 5}, nil)

		account, err := service.Update(context.Background(), 1, 5, domain.UpdateAccountRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(5), account.ID)
	})

	t.Run("Conta inexistente", func(t *testing.T) {
		service, repo, _ := newTestService(t)
		repo.EXPECT().UpdateUser(gomock.Any(), int64(9), gomock.Any()).Return(nil, nil)

		_, err := service.Update(context.Background(), 1, 9, domain.UpdateAccountRequest{Active: boolPtr(true)})
		assertAccountError(t, err, ErrAccountNotFound, apiErrors.ErrAccountNotFound)
	})

	t.Run("Role desconhecido", func(t *testing.T) {
		service, _, _ := newTestService(t)

		_, err := service.Update(context.Background(), 1, 9, domain.UpdateAccountRequest{Role: rolePtr("root")})
		assertAccountError(t, err, ErrInvalidRole, apiErrors.ErrInvalidRole)
	})
}

func TestService_Deactivate(t *testing.T) {
	tests := []struct {
		name    string
		actorID int64
		id      int64
		setup   func(repo *mocks.MockUserRepository)
		err     error
	}{
		{
			name:    "Desativa outra conta",
			actorID: 1,
			id:      2,
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().UpdateUser(gomock.Any(), int64(2), domain.UpdateAccountRequest{Active: boolPtr(false)}).
					Return(&domain.Account{ID: 2}, nil)
			},
		},
		{
			name:    "Rejeita desativar a si mesmo",
			actorID: 2,
			id:      2,
			err:     ErrSelfDeactivation,
		},
		{
			name:    "Conta inexistente",
			actorID: 1,
			id:      3,
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().UpdateUser(gomock.Any(), int64(3), gomock.Any()).Return(nil, nil)
			},
			err: ErrAccountNotFound,
		},
		{
			name:    "Falha no banco",
			actorID: 1,
			id:      3,
			setup: func(repo *mocks.MockUserRepository) {
				repo.EXPECT().UpdateUser(gomock.Any(), int64(3), gomock.Any()).Return(nil, errors.New("timeout"))
			},
			err: ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _ := newTestService(t)
			if tt.setup != nil {
				tt.setup(repo)
			}

			err := service.Deactivate(context.Background(), tt.actorID, tt.id)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService_Reactivate(t *testing.T) {
	service, repo, _ := newTestService(t)
	repo.EXPECT().UpdateUser(gomock.Any(), int64(2), domain.UpdateAccountRequest{Active: boolPtr(true)}).
		Return(&domain.Account{ID: 2, Active: true}, nil)

	assert.NoError(t, service.Reactivate(context.Background(), 2))
}

func TestService_ResetPassword(t *testing.T) {
	t.Run("Volta para a parte local do email", func(t *testing.T) {
		service, repo, hasher := newTestService(t)

		repo.EXPECT().GetUserByID(gomock.Any(), int64(4)).
			Return(&domain.Account{ID: 4, Email: "jane.doe@example.com"}, nil)
		repo.EXPECT().UpdatePassword(gomock.Any(), int64(4), gomock.Any()).
			DoAndReturn(func(ctx context.Context, id int64, hash string) (bool, error) {
				assert.True(t, hasher.Verify("jane.doe", hash))
				return true, nil
			})

		password, err := service.ResetPassword(context.Background(), 4)
		require.NoError(t, err)
		assert.Equal(t, "jane.doe", password)
	})

	t.Run("Conta inexistente", func(t *testing.T) {
		service, repo, _ := newTestService(t)
		repo.EXPECT().GetUserByID(gomock.Any(), int64(4)).Return(nil, nil)

		_, err := service.ResetPassword(context.Background(), 4)
		assertAccountError(t, err, ErrAccountNotFound, apiErrors.ErrAccountNotFound)
	})

	t.Run("Conta removida entre a leitura e a escrita", func(t *testing.T) {
		service, repo, _ := newTestService(t)
		repo.EXPECT().GetUserByID(gomock.Any(), int64(4)).Return(&domain.Account{ID: 4, Email: "a@b.c"}, nil)
		repo.EXPECT().UpdatePassword(gomock.Any(), int64(4), gomock.Any()).Return(false, nil)

		_, err := service.ResetPassword(context.Background(), 4)
		assert.ErrorIs(t, err, ErrAccountNotFound)
	})
}
