package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/income-report-api/internal/domain"
	"github.com/vfg2006/income-report-api/internal/usecases/account"
	"github.com/vfg2006/income-report-api/internal/usecases/account/mocks"
	"github.com/vfg2006/income-report-api/pkg/apiErrors"
)

func TestListUsers(t *testing.T) {
	t.Run("Admin lista os usuários", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockAccountService(ctrl)
		service.EXPECT().List(gomock.Any()).Return(nil, nil)

		rec := serve(t, Users(service), http.MethodGet, "/api/users", "", adminClaims)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"users":[]}`, rec.Body.String())
	})

	t.Run("Usuário comum recebe 403", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockAccountService(ctrl)

		rec := serve(t, Users(service), http.MethodGet, "/api/users", "", userClaims)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, apiErrors.ErrInsufficientPrivilege, decodeAPIError(t, rec).Code)
	})
}

func TestGetUser(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		claims     *domain.Claims
		setup      func(m *mocks.MockAccountService)
		wantStatus int
		wantCode   string
	}{
		{
			name:   "Usuário lê a própria conta",
			target: "/api/users/10",
			claims: userClaims,
			setup: func(m *mocks.MockAccountService) {
				m.EXPECT().Get(gomock.Any(), int64(10)).Return(&domain.Account{ID: 10}, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "Usuário não lê a conta de outro",
			target:     "/api/users/11",
			claims:     userClaims,
			setup:      func(m *mocks.MockAccountService) {},
			wantStatus: http.StatusForbidden,
			wantCode:   apiErrors.ErrInsufficientPrivilege,
		},
		{
			name:   "Admin lê conta inexistente",
			target: "/api/users/99",
			claims: adminClaims,
			setup: func(m *mocks.MockAccountService) {
				m.EXPECT().Get(gomock.Any(), int64(99)).
					Return(nil, account.NewAccountErrorWithID(account.ErrAccountNotFound, apiErrors.ErrAccountNotFound, 99, "Usuário não encontrado"))
			},
			wantStatus: http.StatusNotFound,
			wantCode:   apiErrors.ErrAccountNotFound,
		},
		{
			name:       "ID inválido",
			target:     "/api/users/abc",
			claims:     adminClaims,
			setup:      func(m *mocks.MockAccountService) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := mocks.NewMockAccountService(ctrl)
			tt.setup(service)

			rec := serve(t, Users(service), http.MethodGet, tt.target, "", tt.claims)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeAPIError(t, rec).Code)
			}
		})
	}
}

func TestCreateUser(t *testing.T) {
	t.Run("Cria com role padrão", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockAccountService(ctrl)
		service.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req domain.CreateAccountRequest) (*domain.Account, error) {
				assert.Equal(t, "new@example.com", req.Email)
				assert.Nil(t, req.Role)
				return &domain.Account{ID: 12, Email: req.Email, Role: domain.RoleUser, Active: true}, nil
			})

		rec := serve(t, Users(service), http.MethodPost, "/api/users", `{"email":"new@example.com"}`, adminClaims)
		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp UserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, int64(12), resp.User.ID)
	})

	t.Run("Role desconhecido", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockAccountService(ctrl)

		rec := serve(t, Users(service), http.MethodPost, "/api/users", `{"email":"new@example.com","role":"root"}`, adminClaims)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrInvalidRole, decodeAPIError(t, rec).Code)
	})

	t.Run("Email duplicado", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockAccountService(ctrl)
		service.EXPECT().Create(gomock.Any(), gomock.Any()).
			Return(nil, account.NewAccountError(account.ErrAccountAlreadyExists, apiErrors.ErrUserAlreadyExists, "Já existe um usuário com este email"))

		rec := serve(t, Users(service), http.MethodPost, "/api/users", `{"email":"jane@example.com"}`, adminClaims)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrUserAlreadyExists, decodeAPIError(t, rec).Code)
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("Admin altera o role", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockAccountService(ctrl)
		service.EXPECT().Update(gomock.Any(), int64(1), int64(10), gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ int64, req domain.UpdateAccountRequest) (*domain.Account, error) {
				require.NotNil(t, req.Role)
				assert.Equal(t, domain.RoleAdmin, *req.Role)
				assert.Nil(t, req.Active)
				return &domain.Account{ID: 10, Role: domain.RoleAdmin}, nil
			})

		rec := serve(t, Users(service), http.MethodPut, "/api/users/10", `{"role":"admin"}`, adminClaims)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Admin não desativa a si mesmo", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := mocks.NewMockAccountService(ctrl)
		service.EXPECT().Update(gomock.Any(), int64(1), int64(1), gomock.Any()).
			Return(nil, account.NewAccountErrorWithID(account.ErrSelfDeactivation, apiErrors.ErrSelfDeactivation, 1, ""))

		rec := serve(t, Users(service), http.MethodPut, "/api/users/1", `{"is_active":false}`, adminClaims)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, apiErrors.ErrSelfDeactivation, decodeAPIError(t, rec).Code)
	})
}

func TestDeactivateAndReactivateUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockAccountService(ctrl)
	service.EXPECT().Deactivate(gomock.Any(), int64(1), int64(10)).Return(nil)
	service.EXPECT().Reactivate(gomock.Any(), int64(10)).Return(nil)

	rec := serve(t, Users(service), http.MethodDelete, "/api/users/10", "", adminClaims)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, Users(service), http.MethodPost, "/api/users/10/reactivate", "", adminClaims)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResetPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockAccountService(ctrl)
	service.EXPECT().ResetPassword(gomock.Any(), int64(10)).Return("jane.doe", nil)

	rec := serve(t, Users(service), http.MethodPost, "/api/users/10/reset-password", "", adminClaims)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ResetPasswordResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "jane.doe", resp.Password)
	assert.NotEmpty(t, resp.Message)
}
