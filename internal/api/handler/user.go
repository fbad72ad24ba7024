package handler

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/vfg2006/income-report-api/internal/domain"
	"github.com/vfg2006/income-report-api/internal/usecases/account"
	"github.com/vfg2006/income-report-api/pkg/apiErrors"
	"github.com/vfg2006/income-report-api/pkg/log"
	"github.com/vfg2006/income-report-api/pkg/middleware"
)

// O role chega como texto para que um valor desconhecido gere USR_003 e não VAL_001
type createUserRequest struct {
	Email string  `json:"email"`
	Name  *string `json:"name"`
	Role  *string `json:"role"`
}

type updateUserRequest struct {
	Name   *string `json:"name"`
	Role   *string `json:"role"`
	Active *bool   `json:"is_active"`
}

type UsersResponse struct {
	Users []*domain.Account `json:"users"`
}

type ResetPasswordResponse struct {
	Password string `json:"password"`
	Message  string `json:"message"`
}

// ListUsers lista todos os usuários
func ListUsers(service account.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := service.List(r.Context())
		if err != nil {
			handleAccountError(w, r, err)
			return
		}

		if users == nil {
			users = []*domain.Account{}
		}

		writeJSON(w, r, http.StatusOK, UsersResponse{Users: users})
	}
}

// GetUser retorna informações do usuário por ID
func GetUser(service account.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		user, err := service.Get(r.Context(), id)
		if err != nil {
			handleAccountError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, UserResponse{User: user})
	}
}

// CreateUser cria um usuário com a senha padrão derivada do email
func CreateUser(service account.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createUserRequest
		if !decodeBody(w, r, &body) {
			return
		}

		req := domain.CreateAccountRequest{Email: body.Email, Name: body.Name}
		if body.Role != nil {
			role, ok := parseRole(w, *body.Role)
			if !ok {
				return
			}
			req.Role = &role
		}

		user, err := service.Create(r.Context(), req)
		if err != nil {
			handleAccountError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusCreated, UserResponse{User: user})
	}
}

// UpdateUser aplica uma alteração parcial de nome, role ou status
func UpdateUser(service account.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		userClaims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Não autorizado", nil)
			return
		}

		var body updateUserRequest
		if !decodeBody(w, r, &body) {
			return
		}

		req := domain.UpdateAccountRequest{Name: body.Name, Active: body.Active}
		if body.Role != nil {
			role, ok := parseRole(w, *body.Role)
			if !ok {
				return
			}
			req.Role = &role
		}

		user, err := service.Update(r.Context(), userClaims.UserID, id, req)
		if err != nil {
			handleAccountError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, UserResponse{User: user})
	}
}

// DeactivateUser desativa a conta; contas nunca são apagadas
func DeactivateUser(service account.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		userClaims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Não autorizado", nil)
			return
		}

		if err := service.Deactivate(r.Context(), userClaims.UserID, id); err != nil {
			handleAccountError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, MessageResponse{Message: "Usuário desativado"})
	}
}

func ReactivateUser(service account.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		if err := service.Reactivate(r.Context(), id); err != nil {
			handleAccountError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, MessageResponse{Message: "Usuário reativado"})
	}
}

// ResetPassword devolve a nova senha em texto puro uma única vez
func ResetPassword(service account.AccountService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		password, err := service.ResetPassword(r.Context(), id)
		if err != nil {
			handleAccountError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, ResetPasswordResponse{
			Password: password,
			Message:  "Senha redefinida para a parte local do email",
		})
	}
}

func parseRole(w http.ResponseWriter, value string) (domain.Role, bool) {
	role, err := domain.ParseRole(value)
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidRole, "Role inválido, use user ou admin", nil)
		return "", false
	}
	return role, true
}

func handleAccountError(w http.ResponseWriter, r *http.Request, err error) {
	var accountErr *account.AccountError
	if errors.As(err, &accountErr) {
		apiErrors.WriteError(w, accountErr.Code, accountErr.Error(), nil)
		return
	}

	log.ForContext(r.Context()).WithError(err).Error("Erro não mapeado no diretório de usuários")
	apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno ao processar usuário", nil)
}
