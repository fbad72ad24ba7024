package handler

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/vfg2006/income-report-api/internal/domain"
	"github.com/vfg2006/income-report-api/internal/usecases/authenticating"
	"github.com/vfg2006/income-report-api/pkg/apiErrors"
	"github.com/vfg2006/income-report-api/pkg/log"
	"github.com/vfg2006/income-report-api/pkg/middleware"
)

// SessionWriter é a parte do session.Store usada pelos handlers de autenticação
type SessionWriter interface {
	Create(w http.ResponseWriter, account *domain.Account) (*domain.Claims, error)
	Destroy(w http.ResponseWriter)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type UserResponse struct {
	User *domain.Account `json:"user"`
}

func Login(service authenticating.Authenticator, sessions SessionWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if !decodeBody(w, r, &req) {
			return
		}

		user, err := service.Login(r.Context(), req.Email, req.Password, clientIP(r))
		if err != nil {
			handleAuthError(w, r, err)
			return
		}

		if _, err := sessions.Create(w, user); err != nil {
			log.ForContext(r.Context()).WithError(err).Error("Erro ao emitir token de sessão")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno ao realizar login", nil)
			return
		}

		writeJSON(w, r, http.StatusOK, UserResponse{User: user})
	}
}

// GetMe relê a conta da sessão no banco
func GetMe(service authenticating.Authenticator, sessions SessionWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		user, err := service.Me(r.Context(), userClaims.UserID)
		if err != nil {
			if errors.Is(err, authenticating.ErrUserNotFound) || errors.Is(err, authenticating.ErrUserDisabled) {
				sessions.Destroy(w)
			}
			handleAuthError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, UserResponse{User: user})
	}
}

// Logout apaga o cookie. O token em si segue válido até expirar.
func Logout(sessions SessionWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions.Destroy(w)
		writeJSON(w, r, http.StatusOK, MessageResponse{Message: "Sessão encerrada"})
	}
}

// ChangePassword permite que o usuário da sessão altere a própria senha
func ChangePassword(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Não autorizado", nil)
			return
		}

		var req ChangePasswordRequest
		if !decodeBody(w, r, &req) {
			return
		}

		if err := service.ChangePassword(r.Context(), userClaims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
			handleAuthError(w, r, err)
			return
		}

		writeJSON(w, r, http.StatusOK, MessageResponse{Message: "Senha alterada com sucesso"})
	}
}

// handleAuthError traduz os erros do caso de uso em respostas da API
func handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	var authErr *authenticating.AuthError
	if errors.As(err, &authErr) {
		apiErrors.WriteError(w, authErr.Code, authErr.Error(), nil)
		return
	}

	log.ForContext(r.Context()).WithError(err).Error("Erro não mapeado na autenticação")

	switch {
	case errors.Is(err, authenticating.ErrInvalidCredentials):
		apiErrors.WriteError(w, apiErrors.ErrInvalidCredentials, "Credenciais inválidas", nil)

	case errors.Is(err, authenticating.ErrUserDisabled):
		apiErrors.WriteError(w, apiErrors.ErrUserDisabled, "Usuário desativado", nil)

	default:
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro interno na autenticação", nil)
	}
}
