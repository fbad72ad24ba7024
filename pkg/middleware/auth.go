package middleware

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/vfg2006/income-report-api/internal/domain"
	"github.com/vfg2006/income-report-api/internal/session"
	"github.com/vfg2006/income-report-api/pkg/apiErrors"
	"github.com/vfg2006/income-report-api/pkg/log"
)

type contextKey string

const (
	ContextKeyUser contextKey = "user"
)

const (
	LoginPage = "/auth/login"
	HomePage  = "/"
)

// RouteClass é a exigência de acesso de um caminho
type RouteClass int

const (
	RoutePublic RouteClass = iota
	RouteAuthenticated
	RouteAdmin
)

var publicPaths = map[string]bool{
	"/auth/login":     true,
	"/api/auth/login": true,
	"/healthcheck":    true,
	"/metrics":        true,
}

// subpáginas da tela de login também são públicas
var publicPrefixes = []string{LoginPage}

var adminPrefixes = []string{"/admin", "/api/admin"}

// Classify decide se o caminho é público, exige sessão ou exige sessão de admin
func Classify(urlPath string) RouteClass {
	p := cleanPath(urlPath)

	if publicPaths[p] || isStaticAsset(p) || hasPrefixSegment(p, publicPrefixes) {
		return RoutePublic
	}

	if hasPrefixSegment(p, adminPrefixes) {
		return RouteAdmin
	}

	return RouteAuthenticated
}

// IsAPIPath indica se a resposta de bloqueio deve ser JSON em vez de redirecionamento
func IsAPIPath(urlPath string) bool {
	p := cleanPath(urlPath)
	return p == "/api" || strings.HasPrefix(p, "/api/")
}

// arquivos estáticos do painel (js, css, ícones): o último segmento tem extensão
func isStaticAsset(p string) bool {
	if IsAPIPath(p) {
		return false
	}
	return strings.Contains(path.Base(p), ".")
}

func hasPrefixSegment(p string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

func cleanPath(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + p)
}

type Action int

const (
	ActionAllow Action = iota
	ActionReject
	ActionRedirect
)

// Decision é o resultado do portão para uma requisição
type Decision struct {
	Action      Action
	Status      int
	Code        string
	Location    string
	ClearCookie bool
}

// Decide é puro: recebe o caminho e o estado da sessão e devolve o que fazer
func Decide(urlPath string, status session.Status, claims *domain.Claims) Decision {
	class := Classify(urlPath)
	if class == RoutePublic {
		return Decision{Action: ActionAllow}
	}

	if status != session.StatusValid || claims == nil {
		decision := deny(urlPath, http.StatusUnauthorized, apiErrors.ErrInvalidToken, LoginPage)
		decision.ClearCookie = status == session.StatusInvalid
		return decision
	}

	if class == RouteAdmin && !claims.IsAdmin() {
		return deny(urlPath, http.StatusForbidden, apiErrors.ErrInsufficientPrivilege, HomePage)
	}

	return Decision{Action: ActionAllow}
}

func deny(urlPath string, status int, code, location string) Decision {
	if IsAPIPath(urlPath) {
		return Decision{Action: ActionReject, Status: status, Code: code}
	}
	return Decision{Action: ActionRedirect, Status: http.StatusTemporaryRedirect, Location: location}
}

// SessionInspector é a parte do session.Store usada pelo portão
type SessionInspector interface {
	Inspect(r *http.Request) (*domain.Claims, session.Status)
	Destroy(w http.ResponseWriter)
}

// ActiveChecker confirma no banco que a conta do token continua ativa
type ActiveChecker interface {
	IsActive(ctx context.Context, userID int64) (bool, error)
}

// AccessGate aplica Decide a todas as requisições. Com checker nil o token
// é aceito sem consultar a conta.
func AccessGate(sessions SessionInspector, checker ActiveChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, status := sessions.Inspect(r)

			if status == session.StatusValid && checker != nil && Classify(r.URL.Path) != RoutePublic {
				active, err := checker.IsActive(r.Context(), claims.UserID)
				if err != nil {
					log.ForContext(r.Context()).WithError(err).WithField("user_id", claims.UserID).
						Error("Erro ao verificar se a conta da sessão está ativa")
					if IsAPIPath(r.URL.Path) {
						apiErrors.WriteError(w, apiErrors.ErrServiceUnavailable, "Não foi possível validar a sessão", nil)
					} else {
						http.Error(w, "Serviço temporariamente indisponível", http.StatusServiceUnavailable)
					}
					return
				}

				if !active {
					log.ForContext(r.Context()).WithField("user_id", claims.UserID).
						Warn("Sessão de conta desativada ou removida")
					claims, status = nil, session.StatusInvalid
				}
			}

			decision := Decide(r.URL.Path, status, claims)
			if decision.ClearCookie {
				sessions.Destroy(w)
			}

			switch decision.Action {
			case ActionReject:
				message := "Não autorizado"
				if decision.Status == http.StatusForbidden {
					message = "Você não tem permissão para acessar este recurso"
				}
				apiErrors.WriteError(w, decision.Code, message, nil)
				return
			case ActionRedirect:
				http.Redirect(w, r, decision.Location, decision.Status)
				return
			}

			if status == session.StatusValid {
				r = r.WithContext(context.WithValue(r.Context(), ContextKeyUser, claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext devolve a sessão gravada pelo AccessGate
func ClaimsFromContext(ctx context.Context) (*domain.Claims, bool) {
	claims, ok := ctx.Value(ContextKeyUser).(*domain.Claims)
	return claims, ok && claims != nil
}
