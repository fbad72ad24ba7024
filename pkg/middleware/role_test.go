package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/income-report-api/internal/domain"
)

func withClaims(r *http.Request, claims *domain.Claims) *http.Request {
	if claims == nil {
		return r
	}
	return r.WithContext(context.WithValue(r.Context(), ContextKeyUser, claims))
}

func TestRoleMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		middleware func(http.Handler) http.Handler
		claims     *domain.Claims
		wantStatus int
	}{
		{
			name:       "admin em rota de admin",
			middleware: AdminOnly(),
			claims:     &domain.Claims{UserID: 1, Role: domain.RoleAdmin},
			wantStatus: http.StatusOK,
		},
		{
			name:       "usuário comum em rota de admin",
			middleware: AdminOnly(),
			claims:     &domain.Claims{UserID: 2, Role: domain.RoleUser},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "sem sessão",
			middleware: AdminOnly(),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "usuário comum em rota de todos os roles",
			middleware: AllRoles(),
			claims:     &domain.Claims{UserID: 2, Role: domain.RoleUser},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := withClaims(httptest.NewRequest(http.MethodGet, "/api/users", nil), tt.claims)

			tt.middleware(okHandler(nil)).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestSelfOrAdmin(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		claims     *domain.Claims
		wantStatus int
	}{
		{name: "o próprio usuário", path: "/api/users/2", claims: &domain.Claims{UserID: 2, Role: domain.RoleUser}, wantStatus: http.StatusOK},
		{name: "outro usuário", path: "/api/users/3", claims: &domain.Claims{UserID: 2, Role: domain.RoleUser}, wantStatus: http.StatusForbidden},
		{name: "admin lendo outro usuário", path: "/api/users/3", claims: &domain.Claims{UserID: 1, Role: domain.RoleAdmin}, wantStatus: http.StatusOK},
		{name: "id inválido", path: "/api/users/abc", claims: &domain.Claims{UserID: 2, Role: domain.RoleUser}, wantStatus: http.StatusForbidden},
		{name: "sem sessão", path: "/api/users/2", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := httprouter.New()
			router.Handler(http.MethodGet, "/api/users/:id", SelfOrAdmin()(okHandler(nil)))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, withClaims(httptest.NewRequest(http.MethodGet, tt.path, nil), tt.claims))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
