package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/income-report-api/internal/config"
	"github.com/vfg2006/income-report-api/internal/domain"
	"github.com/vfg2006/income-report-api/internal/session"
	accountmocks "github.com/vfg2006/income-report-api/internal/usecases/account/mocks"
	authmocks "github.com/vfg2006/income-report-api/internal/usecases/authenticating/mocks"
	reportmocks "github.com/vfg2006/income-report-api/internal/usecases/reporting/mocks"
	"github.com/vfg2006/income-report-api/pkg/apiErrors"
)

type serverFixture struct {
	handler       http.Handler
	store         *session.Store
	authenticator *authmocks.MockAuthenticator
}

func newServerFixture(t *testing.T, verifyActive bool) *serverFixture {
	ctrl := gomock.NewController(t)
	store := session.NewStore(session.NewTokenCodec("segredo-de-teste", time.Hour), session.StoreOptions{})
	authenticator := authmocks.NewMockAuthenticator(ctrl)

	cfg := &config.Config{}
	cfg.Auth.VerifyActive = verifyActive

	return &serverFixture{
		handler: NewHandler(cfg, Services{
			Authenticator: authenticator,
			Accounts:      accountmocks.NewMockAccountService(ctrl),
			Reporter:      reportmocks.NewMockReporter(ctrl),
			Sessions:      store,
		}),
		store:         store,
		authenticator: authenticator,
	}
}

func (f *serverFixture) cookieFor(t *testing.T, account *domain.Account) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	_, err := f.store.Create(rec, account)
	require.NoError(t, err)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func (f *serverFixture) do(method, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestNewHandler_AccessGate(t *testing.T) {
	f := newServerFixture(t, false)
	user := f.cookieFor(t, &domain.Account{ID: 10, Email: "jane@example.com", Role: domain.RoleUser, Active: true})

	tests := []struct {
		name       string
		method     string
		target     string
		cookie     *http.Cookie
		wantStatus int
		wantHeader string
	}{
		{name: "Healthcheck é público", method: http.MethodGet, target: "/healthcheck", wantStatus: http.StatusOK},
		{name: "Métricas são públicas", method: http.MethodGet, target: "/metrics", wantStatus: http.StatusOK},
		{name: "API sem sessão recebe 401", method: http.MethodGet, target: "/api/reports/gi-income", wantStatus: http.StatusUnauthorized},
		{name: "Página sem sessão vai para o login", method: http.MethodGet, target: "/reports", wantStatus: http.StatusTemporaryRedirect, wantHeader: "/auth/login"},
		{name: "Usuário comum não acessa API de admin", method: http.MethodGet, target: "/api/admin/probes/status", cookie: user, wantStatus: http.StatusForbidden},
		{name: "Usuário comum é redirecionado de página de admin", method: http.MethodGet, target: "/admin/users", cookie: user, wantStatus: http.StatusTemporaryRedirect, wantHeader: "/"},
		{name: "Usuário comum sem datas recebe 400", method: http.MethodGet, target: "/api/reports/gi-income", cookie: user, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(tt.method, tt.target, tt.cookie)
			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantHeader != "" {
				assert.Equal(t, tt.wantHeader, rec.Header().Get("Location"))
			}
		})
	}
}

func TestNewHandler_DeactivatedAccount(t *testing.T) {
	f := newServerFixture(t, true)
	cookie := f.cookieFor(t, &domain.Account{ID: 10, Email: "jane@example.com", Role: domain.RoleUser, Active: true})
	f.authenticator.EXPECT().IsActive(gomock.Any(), int64(10)).Return(false, nil)

	rec := f.do(http.MethodGet, "/api/reports/gi-income?startDate=2024-01-01&endDate=2024-01-31", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrInvalidToken)

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Empty(t, cleared[0].Value)
}

func TestNew_RequiresServices(t *testing.T) {
	_, err := New(&config.Config{}, Services{})
	assert.Error(t, err)
}
