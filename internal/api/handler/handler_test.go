package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vfg2006/income-report-api/internal/api/handler/router"
	"github.com/vfg2006/income-report-api/internal/domain"
	"github.com/vfg2006/income-report-api/internal/session"
	"github.com/vfg2006/income-report-api/pkg/apiErrors"
	"github.com/vfg2006/income-report-api/pkg/middleware"
)

var (
	adminClaims = &domain.Claims{UserID: 1, Email: "admin@example.com", Role: domain.RoleAdmin}
	userClaims  = &domain.Claims{UserID: 10, Email: "jane@example.com", Role: domain.RoleUser}
)

func newTestStore() *session.Store {
	return session.NewStore(session.NewTokenCodec("segredo-de-teste", time.Hour), session.StoreOptions{})
}

// serve monta um router só com as rotas do teste e injeta a sessão como o AccessGate faria
func serve(t *testing.T, routes []router.Route, method, target string, body string, claims *domain.Claims) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if claims != nil {
		req = req.WithContext(context.WithValue(req.Context(), middleware.ContextKeyUser, claims))
	}

	rec := httptest.NewRecorder()
	router.New(router.WithRoutes(routes...)).ServeHTTP(rec, req)
	return rec
}

func serveWithHeader(t *testing.T, routes []router.Route, method, target, body, header, value string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(header, value)

	rec := httptest.NewRecorder()
	router.New(router.WithRoutes(routes...)).ServeHTTP(rec, req)
	return rec
}

func decodeAPIError(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.APIError {
	t.Helper()
	var apiErr apiErrors.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
