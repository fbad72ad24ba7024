package handler

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	started bool
	calls   int
}

func (f *fakeProber) TriggerManualSync() bool {
	f.calls++
	return f.started
}

func (f *fakeProber) GetStatus() map[string]any {
	return map[string]any{"probe_enabled": true}
}

func TestRunSourceProbe(t *testing.T) {
	t.Run("Dispara a verificação", func(t *testing.T) {
		prober := &fakeProber{started: true}

		rec := serve(t, Probes(prober), http.MethodPost, "/api/admin/probes/run", "", adminClaims)
		assert.Equal(t, http.StatusAccepted, rec.Code)
		assert.Equal(t, 1, prober.calls)
	})

	t.Run("Verificação já em andamento", func(t *testing.T) {
		prober := &fakeProber{started: false}

		rec := serve(t, Probes(prober), http.MethodPost, "/api/admin/probes/run", "", adminClaims)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Usuário comum recebe 403", func(t *testing.T) {
		prober := &fakeProber{started: true}

		rec := serve(t, Probes(prober), http.MethodPost, "/api/admin/probes/run", "", userClaims)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Zero(t, prober.calls)
	})
}

func TestHealthcheck(t *testing.T) {
	rec := serve(t, Healthcheck(&fakeProber{}), http.MethodGet, "/healthcheck", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthcheckResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, true, resp.Probe["probe_enabled"])
}

func TestStaticHandler(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>painel</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	tests := []struct {
		name       string
		dir        string
		target     string
		wantStatus int
		wantBody   string
	}{
		{name: "Arquivo existente", dir: dir, target: "/app.js", wantStatus: http.StatusOK, wantBody: "console.log(1)"},
		{name: "Página do painel cai no index", dir: dir, target: "/reports/gi-income", wantStatus: http.StatusOK, wantBody: "painel"},
		{name: "Rota de API inexistente", dir: dir, target: "/api/nada", wantStatus: http.StatusNotFound, wantBody: "Rota não encontrada"},
		{name: "Sem diretório configurado", dir: "", target: "/reports", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			recorder := httptest.NewRecorder()
			StaticHandler(tt.dir).ServeHTTP(recorder, req)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.wantBody)
		})
	}
}
