package handler

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vfg2006/income-report-api/pkg/apiErrors"
)

// StaticHandler serve o bundle do painel. Caminhos sem arquivo correspondente
// recebem o index.html, para o roteamento do lado do cliente.
func StaticHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			writeJSON(w, r, http.StatusNotFound, apiErrors.APIError{
				Code:    apiErrors.ErrInvalidRequest,
				Message: "Rota não encontrada",
			})
			return
		}

		if dir == "" {
			http.NotFound(w, r)
			return
		}

		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		clean := path.Clean("/" + r.URL.Path)
		info, err := os.Stat(filepath.Join(dir, filepath.FromSlash(clean)))
		if err != nil || info.IsDir() && clean != "/" {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}

		files.ServeHTTP(w, r)
	})
}
