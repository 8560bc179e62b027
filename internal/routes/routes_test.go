package routes

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c14220110/igd-dashboard/config"
	"github.com/c14220110/igd-dashboard/internal/common/middlewares"
	igdServices "github.com/c14220110/igd-dashboard/internal/igd/services"
	"github.com/c14220110/igd-dashboard/pkg/store/memstore"
	"github.com/c14220110/igd-dashboard/pkg/utils"
	"github.com/c14220110/igd-dashboard/ws"
)

func newTestServer(t *testing.T, secret string) *echo.Echo {
	t.Helper()
	cfg := &config.Config{JWTSecret: secret, SettingsFile: filepath.Join(t.TempDir(), "pengaturan.yaml")}
	e := echo.New()
	Init(e, Deps{
		Cfg:      cfg,
		Service:  igdServices.NewPasienService(memstore.New(), nil, nil, zerolog.Nop()),
		Selector: igdServices.NewStoreSelector(cfg, zerolog.Nop()),
		Aktif:    igdServices.InfoStore{Jenis: igdServices.JenisMemori},
		Hub:      ws.NewHub(zerolog.Nop()),
		Log:      zerolog.Nop(),
	})
	return e
}

func do(e *echo.Echo, method, path, token, body string) int {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func token(t *testing.T, secret, role string) string {
	t.Helper()
	tok, err := utils.GenerateJWTToken(secret, "petugas", role, time.Now().Add(time.Hour))
	require.NoError(t, err)
	return tok
}

func TestRoutes_RequireAuthWhenSecretSet(t *testing.T) {
	const secret = "kunci"
	e := newTestServer(t, secret)
	admin := token(t, secret, middlewares.RoleAdmin)
	viewer := token(t, secret, middlewares.RoleViewer)
	body := `{"tanggal":"2024-01-10","no_kib":"1","nama_pasien":"A","prioritas":"P1"}`

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/health", "", ""))
	assert.Equal(t, http.StatusUnauthorized, do(e, http.MethodGet, "/api/pasien", "", ""))
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/pasien", viewer, ""))
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/statistik", viewer, ""))
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodPost, "/api/pasien", viewer, body))
	assert.Equal(t, http.StatusCreated, do(e, http.MethodPost, "/api/pasien", admin, body))
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/pasien/ekspor", viewer, ""))
	assert.Equal(t, http.StatusForbidden, do(e, http.MethodPut, "/api/pengaturan", viewer, `{"store_url":""}`))
}

func TestRoutes_OpenWithoutSecret(t *testing.T) {
	e := newTestServer(t, "")
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/api/pasien", "", ""))
	assert.Equal(t, http.StatusOK, do(e, http.MethodPost, "/api/pasien/muat-ulang", "", ""))
	assert.Equal(t, http.StatusBadRequest, do(e, http.MethodDelete, "/api/pasien/x", "", ""))
	assert.Equal(t, http.StatusNotFound, do(e, http.MethodDelete, "/api/pasien/x?konfirmasi=true", "", ""))
}
