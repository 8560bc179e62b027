package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/c14220110/igd-dashboard/config"
	"github.com/c14220110/igd-dashboard/internal/igd/models"
	"github.com/c14220110/igd-dashboard/internal/igd/services"
	"github.com/c14220110/igd-dashboard/pkg/store/memstore"
	"github.com/c14220110/igd-dashboard/pkg/utils"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func seedPasien() []models.Pasien {
	return []models.Pasien{
		{ID: "a", No: "1", Tanggal: "2024-01-03", NoKIB: "1001", NamaPasien: "Budi", Prioritas: models.P1, JamDatang: "07:10", DPJP: "dr. Rina"},
		{ID: "b", No: "2", Tanggal: "2024-01-05", NoKIB: "1002", NamaPasien: "Siti", Prioritas: models.P2, JamDatang: "14:30", Ket: models.KetRujuk},
	}
}

func newService(t *testing.T, seed ...models.Pasien) *services.PasienService {
	t.Helper()
	svc := services.NewPasienService(memstore.New(seed...), nil, nil, zerolog.Nop())
	_, err := svc.Load(context.Background())
	require.NoError(t, err)
	return svc
}

func request(method, target, body string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	return req, httptest.NewRecorder()
}

func TestListPasien_Filters(t *testing.T) {
	e := echo.New()
	pc := NewPasienController(newService(t, seedPasien()...))

	req, rec := request(http.MethodGet, "/api/pasien?mulai=2024-01-04&q=SITI", "")
	require.NoError(t, pc.ListPasien(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)

	var list []models.Pasien
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)
}

func TestListPasien_StartAfterEndIsEmpty(t *testing.T) {
	e := echo.New()
	pc := NewPasienController(newService(t, seedPasien()...))

	req, rec := request(http.MethodGet, "/api/pasien?mulai=2024-01-10&akhir=2024-01-05", "")
	require.NoError(t, pc.ListPasien(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", string(decode(t, rec).Data))
}

func TestListPasien_BadQuery(t *testing.T) {
	e := echo.New()
	pc := NewPasienController(newService(t))

	for _, target := range []string{"/api/pasien?mulai=10-01-2024", "/api/pasien?fields=semua"} {
		req, rec := request(http.MethodGet, target, "")
		require.NoError(t, pc.ListPasien(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestGetPasien(t *testing.T) {
	e := echo.New()
	pc := NewPasienController(newService(t, seedPasien()...))

	req, rec := request(http.MethodGet, "/", "")
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("zzz")
	require.NoError(t, pc.GetPasien(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateUpdateDeleteFlow(t *testing.T) {
	e := echo.New()
	svc := newService(t)
	pc := NewPasienController(svc)

	body := `{"tanggal":"2024-01-10","no_kib":"5005","nama_pasien":"Agus","prioritas":"P3","jam_datang":"09:15","ket":"Rawat Jalan"}`
	req, rec := request(http.MethodPost, "/api/pasien", body)
	require.NoError(t, pc.CreatePasien(e.NewContext(req, rec)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Pasien     models.Pasien     `json:"pasien"`
		Notifikasi models.Notifikasi `json:"notifikasi"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &created))
	require.NotEmpty(t, created.Pasien.ID)
	assert.Equal(t, services.LevelSuccess, created.Notifikasi.Level)

	// update
	body = `{"tanggal":"2024-01-10","no_kib":"5005","nama_pasien":"Agus Salim","prioritas":"P2","jam_datang":"09:15"}`
	req, rec = request(http.MethodPut, "/", body)
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(created.Pasien.ID)
	require.NoError(t, pc.UpdatePasien(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, err := svc.Get(created.Pasien.ID)
	require.NoError(t, err)
	assert.Equal(t, "Agus Salim", got.NamaPasien)

	// hapus tanpa konfirmasi ditolak
	req, rec = request(http.MethodDelete, "/", "")
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(created.Pasien.ID)
	require.NoError(t, pc.DeletePasien(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, svc.Snapshot(), 1)

	req, rec = request(http.MethodDelete, "/?konfirmasi=true", "")
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(created.Pasien.ID)
	require.NoError(t, pc.DeletePasien(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, svc.Snapshot())

	// hapus lagi: tidak ditemukan
	req, rec = request(http.MethodDelete, "/?konfirmasi=true", "")
	c = e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(created.Pasien.ID)
	require.NoError(t, pc.DeletePasien(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreatePasien_Validation(t *testing.T) {
	e := echo.New()
	pc := NewPasienController(newService(t))

	tests := []struct {
		name string
		body string
	}{
		{"json rusak", `{"tanggal":`},
		{"tanpa nama", `{"tanggal":"2024-01-10","no_kib":"1","prioritas":"P1"}`},
		{"prioritas salah", `{"tanggal":"2024-01-10","no_kib":"1","nama_pasien":"A","prioritas":"P9"}`},
		{"tanggal salah", `{"tanggal":"10/01/2024","no_kib":"1","nama_pasien":"A","prioritas":"P1"}`},
		{"jam salah", `{"tanggal":"2024-01-10","no_kib":"1","nama_pasien":"A","prioritas":"P1","jam_datang":"25:99"}`},
		{"ket salah", `{"tanggal":"2024-01-10","no_kib":"1","nama_pasien":"A","prioritas":"P1","ket":"Pulang"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := request(http.MethodPost, "/api/pasien", tt.body)
			require.NoError(t, pc.CreatePasien(e.NewContext(req, rec)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestImporPasien_JSONBody(t *testing.T) {
	e := echo.New()
	svc := newService(t, seedPasien()...)
	pc := NewPasienController(svc)

	body := `[
		{"noKib":"1001","namaPasien":"Budi lagi","tanggal":"2024-01-11","prioritas":"P1"},
		{"noKib":"2001","namaPasien":"Dewi","tanggal":"2024-01-11","prioritas":"P4"},
		{"no_kib":"2002","nama_pasien":"Eko","tanggal":"2024-01-11","prioritas":"P5"}
	]`
	req, rec := request(http.MethodPost, "/api/pasien/impor", body)
	require.NoError(t, pc.ImporPasien(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env := decode(t, rec)
	assert.Equal(t, "2 imported", env.Message)
	assert.Len(t, svc.Snapshot(), 4)
}

func TestImporPasien_Multipart(t *testing.T) {
	e := echo.New()
	svc := newService(t)
	pc := NewPasienController(svc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "backup.json")
	require.NoError(t, err)
	_, err = fw.Write([]byte(`{"data":[{"noKib":"1","namaPasien":"A","tanggal":"2024-01-01","prioritas":"P1"}]}`))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/pasien/impor", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	require.NoError(t, pc.ImporPasien(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, svc.Snapshot(), 1)
}

func TestImporPasien_Malformed(t *testing.T) {
	e := echo.New()
	svc := newService(t)
	pc := NewPasienController(svc)

	for _, body := range []string{"bukan json", `{"pasien":1}`, `[1,2]`, ""} {
		req, rec := request(http.MethodPost, "/api/pasien/impor", body)
		require.NoError(t, pc.ImporPasien(e.NewContext(req, rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Empty(t, svc.Snapshot())
}

func TestEksporPasien(t *testing.T) {
	e := echo.New()
	pc := NewPasienController(newService(t, seedPasien()...))

	req, rec := request(http.MethodGet, "/api/pasien/ekspor", "")
	require.NoError(t, pc.EksporPasien(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "attachment")

	restored, err := services.ParseImpor(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, seedPasien(), restored)
}

func TestArsipPasien_NotConfigured(t *testing.T) {
	e := echo.New()
	pc := NewPasienController(newService(t))

	req, rec := request(http.MethodPost, "/api/pasien/arsip", "")
	require.NoError(t, pc.ArsipPasien(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetStatistik(t *testing.T) {
	e := echo.New()
	sc := NewStatistikController(newService(t, seedPasien()...))

	req, rec := request(http.MethodGet, "/api/statistik?akhir=2024-01-04", "")
	require.NoError(t, sc.GetStatistik(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var r models.Ringkasan
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &r))
	assert.Equal(t, 1, r.Total)
	assert.Equal(t, 1, r.PerPrioritas[0].Count)
	assert.Equal(t, 100, r.PerPrioritas[0].Persen)
	assert.Len(t, r.PerJam, 17)
}

func TestPengaturan_SaveThenReload(t *testing.T) {
	e := echo.New()
	path := filepath.Join(t.TempDir(), "pengaturan.yaml")
	cfg := &config.Config{SettingsFile: path}

	svc := newService(t)
	sel := services.NewStoreSelector(cfg, zerolog.Nop())
	pc := NewPengaturanController(cfg, sel, svc, services.InfoStore{Jenis: services.JenisMemori})

	// URL tidak valid ditolak
	req, rec := request(http.MethodPut, "/api/pengaturan", `{"store_url":"bukan url"}`)
	require.NoError(t, pc.UpdatePengaturan(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// endpoint palsu yang mengembalikan satu baris
	sheet := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"x1","no":1,"tanggal":"2024-02-01","noKib":"77","namaPasien":"Remote","prioritas":"P2"}]`))
	}))
	defer sheet.Close()

	req, rec = request(http.MethodPut, "/api/pengaturan", `{"store_url":"`+sheet.URL+`"}`)
	require.NoError(t, pc.UpdatePengaturan(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// belum berlaku sebelum muat ulang
	assert.Empty(t, svc.Snapshot())

	req, rec = request(http.MethodGet, "/api/pengaturan", "")
	require.NoError(t, pc.GetPengaturan(e.NewContext(req, rec)))
	var info struct {
		StoreURL string             `json:"store_url"`
		Sumber   string             `json:"sumber"`
		Aktif    services.InfoStore `json:"aktif"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &info))
	assert.Equal(t, sheet.URL, info.StoreURL)
	assert.Equal(t, config.SumberPengaturan, info.Sumber)
	assert.Equal(t, services.JenisMemori, info.Aktif.Jenis)

	req, rec = request(http.MethodPost, "/api/pengaturan/muat-ulang", "")
	require.NoError(t, pc.MuatUlang(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	snap := svc.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "Remote", snap[0].NamaPasien)
	assert.Equal(t, "1", snap[0].No)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia"), bcrypt.MinCost)
	require.NoError(t, err)
	cfg := &config.Config{
		JWTSecret:         "kunci",
		AdminUsername:     "admin",
		AdminPasswordHash: string(hash),
	}
	ac := NewAuthController(cfg)
	e := echo.New()

	req, rec := request(http.MethodPost, "/api/auth/login", `{"username":"admin","password":"salah"}`)
	require.NoError(t, ac.Login(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req, rec = request(http.MethodPost, "/api/auth/login", `{"username":"admin"}`)
	require.NoError(t, ac.Login(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req, rec = request(http.MethodPost, "/api/auth/login", `{"username":"admin","password":"rahasia"}`)
	require.NoError(t, ac.Login(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var data struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &data))
	assert.Equal(t, "admin", data.Role)

	claims, err := utils.ValidateJWTToken("kunci", data.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
}
