package controllers

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/igd-dashboard/config"
	"github.com/c14220110/igd-dashboard/internal/igd/services"
	"github.com/c14220110/igd-dashboard/pkg/utils"
)

type PengaturanController struct {
	Cfg      *config.Config
	Selector *services.StoreSelector
	Service  *services.PasienService

	mu    sync.RWMutex
	aktif services.InfoStore
}

// NewPengaturanController menerima info store yang dipasang saat startup.
func NewPengaturanController(cfg *config.Config, sel *services.StoreSelector, svc *services.PasienService, aktif services.InfoStore) *PengaturanController {
	return &PengaturanController{Cfg: cfg, Selector: sel, Service: svc, aktif: aktif}
}

// GetPengaturan handles GET /api/pengaturan
func (pc *PengaturanController) GetPengaturan(c echo.Context) error {
	s, err := config.LoadSettings(pc.Cfg.SettingsFile)
	if err != nil {
		return respond(c, http.StatusInternalServerError, err.Error(), nil)
	}
	url, sumber := config.ResolveStoreURL(pc.Cfg, s)

	pc.mu.RLock()
	aktif := pc.aktif
	pc.mu.RUnlock()

	return respond(c, http.StatusOK, "Pengaturan berhasil diambil", map[string]interface{}{
		"store_url": url,
		"sumber":    sumber,
		"aktif":     aktif,
	})
}

// UpdatePengaturan handles PUT /api/pengaturan. Endpoint baru berlaku setelah muat ulang.
func (pc *PengaturanController) UpdatePengaturan(c echo.Context) error {
	var s config.Settings
	if err := c.Bind(&s); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload: "+err.Error(), nil)
	}
	if err := utils.ValidateStruct(s); err != nil {
		return respond(c, http.StatusBadRequest, "store_url harus berupa URL yang valid", nil)
	}
	if err := config.SaveSettings(pc.Cfg.SettingsFile, s); err != nil {
		return respond(c, http.StatusInternalServerError, err.Error(), nil)
	}
	return respond(c, http.StatusOK, "Pengaturan disimpan. Muat ulang untuk menerapkan.", s)
}

// MuatUlang handles POST /api/pengaturan/muat-ulang: bangun ulang store lalu muat data.
func (pc *PengaturanController) MuatUlang(c echo.Context) error {
	st, info, err := pc.Selector.Pilih()
	if err != nil {
		return respond(c, http.StatusInternalServerError, err.Error(), nil)
	}
	pc.Service.GantiStore(st)

	pc.mu.Lock()
	pc.aktif = info
	pc.mu.Unlock()

	n, err := pc.Service.Load(c.Request().Context())
	if err != nil {
		return respondError(c, err, nil)
	}
	return respond(c, http.StatusOK, "Store dimuat ulang", map[string]interface{}{
		"aktif":  info,
		"jumlah": n,
	})
}
