package controllers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/c14220110/igd-dashboard/internal/igd/models"
	"github.com/c14220110/igd-dashboard/internal/igd/services"
	"github.com/c14220110/igd-dashboard/pkg/utils"
)

// batas ukuran file impor
const maxImporBytes = 10 << 20

type PasienController struct {
	Service *services.PasienService
}

func NewPasienController(service *services.PasienService) *PasienController {
	return &PasienController{Service: service}
}

// kriteriaFromQuery membaca mulai, akhir, q, dan fields dari query string.
func kriteriaFromQuery(c echo.Context) (models.Kriteria, error) {
	k := models.Kriteria{
		Mulai: strings.TrimSpace(c.QueryParam("mulai")),
		Akhir: strings.TrimSpace(c.QueryParam("akhir")),
		Query: c.QueryParam("q"),
	}
	for _, d := range []string{k.Mulai, k.Akhir} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return k, fmt.Errorf("format tanggal %q tidak valid. Gunakan format YYYY-MM-DD", d)
		}
	}
	if f := c.QueryParam("fields"); f != "" {
		fields, err := models.ParseFieldPencarian(f)
		if err != nil {
			return k, err
		}
		k.Fields = fields
	}
	return k, nil
}

// ListPasien handles GET /api/pasien
func (pc *PasienController) ListPasien(c echo.Context) error {
	k, err := kriteriaFromQuery(c)
	if err != nil {
		return respond(c, http.StatusBadRequest, err.Error(), nil)
	}
	list := pc.Service.Cari(k)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  http.StatusOK,
		"message": "Data pasien berhasil diambil",
		"data":    list,
		"total":   len(list),
	})
}

// GetPasien handles GET /api/pasien/:id
func (pc *PasienController) GetPasien(c echo.Context) error {
	p, err := pc.Service.Get(c.Param("id"))
	if err != nil {
		return respond(c, statusFromError(err), "Data pasien tidak ditemukan", nil)
	}
	return respond(c, http.StatusOK, "Data pasien berhasil diambil", p)
}

// CreatePasien handles POST /api/pasien
func (pc *PasienController) CreatePasien(c echo.Context) error {
	var p models.Pasien
	if err := c.Bind(&p); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload: "+err.Error(), nil)
	}
	if err := utils.ValidateStruct(p); err != nil {
		return respond(c, http.StatusBadRequest, utils.ValidationMessage(err), nil)
	}

	created, notif, err := pc.Service.Create(c.Request().Context(), p)
	if err != nil {
		return respondError(c, err, &notif)
	}
	return respond(c, http.StatusCreated, notif.Pesan, map[string]interface{}{
		"pasien":     created,
		"notifikasi": notif,
	})
}

// UpdatePasien handles PUT /api/pasien/:id
func (pc *PasienController) UpdatePasien(c echo.Context) error {
	var p models.Pasien
	if err := c.Bind(&p); err != nil {
		return respond(c, http.StatusBadRequest, "Invalid request payload: "+err.Error(), nil)
	}
	// id dari path yang berlaku
	p.ID = c.Param("id")
	if err := utils.ValidateStruct(p); err != nil {
		return respond(c, http.StatusBadRequest, utils.ValidationMessage(err), nil)
	}

	updated, notif, err := pc.Service.Update(c.Request().Context(), p)
	if err != nil {
		return respondError(c, err, &notif)
	}
	return respond(c, http.StatusOK, notif.Pesan, map[string]interface{}{
		"pasien":     updated,
		"notifikasi": notif,
	})
}

// DeletePasien handles DELETE /api/pasien/:id?konfirmasi=true
func (pc *PasienController) DeletePasien(c echo.Context) error {
	confirmed := cast.ToBool(c.QueryParam("konfirmasi"))
	notif, err := pc.Service.Delete(c.Request().Context(), c.Param("id"), confirmed)
	if err != nil {
		return respondError(c, err, &notif)
	}
	return respond(c, http.StatusOK, notif.Pesan, map[string]interface{}{
		"id":         c.Param("id"),
		"notifikasi": notif,
	})
}

// MuatUlang handles POST /api/pasien/muat-ulang
func (pc *PasienController) MuatUlang(c echo.Context) error {
	n, err := pc.Service.Load(c.Request().Context())
	if err != nil {
		return respondError(c, err, nil)
	}
	return respond(c, http.StatusOK, "Data pasien dimuat ulang", map[string]interface{}{
		"jumlah": n,
	})
}

// ImporPasien handles POST /api/pasien/impor. Body berupa array JSON atau
// multipart dengan field "file".
func (pc *PasienController) ImporPasien(c echo.Context) error {
	data, err := readImporBody(c)
	if err != nil {
		return respond(c, http.StatusBadRequest, err.Error(), nil)
	}
	items, err := services.ParseImpor(data)
	if err != nil {
		return respondError(c, err, nil)
	}

	hasil, notif, err := pc.Service.Import(c.Request().Context(), items)
	if err != nil {
		return respondError(c, err, &notif)
	}
	return respond(c, http.StatusOK, notif.Pesan, map[string]interface{}{
		"hasil":      hasil,
		"notifikasi": notif,
	})
}

func readImporBody(c echo.Context) ([]byte, error) {
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("file impor tidak ditemukan: %w", err)
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxImporBytes))
	}
	return io.ReadAll(io.LimitReader(c.Request().Body, maxImporBytes))
}

// EksporPasien handles GET /api/pasien/ekspor
func (pc *PasienController) EksporPasien(c echo.Context) error {
	data, err := services.Ekspor(pc.Service.Snapshot())
	if err != nil {
		return respondError(c, err, nil)
	}
	name := fmt.Sprintf("igd-backup-%s.json", time.Now().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, data)
}

// ArsipPasien handles POST /api/pasien/arsip
func (pc *PasienController) ArsipPasien(c echo.Context) error {
	loc, err := pc.Service.Arsip(c.Request().Context())
	if err != nil {
		return respondError(c, err, nil)
	}
	return respond(c, http.StatusOK, "Backup berhasil diarsipkan", map[string]interface{}{
		"lokasi": loc,
	})
}
