package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/igd-dashboard/internal/igd/models"
	"github.com/c14220110/igd-dashboard/internal/igd/services"
	"github.com/c14220110/igd-dashboard/pkg/store"
)

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

// statusFromError memetakan error service ke status HTTP.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, services.ErrKonfirmasi), errors.Is(err, services.ErrImporTidakValid):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrSedangDiproses):
		return http.StatusConflict
	case errors.Is(err, services.ErrArsipNonaktif):
		return http.StatusServiceUnavailable
	case errors.Is(err, store.ErrRemote), errors.Is(err, context.DeadlineExceeded):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError mengirim amplop gagal beserta notifikasi untuk toast dashboard.
func respondError(c echo.Context, err error, notif *models.Notifikasi) error {
	if notif == nil {
		notif = &models.Notifikasi{Level: services.LevelError, Pesan: err.Error()}
	}
	return respond(c, statusFromError(err), err.Error(), map[string]interface{}{
		"notifikasi": notif,
	})
}
