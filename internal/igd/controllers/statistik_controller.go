package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/c14220110/igd-dashboard/internal/igd/services"
)

type StatistikController struct {
	Service *services.PasienService
}

func NewStatistikController(svc *services.PasienService) *StatistikController {
	return &StatistikController{Service: svc}
}

// GetStatistik handles GET /api/statistik. Filter sama dengan GET /api/pasien.
func (sc *StatistikController) GetStatistik(c echo.Context) error {
	k, err := kriteriaFromQuery(c)
	if err != nil {
		return respond(c, http.StatusBadRequest, err.Error(), nil)
	}
	return respond(c, http.StatusOK, "Statistik berhasil dihitung", sc.Service.Statistik(k))
}
