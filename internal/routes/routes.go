package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/c14220110/igd-dashboard/config"
	"github.com/c14220110/igd-dashboard/internal/common/middlewares"
	igdControllers "github.com/c14220110/igd-dashboard/internal/igd/controllers"
	igdServices "github.com/c14220110/igd-dashboard/internal/igd/services"
	"github.com/c14220110/igd-dashboard/ws"
)

// Deps adalah komponen yang sudah dirakit di main.
type Deps struct {
	Cfg      *config.Config
	Service  *igdServices.PasienService
	Selector *igdServices.StoreSelector
	Aktif    igdServices.InfoStore
	Hub      *ws.Hub
	Log      zerolog.Logger
}

// Init menginisialisasi semua routes menggunakan Echo framework
func Init(e *echo.Echo, d Deps) {
	// Inisialisasi controller
	authController := igdControllers.NewAuthController(d.Cfg)
	pasienController := igdControllers.NewPasienController(d.Service)
	statistikController := igdControllers.NewStatistikController(d.Service)
	pengaturanController := igdControllers.NewPengaturanController(d.Cfg, d.Selector, d.Service, d.Aktif)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{"status": "ok"})
	})
	e.GET("/ws", ws.ServeWS(d.Hub))

	// Grup API utama
	api := e.Group("/api")
	api.POST("/auth/login", authController.Login) // Tidak pakai JWT

	// Tanpa JWT_SECRET_KEY API berjalan tanpa autentikasi (mode lokal)
	var read, write []echo.MiddlewareFunc
	if d.Cfg.JWTSecret != "" {
		auth := middlewares.JWTMiddleware(d.Cfg.JWTSecret)
		read = []echo.MiddlewareFunc{auth, middlewares.RequireRole(middlewares.RoleAdmin, middlewares.RoleViewer)}
		write = []echo.MiddlewareFunc{auth, middlewares.RequireRole(middlewares.RoleAdmin)}
	} else {
		d.Log.Warn().Msg("JWT_SECRET_KEY kosong, API berjalan tanpa autentikasi")
	}

	// **Grup Pasien**
	pasien := api.Group("/pasien")
	pasien.GET("", pasienController.ListPasien, read...)
	pasien.GET("/ekspor", pasienController.EksporPasien, read...)
	pasien.GET("/:id", pasienController.GetPasien, read...)
	pasien.POST("", pasienController.CreatePasien, write...)
	pasien.PUT("/:id", pasienController.UpdatePasien, write...)
	pasien.DELETE("/:id", pasienController.DeletePasien, write...)
	pasien.POST("/muat-ulang", pasienController.MuatUlang, read...)
	pasien.POST("/impor", pasienController.ImporPasien, write...)
	pasien.POST("/arsip", pasienController.ArsipPasien, write...)

	// **Statistik dashboard**
	api.GET("/statistik", statistikController.GetStatistik, read...)

	// **Pengaturan**
	pengaturan := api.Group("/pengaturan")
	pengaturan.GET("", pengaturanController.GetPengaturan, read...)
	pengaturan.PUT("", pengaturanController.UpdatePengaturan, write...)
	pengaturan.POST("/muat-ulang", pengaturanController.MuatUlang, write...)
}
