package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/jorsalda/gestion-permisos-colegios/config"
	"github.com/jorsalda/gestion-permisos-colegios/handlers"
	"github.com/jorsalda/gestion-permisos-colegios/middlewares"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, db *gorm.DB, cfg *config.Config) {
	auth := handlers.NewAuthHandler(db, cfg)
	doc := handlers.NewDocenteHandler(db)
	per := handlers.NewPermisoHandler(db)
	adm := handlers.NewAdminHandler(db)

	// ===== Public =====
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/formulario")
	})
	e.GET("/health", handlers.Health)
	e.POST("/register", auth.Register)
	e.POST("/login", auth.Login)
	e.GET("/logout", auth.Logout)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)
	accessMW := middlewares.RequireAccess(db)

	// ===== School routes (authenticated + trial/approval gate) =====
	app := e.Group("", authMW, accessMW)

	app.GET("/formulario", per.Formulario)
	app.POST("/formulario", per.FormularioPost)
	app.GET("/listado", per.Listado)

	app.GET("/docentes", doc.List)
	app.POST("/docente/nuevo", doc.Create)
	app.GET("/docente/editar/:id", doc.Get)
	app.POST("/docente/editar/:id", doc.Update)
	app.POST("/docente/eliminar/:id", doc.Delete)

	app.GET("/permiso/editar/:id", per.EditForm)
	app.POST("/permiso/editar/:id", per.Update)
	app.POST("/permiso/eliminar/:id", per.Delete)
	app.GET("/permiso/:id", per.Get)

	// ===== Admin routes =====
	admin := e.Group("/admin", authMW, middlewares.RequireRole("admin"))
	admin.GET("/solicitudes", adm.Solicitudes)
	admin.GET("/aprobar/:id", adm.Aprobar)
	admin.GET("/rechazar/:id", adm.Rechazar)
}
