package adapters

import (
	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/labstack/echo/v4"

	"github.com/toyz/vessel/pkg/vessel"
	"github.com/toyz/vessel/pkg/vessel/web"
)

// MountEcho registers the routes of every controller in m on e
func MountEcho(e *echo.Echo, m *vessel.ContainerManager) ([]web.MountedRoute, error) {
	return web.Mount(NewEchoAdapter(e), m)
}

// MountGin registers the routes of every controller in m on g
func MountGin(g *gin.Engine, m *vessel.ContainerManager) ([]web.MountedRoute, error) {
	return web.Mount(NewGinAdapter(g), m)
}

// MountFiber registers the routes of every controller in m on app
func MountFiber(app *fiber.App, m *vessel.ContainerManager) ([]web.MountedRoute, error) {
	return web.Mount(NewFiberAdapter(app), m)
}

// MountChi registers the routes of every controller in m on r
func MountChi(r chi.Router, m *vessel.ContainerManager) ([]web.MountedRoute, error) {
	return web.Mount(NewChiAdapter(r), m)
}
