package adapters

import (
	"errors"
	"net/http"

	"github.com/toyz/vessel/pkg/vessel/web"
)

type user struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// routes registers the handlers every adapter test exercises
func routes(s web.Server) {
	s.RegisterRoute(http.MethodGet, "/users/{id}", func(rc web.RequestContext) (any, error) {
		if rc.Param("id") == "0" {
			return nil, web.ErrNotFound("user not found")
		}
		return user{ID: rc.Param("id"), Name: rc.QueryParam("name")}, nil
	})
	s.RegisterRoute(http.MethodPost, "/users", func(rc web.RequestContext) (any, error) {
		var u user
		if err := rc.Bind(&u); err != nil {
			return nil, web.ErrBadRequest("invalid body")
		}
		rc.Set("created", u.ID)
		return web.Created(map[string]any{"id": rc.Get("created"), "agent": rc.Header("User-Agent")}), nil
	})
	s.RegisterRoute(http.MethodDelete, "/users/{id}", func(web.RequestContext) (any, error) {
		return nil, nil
	})
	s.RegisterRoute(http.MethodGet, "/health", func(web.RequestContext) (any, error) {
		return &web.Response{Body: map[string]string{"status": "up"}}, nil
	})
	s.RegisterRoute(http.MethodGet, "/boom", func(web.RequestContext) (any, error) {
		return nil, errors.New("database password is hunter2")
	})
}
