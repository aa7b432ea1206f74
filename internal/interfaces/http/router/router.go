package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar mounts a set of routes on the versioned API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts registrars under /api/<version>
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption configures a Router
type RouterOption func(*Router)

// WithAPIVersion overrides the default "v1" prefix
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues registrars; nothing is mounted until Setup
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Area is one resource of the API (basket, order, partner...) with the
// middleware shared by all of its routes
type Area struct {
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewArea(prefix string, middleware ...gin.HandlerFunc) *Area {
	return &Area{prefix: prefix, middleware: middleware}
}

func (a *Area) Handle(method, path string, handlers ...gin.HandlerFunc) *Area {
	a.routes = append(a.routes, route{method: method, path: path, handlers: handlers})
	return a
}

func (a *Area) GET(path string, handlers ...gin.HandlerFunc) *Area {
	return a.Handle(http.MethodGet, path, handlers...)
}

func (a *Area) POST(path string, handlers ...gin.HandlerFunc) *Area {
	return a.Handle(http.MethodPost, path, handlers...)
}

func (a *Area) PUT(path string, handlers ...gin.HandlerFunc) *Area {
	return a.Handle(http.MethodPut, path, handlers...)
}

func (a *Area) PATCH(path string, handlers ...gin.HandlerFunc) *Area {
	return a.Handle(http.MethodPatch, path, handlers...)
}

func (a *Area) DELETE(path string, handlers ...gin.HandlerFunc) *Area {
	return a.Handle(http.MethodDelete, path, handlers...)
}

// RegisterRoutes implements RouteRegistrar
func (a *Area) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(a.prefix, a.middleware...)
	for _, r := range a.routes {
		group.Handle(r.method, r.path, r.handlers...)
	}
}
