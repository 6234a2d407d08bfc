package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar wires a handler's routes into a router group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router assembles the HTTP surface. API routes sit behind the merchant
// session under /api/v1; public routes (webhooks, carrier callbacks,
// probes) are registered at the root and carry their own verification.
type Router struct {
	engine     *gin.Engine
	session    gin.HandlerFunc
	api        []RouteRegistrar
	public     []RouteRegistrar
	registered bool
}

func New(engine *gin.Engine, session gin.HandlerFunc) *Router {
	return &Router{engine: engine, session: session}
}

// RegisterAPI adds a registrar to the authenticated API group.
func (r *Router) RegisterAPI(registrars ...RouteRegistrar) {
	r.api = append(r.api, registrars...)
}

// RegisterPublic adds a registrar to the unauthenticated root group.
func (r *Router) RegisterPublic(registrars ...RouteRegistrar) {
	r.public = append(r.public, registrars...)
}

// Setup mounts all registered routes. Safe to call once.
func (r *Router) Setup() {
	if r.registered {
		return
	}
	r.registered = true

	root := r.engine.Group("")
	for _, reg := range r.public {
		reg.RegisterRoutes(root)
	}

	api := r.engine.Group("/api/v1")
	if r.session != nil {
		api.Use(r.session)
	}
	for _, reg := range r.api {
		reg.RegisterRoutes(api)
	}
}
