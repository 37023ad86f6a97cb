// Package router wires handlers onto the versioned API group.
package router

import (
	"github.com/gin-gonic/gin"
)

// RouteRegistrar is implemented by handlers that register their own routes.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router collects route registrars and mounts them under /api/<version>.
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// NewRouter creates a Router mounting routes under the given API version.
func NewRouter(engine *gin.Engine, apiVersion string) *Router {
	if apiVersion == "" {
		apiVersion = "v1"
	}
	return &Router{
		engine:     engine,
		apiVersion: apiVersion,
	}
}

// Register adds a RouteRegistrar to be mounted on Setup.
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all collected routes with the engine.
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}
