// Copyright 2025 The paneld Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package web

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/openpanel/paneld/pkg/auth"
	"github.com/openpanel/paneld/pkg/log"
	"github.com/openpanel/paneld/pkg/web/controller"
	"github.com/openpanel/paneld/pkg/web/model"
)

// SubjectContextKey is where the bearer-token middleware stores the
// authenticated username for downstream handlers.
const SubjectContextKey = "username"

const bearerPrefix = "Bearer "

// NewRouter builds a Gin engine with all paneld routes. Every route under
// /api except login requires a valid bearer token.
func NewRouter(gate *auth.Gate) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logMiddleware(), cors.New(corsConfig()))

	r.GET("/ping", controller.PingHandler)

	api := r.Group("/api")
	api.POST("/login", withAuth(func(c *controller.AuthController) { c.Login() }))

	protected := api.Group("")
	protected.Use(bearerTokenMiddleware(gate))
	{
		protected.GET("/system", withSystem(func(c *controller.SystemController) { c.GetSystem() }))
		protected.GET("/system/watch", withSystem(func(c *controller.SystemController) { c.WatchSystem() }))
		protected.GET("/system/ws", withSystem(func(c *controller.SystemController) { c.StreamSystem() }))
		protected.GET("/processes", withSystem(func(c *controller.SystemController) { c.GetProcesses() }))
		protected.GET("/services", withService(func(c *controller.ServiceController) { c.GetServices() }))
		protected.GET("/files", withFilesystem(func(c *controller.FilesystemController) { c.ListFiles() }))
	}

	return r
}

func withAuth(fn func(*controller.AuthController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewAuthController(ctx))
	}
}

func withSystem(fn func(*controller.SystemController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewSystemController(ctx))
	}
}

func withService(fn func(*controller.ServiceController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewServiceController(ctx))
	}
}

func withFilesystem(fn func(*controller.FilesystemController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewFilesystemController(ctx))
	}
}

// bearerTokenMiddleware rejects requests without a valid bearer token and
// forwards the verified subject through the request context.
func bearerTokenMiddleware(gate *auth.Gate) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
				Code:    model.ErrorCodeUnauthorized,
				Message: "missing or malformed Authorization header",
			})
			return
		}

		subject, err := gate.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{
				Code:    model.ErrorCodeUnauthorized,
				Message: "invalid or expired token",
			})
			return
		}

		ctx.Set(SubjectContextKey, subject)
		ctx.Next()
	}
}

// The panel UI may be served from any origin.
func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	return cfg
}

func logMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		log.Info("Requested: %v - %v", ctx.Request.Method, ctx.Request.URL.String())
		ctx.Next()
	}
}
