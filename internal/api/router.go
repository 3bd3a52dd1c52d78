// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter builds the gin engine with all routes registered.
func NewRouter(h *Handler, enableMetrics bool) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.POST("/uploads/timesheet", h.UploadTimesheet)
		api.POST("/uploads/:id/confirm", h.ConfirmUpload)
		api.GET("/employees", h.ListEmployees)
		api.GET("/shifts", h.ListShifts)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if enableMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	return r
}
