package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"concierge/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// setupStaticFiles serves the listing image placeholder and assets under dir
func setupStaticFiles(router *gin.Engine, dir string, logger *zap.Logger) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		logger.Warn("Static directory not found, placeholder image will 404", zap.String("dir", dir))
	} else {
		logger.Info("Serving static assets", zap.String("dir", dir))
		router.Static("/static", dir)
		router.StaticFile(model.PlaceholderImage, filepath.Join(dir, strings.TrimPrefix(model.PlaceholderImage, "/")))
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Not found",
			"hint":  "The concierge API is served under /api/v1",
		})
	})
}
