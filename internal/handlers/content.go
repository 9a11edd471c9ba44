package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/motion"
)

// ContentHandler serves the read-only API.
type ContentHandler struct {
	store  ContentStore
	health Pinger
	hero   motion.HeroManifest
	logger *slog.Logger
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(store ContentStore, health Pinger, hero motion.HeroConfig, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{
		store:  store,
		health: health,
		hero:   hero.Manifest(),
		logger: logger,
	}
}

// Experiences handles GET /api/experiences
func (h *ContentHandler) Experiences(c *gin.Context) {
	exps, err := h.store.ListExperiences(c.Request.Context())
	if err != nil {
		h.logger.Error("listing experiences", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch experiences"})
		return
	}
	c.JSON(http.StatusOK, exps)
}

// Projects handles GET /api/projects
func (h *ContentHandler) Projects(c *gin.Context) {
	projs, err := h.store.ListProjects(c.Request.Context())
	if err != nil {
		h.logger.Error("listing projects", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}
	c.JSON(http.StatusOK, projs)
}

// Hero handles GET /api/hero
func (h *ContentHandler) Hero(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, h.hero)
}

// Health handles GET /api/health
func (h *ContentHandler) Health(c *gin.Context) {
	if h.health != nil {
		if err := h.health.Ping(c.Request.Context()); err != nil {
			h.logger.Error("health check failed", "err", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
