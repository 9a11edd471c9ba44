package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/models"
	"github.com/Zachkp/portfolio/internal/motion"
	"github.com/Zachkp/portfolio/internal/site"
)

const themeCookieMaxAge = 365 * 24 * 3600

// cookieStorage keeps motion.Storage values in cookies.
type cookieStorage struct {
	c *gin.Context
}

func (s cookieStorage) Get(key string) (string, bool) {
	v, err := s.c.Cookie(key)
	if err != nil {
		return "", false
	}
	return v, true
}

func (s cookieStorage) Set(key, value string) {
	s.c.SetSameSite(http.SameSiteLaxMode)
	s.c.SetCookie(key, value, themeCookieMaxAge, "/", "", false, false)
}

// PageHandler renders the server-side pages.
type PageHandler struct {
	store      ContentStore
	hero       motion.HeroManifest
	ownerEmail string
	logger     *slog.Logger
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(store ContentStore, hero motion.HeroConfig, ownerEmail string, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		store:      store,
		hero:       hero.Manifest(),
		ownerEmail: ownerEmail,
		logger:     logger,
	}
}

// Index handles GET /. Content that fails to load renders as empty sections.
func (h *PageHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	exps, projs := h.loadContent(ctx)

	page, err := site.NewPage(site.PageInput{
		Theme:       motion.LoadTheme(cookieStorage{c}),
		OwnerEmail:  h.ownerEmail,
		Hero:        h.hero,
		Experiences: exps,
		Projects:    projs,
	})
	if err != nil {
		h.logger.Error("building page", "err", err)
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}
	c.HTML(http.StatusOK, site.IndexTemplate, page)
}

func (h *PageHandler) loadContent(ctx context.Context) ([]models.Experience, []models.Project) {
	exps, err := h.store.ListExperiences(ctx)
	if err != nil {
		h.logger.Error("listing experiences for page", "err", err)
		exps = nil
	}
	projs, err := h.store.ListProjects(ctx)
	if err != nil {
		h.logger.Error("listing projects for page", "err", err)
		projs = nil
	}
	return exps, projs
}

// Work handles GET /work-content
func (h *PageHandler) Work(c *gin.Context) {
	exps, err := h.store.ListExperiences(c.Request.Context())
	if err != nil {
		h.logger.Error("listing experiences", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch experiences"})
		return
	}
	c.HTML(http.StatusOK, site.WorkTemplate, site.NewWorkView(exps))
}

// Projects handles GET /projects-content
func (h *PageHandler) Projects(c *gin.Context) {
	projs, err := h.store.ListProjects(c.Request.Context())
	if err != nil {
		h.logger.Error("listing projects", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}
	c.HTML(http.StatusOK, site.ProjectsTemplate, site.NewProjectsView(projs))
}

// ToggleTheme handles POST /api/theme
func (h *PageHandler) ToggleTheme(c *gin.Context) {
	store := cookieStorage{c}
	next := motion.ToggleTheme(motion.LoadTheme(store), store)
	c.JSON(http.StatusOK, gin.H{"theme": next})
}
