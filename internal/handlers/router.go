package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/admin"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/models"
	"github.com/Zachkp/portfolio/internal/motion"
	"github.com/Zachkp/portfolio/internal/ratelimit"
	"github.com/Zachkp/portfolio/internal/site"
)

// ContentStore reads the published experiences and projects.
type ContentStore interface {
	ListExperiences(ctx context.Context) ([]models.Experience, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
}

// Submitter accepts contact form submissions.
type Submitter interface {
	Submit(ctx context.Context, req contact.Request) (*contact.Receipt, error)
}

// Pinger checks a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps is everything the router needs.
type Deps struct {
	Config  *config.Config
	Logger  *slog.Logger
	Content ContentStore
	Contact Submitter
	Limiter *ratelimit.Limiter
	Health  Pinger
	Hero    motion.HeroConfig
	// Admin is optional; without it there is no admin surface or visitor tracking.
	Admin *admin.Admin
}

// SetupRoutes configures all routes and returns the engine.
func SetupRoutes(d Deps) (*gin.Engine, error) {
	tmpl, err := site.Templates()
	if err != nil {
		return nil, err
	}
	corsMW, err := CORS(d.Config.AllowedOrigins)
	if err != nil {
		return nil, fmt.Errorf("handlers.SetupRoutes: %w", err)
	}

	r := gin.New()
	// nil trusts no proxy, so ClientIP is the socket peer
	if err := r.SetTrustedProxies(d.Config.TrustedProxies); err != nil {
		return nil, fmt.Errorf("handlers.SetupRoutes: trusted proxies: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	r.Use(Recovery(d.Logger))
	r.Use(RequestLogger(d.Logger))
	r.Use(SecurityHeaders())
	r.Use(corsMW)
	if d.Admin != nil {
		r.Use(d.Admin.TrackVisits())
	}

	content := NewContentHandler(d.Content, d.Health, d.Hero, d.Logger)
	contactHandler := NewContactHandler(d.Contact, d.Logger)
	pages := NewPageHandler(d.Content, d.Hero, d.Config.OwnerEmail, d.Logger)

	api := r.Group("/api")
	{
		api.GET("/health", content.Health)
		api.GET("/experiences", content.Experiences)
		api.GET("/projects", content.Projects)
		api.GET("/hero", content.Hero)
		api.POST("/contact", d.Limiter.Middleware(ratelimit.RetryMessage(d.Limiter.Period())), contactHandler.Submit)
		api.POST("/theme", pages.ToggleTheme)
	}

	r.GET("/", pages.Index)
	r.GET("/work-content", pages.Work)
	r.GET("/projects-content", pages.Projects)

	r.Static("/static", d.Config.StaticDir)
	r.Static("/images", d.Config.ImagesDir)

	if d.Admin != nil {
		d.Admin.Register(r)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return r, nil
}
