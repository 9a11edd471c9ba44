package admin

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/store"
)

const (
	sessionMaxAge       = 24 * 3600
	defaultMessageLimit = 50
	maxMessageLimit     = 500
)

var untrackedPrefixes = []string{"/static/", "/images/", "/admin/", "/api/", "/favicon"}

// AuthMiddleware accepts the session cookie or an "Authorization: Bearer" token.
func (a *Admin) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			token = bearerToken(c.GetHeader("Authorization"))
		}
		if !a.validToken(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func bearerToken(h string) string {
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}

// TrackVisits records page views with a hashed IP in the background.
// Assets, the API, admin pages and DNT requests are skipped.
func (a *Admin) TrackVisits() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || c.GetHeader("DNT") == "1" || untracked(path) {
			c.Next()
			return
		}
		a.recordVisit(c.ClientIP(), c.GetHeader("User-Agent"), path)
		c.Next()
	}
}

func untracked(path string) bool {
	for _, p := range untrackedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Register mounts the admin routes.
func (a *Admin) Register(r *gin.Engine) {
	r.POST("/admin/login", a.login)
	r.GET("/admin/logout", a.logout)

	g := r.Group("/admin/api")
	g.Use(a.AuthMiddleware())
	g.GET("/stats", a.stats)
	g.GET("/messages", a.messages)
	g.POST("/messages/:id/resend", a.resend)
	g.POST("/privacy/cleanup", a.cleanup)
}

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (a *Admin) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !a.checkCredentials(req.Username, req.Password) {
		a.logger.Warn("failed admin login attempt", "client", a.HashIP(c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(CookieName, a.token, sessionMaxAge, "/admin", "", c.Request.TLS != nil, true)
	a.logger.Info("admin login successful", "client", a.HashIP(c.ClientIP()))
	c.JSON(http.StatusOK, gin.H{"token": a.token})
}

func (a *Admin) logout(c *gin.Context) {
	c.SetCookie(CookieName, "", -1, "/admin", "", c.Request.TLS != nil, true)
	a.logger.Info("admin logout", "client", a.HashIP(c.ClientIP()))
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (a *Admin) stats(c *gin.Context) {
	stats, err := a.Stats(c.Request.Context())
	if err != nil {
		a.logger.Error("loading admin stats", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load statistics"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (a *Admin) messages(c *gin.Context) {
	limit := defaultMessageLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = min(n, maxMessageLimit)
	}

	msgs, err := a.store.ListMessages(c.Request.Context(), limit)
	if err != nil {
		a.logger.Error("listing messages", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load messages"})
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (a *Admin) resend(c *gin.Context) {
	id := c.Param("id")
	err := a.resender.Resend(c.Request.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
	case err != nil:
		a.logger.Warn("admin resend failed", "message_id", id, "err", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to send notification"})
	default:
		a.logger.Info("notification resent by admin", "message_id", id)
		c.JSON(http.StatusOK, gin.H{"message": "Notification sent"})
	}
}

func (a *Admin) cleanup(c *gin.Context) {
	n, err := a.Cleanup(c.Request.Context())
	if err != nil {
		a.logger.Error("privacy cleanup", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Privacy cleanup failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}
