// Package admin is the privacy-conscious admin surface: a token-cookie login,
// the contact message inbox with notification resend, and visitor statistics
// built from salted IP hashes.
package admin

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Zachkp/portfolio/internal/models"
	"github.com/Zachkp/portfolio/internal/store"
)

const (
	// CookieName holds the session token.
	CookieName = "admin_token"

	defaultUsername = "admin"
	defaultPassword = "admin123"

	// VisitRetention is how long visits are kept before the privacy cleanup removes them.
	VisitRetention = 365 * 24 * time.Hour
)

// Store is the persistence the admin surface reads and writes.
type Store interface {
	RecordVisit(ctx context.Context, v models.Visit) error
	VisitorStats(ctx context.Context) (*store.VisitorStats, error)
	DeleteVisitsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	CountMessages(ctx context.Context) (map[models.DeliveryStatus]int64, error)
	ListMessages(ctx context.Context, limit int) ([]models.Message, error)
}

// Resender re-attempts a message notification.
type Resender interface {
	Resend(ctx context.Context, id string) error
}

// Config holds the credentials. Password may be a bcrypt hash.
type Config struct {
	Username string
	Password string
	// HashSalt salts visitor IP hashes; random per process when empty.
	HashSalt string
	// Production disables the development credential defaults.
	Production bool
}

// Stats is the dashboard summary.
type Stats struct {
	store.VisitorStats
	Messages map[models.DeliveryStatus]int64 `json:"messages"`
	// TotalMessages sums Messages.
	TotalMessages int64 `json:"total_messages"`
}

// Admin owns the session token and hashing salt for this process.
type Admin struct {
	store    Store
	resender Resender
	logger   *slog.Logger

	username string
	password string
	token    string
	salt     string

	now func() time.Time
	// track runs visit recording; tests make it synchronous.
	track func(func())
}

// New initialises the admin system.
func New(cfg Config, st Store, r Resender, logger *slog.Logger) (*Admin, error) {
	if cfg.Production && (cfg.Username == "" || cfg.Password == "") {
		return nil, errors.New("admin: ADMIN_USERNAME and ADMIN_PASSWORD are required in production")
	}
	if cfg.Username == "" {
		cfg.Username = defaultUsername
		logger.Warn("using default admin username, set ADMIN_USERNAME")
	}
	if cfg.Password == "" {
		cfg.Password = defaultPassword
		logger.Warn("using default admin password, set ADMIN_PASSWORD")
	}

	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("admin.New: %w", err)
	}
	salt := cfg.HashSalt
	if salt == "" {
		if salt, err = generateToken(); err != nil {
			return nil, fmt.Errorf("admin.New: %w", err)
		}
	}

	a := &Admin{
		store:    st,
		resender: r,
		logger:   logger,
		username: cfg.Username,
		password: cfg.Password,
		token:    token,
		salt:     salt,
		now:      time.Now,
		track:    func(f func()) { go f() },
	}
	logger.Info("admin access available at /admin/login")
	if !cfg.Production {
		logger.Debug("admin token (dev only)", "token", token)
	}
	return a, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// HashIP returns a salted, truncated hash of ip; the same ip always hashes the same way.
func (a *Admin) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + a.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// Token is the current session token.
func (a *Admin) Token() string {
	return a.token
}

func (a *Admin) validToken(t string) bool {
	return t != "" && subtle.ConstantTimeCompare([]byte(t), []byte(a.token)) == 1
}

// checkCredentials compares in constant time, or through bcrypt when the
// configured password is a hash.
func (a *Admin) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	var passOK bool
	if isBcrypt(a.password) {
		passOK = bcrypt.CompareHashAndPassword([]byte(a.password), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	}
	return userOK && passOK
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// Stats gathers the dashboard summary.
func (a *Admin) Stats(ctx context.Context) (*Stats, error) {
	vs, err := a.store.VisitorStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin.Stats: %w", err)
	}
	counts, err := a.store.CountMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin.Stats: %w", err)
	}
	stats := &Stats{VisitorStats: *vs, Messages: counts}
	for _, n := range counts {
		stats.TotalMessages += n
	}
	return stats, nil
}

// Cleanup removes visits older than VisitRetention.
func (a *Admin) Cleanup(ctx context.Context) (int64, error) {
	n, err := a.store.DeleteVisitsBefore(ctx, a.now().Add(-VisitRetention))
	if err != nil {
		return 0, fmt.Errorf("admin.Cleanup: %w", err)
	}
	if n > 0 {
		a.logger.Info("privacy cleanup removed old visitor records", "count", n)
	}
	return n, nil
}

func (a *Admin) recordVisit(ip, userAgent, path string) {
	v := models.Visit{
		HashedIP:  a.HashIP(ip),
		UserAgent: userAgent,
		Path:      path,
		Timestamp: a.now(),
	}
	a.track(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.store.RecordVisit(ctx, v); err != nil {
			a.logger.Error("recording visitor", "err", err)
		}
	})
}
