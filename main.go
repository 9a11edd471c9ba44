package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"

	"github.com/Zachkp/portfolio/internal/admin"
	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/contact"
	"github.com/Zachkp/portfolio/internal/handlers"
	"github.com/Zachkp/portfolio/internal/mailer"
	"github.com/Zachkp/portfolio/internal/motion"
	"github.com/Zachkp/portfolio/internal/ratelimit"
	"github.com/Zachkp/portfolio/internal/store"
)

func main() {
	seedPath := flag.String("seed", "", "load experiences and projects from this YAML file before serving (overrides SEED_FILE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading configuration", "err", err)
		os.Exit(1)
	}
	logger := newLogger(cfg.LogLevel)

	if err := run(cfg, *seedPath, logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	if level == "debug" {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func run(cfg *config.Config, seedPath string, logger *slog.Logger) error {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	if seedPath == "" {
		seedPath = cfg.SeedFile
	}
	if seedPath != "" {
		content, err := st.SeedFile(ctx, seedPath)
		if err != nil {
			return err
		}
		logger.Info("content seeded", "file", seedPath,
			"experiences", len(content.Experiences), "projects", len(content.Projects))
	}

	svc := contact.NewService(st, newNotifier(cfg, logger), logger, contact.Options{
		MaxAttempts: cfg.NotifyMaxAttempts,
	})

	var adm *admin.Admin
	if cfg.IsProduction() && (cfg.Admin.Username == "" || cfg.Admin.Password == "") {
		logger.Warn("admin disabled, set ADMIN_USERNAME and ADMIN_PASSWORD to enable it")
	} else {
		adm, err = admin.New(admin.Config{
			Username:   cfg.Admin.Username,
			Password:   cfg.Admin.Password,
			HashSalt:   cfg.Admin.HashSalt,
			Production: cfg.IsProduction(),
		}, st, svc, logger)
		if err != nil {
			return err
		}
	}

	limiter := ratelimit.New(cfg.ContactRateLimit, cfg.ContactRateWindow)

	router, err := handlers.SetupRoutes(handlers.Deps{
		Config:  cfg,
		Logger:  logger,
		Content: st,
		Contact: svc,
		Limiter: limiter,
		Health:  st,
		Hero: motion.HeroConfig{
			FrameCount:   cfg.Hero.FrameCount,
			FramePattern: cfg.Hero.FramePattern,
		},
		Admin: adm,
	})
	if err != nil {
		return err
	}

	var workers sync.WaitGroup
	workers.Add(2)
	go func() {
		defer workers.Done()
		contact.NewDispatcher(svc, cfg.NotifyRetryInterval, logger).Run(ctx)
	}()
	go func() {
		defer workers.Done()
		sweepLimiter(ctx, limiter, cfg.ContactRateWindow)
	}()
	if adm != nil {
		workers.Add(1)
		go func() {
			defer workers.Done()
			if _, err := adm.Cleanup(ctx); err != nil {
				logger.Error("privacy cleanup", "err", err)
			}
		}()
	}
	// the store is closed by the deferred Close only after this returns
	defer drain(stop, svc, &workers, logger)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Env, "mail_driver", cfg.MailDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// drain waits for background workers and in-flight notifications so none
// of them touch the store after it is closed.
func drain(stop context.CancelFunc, svc *contact.Service, workers *sync.WaitGroup, logger *slog.Logger) {
	stop()
	workers.Wait()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := svc.Drain(ctx); err != nil {
		logger.Error("waiting for notifications", "err", err)
	}
}

func newNotifier(cfg *config.Config, logger *slog.Logger) mailer.Notifier {
	if cfg.MailDriver == "log" {
		logger.Warn("MAIL_DRIVER=log, contact notifications are only logged")
		return mailer.NewLogMailer(logger)
	}
	return mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host: cfg.SMTP.Host,
		Port: cfg.SMTP.Port,
		User: cfg.SMTP.User,
		Pass: cfg.SMTP.Pass,
		To:   cfg.ContactEmail,
	}, logger)
}

func sweepLimiter(ctx context.Context, l *ratelimit.Limiter, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}
