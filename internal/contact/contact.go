// Package contact handles contact form submissions: validation, storage and
// owner notification with tracked, retryable delivery.
//
// Persistence is exactly-once per submission token. Notification is
// at-least-once with a bounded number of attempts: the request makes the first
// attempt, the Dispatcher retries failures in the background.
//
// Name and Message are validated exactly as submitted; only Email and Token
// are trimmed, so surrounding whitespace counts toward the length limits.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Zachkp/portfolio/internal/mailer"
	"github.com/Zachkp/portfolio/internal/models"
	"github.com/Zachkp/portfolio/internal/store"
)

// ErrStore wraps persistence failures so callers can map them to a 500.
var ErrStore = errors.New("contact: store failure")

// ErrClosed is returned for delivery attempts made after Drain.
var ErrClosed = errors.New("contact: service closed")

// Request is the submitted form.
type Request struct {
	Name    string `json:"name" form:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" form:"email" validate:"required,email,max=254"`
	Message string `json:"message" form:"message" validate:"required,min=10,max=2000"`
	// Token identifies the submission; resubmitting with the same token is a no-op.
	Token string `json:"token" form:"token" validate:"omitempty,max=128"`
}

// Violation is one failed field constraint.
type Violation struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationError lists every constraint a request violated.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return "contact: invalid request: " + strings.Join(msgs, "; ")
}

// Receipt describes the outcome of an accepted submission.
type Receipt struct {
	MessageID string
	// Duplicate is set when the token had already been used.
	Duplicate bool
	// Delivered reports whether the first notification attempt succeeded.
	Delivered bool
}

// MessageStore is the subset of the store used here.
type MessageStore interface {
	CreateMessage(ctx context.Context, m *models.Message) error
	MessageByToken(ctx context.Context, token string) (*models.Message, error)
	GetMessage(ctx context.Context, id string) (*models.Message, error)
	RecordDelivery(ctx context.Context, id string, deliveryErr error) error
	PendingDeliveries(ctx context.Context, maxAttempts, limit int) ([]models.Message, error)
}

// Options tunes delivery.
type Options struct {
	NotifyTimeout time.Duration
	MaxAttempts   int
	// RetryGrace keeps the dispatcher away from pending messages younger than
	// this, which may still have a request-path attempt in flight.
	RetryGrace time.Duration
	BatchSize  int
}

func (o *Options) setDefaults() {
	if o.NotifyTimeout <= 0 {
		o.NotifyTimeout = 15 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 5
	}
	if o.RetryGrace <= 0 {
		o.RetryGrace = 2 * o.NotifyTimeout
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 20
	}
}

// Service runs the submission pipeline.
type Service struct {
	store    MessageStore
	notifier mailer.Notifier
	validate *validator.Validate
	logger   *slog.Logger
	opts     Options
	now      func() time.Time

	mu       sync.Mutex
	closed   bool
	inflight sync.WaitGroup
}

// NewService wires a Service.
func NewService(ms MessageStore, n mailer.Notifier, logger *slog.Logger, opts Options) *Service {
	opts.setDefaults()

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{
		store:    ms,
		notifier: n,
		validate: v,
		logger:   logger,
		opts:     opts,
		now:      time.Now,
	}
}

// Validate trims Email and Token in place and checks the constraints.
func (s *Service) Validate(req *Request) error {
	req.Email = strings.TrimSpace(req.Email)
	req.Token = strings.TrimSpace(req.Token)

	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	ve := &ValidationError{}
	for _, fe := range fieldErrs {
		ve.Violations = append(ve.Violations, Violation{
			Field:   fe.Field(),
			Code:    fe.Tag(),
			Message: violationMessage(fe),
		})
	}
	return ve
}

func violationMessage(fe validator.FieldError) string {
	label := strings.ToUpper(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	default:
		return label + " is invalid"
	}
}

// Submit validates req, stores it and makes the first notification attempt.
// A failed notification is recorded for retry and does not fail the submission.
func (s *Service) Submit(ctx context.Context, req Request) (*Receipt, error) {
	if err := s.Validate(&req); err != nil {
		return nil, err
	}

	if req.Token != "" {
		existing, err := s.store.MessageByToken(ctx, req.Token)
		if err == nil {
			return &Receipt{MessageID: existing.ID, Duplicate: true, Delivered: existing.DeliveryStatus == models.DeliverySent}, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrStore, err)
		}
	}

	msg := &models.Message{
		Token:   req.Token,
		Name:    req.Name,
		Email:   req.Email,
		Content: req.Message,
	}
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		if errors.Is(err, store.ErrDuplicateToken) {
			// lost a race with a concurrent submission of the same token
			existing, lookupErr := s.store.MessageByToken(ctx, req.Token)
			if lookupErr != nil {
				return nil, fmt.Errorf("%w: %v", ErrStore, lookupErr)
			}
			return &Receipt{MessageID: existing.ID, Duplicate: true, Delivered: existing.DeliveryStatus == models.DeliverySent}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	// The caller's disconnect must not abort the email.
	deliverCtx := context.WithoutCancel(ctx)
	err := s.deliver(deliverCtx, msg)
	if err != nil {
		s.logger.Warn("contact notification failed, queued for retry",
			"message_id", msg.ID, "err", err)
	}
	return &Receipt{MessageID: msg.ID, Delivered: err == nil}, nil
}

// Resend makes one immediate notification attempt for a stored message.
func (s *Service) Resend(ctx context.Context, id string) error {
	msg, err := s.store.GetMessage(ctx, id)
	if err != nil {
		return err
	}
	return s.deliver(ctx, msg)
}

// RetryPending re-attempts unsent notifications and returns how many were delivered.
func (s *Service) RetryPending(ctx context.Context) (int, error) {
	pending, err := s.store.PendingDeliveries(ctx, s.opts.MaxAttempts, s.opts.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStore, err)
	}

	now := s.now()
	delivered := 0
	for i := range pending {
		msg := &pending[i]
		if msg.DeliveryStatus == models.DeliveryPending && now.Sub(msg.CreatedAt) < s.opts.RetryGrace {
			continue
		}
		if ctx.Err() != nil {
			return delivered, ctx.Err()
		}
		if err := s.deliver(ctx, msg); err != nil {
			if errors.Is(err, ErrClosed) {
				return delivered, err
			}
			s.logger.Warn("contact notification retry failed",
				"message_id", msg.ID, "attempt", msg.DeliveryAttempts+1, "err", err)
			continue
		}
		delivered++
	}
	return delivered, nil
}

// Drain stops new delivery attempts and waits for those in flight.
// Messages not attempted stay pending for the next process to retry.
func (s *Service) Drain(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// deliver makes one attempt and records its outcome.
func (s *Service) deliver(ctx context.Context, msg *models.Message) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.inflight.Add(1)
	s.mu.Unlock()
	defer s.inflight.Done()

	notifyCtx, cancel := context.WithTimeout(ctx, s.opts.NotifyTimeout)
	defer cancel()

	sendErr := s.notifier.Notify(notifyCtx, mailer.Notification{
		Name:        msg.Name,
		Email:       msg.Email,
		Message:     msg.Content,
		SubmittedAt: msg.CreatedAt,
	})
	if err := s.store.RecordDelivery(ctx, msg.ID, sendErr); err != nil {
		s.logger.Error("recording notification outcome", "message_id", msg.ID, "err", err)
	}
	return sendErr
}
