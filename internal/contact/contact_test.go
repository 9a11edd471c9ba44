package contact

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Zachkp/portfolio/internal/mailer"
	"github.com/Zachkp/portfolio/internal/models"
	"github.com/Zachkp/portfolio/internal/store"
)

type fakeNotifier struct {
	mu    sync.Mutex
	calls []mailer.Notification
	err   error
}

func (f *fakeNotifier) Notify(_ context.Context, n mailer.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, n)
	return f.err
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeNotifier) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func newTestService(t *testing.T) (*Service, *store.Store, *fakeNotifier) {
	t.Helper()
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "contact.db"))
	if err != nil {
		t.Fatalf("store.Open() error: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	n := &fakeNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(st, n, logger, Options{NotifyTimeout: time.Second, MaxAttempts: 3})
	return svc, st, n
}

func validRequest() Request {
	return Request{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Message: "I would like to talk about engines.",
	}
}

func countMessages(t *testing.T, st *store.Store) int {
	t.Helper()
	msgs, err := st.ListMessages(context.Background(), 100)
	if err != nil {
		t.Fatal(err)
	}
	return len(msgs)
}

func TestSubmitValidStoresOnceAndNotifiesOnce(t *testing.T) {
	svc, st, n := newTestService(t)

	receipt, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if !receipt.Delivered || receipt.Duplicate {
		t.Errorf("receipt = %+v, want delivered, not duplicate", receipt)
	}
	if got := countMessages(t, st); got != 1 {
		t.Errorf("stored messages = %d, want 1", got)
	}
	if n.count() != 1 {
		t.Errorf("notifications = %d, want 1", n.count())
	}
	if n.calls[0].Message != "I would like to talk about engines." {
		t.Errorf("notification message = %q", n.calls[0].Message)
	}

	msg, err := st.GetMessage(context.Background(), receipt.MessageID)
	if err != nil {
		t.Fatal(err)
	}
	if msg.DeliveryStatus != models.DeliverySent || msg.DeliveryAttempts != 1 {
		t.Errorf("message = %+v, want sent after 1 attempt", msg)
	}
}

func TestSubmitInvalidRejectsWithoutSideEffects(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Request)
		wantField string
		wantMsg   string
	}{
		{"short name", func(r *Request) { r.Name = "A" }, "name", "Name must be at least 2 characters"},
		{"single space name", func(r *Request) { r.Name = " " }, "name", "Name must be at least 2 characters"},
		{"long name", func(r *Request) { r.Name = strings.Repeat("a", 101) }, "name", "Name must be at most 100 characters"},
		{"missing name", func(r *Request) { r.Name = "" }, "name", "Name is required"},
		{"bad email", func(r *Request) { r.Email = "not-an-email" }, "email", "Invalid email address"},
		{"short message", func(r *Request) { r.Message = "too short" }, "message", "Message must be at least 10 characters"},
		{"long message", func(r *Request) { r.Message = strings.Repeat("x", 2001) }, "message", "Message must be at most 2000 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st, n := newTestService(t)
			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Submit(context.Background(), req)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Submit() error = %v, want ValidationError", err)
			}
			if len(ve.Violations) != 1 {
				t.Fatalf("violations = %+v, want 1", ve.Violations)
			}
			if ve.Violations[0].Field != tt.wantField || ve.Violations[0].Message != tt.wantMsg {
				t.Errorf("violation = %+v, want %s: %q", ve.Violations[0], tt.wantField, tt.wantMsg)
			}
			if got := countMessages(t, st); got != 0 {
				t.Errorf("stored messages = %d, want 0", got)
			}
			if n.count() != 0 {
				t.Errorf("notifications = %d, want 0", n.count())
			}
		})
	}
}

func TestSubmitKeepsNameAndMessageWhitespace(t *testing.T) {
	svc, st, _ := newTestService(t)
	req := validRequest()
	req.Name = " a "
	req.Message = "  123456789"
	req.Email = "  ada@example.com "

	receipt, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	msg, err := st.GetMessage(context.Background(), receipt.MessageID)
	if err != nil {
		t.Fatal(err)
	}
	if msg.Name != " a " || msg.Content != "  123456789" {
		t.Errorf("stored name/content = %q/%q, want as submitted", msg.Name, msg.Content)
	}
	if msg.Email != "ada@example.com" {
		t.Errorf("stored email = %q, want trimmed", msg.Email)
	}
}

func TestSubmitCollectsAllViolations(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Submit(context.Background(), Request{Name: "A", Email: "x", Message: "short"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("Submit() error = %v, want ValidationError", err)
	}
	fields := map[string]bool{}
	for _, v := range ve.Violations {
		fields[v.Field] = true
	}
	for _, f := range []string{"name", "email", "message"} {
		if !fields[f] {
			t.Errorf("missing violation for %s in %+v", f, ve.Violations)
		}
	}
}

func TestSubmitNotificationFailureKeepsMessage(t *testing.T) {
	svc, st, n := newTestService(t)
	n.setErr(errors.New("smtp down"))

	receipt, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Submit() error = %v, want nil when only email fails", err)
	}
	if receipt.Delivered {
		t.Error("receipt.Delivered = true, want false")
	}

	msg, err := st.GetMessage(context.Background(), receipt.MessageID)
	if err != nil {
		t.Fatal(err)
	}
	if msg.DeliveryStatus != models.DeliveryFailed || msg.LastError != "smtp down" {
		t.Errorf("message = %+v, want failed with error", msg)
	}
}

func TestSubmitSameTokenIsIdempotent(t *testing.T) {
	svc, st, n := newTestService(t)
	req := validRequest()
	req.Token = "form-123"

	first, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Submit(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}

	if !second.Duplicate || second.MessageID != first.MessageID {
		t.Errorf("second receipt = %+v, want duplicate of %s", second, first.MessageID)
	}
	if got := countMessages(t, st); got != 1 {
		t.Errorf("stored messages = %d, want 1", got)
	}
	if n.count() != 1 {
		t.Errorf("notifications = %d, want 1", n.count())
	}
}

func TestRetryPending(t *testing.T) {
	svc, st, n := newTestService(t)
	n.setErr(errors.New("smtp down"))

	receipt, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatal(err)
	}

	n.setErr(nil)
	delivered, err := svc.RetryPending(context.Background())
	if err != nil {
		t.Fatalf("RetryPending() error: %v", err)
	}
	if delivered != 1 {
		t.Errorf("delivered = %d, want 1", delivered)
	}
	msg, err := st.GetMessage(context.Background(), receipt.MessageID)
	if err != nil {
		t.Fatal(err)
	}
	if msg.DeliveryStatus != models.DeliverySent || msg.DeliveryAttempts != 2 {
		t.Errorf("message = %+v, want sent after 2 attempts", msg)
	}

	// nothing left to do
	if delivered, _ := svc.RetryPending(context.Background()); delivered != 0 {
		t.Errorf("second pass delivered = %d, want 0", delivered)
	}
}

func TestRetryPendingStopsAtMaxAttempts(t *testing.T) {
	svc, _, n := newTestService(t)
	n.setErr(errors.New("smtp down"))

	if _, err := svc.Submit(context.Background(), validRequest()); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		svc.RetryPending(context.Background())
	}
	// one attempt on submit, two retries, then MaxAttempts (3) is reached
	if n.count() != 3 {
		t.Errorf("attempts = %d, want 3", n.count())
	}
}

func TestRetryPendingSkipsFreshPending(t *testing.T) {
	svc, st, n := newTestService(t)

	msg := &models.Message{Name: "Ada", Email: "ada@example.com", Content: "still in flight"}
	if err := st.CreateMessage(context.Background(), msg); err != nil {
		t.Fatal(err)
	}

	if delivered, _ := svc.RetryPending(context.Background()); delivered != 0 || n.count() != 0 {
		t.Fatalf("fresh pending message was retried (delivered=%d, calls=%d)", delivered, n.count())
	}

	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	if delivered, _ := svc.RetryPending(context.Background()); delivered != 1 {
		t.Errorf("delivered = %d, want 1 once past the grace period", delivered)
	}
}

func TestResend(t *testing.T) {
	svc, _, n := newTestService(t)

	receipt, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.Resend(context.Background(), receipt.MessageID); err != nil {
		t.Fatalf("Resend() error: %v", err)
	}
	if n.count() != 2 {
		t.Errorf("notifications = %d, want 2", n.count())
	}
	if err := svc.Resend(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Resend(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDispatcherRunStopsOnCancel(t *testing.T) {
	svc, _, n := newTestService(t)
	n.setErr(errors.New("smtp down"))
	if _, err := svc.Submit(context.Background(), validRequest()); err != nil {
		t.Fatal(err)
	}
	n.setErr(nil)

	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(svc, 10*time.Millisecond, slog.New(slog.NewTextHandler(io.Discard, nil)))
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for n.count() < 2 {
		select {
		case <-deadline:
			t.Fatal("dispatcher did not retry in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

type blockingNotifier struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingNotifier) Notify(ctx context.Context, _ mailer.Notification) error {
	b.started <- struct{}{}
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestDrainWaitsForInflightDelivery(t *testing.T) {
	_, st, _ := newTestService(t)
	n := &blockingNotifier{started: make(chan struct{}, 1), release: make(chan struct{})}
	svc := NewService(st, n, slog.New(slog.NewTextHandler(io.Discard, nil)), Options{NotifyTimeout: 5 * time.Second})

	submitted := make(chan *Receipt, 1)
	go func() {
		receipt, err := svc.Submit(context.Background(), validRequest())
		if err != nil {
			t.Errorf("Submit() error: %v", err)
		}
		submitted <- receipt
	}()
	<-n.started

	drained := make(chan error, 1)
	go func() { drained <- svc.Drain(context.Background()) }()

	select {
	case <-drained:
		t.Fatal("Drain returned while a notification was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(n.release)
	select {
	case err := <-drained:
		if err != nil {
			t.Fatalf("Drain() error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Drain did not return after the notification finished")
	}

	receipt := <-submitted
	msg, err := st.GetMessage(context.Background(), receipt.MessageID)
	if err != nil {
		t.Fatal(err)
	}
	if msg.DeliveryStatus != models.DeliverySent {
		t.Errorf("status = %s, want sent", msg.DeliveryStatus)
	}
}

func TestDeliverAfterDrainLeavesMessagePending(t *testing.T) {
	svc, st, n := newTestService(t)
	if err := svc.Drain(context.Background()); err != nil {
		t.Fatal(err)
	}

	receipt, err := svc.Submit(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if receipt.Delivered {
		t.Error("receipt.Delivered = true after Drain")
	}
	if n.count() != 0 {
		t.Errorf("notifications = %d, want 0", n.count())
	}
	msg, err := st.GetMessage(context.Background(), receipt.MessageID)
	if err != nil {
		t.Fatal(err)
	}
	if msg.DeliveryStatus != models.DeliveryPending || msg.DeliveryAttempts != 0 {
		t.Errorf("message = %+v, want pending with no attempts", msg)
	}
	if err := svc.Resend(context.Background(), receipt.MessageID); !errors.Is(err, ErrClosed) {
		t.Errorf("Resend() error = %v, want ErrClosed", err)
	}
}
