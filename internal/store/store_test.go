package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Zachkp/portfolio/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestListExperiencesOrderedByStartDateDesc(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	exps := []models.Experience{
		{ID: "a", Title: "Intern", Company: "Acme", Type: "Internship", StartDate: date(2019, 6, 1), EndDate: datePtr(2019, 9, 1), Description: []string{"coffee"}},
		{ID: "b", Title: "Engineer", Company: "Globex", Type: "Full-time", StartDate: date(2023, 1, 15)},
		{ID: "c", Title: "Junior", Company: "Initech", Type: "Full-time", StartDate: date(2020, 3, 1), EndDate: datePtr(2022, 12, 31)},
	}
	if err := s.ReplaceContent(ctx, exps, nil); err != nil {
		t.Fatalf("ReplaceContent() error: %v", err)
	}

	got, err := s.ListExperiences(ctx)
	if err != nil {
		t.Fatalf("ListExperiences() error: %v", err)
	}
	var ids []string
	for _, e := range got {
		ids = append(ids, e.ID)
	}
	if want := []string{"b", "c", "a"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
	if !got[0].Ongoing() {
		t.Error("expected b to be ongoing")
	}
	if got[0].Description == nil || len(got[0].Description) != 0 {
		t.Errorf("Description = %#v, want empty slice", got[0].Description)
	}
	if !got[2].EndDate.Equal(date(2019, 9, 1)) {
		t.Errorf("EndDate = %v, want 2019-09-01", got[2].EndDate)
	}
	if !reflect.DeepEqual(got[2].Description, []string{"coffee"}) {
		t.Errorf("Description = %v, want [coffee]", got[2].Description)
	}
}

func TestListProjectsOrderedByDisplayOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	projects := []models.Project{
		{ID: "p3", Title: "Third", Order: 3},
		{ID: "p1", Title: "First", Order: 1, IconClass: "icon-data"},
		{ID: "p2", Title: "Second", Order: 2},
	}
	if err := s.ReplaceContent(ctx, nil, projects); err != nil {
		t.Fatalf("ReplaceContent() error: %v", err)
	}

	first, err := s.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects() error: %v", err)
	}
	second, err := s.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects() error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated reads differ: %v vs %v", first, second)
	}
	var ids []string
	for _, p := range first {
		ids = append(ids, p.ID)
	}
	if want := []string{"p1", "p2", "p3"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestListEmptyReturnsEmptySlices(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	exps, err := s.ListExperiences(ctx)
	if err != nil || exps == nil || len(exps) != 0 {
		t.Errorf("ListExperiences() = %#v, %v; want empty slice", exps, err)
	}
	projects, err := s.ListProjects(ctx)
	if err != nil || projects == nil || len(projects) != 0 {
		t.Errorf("ListProjects() = %#v, %v; want empty slice", projects, err)
	}
}

func TestReplaceContentReplaces(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.ReplaceContent(ctx, nil, []models.Project{{ID: "old", Title: "Old"}}); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceContent(ctx, nil, []models.Project{{ID: "new", Title: "New"}}); err != nil {
		t.Fatal(err)
	}
	projects, err := s.ListProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 || projects[0].ID != "new" {
		t.Errorf("projects = %v, want only new", projects)
	}
}

func TestCreateMessageDuplicateToken(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	m := &models.Message{Token: "tok-1", Name: "Ada", Email: "ada@example.com", Content: "Hello there, friend"}
	if err := s.CreateMessage(ctx, m); err != nil {
		t.Fatalf("CreateMessage() error: %v", err)
	}
	if m.ID == "" || m.CreatedAt.IsZero() {
		t.Errorf("expected ID and CreatedAt to be set, got %+v", m)
	}

	dup := &models.Message{Token: "tok-1", Name: "Ada", Email: "ada@example.com", Content: "Hello there, friend"}
	if err := s.CreateMessage(ctx, dup); !errors.Is(err, ErrDuplicateToken) {
		t.Fatalf("CreateMessage() error = %v, want ErrDuplicateToken", err)
	}

	got, err := s.MessageByToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("MessageByToken() error: %v", err)
	}
	if got.ID != m.ID {
		t.Errorf("MessageByToken().ID = %q, want %q", got.ID, m.ID)
	}
	if got.DeliveryStatus != models.DeliveryPending {
		t.Errorf("DeliveryStatus = %q, want pending", got.DeliveryStatus)
	}
}

func TestGetMessageNotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetMessage(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetMessage() error = %v, want ErrNotFound", err)
	}
}

func TestRecordDeliveryAndPending(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := date(2026, 1, 1)
	s.now = func() time.Time { return now }

	var ids []string
	for i := 0; i < 3; i++ {
		now = now.Add(time.Minute)
		m := &models.Message{Name: "N", Email: "n@example.com", Content: "0123456789"}
		if err := s.CreateMessage(ctx, m); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, m.ID)
	}

	if err := s.RecordDelivery(ctx, ids[0], nil); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordDelivery(ctx, ids[1], errors.New("smtp: connection refused")); err != nil {
		t.Fatal(err)
	}

	pending, err := s.PendingDeliveries(ctx, 5, 10)
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, m := range pending {
		got = append(got, m.ID)
	}
	if want := []string{ids[1], ids[2]}; !reflect.DeepEqual(got, want) {
		t.Errorf("pending = %v, want %v", got, want)
	}
	if pending[0].LastError != "smtp: connection refused" || pending[0].DeliveryAttempts != 1 {
		t.Errorf("failed message = %+v", pending[0])
	}

	// exhausted attempts drop out of the queue
	pending, err = s.PendingDeliveries(ctx, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].ID != ids[2] {
		t.Errorf("pending with maxAttempts=1 = %v, want only %s", pending, ids[2])
	}

	sent, err := s.GetMessage(ctx, ids[0])
	if err != nil {
		t.Fatal(err)
	}
	if sent.DeliveryStatus != models.DeliverySent || sent.NotifiedAt == nil {
		t.Errorf("sent message = %+v", sent)
	}

	counts, err := s.CountMessages(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts[models.DeliverySent] != 1 || counts[models.DeliveryFailed] != 1 || counts[models.DeliveryPending] != 1 {
		t.Errorf("counts = %v", counts)
	}

	if err := s.RecordDelivery(ctx, "missing", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("RecordDelivery(missing) error = %v, want ErrNotFound", err)
	}
}

func TestListMessagesNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := date(2026, 2, 1)
	s.now = func() time.Time { return now }

	for _, name := range []string{"first", "second"} {
		now = now.Add(time.Hour)
		if err := s.CreateMessage(ctx, &models.Message{Name: name, Email: "x@example.com", Content: "0123456789"}); err != nil {
			t.Fatal(err)
		}
	}
	msgs, err := s.ListMessages(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 || msgs[0].Name != "second" {
		t.Errorf("ListMessages() = %v, want second first", msgs)
	}
}

func TestVisitorStatsAndCleanup(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	visits := []models.Visit{
		{HashedIP: "aaa", Path: "/", Timestamp: now.Add(-time.Hour)},
		{HashedIP: "aaa", Path: "/", Timestamp: now.Add(-3 * 24 * time.Hour)},
		{HashedIP: "bbb", Path: "/", Timestamp: now.Add(-400 * 24 * time.Hour)},
	}
	for _, v := range visits {
		if err := s.RecordVisit(ctx, v); err != nil {
			t.Fatal(err)
		}
	}

	stats, err := s.VisitorStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := VisitorStats{TotalVisitors: 3, UniqueVisitors: 2, VisitorsToday: 1, VisitorsThisWeek: 2}
	if *stats != want {
		t.Errorf("VisitorStats() = %+v, want %+v", *stats, want)
	}

	n, err := s.DeleteVisitsBefore(ctx, now.AddDate(-1, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}
}

func TestParseContent(t *testing.T) {
	doc := `
experiences:
  - title: Engineer
    company: Globex
    type: Full-time
    startDate: 2023-01-15
    description:
      - Shipped things
  - title: Intern
    company: Acme
    type: Internship
    startDate: 2019-06-01
    endDate: 2019-09-01
projects:
  - title: Portfolio
    description: This site
    link: https://example.com
    iconClass: icon-web
    order: 1
`
	c, err := ParseContent(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParseContent() error: %v", err)
	}
	if len(c.Experiences) != 2 || len(c.Projects) != 1 {
		t.Fatalf("got %d experiences, %d projects", len(c.Experiences), len(c.Projects))
	}
	if c.Experiences[0].EndDate != nil {
		t.Error("expected first experience to be ongoing")
	}
	if !c.Experiences[1].StartDate.Equal(date(2019, 6, 1)) {
		t.Errorf("StartDate = %v", c.Experiences[1].StartDate)
	}
	if c.Projects[0].ID == "" || c.Experiences[0].ID == "" {
		t.Error("expected generated ids")
	}

	again, err := ParseContent(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}
	if again.Projects[0].ID != c.Projects[0].ID {
		t.Error("generated ids should be stable across parses")
	}
}

func TestParseContentRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"missing company":  "experiences:\n  - title: X\n    startDate: 2020-01-01\n",
		"missing start":    "experiences:\n  - title: X\n    company: Y\n",
		"end before start": "experiences:\n  - title: X\n    company: Y\n    startDate: 2020-01-01\n    endDate: 2019-01-01\n",
		"unknown field":    "projects:\n  - title: X\n    colour: red\n",
		"project no title": "projects:\n  - link: https://example.com\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseContent(strings.NewReader(doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSeedFile(t *testing.T) {
	s := openTestStore(t)
	path := filepath.Join(t.TempDir(), "content.yaml")
	doc := "projects:\n  - title: One\n    order: 2\n  - title: Two\n    order: 1\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := s.SeedFile(context.Background(), path); err != nil {
		t.Fatalf("SeedFile() error: %v", err)
	}
	projects, err := s.ListProjects(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 2 || projects[0].Title != "Two" {
		t.Errorf("projects = %v, want Two first", projects)
	}
}
