package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/Zachkp/portfolio/internal/models"
)

// Content is the layout of the seed file.
type Content struct {
	Experiences []models.Experience `yaml:"experiences"`
	Projects    []models.Project    `yaml:"projects"`
}

// ParseContent decodes a YAML seed document. Entries without an id get a
// deterministic one derived from their title so reseeding is stable.
func ParseContent(r io.Reader) (*Content, error) {
	var c Content
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("store.ParseContent: %w", err)
	}

	for i := range c.Experiences {
		exp := &c.Experiences[i]
		if strings.TrimSpace(exp.Title) == "" || strings.TrimSpace(exp.Company) == "" {
			return nil, fmt.Errorf("store.ParseContent: experience %d: title and company are required", i)
		}
		if exp.StartDate.IsZero() {
			return nil, fmt.Errorf("store.ParseContent: experience %q: startDate is required", exp.Title)
		}
		if exp.EndDate != nil && exp.EndDate.Before(exp.StartDate) {
			return nil, fmt.Errorf("store.ParseContent: experience %q: endDate before startDate", exp.Title)
		}
		if exp.ID == "" {
			exp.ID = stableID("experience", exp.Company+"/"+exp.Title+"/"+exp.StartDate.Format("2006-01"))
		}
	}
	for i := range c.Projects {
		p := &c.Projects[i]
		if strings.TrimSpace(p.Title) == "" {
			return nil, fmt.Errorf("store.ParseContent: project %d: title is required", i)
		}
		if p.ID == "" {
			p.ID = stableID("project", p.Title)
		}
	}
	return &c, nil
}

// SeedFile loads the YAML file at path and replaces all stored content with it.
func (s *Store) SeedFile(ctx context.Context, path string) (*Content, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store.SeedFile: %w", err)
	}
	defer f.Close()

	c, err := ParseContent(f)
	if err != nil {
		return nil, err
	}
	if err := s.ReplaceContent(ctx, c.Experiences, c.Projects); err != nil {
		return nil, err
	}
	return c, nil
}

func stableID(kind, key string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(kind+":"+key)).String()
}
