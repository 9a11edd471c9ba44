package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Zachkp/portfolio/internal/models"
)

// ListExperiences returns every experience, most recent start date first.
func (s *Store) ListExperiences(ctx context.Context) ([]models.Experience, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, company, employment_type, start_date, end_date, description
		FROM experiences
		ORDER BY start_date DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("store.ListExperiences: %w", err)
	}
	defer rows.Close()

	experiences := []models.Experience{}
	for rows.Next() {
		var (
			exp         models.Experience
			start       string
			end         sql.NullString
			description string
		)
		if err := rows.Scan(&exp.ID, &exp.Title, &exp.Company, &exp.Type, &start, &end, &description); err != nil {
			return nil, fmt.Errorf("store.ListExperiences: %w", err)
		}
		if exp.StartDate, err = parseTime(start); err != nil {
			return nil, fmt.Errorf("store.ListExperiences: start_date of %s: %w", exp.ID, err)
		}
		if exp.EndDate, err = parseNullTime(end); err != nil {
			return nil, fmt.Errorf("store.ListExperiences: end_date of %s: %w", exp.ID, err)
		}
		if err := json.Unmarshal([]byte(description), &exp.Description); err != nil {
			return nil, fmt.Errorf("store.ListExperiences: description of %s: %w", exp.ID, err)
		}
		if exp.Description == nil {
			exp.Description = []string{}
		}
		experiences = append(experiences, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store.ListExperiences: %w", err)
	}
	return experiences, nil
}

// ListProjects returns every project in display order.
func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, link, icon_class, display_order
		FROM projects
		ORDER BY display_order ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("store.ListProjects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Link, &p.IconClass, &p.Order); err != nil {
			return nil, fmt.Errorf("store.ListProjects: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store.ListProjects: %w", err)
	}
	return projects, nil
}

// ReplaceContent swaps the experience and project tables for the given sets in
// one transaction. It is the only write path for content.
func (s *Store) ReplaceContent(ctx context.Context, experiences []models.Experience, projects []models.Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store.ReplaceContent: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM experiences`); err != nil {
		return fmt.Errorf("store.ReplaceContent: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
		return fmt.Errorf("store.ReplaceContent: %w", err)
	}

	for _, exp := range experiences {
		description := exp.Description
		if description == nil {
			description = []string{}
		}
		encoded, err := json.Marshal(description)
		if err != nil {
			return fmt.Errorf("store.ReplaceContent: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO experiences (id, title, company, employment_type, start_date, end_date, description)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, exp.ID, exp.Title, exp.Company, exp.Type, formatTime(exp.StartDate), nullTime(exp.EndDate), string(encoded))
		if err != nil {
			return fmt.Errorf("store.ReplaceContent: experience %s: %w", exp.ID, err)
		}
	}

	for _, p := range projects {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO projects (id, title, description, link, icon_class, display_order)
			VALUES (?, ?, ?, ?, ?, ?)
		`, p.ID, p.Title, p.Description, p.Link, p.IconClass, p.Order)
		if err != nil {
			return fmt.Errorf("store.ReplaceContent: project %s: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store.ReplaceContent: %w", err)
	}
	return nil
}
