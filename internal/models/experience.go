package models

import "time"

// Experience is one entry of the work timeline. A nil EndDate means the role is ongoing.
type Experience struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Company     string     `json:"company" yaml:"company"`
	Type        string     `json:"type" yaml:"type"`
	StartDate   time.Time  `json:"startDate" yaml:"startDate"`
	EndDate     *time.Time `json:"endDate" yaml:"endDate"`
	Description []string   `json:"description" yaml:"description"`
}

// Ongoing reports whether the role has no end date.
func (e Experience) Ongoing() bool {
	return e.EndDate == nil
}
