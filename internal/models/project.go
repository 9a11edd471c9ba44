package models

// Project represents a portfolio project
type Project struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Link        string `json:"link" yaml:"link"`
	IconClass   string `json:"iconClass" yaml:"iconClass"`
	Order       int    `json:"order" yaml:"order"`
}
