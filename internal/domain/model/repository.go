package model

// Repository is an entry in the catalog of repositories whose pull request
// reviews are collected and browsed.
type Repository struct {
	ID          string `json:"id" yaml:"id"` // "owner/name"
	Name        string `json:"name" yaml:"name"`
	Emoji       string `json:"emoji" yaml:"emoji"`
	Description string `json:"description" yaml:"description"`
	GitHubURL   string `json:"github_url" yaml:"github_url"`
}
