package model

import "time"

// PullRequestRef identifies a pull request whose comments are collected.
type PullRequestRef struct {
	RepoFullName string
	Number       int
	URL          string
	UpdatedAt    time.Time
}
