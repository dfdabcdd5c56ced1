// Package tasks implements the to-do list domain: the task model, the
// repository, and the service consumed by the HTTP handlers. Every
// operation is scoped to the owning user.
package tasks

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxTitleLength bounds task titles.
const MaxTitleLength = 500

// Pagination bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Status filters for listing.
const (
	StatusAll       = "all"
	StatusCompleted = "completed"
	StatusPending   = "pending"
)

// Task is one to-do item. The owning user id is never serialized.
type Task struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListFilter selects and paginates a user's tasks.
type ListFilter struct {
	Page   int
	Limit  int
	Status string // StatusAll, StatusCompleted, or StatusPending
	Search string // case-insensitive substring match on the title
}

// Pagination describes one page of results.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// TaskPage is the response shape of a list operation.
type TaskPage struct {
	Tasks      []*Task    `json:"tasks"`
	Pagination Pagination `json:"pagination"`
}

// ValidateTitle checks a task title is present and within bounds.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("Title is required")
	}
	if len(title) > MaxTitleLength {
		return fmt.Errorf("title must be at most %d characters", MaxTitleLength)
	}
	return nil
}

// ParseListFilter builds a ListFilter from raw query-string values. An
// absent value is left zero so ValidateFilter applies the default; a value
// that is present but not a positive integer is an error, never silently
// coerced.
func ParseListFilter(page, limit, status, search string) (ListFilter, error) {
	f := ListFilter{Status: status, Search: search}

	var err error
	if f.Page, err = parseQueryInt("page", page); err != nil {
		return f, err
	}
	if f.Limit, err = parseQueryInt("limit", limit); err != nil {
		return f, err
	}
	return f, nil
}

func parseQueryInt(name, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	// Zero means "absent" downstream, so an explicit zero must fail here.
	if n == 0 {
		return 0, fmt.Errorf("%s must be at least 1", name)
	}
	return n, nil
}

// ValidateFilter normalizes and checks a list filter, applying defaults for
// absent values.
func ValidateFilter(f ListFilter) (ListFilter, error) {
	if f.Page == 0 {
		f.Page = DefaultPage
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if f.Status == "" {
		f.Status = StatusAll
	}

	if f.Page < 1 {
		return f, fmt.Errorf("page must be at least 1")
	}
	if f.Limit < 1 || f.Limit > MaxLimit {
		return f, fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	}
	switch f.Status {
	case StatusAll, StatusCompleted, StatusPending:
	default:
		return f, fmt.Errorf("status must be one of all, completed, pending")
	}

	f.Search = strings.TrimSpace(f.Search)
	return f, nil
}
