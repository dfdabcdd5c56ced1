package tasks

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// FieldErrors carries per-field validation messages. The handler layer
// serializes it as a field map, mirroring the auth validation shape.
type FieldErrors map[string][]string

func (fe FieldErrors) Error() string { return "validation failed" }

// Service provides the task operations behind the /tasks routes. Ownership
// is enforced by scoping every repository call to the caller's user id.
type Service struct {
	repo Repo
}

// NewService initializes a Service.
func NewService(repo Repo) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[NewService] task repo is required")
	}
	return &Service{repo: repo}, nil
}

// List returns one page of the user's tasks.
func (s *Service) List(ctx context.Context, userID string, filter ListFilter) (*TaskPage, error) {
	filter, err := ValidateFilter(filter)
	if err != nil {
		return nil, FieldErrors{"query": {err.Error()}}
	}

	list, total, err := s.repo.List(ctx, userID, filter)
	if err != nil {
		return nil, errors.Wrap(err, "[Service.List] repo.List")
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	return &TaskPage{
		Tasks: list,
		Pagination: Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// Create adds a task for the user.
func (s *Service) Create(ctx context.Context, userID, title string) (*Task, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, FieldErrors{"title": {err.Error()}}
	}

	task := &Task{
		ID:     uuid.New().String(),
		UserID: userID,
		Title:  title,
	}
	if err := s.repo.Create(ctx, task); err != nil {
		return nil, errors.Wrap(err, "[Service.Create] repo.Create")
	}
	return task, nil
}

// Get returns the user's task, or ErrNotFound.
func (s *Service) Get(ctx context.Context, userID, id string) (*Task, error) {
	return s.repo.GetByID(ctx, userID, id)
}

// Update applies a partial update. Nil fields are left unchanged.
func (s *Service) Update(ctx context.Context, userID, id string, title *string, completed *bool) (*Task, error) {
	if title != nil {
		if err := ValidateTitle(*title); err != nil {
			return nil, FieldErrors{"title": {err.Error()}}
		}
	}

	task, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if title != nil {
		task.Title = *title
	}
	if completed != nil {
		task.Completed = *completed
	}
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, errors.Wrap(err, "[Service.Update] repo.Update")
	}
	return task, nil
}

// Toggle flips the completed flag.
func (s *Service) Toggle(ctx context.Context, userID, id string) (*Task, error) {
	task, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	task.Completed = !task.Completed
	if err := s.repo.Update(ctx, task); err != nil {
		return nil, errors.Wrap(err, "[Service.Toggle] repo.Update")
	}
	return task, nil
}

// Delete removes the user's task, or returns ErrNotFound.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}
