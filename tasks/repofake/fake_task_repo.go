// Package faketaskrepo provides an in-memory tasks.Repo for tests.
package faketaskrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-todo-server/tasks"
)

var _ tasks.Repo = (*FakeTaskRepo)(nil)

type FakeTaskRepo struct {
	tasks map[string]*tasks.Task
	lock  sync.RWMutex
	// seq breaks created_at ties so ordering stays deterministic when
	// many tasks are created within one clock tick.
	seq int
	ord map[string]int
}

func NewFakeTaskRepo() *FakeTaskRepo {
	return &FakeTaskRepo{
		tasks: make(map[string]*tasks.Task),
		ord:   make(map[string]int),
	}
}

func (tr *FakeTaskRepo) Create(_ context.Context, task *tasks.Task) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	clone := *task
	tr.tasks[task.ID] = &clone
	tr.seq++
	tr.ord[task.ID] = tr.seq
	return nil
}

func (tr *FakeTaskRepo) GetByID(_ context.Context, userID, id string) (*tasks.Task, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	task, ok := tr.tasks[id]
	if !ok || task.UserID != userID {
		return nil, tasks.ErrNotFound
	}
	clone := *task
	return &clone, nil
}

func (tr *FakeTaskRepo) List(_ context.Context, userID string, filter tasks.ListFilter) ([]*tasks.Task, int, error) {
	tr.lock.RLock()
	defer tr.lock.RUnlock()

	matched := make([]*tasks.Task, 0)
	for _, task := range tr.tasks {
		if task.UserID != userID {
			continue
		}
		if filter.Status == tasks.StatusCompleted && !task.Completed {
			continue
		}
		if filter.Status == tasks.StatusPending && task.Completed {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(task.Title), strings.ToLower(filter.Search)) {
			continue
		}
		clone := *task
		matched = append(matched, &clone)
	}

	// Newest first.
	sort.Slice(matched, func(i, j int) bool {
		return tr.ord[matched[i].ID] > tr.ord[matched[j].ID]
	})

	total := len(matched)
	offset := (filter.Page - 1) * filter.Limit
	if offset >= total {
		return []*tasks.Task{}, total, nil
	}
	end := offset + filter.Limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (tr *FakeTaskRepo) Update(_ context.Context, task *tasks.Task) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	existing, ok := tr.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return tasks.ErrNotFound
	}
	existing.Title = task.Title
	existing.Completed = task.Completed
	existing.UpdatedAt = time.Now()
	task.UpdatedAt = existing.UpdatedAt
	task.CreatedAt = existing.CreatedAt
	return nil
}

func (tr *FakeTaskRepo) Delete(_ context.Context, userID, id string) error {
	tr.lock.Lock()
	defer tr.lock.Unlock()

	task, ok := tr.tasks[id]
	if !ok || task.UserID != userID {
		return tasks.ErrNotFound
	}
	delete(tr.tasks, id)
	delete(tr.ord, id)
	return nil
}
