// Package fakeuserrepo provides an in-memory UserRepo for tests.
package fakeuserrepo

import (
	"context"
	"sync"

	"github.com/jrsteele09/go-todo-server/users"
)

var _ users.UserRepo = (*FakeUserRepo)(nil)

type FakeUserRepo struct {
	users    map[string]*users.User
	emailIds map[string]string // email to user id
	lock     sync.RWMutex
}

func NewFakeUserRepo() *FakeUserRepo {
	return &FakeUserRepo{
		users:    make(map[string]*users.User),
		emailIds: make(map[string]string),
	}
}

func (ur *FakeUserRepo) Create(_ context.Context, user *users.User) error {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if _, ok := ur.emailIds[user.Email]; ok {
		return users.ErrDuplicateEmail
	}
	clone := *user
	ur.users[user.ID] = &clone
	ur.emailIds[user.Email] = user.ID
	return nil
}

func (ur *FakeUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	id, ok := ur.emailIds[email]
	if !ok {
		return nil, users.ErrNotFound
	}
	clone := *ur.users[id]
	return &clone, nil
}

func (ur *FakeUserRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	ur.lock.RLock()
	defer ur.lock.RUnlock()

	user, ok := ur.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

// Remove deletes a user by id, simulating account deletion.
func (ur *FakeUserRepo) Remove(id string) {
	ur.lock.Lock()
	defer ur.lock.Unlock()

	if user, ok := ur.users[id]; ok {
		delete(ur.emailIds, user.Email)
		delete(ur.users, id)
	}
}
