package service

import (
	"context"
	"errors"
	"sync"

	"github.com/suar-net/usage-pricing-be/internal/model"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	users  map[string]*model.User
	nextID int
	err    error
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*model.User)}
	for _, u := range users {
		r.nextID++
		u.ID = r.nextID
		r.users[u.Username] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	if _, ok := r.users[user.Username]; ok {
		return 0, errors.New("duplicate username")
	}
	r.nextID++
	stored := *user
	stored.ID = r.nextID
	r.users[user.Username] = &stored
	return stored.ID, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events []*model.Event
	err    error

	lastLimit int
}

func (r *fakeEventRepo) Create(ctx context.Context, event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	event.ID = len(r.events) + 1
	stored := *event
	r.events = append(r.events, &stored)
	return nil
}

func (r *fakeEventRepo) GetByUserID(ctx context.Context, userID string, limit int) ([]*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLimit = limit
	if r.err != nil {
		return nil, r.err
	}
	out := make([]*model.Event, 0)
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		if r.events[i].UserID == userID {
			out = append(out, r.events[i])
		}
	}
	return out, nil
}
