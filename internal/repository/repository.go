package repository

import (
	"context"
	"database/sql"

	"github.com/suar-net/usage-pricing-be/internal/model"
)

type IUserRepository interface {
	Create(ctx context.Context, user *model.User) (int, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
}

type IEventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByUserID(ctx context.Context, userID string, limit int) ([]*model.Event, error)
}

type IRepository interface {
	User() IUserRepository
	Event() IEventRepository
}

type Repository struct {
	user  IUserRepository
	event IEventRepository
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		user:  NewUserRepository(db),
		event: NewEventRepository(db),
	}
}

func (r *Repository) User() IUserRepository {
	return r.user
}

func (r *Repository) Event() IEventRepository {
	return r.event
}
