package service

import (
	"context"

	"github.com/suar-net/usage-pricing-be/internal/model"
)

type IAuthService interface {
	IssueToken(ctx context.Context, username, password string) (*model.DTOLoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*model.Identity, error)
	SeedUser(ctx context.Context, username, password, userID string) (*model.User, error)
}

type IUsageService interface {
	Record(ctx context.Context, identity *model.Identity, usage model.UsageInput) (*model.Event, error)
	List(ctx context.Context, identity *model.Identity, limit int) ([]*model.Event, error)
}
