package repository

import (
	"context"

	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
)

// UserRepository is the persistence port for User.
// Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}
