package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/taxpayer-registry/internal/domain"
	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
	"github.com/jhoicas/taxpayer-registry/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo is the in-memory UserRepository.
type UserRepo struct {
	a accessor
}

func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	return r.a.update(ctx, func(st *state) error {
		if _, ok := st.users[user.ID]; ok {
			return domain.Conflict("user %s already exists", user.ID)
		}
		if emailTaken(st, user.Email, "") {
			return domain.Conflict("user with this email already exists")
		}
		u := *user
		st.users[u.ID] = &u
		return nil
	})
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.a.view(ctx, func(st *state) error {
		if u, ok := st.users[id]; ok {
			c := *u
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.a.view(ctx, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				c := *u
				out = &c
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	return r.a.update(ctx, func(st *state) error {
		if _, ok := st.users[user.ID]; !ok {
			return domain.NotFound("user not found")
		}
		if emailTaken(st, user.Email, user.ID) {
			return domain.Conflict("email already in use")
		}
		u := *user
		st.users[u.ID] = &u
		return nil
	})
}

func emailTaken(st *state, email, exceptID string) bool {
	for id, u := range st.users {
		if id != exceptID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}
