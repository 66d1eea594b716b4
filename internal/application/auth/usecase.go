package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/taxpayer-registry/internal/application/audit"
	"github.com/jhoicas/taxpayer-registry/internal/application/dto"
	"github.com/jhoicas/taxpayer-registry/internal/application/ports"
	"github.com/jhoicas/taxpayer-registry/internal/application/validation"
	"github.com/jhoicas/taxpayer-registry/internal/domain"
	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
	"github.com/jhoicas/taxpayer-registry/internal/domain/repository"
)

// TokenType is the token_type returned on login.
const TokenType = "bearer"

// IdentityService authenticates users, issues and resolves tokens and runs the
// account registration flows.
type IdentityService struct {
	users  repository.UserRepository
	tx     ports.TxRunner
	hasher PasswordHasher
	tokens TokenCodec
	audit  *audit.Logger
	now    func() time.Time
}

// NewIdentityService wires the service with its collaborators.
func NewIdentityService(
	users repository.UserRepository,
	tx ports.TxRunner,
	hasher PasswordHasher,
	tokens TokenCodec,
	auditLog *audit.Logger,
) *IdentityService {
	return &IdentityService{
		users:  users,
		tx:     tx,
		hasher: hasher,
		tokens: tokens,
		audit:  auditLog,
		now:    time.Now,
	}
}

// Authenticate returns the user owning email when password matches, or (nil, nil).
// An inactive account fails with Unauthorized.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := s.users.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	if !user.IsActive {
		return nil, domain.Unauthorized("inactive account")
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, nil
	}
	return user, nil
}

// Login authenticates and mints a bearer token.
func (s *IdentityService) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.Unauthorized("invalid credentials")
	}
	token, err := s.tokens.Sign(TokenClaims{UserID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   TokenType,
		User:        *ToUserResponse(user),
	}, nil
}

// Resolve maps a bearer token back to a live, active user.
func (s *IdentityService) Resolve(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, domain.Unauthorized("could not validate credentials")
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NotFound("user not found")
	}
	if !user.IsActive {
		return nil, domain.Unauthorized("inactive account")
	}
	return user, nil
}

// RequireRole fails with Forbidden unless the user's role is one of allowed.
func RequireRole(user *entity.User, allowed ...entity.Role) error {
	if user != nil {
		for _, r := range allowed {
			if user.Role == r {
				return nil
			}
		}
	}
	return domain.Forbidden("insufficient permissions")
}

// Register creates a user. The role defaults to ACCOUNTANT; ADMIN is only
// granted through RegisterOrganization.
func (s *IdentityService) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if entity.Role(in.Role) == entity.RoleAdmin {
		return nil, domain.Forbidden("the ADMIN role is only granted when registering an organization")
	}
	user, err := s.newUser(in)
	if err != nil {
		return nil, err
	}
	err = s.tx.Run(ctx, func(repos ports.Repositories) error {
		return s.insertUser(ctx, repos, user)
	})
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// RegisterOrganization creates an organization and its admin user atomically.
func (s *IdentityService) RegisterOrganization(ctx context.Context, in dto.RegisterOrganizationRequest) (*dto.RegisterOrganizationResponse, error) {
	org, err := s.newOrganization(in.CreateOrganizationRequest)
	if err != nil {
		return nil, err
	}
	admin := in.AdminUser
	admin.Role = string(entity.RoleAdmin)
	admin.OrganizationID = &org.ID
	user, err := s.newUser(admin)
	if err != nil {
		return nil, err
	}

	err = s.tx.Run(ctx, func(repos ports.Repositories) error {
		if err := repos.Organizations.Create(ctx, org); err != nil {
			return err
		}
		if err := s.insertUser(ctx, repos, user); err != nil {
			return err
		}
		_, err := s.audit.LogAction(ctx, repos.AuditLogs, user.ID, entity.EntityOrganization, org.ID, entity.ActionCreate,
			map[string]any{"name": org.Name, "type": string(org.Type)})
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.RegisterOrganizationResponse{
		Organization: *ToOrganizationResponse(org),
		User:         *ToUserResponse(user),
	}, nil
}

// Me returns the public view of the current user.
func (s *IdentityService) Me(user *entity.User) *dto.UserResponse {
	return ToUserResponse(user)
}

// UpdateMe changes the current user's name and email.
func (s *IdentityService) UpdateMe(ctx context.Context, current *entity.User, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if in.Name != nil {
		if err := validation.Name("name", *in.Name); err != nil {
			return nil, err
		}
	}
	if in.Email != nil {
		if err := validation.Email("email", validation.NormalizeEmail(*in.Email)); err != nil {
			return nil, err
		}
	}

	var updated *entity.User
	err := s.tx.Run(ctx, func(repos ports.Repositories) error {
		user, err := repos.Users.GetByID(ctx, current.ID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.NotFound("user not found")
		}
		original := map[string]any{"name": user.Name, "email": user.Email}

		if in.Email != nil {
			email := validation.NormalizeEmail(*in.Email)
			if email != user.Email {
				existing, err := repos.Users.GetByEmail(ctx, email)
				if err != nil {
					return err
				}
				if existing != nil && existing.ID != user.ID {
					return domain.Conflict("email already in use")
				}
				user.Email = email
			}
		}
		if in.Name != nil {
			user.Name = *in.Name
		}
		user.UpdatedAt = s.now().UTC()
		if err := repos.Users.Update(ctx, user); err != nil {
			return err
		}
		_, err = s.audit.LogAction(ctx, repos.AuditLogs, user.ID, entity.EntityUser, user.ID, entity.ActionUpdate,
			map[string]any{"original": original, "updated": map[string]any{"name": user.Name, "email": user.Email}})
		if err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToUserResponse(updated), nil
}

// ChangePassword replaces the current user's password after checking the current one.
func (s *IdentityService) ChangePassword(ctx context.Context, current *entity.User, in dto.ChangePasswordRequest) error {
	if err := validation.Password("new_password", in.NewPassword); err != nil {
		return err
	}
	return s.tx.Run(ctx, func(repos ports.Repositories) error {
		user, err := repos.Users.GetByID(ctx, current.ID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.NotFound("user not found")
		}
		if !s.hasher.Verify(in.CurrentPassword, user.PasswordHash) {
			return domain.BadRequest("current password is incorrect")
		}
		hash, err := s.hasher.Hash(in.NewPassword)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		user.UpdatedAt = s.now().UTC()
		if err := repos.Users.Update(ctx, user); err != nil {
			return err
		}
		_, err = s.audit.LogAction(ctx, repos.AuditLogs, user.ID, entity.EntityUser, user.ID, entity.ActionChangePassword, nil)
		return err
	})
}

// newUser validates the input and builds the entity with a hashed password.
func (s *IdentityService) newUser(in dto.RegisterRequest) (*entity.User, error) {
	if err := validation.Name("name", in.Name); err != nil {
		return nil, err
	}
	email := validation.NormalizeEmail(in.Email)
	if err := validation.Email("email", email); err != nil {
		return nil, err
	}
	if err := validation.Password("password", in.Password); err != nil {
		return nil, err
	}
	role := entity.RoleAccountant
	if in.Role != "" {
		role = entity.Role(in.Role)
		if !role.Valid() {
			return nil, domain.BadRequest("role must be one of ADMIN, ACCOUNTANT, EMPLOYER, ORGANIZATION")
		}
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	return &entity.User{
		ID:             uuid.New().String(),
		Name:           in.Name,
		Email:          email,
		PasswordHash:   hash,
		Role:           role,
		OrganizationID: in.OrganizationID,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (s *IdentityService) insertUser(ctx context.Context, repos ports.Repositories, user *entity.User) error {
	existing, err := repos.Users.GetByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.Conflict("user with this email already exists")
	}
	if user.OrganizationID != nil {
		org, err := repos.Organizations.GetByID(ctx, *user.OrganizationID)
		if err != nil {
			return err
		}
		if org == nil {
			return domain.BadRequest("organization %s not found", *user.OrganizationID)
		}
	}
	if err := repos.Users.Create(ctx, user); err != nil {
		return err
	}
	_, err = s.audit.LogAction(ctx, repos.AuditLogs, user.ID, entity.EntityUser, user.ID, entity.ActionRegister,
		map[string]any{"email": user.Email, "role": string(user.Role)})
	return err
}

func (s *IdentityService) newOrganization(in dto.CreateOrganizationRequest) (*entity.Organization, error) {
	if err := validation.Name("name", in.Name); err != nil {
		return nil, err
	}
	typ := entity.OrganizationType(in.Type)
	if !typ.Valid() {
		return nil, domain.BadRequest("type must be one of accounting_firm, employer, fintech")
	}
	if in.ContactEmail != nil {
		if err := validation.Email("contact_email", *in.ContactEmail); err != nil {
			return nil, err
		}
	}
	for _, f := range []struct {
		name string
		v    *string
		max  int
	}{
		{"state", in.State, 100},
		{"registration_number", in.RegistrationNumber, 100},
		{"tax_identification_number", in.TaxID, 100},
		{"contact_phone", in.ContactPhone, 50},
		{"address", in.Address, 500},
	} {
		if err := validation.MaxLen(f.name, f.v, f.max); err != nil {
			return nil, err
		}
	}
	now := s.now().UTC()
	return &entity.Organization{
		ID:                 uuid.New().String(),
		Name:               in.Name,
		Type:               typ,
		State:              in.State,
		RegistrationNumber: in.RegistrationNumber,
		TaxID:              in.TaxID,
		ContactEmail:       in.ContactEmail,
		ContactPhone:       in.ContactPhone,
		Address:            in.Address,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// ToUserResponse maps a user to its public view.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		Role:           string(u.Role),
		OrganizationID: u.OrganizationID,
		IsActive:       u.IsActive,
		IsVerified:     u.IsVerified,
		CreatedAt:      u.CreatedAt,
	}
}

// ToOrganizationResponse maps an organization to its public view.
func ToOrganizationResponse(o *entity.Organization) *dto.OrganizationResponse {
	if o == nil {
		return nil
	}
	return &dto.OrganizationResponse{
		ID:                 o.ID,
		Name:               o.Name,
		Type:               string(o.Type),
		State:              o.State,
		RegistrationNumber: o.RegistrationNumber,
		TaxID:              o.TaxID,
		ContactEmail:       o.ContactEmail,
		ContactPhone:       o.ContactPhone,
		Address:            o.Address,
		CreatedAt:          o.CreatedAt,
	}
}
