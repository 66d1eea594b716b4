package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taxpayer-registry/internal/application/audit"
	"github.com/jhoicas/taxpayer-registry/internal/application/dto"
	"github.com/jhoicas/taxpayer-registry/internal/domain"
	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
	"github.com/jhoicas/taxpayer-registry/internal/infrastructure/memory"
	"github.com/jhoicas/taxpayer-registry/internal/infrastructure/security"
)

const testSecret = "test-secret"

func newService(t *testing.T, expMinutes int) (*IdentityService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := NewIdentityService(
		store.Repositories().Users,
		store,
		security.NewBcryptHasher(4),
		NewJWTCodec(JWTConfig{Secret: testSecret, ExpMinutes: expMinutes, Issuer: "test"}),
		audit.NewLogger(),
	)
	return svc, store
}

func register(t *testing.T, svc *IdentityService, email string) *dto.UserResponse {
	t.Helper()
	u, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Ada Lovelace",
		Email:    email,
		Password: "Secret123",
	})
	require.NoError(t, err)
	return u
}

func TestRegister_DefaultsToAccountantAndAudits(t *testing.T) {
	svc, store := newService(t, 60)
	u := register(t, svc, "Ada@Example.com")

	assert.Equal(t, string(entity.RoleAccountant), u.Role)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.True(t, u.IsActive)

	entries, err := store.Repositories().AuditLogs.ListByEntity(context.Background(), entity.EntityUser, u.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.ActionRegister, entries[0].Action)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newService(t, 60)
	register(t, svc, "ada@example.com")

	_, err := svc.Register(context.Background(), dto.RegisterRequest{Name: "Other", Email: "ADA@example.com", Password: "Secret123"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newService(t, 60)
	ctx := context.Background()

	cases := map[string]dto.RegisterRequest{
		"weak password":   {Name: "Ada", Email: "ada@example.com", Password: "short"},
		"bad email":       {Name: "Ada", Email: "not-an-email", Password: "Secret123"},
		"unknown role":    {Name: "Ada", Email: "ada@example.com", Password: "Secret123", Role: "ROOT"},
		"missing org":     {Name: "Ada", Email: "ada@example.com", Password: "Secret123", OrganizationID: strp("nope")},
		"name too short":  {Name: "A", Email: "ada@example.com", Password: "Secret123"},
		"no digit in pwd": {Name: "Ada", Email: "ada@example.com", Password: "SecretSecret"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(ctx, in)
			assert.ErrorIs(t, err, domain.ErrBadRequest)
		})
	}
}

func TestRegister_CannotClaimAdmin(t *testing.T) {
	svc, store := newService(t, 60)
	ctx := context.Background()

	_, err := svc.Register(ctx, dto.RegisterRequest{Name: "Mallory", Email: "mallory@example.com", Password: "Secret123", Role: "ADMIN"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	u, err := store.Repositories().Users.GetByEmail(ctx, "mallory@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestLoginAndResolve(t *testing.T) {
	svc, _ := newService(t, 60)
	u := register(t, svc, "ada@example.com")
	ctx := context.Background()

	resp, err := svc.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "Secret123"})
	require.NoError(t, err)
	assert.Equal(t, TokenType, resp.TokenType)
	assert.Equal(t, u.ID, resp.User.ID)

	user, err := svc.Resolve(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, user.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newService(t, 60)
	register(t, svc, "ada@example.com")

	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "ada@example.com", Password: "Wrong1234"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "Secret123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResolve_ExpiredToken(t *testing.T) {
	svc, _ := newService(t, -1)
	register(t, svc, "ada@example.com")
	ctx := context.Background()

	resp, err := svc.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "Secret123"})
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResolve_Garbage(t *testing.T) {
	svc, _ := newService(t, 60)
	_, err := svc.Resolve(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResolve_InactiveUser(t *testing.T) {
	svc, store := newService(t, 60)
	u := register(t, svc, "ada@example.com")
	ctx := context.Background()

	resp, err := svc.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "Secret123"})
	require.NoError(t, err)

	users := store.Repositories().Users
	user, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	user.IsActive = false
	require.NoError(t, users.Update(ctx, user))

	_, err = svc.Resolve(ctx, resp.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "Secret123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResolve_UnknownUser(t *testing.T) {
	svc, _ := newService(t, 60)
	token, err := NewJWTCodec(JWTConfig{Secret: testSecret, ExpMinutes: 5}).Sign(TokenClaims{UserID: "ghost", Role: entity.RoleAdmin})
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRequireRole(t *testing.T) {
	u := &entity.User{Role: entity.RoleEmployer}
	assert.NoError(t, RequireRole(u, entity.RoleAdmin, entity.RoleEmployer))
	assert.ErrorIs(t, RequireRole(u, entity.RoleAdmin), domain.ErrForbidden)
	assert.ErrorIs(t, RequireRole(nil, entity.RoleAdmin), domain.ErrForbidden)
}

func TestRegisterOrganization(t *testing.T) {
	svc, store := newService(t, 60)
	ctx := context.Background()
	in := dto.RegisterOrganizationRequest{
		CreateOrganizationRequest: dto.CreateOrganizationRequest{
			Name:               "Acme Ltd",
			Type:               "employer",
			RegistrationNumber: strp("RC123"),
		},
		AdminUser: dto.RegisterRequest{Name: "Boss", Email: "boss@acme.com", Password: "Secret123", Role: "EMPLOYER"},
	}

	resp, err := svc.RegisterOrganization(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, string(entity.RoleAdmin), resp.User.Role)
	require.NotNil(t, resp.User.OrganizationID)
	assert.Equal(t, resp.Organization.ID, *resp.User.OrganizationID)

	org, err := store.Repositories().Organizations.GetByID(ctx, resp.Organization.ID)
	require.NoError(t, err)
	require.NotNil(t, org)

	in.AdminUser.Email = "second@acme.com"
	_, err = svc.RegisterOrganization(ctx, in)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "Registration number")

	second, err := store.Repositories().Users.GetByEmail(ctx, "second@acme.com")
	require.NoError(t, err)
	assert.Nil(t, second, "failed registration must not leave a user behind")
}

func TestUpdateMe(t *testing.T) {
	svc, store := newService(t, 60)
	ctx := context.Background()
	u := register(t, svc, "ada@example.com")
	register(t, svc, "grace@example.com")
	current, err := store.Repositories().Users.GetByID(ctx, u.ID)
	require.NoError(t, err)

	_, err = svc.UpdateMe(ctx, current, dto.UpdateUserRequest{Email: strp("grace@example.com")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	out, err := svc.UpdateMe(ctx, current, dto.UpdateUserRequest{Name: strp("Countess Ada"), Email: strp("countess@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "Countess Ada", out.Name)
	assert.Equal(t, "countess@example.com", out.Email)

	entries, err := store.Repositories().AuditLogs.ListByEntity(ctx, entity.EntityUser, u.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.ActionUpdate, entries[1].Action)
}

func TestChangePassword(t *testing.T) {
	svc, store := newService(t, 60)
	ctx := context.Background()
	u := register(t, svc, "ada@example.com")
	current, err := store.Repositories().Users.GetByID(ctx, u.ID)
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, current, dto.ChangePasswordRequest{CurrentPassword: "Wrong1234", NewPassword: "Newpass123"})
	require.ErrorIs(t, err, domain.ErrBadRequest)
	assert.Equal(t, "current password is incorrect", err.Error())

	require.NoError(t, svc.ChangePassword(ctx, current, dto.ChangePasswordRequest{CurrentPassword: "Secret123", NewPassword: "Newpass123"}))

	_, err = svc.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "Secret123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = svc.Login(ctx, dto.LoginRequest{Email: "ada@example.com", Password: "Newpass123"})
	assert.NoError(t, err)
}

func strp(s string) *string { return &s }
