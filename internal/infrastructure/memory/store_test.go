package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/taxpayer-registry/internal/application/ports"
	"github.com/jhoicas/taxpayer-registry/internal/domain"
	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
	"github.com/jhoicas/taxpayer-registry/internal/domain/policy"
	"github.com/jhoicas/taxpayer-registry/internal/domain/repository"
)

func strp(s string) *string { return &s }

func taxpayer(id, name string, tin *string, employer *string, created time.Time) *entity.Taxpayer {
	return &entity.Taxpayer{
		ID:         id,
		FullName:   name,
		TIN:        tin,
		State:      "Lagos",
		TaxType:    entity.TaxPAYE,
		EmployerID: employer,
		Status:     entity.TaxpayerActive,
		Metadata:   map[string]any{},
		CreatedAt:  created,
		UpdatedAt:  created,
	}
}

func TestRun_RollsBackOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Run(ctx, func(repos ports.Repositories) error {
		require.NoError(t, repos.Taxpayers.Create(ctx, taxpayer("t1", "Ada", nil, nil, time.Now())))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Repositories().Taxpayers.GetByID(ctx, "t1", false)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRun_CommitsOnSuccess(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.Run(ctx, func(repos ports.Repositories) error {
		return repos.Taxpayers.Create(ctx, taxpayer("t1", "Ada", strp("1234567890"), nil, time.Now()))
	})
	require.NoError(t, err)

	got, err := s.Repositories().Taxpayers.GetByTIN(ctx, "1234567890")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "t1", got.ID)
}

func TestRunBatch_IsolatesFailingItems(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	tins := []string{"1111111111", "1111111111", "2222222222"}

	errs, err := s.RunBatch(ctx, len(tins), func(i int, repos ports.Repositories) error {
		return repos.Taxpayers.Create(ctx, taxpayer(fmt.Sprintf("t%d", i), "Ada", strp(tins[i]), nil, time.Now()))
	})
	require.NoError(t, err)
	require.Len(t, errs, 3)
	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], domain.ErrConflict)
	assert.NoError(t, errs[2])

	list, total, err := s.Repositories().Taxpayers.List(ctx, repository.TaxpayerFilter{Scope: policy.Scope{All: true}}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)
}

func TestTaxpayerRepo_ReturnsCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repos := s.Repositories()
	require.NoError(t, repos.Taxpayers.Create(ctx, taxpayer("t1", "Ada", nil, nil, time.Now())))

	got, err := repos.Taxpayers.GetByID(ctx, "t1", false)
	require.NoError(t, err)
	got.FullName = "Mutated"
	got.Metadata["k"] = "v"

	again, err := repos.Taxpayers.GetByID(ctx, "t1", false)
	require.NoError(t, err)
	assert.Equal(t, "Ada", again.FullName)
	assert.Empty(t, again.Metadata)
}

func TestTaxpayerRepo_ListFiltersAndOrders(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repos := s.Repositories()
	org := "org-1"
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repos.Taxpayers.Create(ctx, taxpayer("a", "Ada Lovelace", nil, &org, base)))
	require.NoError(t, repos.Taxpayers.Create(ctx, taxpayer("b", "Grace Hopper", strp("9876543210"), nil, base.Add(time.Hour))))
	deleted := taxpayer("c", "Alan Turing", nil, &org, base.Add(2*time.Hour))
	deleted.Status = entity.TaxpayerDeleted
	require.NoError(t, repos.Taxpayers.Create(ctx, deleted))

	all := policy.Scope{All: true}
	list, total, err := repos.Taxpayers.List(ctx, repository.TaxpayerFilter{Scope: all}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID, "newest first")

	_, total, err = repos.Taxpayers.List(ctx, repository.TaxpayerFilter{Scope: all, Search: "LOVE"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, total, err = repos.Taxpayers.List(ctx, repository.TaxpayerFilter{Scope: all, Search: "98765"}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	list, _, err = repos.Taxpayers.List(ctx, repository.TaxpayerFilter{Scope: policy.Scope{OrganizationID: &org}}, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)

	st := entity.TaxpayerDeleted
	_, total, err = repos.Taxpayers.List(ctx, repository.TaxpayerFilter{Scope: all, Status: &st}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	after := base.Add(time.Hour)
	_, total, err = repos.Taxpayers.List(ctx, repository.TaxpayerFilter{Scope: all, CreatedAfter: &after}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total, "created_after is inclusive")

	list, total, err = repos.Taxpayers.List(ctx, repository.TaxpayerFilter{Scope: all}, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, list, 1)
	assert.Equal(t, "a", list[0].ID)

	_, total, err = repos.Taxpayers.List(ctx, repository.TaxpayerFilter{Scope: policy.Scope{None: true}}, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestTaxpayerRepo_Stats(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repos := s.Repositories()

	empty, err := repos.Taxpayers.Stats(ctx, repository.TaxpayerFilter{Scope: policy.Scope{All: true}})
	require.NoError(t, err)
	assert.Zero(t, empty.Total)
	assert.True(t, empty.VerificationRate.IsZero())

	now := time.Now()
	for i := 0; i < 3; i++ {
		tp := taxpayer(fmt.Sprintf("t%d", i), "Ada", nil, nil, now)
		tp.IsVerified = i == 0
		require.NoError(t, repos.Taxpayers.Create(ctx, tp))
	}

	stats, err := repos.Taxpayers.Stats(ctx, repository.TaxpayerFilter{Scope: policy.Scope{All: true}})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Verified)
	assert.Equal(t, "33.33", stats.VerificationRate.StringFixed(2))
	assert.Equal(t, 3, stats.ByTaxType[entity.TaxPAYE])
	assert.Equal(t, 3, stats.ByState["Lagos"])
}

func TestTaxpayerRepo_GetByIDLoadsEmployer(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repos := s.Repositories()
	require.NoError(t, repos.Organizations.Create(ctx, &entity.Organization{ID: "org-1", Name: "Acme", Type: entity.OrganizationEmployer}))
	org := "org-1"
	require.NoError(t, repos.Taxpayers.Create(ctx, taxpayer("t1", "Ada", nil, &org, time.Now())))

	plain, err := repos.Taxpayers.GetByID(ctx, "t1", false)
	require.NoError(t, err)
	assert.Nil(t, plain.Employer)

	detail, err := repos.Taxpayers.GetByID(ctx, "t1", true)
	require.NoError(t, err)
	require.NotNil(t, detail.Employer)
	assert.Equal(t, "Acme", detail.Employer.Name)
}

func TestOrganizationRepo_UniqueFields(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repos := s.Repositories()
	require.NoError(t, repos.Organizations.Create(ctx, &entity.Organization{ID: "o1", Name: "A", RegistrationNumber: strp("RC1"), TaxID: strp("TX1")}))

	err := repos.Organizations.Create(ctx, &entity.Organization{ID: "o2", Name: "B", RegistrationNumber: strp("RC1")})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "Registration number")

	err = repos.Organizations.Create(ctx, &entity.Organization{ID: "o3", Name: "C", TaxID: strp("TX1")})
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Contains(t, err.Error(), "Tax identification number")

	require.NoError(t, repos.Organizations.Create(ctx, &entity.Organization{ID: "o4", Name: "D"}))
	require.NoError(t, repos.Organizations.Create(ctx, &entity.Organization{ID: "o5", Name: "E"}))
}

func TestUserRepo_EmailIsCaseInsensitive(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repos := s.Repositories()
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "u1", Email: "ada@example.com"}))

	got, err := repos.Users.GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)

	err = repos.Users.Create(ctx, &entity.User{ID: "u2", Email: "Ada@Example.com"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAuditLogRepo_OldestFirst(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repos := s.Repositories()
	for _, action := range []string{entity.ActionCreate, entity.ActionUpdate, entity.ActionVerify} {
		require.NoError(t, repos.AuditLogs.Append(ctx, &entity.AuditLog{ID: action, EntityType: entity.EntityTaxpayer, EntityID: "t1", Action: action}))
	}
	require.NoError(t, repos.AuditLogs.Append(ctx, &entity.AuditLog{ID: "other", EntityType: entity.EntityTaxpayer, EntityID: "t2"}))

	entries, err := repos.AuditLogs.ListByEntity(ctx, entity.EntityTaxpayer, "t1")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, entity.ActionCreate, entries[0].Action)
	assert.Equal(t, entity.ActionVerify, entries[2].Action)
}

func TestCanceledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Run(ctx, func(ports.Repositories) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.RunBatch(ctx, 1, func(int, ports.Repositories) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
