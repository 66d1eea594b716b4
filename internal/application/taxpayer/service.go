// Package taxpayer is the entity registry: every create, read, update, delete
// and verification of a taxpayer record goes through Service, which applies
// the authorization policy and writes the audit trail in the same transaction
// as the mutation.
package taxpayer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/taxpayer-registry/internal/application/audit"
	"github.com/jhoicas/taxpayer-registry/internal/application/dto"
	"github.com/jhoicas/taxpayer-registry/internal/application/ports"
	"github.com/jhoicas/taxpayer-registry/internal/domain"
	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
	"github.com/jhoicas/taxpayer-registry/internal/domain/policy"
	"github.com/jhoicas/taxpayer-registry/internal/domain/repository"
)

// DeleteMode selects between marking a record deleted and removing it.
type DeleteMode int

const (
	SoftDelete DeleteMode = iota
	HardDelete
)

// Service implements the taxpayer use cases.
type Service struct {
	taxpayers repository.TaxpayerRepository
	orgs      repository.OrganizationRepository
	tx        ports.TxRunner
	audit     *audit.Logger
	log       zerolog.Logger
	now       func() time.Time
}

// NewService builds the registry. taxpayers and orgs serve reads outside a
// transaction; every write goes through tx.
func NewService(
	taxpayers repository.TaxpayerRepository,
	orgs repository.OrganizationRepository,
	tx ports.TxRunner,
	auditLog *audit.Logger,
	log zerolog.Logger,
) *Service {
	return &Service{
		taxpayers: taxpayers,
		orgs:      orgs,
		tx:        tx,
		audit:     auditLog,
		log:       log,
		now:       time.Now,
	}
}

// Create registers a taxpayer on behalf of actor.
func (s *Service) Create(ctx context.Context, in dto.CreateTaxpayerRequest, actor *entity.User) (*dto.TaxpayerResponse, error) {
	t, err := newTaxpayer(in)
	if err != nil {
		return nil, err
	}
	err = s.tx.Run(ctx, func(repos ports.Repositories) error {
		return s.insert(ctx, repos, t, actor, map[string]any{"data": requestDetails(in)})
	})
	if err != nil {
		return nil, err
	}
	return ToResponse(t), nil
}

// insert checks uniqueness and ownership, stamps t and stages the row and its audit entry.
func (s *Service) insert(ctx context.Context, repos ports.Repositories, t *entity.Taxpayer, actor *entity.User, details map[string]any) error {
	if t.TIN != nil {
		existing, err := repos.Taxpayers.GetByTIN(ctx, *t.TIN)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.Conflict("Taxpayer with this TIN already exists")
		}
	}
	if t.EmployerID != nil {
		org, err := repos.Organizations.GetByID(ctx, *t.EmployerID)
		if err != nil {
			return err
		}
		if org == nil {
			return domain.BadRequest("employer %s not found", *t.EmployerID)
		}
	}
	if err := policy.Authorize(actor, policy.ActionCreate, t.EmployerID); err != nil {
		return err
	}

	now := s.now().UTC()
	t.ID = uuid.New().String()
	t.CreatedBy = &actor.ID
	t.UpdatedBy = &actor.ID
	t.CreatedAt = now
	t.UpdatedAt = now
	if err := repos.Taxpayers.Create(ctx, t); err != nil {
		return err
	}
	_, err := s.audit.LogAction(ctx, repos.AuditLogs, actor.ID, entity.EntityTaxpayer, t.ID, entity.ActionCreate, details)
	return err
}

// GetByID is a plain lookup; it returns nil when no record matches.
func (s *Service) GetByID(ctx context.Context, id string, includeRelated bool) (*entity.Taxpayer, error) {
	return s.taxpayers.GetByID(ctx, id, includeRelated)
}

// GetByTIN is a plain lookup; it returns nil when no record matches.
func (s *Service) GetByTIN(ctx context.Context, tin string) (*entity.Taxpayer, error) {
	return s.taxpayers.GetByTIN(ctx, tin)
}

// View returns the detail of a record the actor may read.
func (s *Service) View(ctx context.Context, id string, actor *entity.User) (*dto.TaxpayerDetailResponse, error) {
	t, err := s.taxpayers.GetByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	return s.detail(t, actor)
}

// SearchByTIN is View keyed by TIN.
func (s *Service) SearchByTIN(ctx context.Context, tin string, actor *entity.User) (*dto.TaxpayerDetailResponse, error) {
	t, err := s.taxpayers.GetByTIN(ctx, tin)
	if err != nil {
		return nil, err
	}
	if t != nil && t.EmployerID != nil {
		if t.Employer, err = s.orgs.GetByID(ctx, *t.EmployerID); err != nil {
			return nil, err
		}
	}
	return s.detail(t, actor)
}

func (s *Service) detail(t *entity.Taxpayer, actor *entity.User) (*dto.TaxpayerDetailResponse, error) {
	if t == nil {
		return nil, domain.NotFound("Taxpayer not found")
	}
	if err := policy.Authorize(actor, policy.ActionRead, t.EmployerID); err != nil {
		return nil, err
	}
	return ToDetailResponse(t), nil
}

// Update applies a patch. Metadata keys are merged into the existing map.
func (s *Service) Update(ctx context.Context, id string, in dto.UpdateTaxpayerRequest, actor *entity.User) (*dto.TaxpayerResponse, error) {
	var out *entity.Taxpayer
	err := s.tx.Run(ctx, func(repos ports.Repositories) error {
		t, err := s.load(ctx, repos, id, actor, policy.ActionUpdate)
		if err != nil {
			return err
		}
		original := snapshot(t)
		if err := applyUpdate(t, in); err != nil {
			return err
		}
		s.touch(t, actor)
		if err := repos.Taxpayers.Update(ctx, t); err != nil {
			return err
		}
		_, err = s.audit.LogAction(ctx, repos.AuditLogs, actor.ID, entity.EntityTaxpayer, t.ID, entity.ActionUpdate,
			map[string]any{"original": original, "updated": snapshot(t)})
		if err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToResponse(out), nil
}

// Delete marks the record deleted or, in HardDelete mode, removes it.
func (s *Service) Delete(ctx context.Context, id string, actor *entity.User, mode DeleteMode) error {
	return s.tx.Run(ctx, func(repos ports.Repositories) error {
		t, err := s.load(ctx, repos, id, actor, policy.ActionDelete)
		if err != nil {
			return err
		}
		action, reason := entity.ActionSoftDelete, "User requested deletion"
		if mode == HardDelete {
			action, reason = entity.ActionHardDelete, "Permanent deletion requested"
			err = repos.Taxpayers.Delete(ctx, t.ID)
		} else {
			t.Status = entity.TaxpayerDeleted
			s.touch(t, actor)
			err = repos.Taxpayers.Update(ctx, t)
		}
		if err != nil {
			return err
		}
		_, err = s.audit.LogAction(ctx, repos.AuditLogs, actor.ID, entity.EntityTaxpayer, t.ID, action,
			map[string]any{"reason": reason})
		return err
	})
}

// Verify marks the record verified as of today (UTC). Verifying twice is allowed.
func (s *Service) Verify(ctx context.Context, id string, actor *entity.User, extra map[string]any) (*dto.TaxpayerResponse, error) {
	var out *entity.Taxpayer
	err := s.tx.Run(ctx, func(repos ports.Repositories) error {
		t, err := s.load(ctx, repos, id, actor, policy.ActionVerify)
		if err != nil {
			return err
		}
		y, m, d := s.now().UTC().Date()
		today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		t.IsVerified = true
		t.VerificationDate = &today
		if len(extra) > 0 {
			t.MergeMetadata(map[string]any{entity.VerificationKey: entity.CloneMap(extra)})
		}
		s.touch(t, actor)
		if err := repos.Taxpayers.Update(ctx, t); err != nil {
			return err
		}
		_, err = s.audit.LogAction(ctx, repos.AuditLogs, actor.ID, entity.EntityTaxpayer, t.ID, entity.ActionVerify,
			entity.CloneMap(extra))
		if err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToResponse(out), nil
}

// BulkCreate creates every item it can. Item failures are reported in the
// result; only a failure of the enclosing transaction is returned as an error.
func (s *Service) BulkCreate(ctx context.Context, items []dto.CreateTaxpayerRequest, actor *entity.User) (*dto.BulkResult, error) {
	created := make([]*entity.Taxpayer, len(items))
	errs, err := s.tx.RunBatch(ctx, len(items), func(i int, repos ports.Repositories) error {
		t, err := newTaxpayer(items[i])
		if err != nil {
			return err
		}
		details := map[string]any{"data": requestDetails(items[i]), "source": "bulk"}
		if err := s.insert(ctx, repos, t, actor, details); err != nil {
			return err
		}
		created[i] = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &dto.BulkResult{
		Successful:     []dto.TaxpayerResponse{},
		Failed:         []dto.BulkFailure{},
		TotalProcessed: len(items),
	}
	for i, item := range items {
		if errs[i] != nil {
			s.log.Warn().Err(errs[i]).Int("index", i).Str("user_id", actor.ID).Msg("bulk item rejected")
			msg := domain.MessageOf(errs[i])
			if msg == "" {
				msg = "could not create taxpayer"
			}
			res.Failed = append(res.Failed, dto.BulkFailure{Data: item, Error: msg})
			continue
		}
		res.Successful = append(res.Successful, *ToResponse(created[i]))
	}
	res.SuccessfulCount = len(res.Successful)
	res.FailedCount = len(res.Failed)
	return res, nil
}

// List returns one page of the records visible to actor, newest first.
func (s *Service) List(ctx context.Context, in dto.TaxpayerFilter, actor *entity.User, page dto.PageRequest) (*dto.TaxpayerListResponse, error) {
	page.DefaultPage()
	f, err := toFilter(in)
	if err != nil {
		return nil, err
	}
	f.Scope = policy.Visibility(actor)

	items, total, err := s.taxpayers.List(ctx, f, page.Size, page.Offset())
	if err != nil {
		return nil, err
	}
	out := &dto.TaxpayerListResponse{
		Items: make([]dto.TaxpayerResponse, 0, len(items)),
		Total: total,
		Page:  page.Page,
		Size:  page.Size,
		Pages: dto.Pages(total, page.Size),
	}
	for _, t := range items {
		out.Items = append(out.Items, *ToResponse(t))
	}
	return out, nil
}

// Stats aggregates the non-deleted records in the actor's stats scope,
// optionally narrowed to one employer.
func (s *Service) Stats(ctx context.Context, actor *entity.User, organizationID *string) (*dto.TaxpayerStatsResponse, error) {
	stats, err := s.taxpayers.Stats(ctx, repository.TaxpayerFilter{
		Scope:      policy.StatsScope(actor),
		EmployerID: organizationID,
	})
	if err != nil {
		return nil, err
	}
	return toStatsResponse(stats), nil
}

// load fetches a record inside the transaction and applies the policy for action.
func (s *Service) load(ctx context.Context, repos ports.Repositories, id string, actor *entity.User, action policy.Action) (*entity.Taxpayer, error) {
	t, err := repos.Taxpayers.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.NotFound("Taxpayer not found")
	}
	if err := policy.Authorize(actor, action, t.EmployerID); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) touch(t *entity.Taxpayer, actor *entity.User) {
	t.UpdatedBy = &actor.ID
	t.UpdatedAt = s.now().UTC()
}

func toFilter(in dto.TaxpayerFilter) (repository.TaxpayerFilter, error) {
	f := repository.TaxpayerFilter{
		EmployerID:    in.EmployerID,
		IsVerified:    in.IsVerified,
		Search:        in.Search,
		CreatedAfter:  in.CreatedAfter,
		CreatedBefore: in.CreatedBefore,
	}
	if in.State != nil {
		r, err := parseState(*in.State)
		if err != nil {
			return f, err
		}
		f.State = &r
	}
	if in.TaxType != nil {
		tt := entity.TaxType(*in.TaxType)
		if !tt.Valid() {
			return f, domain.BadRequest("tax_type must be one of PAYE, VAT, CIT, WHT, PIT")
		}
		f.TaxType = &tt
	}
	if in.Status != nil {
		st, err := parseStatus(*in.Status)
		if err != nil {
			return f, err
		}
		f.Status = &st
	}
	return f, nil
}
