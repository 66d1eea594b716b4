package memory

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/taxpayer-registry/internal/domain"
	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
	"github.com/jhoicas/taxpayer-registry/internal/domain/repository"
)

var _ repository.TaxpayerRepository = (*TaxpayerRepo)(nil)

// TaxpayerRepo is the in-memory TaxpayerRepository.
type TaxpayerRepo struct {
	a accessor
}

func (r *TaxpayerRepo) Create(ctx context.Context, t *entity.Taxpayer) error {
	return r.a.update(ctx, func(st *state) error {
		if _, ok := st.taxpayers[t.ID]; ok {
			return domain.Conflict("taxpayer %s already exists", t.ID)
		}
		if tinTaken(st, t.TIN, "") {
			return domain.Conflict("Taxpayer with this TIN already exists")
		}
		c := t.Clone()
		c.Employer = nil
		st.taxpayers[c.ID] = c
		return nil
	})
}

func (r *TaxpayerRepo) GetByID(ctx context.Context, id string, withEmployer bool) (*entity.Taxpayer, error) {
	var out *entity.Taxpayer
	err := r.a.view(ctx, func(st *state) error {
		t, ok := st.taxpayers[id]
		if !ok {
			return nil
		}
		out = t.Clone()
		if withEmployer && t.EmployerID != nil {
			if o, ok := st.orgs[*t.EmployerID]; ok {
				e := *o
				out.Employer = &e
			}
		}
		return nil
	})
	return out, err
}

func (r *TaxpayerRepo) GetByTIN(ctx context.Context, tin string) (*entity.Taxpayer, error) {
	var out *entity.Taxpayer
	err := r.a.view(ctx, func(st *state) error {
		for _, t := range st.taxpayers {
			if t.TIN != nil && *t.TIN == tin {
				out = t.Clone()
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *TaxpayerRepo) Update(ctx context.Context, t *entity.Taxpayer) error {
	return r.a.update(ctx, func(st *state) error {
		if _, ok := st.taxpayers[t.ID]; !ok {
			return domain.NotFound("Taxpayer not found")
		}
		if tinTaken(st, t.TIN, t.ID) {
			return domain.Conflict("Taxpayer with this TIN already exists")
		}
		c := t.Clone()
		c.Employer = nil
		st.taxpayers[c.ID] = c
		return nil
	})
}

func (r *TaxpayerRepo) Delete(ctx context.Context, id string) error {
	return r.a.update(ctx, func(st *state) error {
		if _, ok := st.taxpayers[id]; !ok {
			return domain.NotFound("Taxpayer not found")
		}
		delete(st.taxpayers, id)
		return nil
	})
}

func (r *TaxpayerRepo) List(ctx context.Context, f repository.TaxpayerFilter, limit, offset int) ([]*entity.Taxpayer, int, error) {
	var (
		page  []*entity.Taxpayer
		total int
	)
	err := r.a.view(ctx, func(st *state) error {
		m := newMatcher(f)
		var hits []*entity.Taxpayer
		for _, t := range st.taxpayers {
			if m.match(t) {
				hits = append(hits, t)
			}
		}
		sort.Slice(hits, func(i, j int) bool {
			if !hits[i].CreatedAt.Equal(hits[j].CreatedAt) {
				return hits[i].CreatedAt.After(hits[j].CreatedAt)
			}
			return hits[i].ID > hits[j].ID
		})
		total = len(hits)
		if offset > len(hits) {
			offset = len(hits)
		}
		end := len(hits)
		if limit > 0 && offset+limit < end {
			end = offset + limit
		}
		for _, t := range hits[offset:end] {
			page = append(page, t.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page, total, nil
}

func (r *TaxpayerRepo) Stats(ctx context.Context, f repository.TaxpayerFilter) (*entity.TaxpayerStats, error) {
	stats := &entity.TaxpayerStats{
		ByTaxType: map[entity.TaxType]int{},
		ByStatus:  map[entity.TaxpayerStatus]int{},
		ByState:   map[entity.Region]int{},
	}
	err := r.a.view(ctx, func(st *state) error {
		for _, t := range st.taxpayers {
			if t.Status == entity.TaxpayerDeleted || !f.Scope.Match(t.EmployerID) {
				continue
			}
			if f.EmployerID != nil && !entity.SameOrganization(t.EmployerID, f.EmployerID) {
				continue
			}
			stats.Total++
			if t.IsVerified {
				stats.Verified++
			}
			stats.ByTaxType[t.TaxType]++
			stats.ByStatus[t.Status]++
			stats.ByState[t.State]++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	stats.VerificationRate = entity.VerificationRate(stats.Total, stats.Verified)
	return stats, nil
}

func tinTaken(st *state, tin *string, exceptID string) bool {
	if tin == nil {
		return false
	}
	for id, t := range st.taxpayers {
		if id != exceptID && t.TIN != nil && *t.TIN == *tin {
			return true
		}
	}
	return false
}

// matcher evaluates a TaxpayerFilter the way the SQL implementation does;
// search is a case-insensitive substring match.
type matcher struct {
	f      repository.TaxpayerFilter
	folder cases.Caser
	needle string
}

func newMatcher(f repository.TaxpayerFilter) *matcher {
	m := &matcher{f: f, folder: cases.Fold()}
	if s := strings.TrimSpace(f.Search); s != "" {
		m.needle = m.folder.String(s)
	}
	return m
}

func (m *matcher) match(t *entity.Taxpayer) bool {
	f := m.f
	if !f.Scope.Match(t.EmployerID) {
		return false
	}
	if f.Status == nil {
		if t.Status == entity.TaxpayerDeleted {
			return false
		}
	} else if t.Status != *f.Status {
		return false
	}
	switch {
	case f.State != nil && t.State != *f.State:
		return false
	case f.TaxType != nil && t.TaxType != *f.TaxType:
		return false
	case f.EmployerID != nil && !entity.SameOrganization(t.EmployerID, f.EmployerID):
		return false
	case f.IsVerified != nil && t.IsVerified != *f.IsVerified:
		return false
	case f.CreatedAfter != nil && t.CreatedAt.Before(*f.CreatedAfter):
		return false
	case f.CreatedBefore != nil && t.CreatedAt.After(*f.CreatedBefore):
		return false
	}
	if m.needle == "" {
		return true
	}
	for _, v := range []*string{&t.FullName, t.TIN, t.BusinessName, t.Email} {
		if v != nil && strings.Contains(m.folder.String(*v), m.needle) {
			return true
		}
	}
	return false
}
