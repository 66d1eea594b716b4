package commands

import (
	"context"

	"github.com/jhoicas/taxpayer-registry/internal/application/audit"
	"github.com/jhoicas/taxpayer-registry/internal/application/auth"
	"github.com/jhoicas/taxpayer-registry/internal/application/dto"
	"github.com/jhoicas/taxpayer-registry/internal/infrastructure/postgres"
	"github.com/jhoicas/taxpayer-registry/internal/infrastructure/security"
)

// BootstrapCmd creates the first organization and its admin so the API can be used.
type BootstrapCmd struct {
	OrgName            string `help:"Organization name." required:""`
	OrgType            string `help:"Organization type." default:"accounting_firm" enum:"accounting_firm,employer,fintech"`
	RegistrationNumber string `help:"Organization registration (RC) number."`
	Name               string `help:"Admin display name." default:"Administrator"`
	Email              string `help:"Admin email." required:""`
	Password           string `help:"Admin password." required:"" env:"REGISTRY_ADMIN_PASSWORD"`
}

func (c *BootstrapCmd) Run(ctx context.Context, g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer pool.Close()

	repos := postgres.NewRepositories(pool)
	identity := auth.NewIdentityService(
		repos.Users,
		postgres.NewTxRunner(pool),
		security.NewBcryptHasher(0),
		auth.NewJWTCodec(auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer}),
		audit.NewLogger(),
	)
	out, err := identity.RegisterOrganization(ctx, c.request())
	if err != nil {
		return err
	}
	newLogger(g).Info().
		Str("organization_id", out.Organization.ID).
		Str("user_id", out.User.ID).
		Str("email", out.User.Email).
		Msg("organization bootstrapped")
	return nil
}

func (c *BootstrapCmd) request() dto.RegisterOrganizationRequest {
	in := dto.RegisterOrganizationRequest{
		CreateOrganizationRequest: dto.CreateOrganizationRequest{
			Name: c.OrgName,
			Type: c.OrgType,
		},
		AdminUser: dto.RegisterRequest{
			Name:     c.Name,
			Email:    c.Email,
			Password: c.Password,
		},
	}
	if c.RegistrationNumber != "" {
		rc := c.RegistrationNumber
		in.RegistrationNumber = &rc
	}
	return in
}
