package auth

import (
	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
	"github.com/jhoicas/taxpayer-registry/pkg/jwt"
)

// PasswordHasher one-way hashes passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenClaims identity carried by a bearer token.
type TokenClaims struct {
	UserID string
	Email  string
	Role   entity.Role
}

// TokenCodec signs and verifies bearer tokens.
type TokenCodec interface {
	Sign(c TokenClaims) (string, error)
	Verify(token string) (TokenClaims, error)
}

// JWTConfig token settings, passed explicitly at construction.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// JWTCodec is the HS256 TokenCodec.
type JWTCodec struct {
	cfg JWTConfig
}

// NewJWTCodec builds the codec.
func NewJWTCodec(cfg JWTConfig) *JWTCodec {
	return &JWTCodec{cfg: cfg}
}

func (c *JWTCodec) Sign(tc TokenClaims) (string, error) {
	return jwt.Generate(c.cfg.Secret, tc.UserID, tc.Email, string(tc.Role), c.cfg.Issuer, c.cfg.ExpMinutes)
}

func (c *JWTCodec) Verify(token string) (TokenClaims, error) {
	claims, err := jwt.Parse(c.cfg.Secret, token)
	if err != nil {
		return TokenClaims{}, err
	}
	return TokenClaims{UserID: claims.UserID(), Email: claims.Email, Role: entity.Role(claims.Role)}, nil
}
