// Package auth issues and verifies access tokens and carries the caller's
// identity through request contexts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findules/internal/apperr"
	"github.com/MrJamesThe3rd/findules/internal/user"
)

// Identity is the authenticated caller.
type Identity struct {
	UserID   uuid.UUID
	Username string
	Role     user.Role
	BranchID *uuid.UUID
}

func (i Identity) HasRole(roles ...user.Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}

	return false
}

// ScopeBranch returns the branch a list query must be restricted to. Managers
// see every branch and get the requested filter back unchanged.
func (i Identity) ScopeBranch(requested *uuid.UUID) *uuid.UUID {
	if i.Role == user.RoleManager {
		return requested
	}

	return i.BranchID
}

type claims struct {
	Username string     `json:"username"`
	Role     user.Role  `json:"role"`
	BranchID *uuid.UUID `json:"branch_id,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token for u and its expiry.
func (i *Issuer) Issue(u *user.User) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: u.Username,
		Role:     u.Role,
		BranchID: u.BranchID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}

	return signed, exp, nil
}

// Verify parses token and returns the identity it carries.
func (i *Issuer) Verify(token string) (Identity, error) {
	var c claims

	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, apperr.Unauthorized("token expired")
		}

		return Identity{}, apperr.Unauthorized("invalid token")
	}

	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return Identity{}, apperr.Unauthorized("invalid token subject")
	}

	return Identity{UserID: id, Username: c.Username, Role: c.Role, BranchID: c.BranchID}, nil
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
