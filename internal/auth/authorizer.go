package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"

	"github.com/markoori/variant-backend/internal/platform/logger"
)

// Authorizer decides whether a presented admin secret grants access. It
// is injected into the route layer so the capability check can be swapped
// for a stronger scheme without touching routes.
type Authorizer interface {
	Authorize(secret string) bool
}

type secretAuthorizer struct {
	plain string
	hash  []byte
}

type openAuthorizer struct{}

func (openAuthorizer) Authorize(string) bool { return true }

// NewSecretAuthorizer builds the shared-secret gate. ADMIN_SECRET_HASH
// (a bcrypt hash) wins over ADMIN_SECRET (plain, compared in constant
// time). With neither configured the gate is open; that is the dev-mode
// escape hatch and it is logged so nobody ships it by accident.
func NewSecretAuthorizer(log *logger.Logger, plain, bcryptHash string) Authorizer {
	if bcryptHash != "" {
		return &secretAuthorizer{hash: []byte(bcryptHash)}
	}
	if plain != "" {
		return &secretAuthorizer{plain: plain}
	}
	if log != nil {
		log.Warn("No admin secret configured; admin routes are OPEN")
	}
	return openAuthorizer{}
}

func (a *secretAuthorizer) Authorize(secret string) bool {
	if secret == "" {
		return false
	}
	if len(a.hash) > 0 {
		return bcrypt.CompareHashAndPassword(a.hash, []byte(secret)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(a.plain), []byte(secret)) == 1
}
