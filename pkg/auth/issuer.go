package auth

import (
	"time"

	"github.com/angelmondragon/accounts-service/pkg/config"
)

// TokenIssuer binds the signing configuration so callers only deal in
// subject ids.
type TokenIssuer struct {
	cfg config.JWTConfig
	now func() time.Time
}

func NewTokenIssuer(cfg config.JWTConfig) *TokenIssuer {
	return &TokenIssuer{cfg: cfg, now: time.Now}
}

// Issue mints a token for subjectID.
func (i *TokenIssuer) Issue(subjectID string) (string, error) {
	return MintAccessToken(i.cfg, i.now().UTC(), subjectID)
}

// Verify returns the subject id embedded in token.
func (i *TokenIssuer) Verify(token string) (string, error) {
	claims, err := ParseAccessToken(i.cfg, token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
