package authenticator

import (
	"context"
	"time"

	"golang.org/x/oauth2"
)

// TokenEngine signs and verifies short payload objects embedded in JWTs. The
// same engine serves both access and refresh tokens; the payload type tells
// them apart.
type TokenEngine interface {
	Generate(expiration time.Duration, obj any) (string, error)
	Verify(token string, obj any) error
}

type OAuth2User struct {
	ID       string
	Username string
}

type IOAuth2Service interface {
	Service() string
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	ExchangeCode(ctx context.Context, code string) (OAuth2User, error)
	GetUserID(ctx context.Context, accessToken string) (OAuth2User, error)
	VerifyIDToken(ctx context.Context, rawIDToken string) (OAuth2User, error)
	VerifyAuthorizationCode(ctx context.Context, code, codeVerifier, redirectURI string) (OAuth2User, error)
}
