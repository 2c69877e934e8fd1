package testutil

import (
	"context"

	"github.com/th3void/lotus-routine/pkg/authenticator"
	"golang.org/x/oauth2"
)

type MockOAuth2Service struct {
	Name                        string
	AuthCodeURLFunc             func(state string, opts ...oauth2.AuthCodeOption) string
	ExchangeCodeFunc            func(ctx context.Context, code string) (authenticator.OAuth2User, error)
	GetUserIDFunc               func(ctx context.Context, accessToken string) (authenticator.OAuth2User, error)
	VerifyIDTokenFunc           func(ctx context.Context, rawIDToken string) (authenticator.OAuth2User, error)
	VerifyAuthorizationCodeFunc func(ctx context.Context, code, codeVerifier, redirectURI string) (authenticator.OAuth2User, error)
}

func NewMockOAuth2Service(name string) *MockOAuth2Service {
	return &MockOAuth2Service{Name: name}
}

func (m *MockOAuth2Service) Service() string {
	return m.Name
}

func (m *MockOAuth2Service) AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string {
	if m.AuthCodeURLFunc != nil {
		return m.AuthCodeURLFunc(state, opts...)
	}

	return "https://oauth2.example.com/auth?state=" + state
}

func (m *MockOAuth2Service) ExchangeCode(ctx context.Context, code string) (authenticator.OAuth2User, error) {
	if m.ExchangeCodeFunc != nil {
		return m.ExchangeCodeFunc(ctx, code)
	}

	return authenticator.OAuth2User{}, nil
}

func (m *MockOAuth2Service) GetUserID(ctx context.Context, accessToken string) (authenticator.OAuth2User, error) {
	if m.GetUserIDFunc != nil {
		return m.GetUserIDFunc(ctx, accessToken)
	}

	return authenticator.OAuth2User{}, nil
}

func (m *MockOAuth2Service) VerifyIDToken(ctx context.Context, rawIDToken string) (authenticator.OAuth2User, error) {
	if m.VerifyIDTokenFunc != nil {
		return m.VerifyIDTokenFunc(ctx, rawIDToken)
	}

	return authenticator.OAuth2User{}, nil
}

func (m *MockOAuth2Service) VerifyAuthorizationCode(
	ctx context.Context, code, codeVerifier, redirectURI string,
) (authenticator.OAuth2User, error) {
	if m.VerifyAuthorizationCodeFunc != nil {
		return m.VerifyAuthorizationCodeFunc(ctx, code, codeVerifier, redirectURI)
	}

	return authenticator.OAuth2User{}, nil
}
