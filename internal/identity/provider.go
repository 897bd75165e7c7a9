package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quiz-portal/internal/domain"
)

// Provider is the identity collaborator: it builds the hosted sign-in and
// sign-out URLs and completes the authorization-code exchange. Completion is
// reflected back into the auth store by the callback handler; the provider
// itself holds no session state.
type Provider interface {
	SignInURL(state string) string
	SignOutURL() string
	Exchange(ctx context.Context, code string) (domain.Principal, error)
}

// OIDCConfig describes the hosted-UI deployment the portal authenticates
// against.
type OIDCConfig struct {
	// Domain is the provider's hosted UI base, e.g. https://example.auth.region.amazoncognito.com.
	Domain         string
	ClientID       string
	ClientSecret   string
	RedirectURI    string
	LogoutRedirect string
	Scopes         string
	Timeout        time.Duration
}

// OIDCProvider talks to an OIDC hosted UI (authorization-code flow) and
// verifies the returned ID token with the given parser.
type OIDCProvider struct {
	cfg    OIDCConfig
	parser *TokenParser
	client *http.Client
}

func NewOIDCProvider(cfg OIDCConfig, parser *TokenParser) *OIDCProvider {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &OIDCProvider{
		cfg:    cfg,
		parser: parser,
		client: &http.Client{Timeout: timeout},
	}
}

func (p *OIDCProvider) SignInURL(state string) string {
	q := url.Values{}
	q.Set("client_id", p.cfg.ClientID)
	q.Set("response_type", "code")
	q.Set("scope", p.cfg.Scopes)
	q.Set("redirect_uri", p.cfg.RedirectURI)
	if state != "" {
		q.Set("state", state)
	}
	return p.cfg.Domain + "/login?" + q.Encode()
}

func (p *OIDCProvider) SignOutURL() string {
	q := url.Values{}
	q.Set("client_id", p.cfg.ClientID)
	q.Set("logout_uri", p.cfg.LogoutRedirect)
	return p.cfg.Domain + "/logout?" + q.Encode()
}

type tokenResponse struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
}

// Exchange trades an authorization code for tokens and parses the ID token
// into a Principal.
func (p *OIDCProvider) Exchange(ctx context.Context, code string) (domain.Principal, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", p.cfg.ClientID)
	if p.cfg.ClientSecret != "" {
		form.Set("client_secret", p.cfg.ClientSecret)
	}
	form.Set("code", code)
	form.Set("redirect_uri", p.cfg.RedirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.Domain+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return domain.Principal{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("token exchange: %w", err)
	}
	defer resp.Body.Close()

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.Principal{}, fmt.Errorf("token exchange: decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || body.Error != "" {
		return domain.Principal{}, fmt.Errorf("token exchange: status %d %s", resp.StatusCode, body.Error)
	}
	if body.IDToken == "" {
		return domain.Principal{}, fmt.Errorf("token exchange: no id_token in response")
	}
	return p.parser.Parse(body.IDToken)
}
