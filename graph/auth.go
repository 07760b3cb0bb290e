package graph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

const (
	DefaultAuthorityURL = "https://login.microsoftonline.com"
	DefaultTenantID     = "common"
)

var DefaultScopes = []string{"Files.Read", "offline_access"}

var (
	// ErrNotAuthenticated means no usable token is stored.
	ErrNotAuthenticated = errors.New("not authenticated with Microsoft Graph; run `vocabtracker auth login`")
	// ErrAuthorizationPending means a device login was started but not finished.
	ErrAuthorizationPending = errors.New("device login is waiting for user confirmation")
)

type AuthConfig struct {
	TenantID     string
	ClientID     string
	AuthorityURL string
	Scopes       []string
	TokenPath    string
	// HTTPClient is used for calls to the identity platform.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// DeviceLogin is a started device-code login the user still has to confirm.
type DeviceLogin struct {
	UserCode                string    `json:"userCode"`
	VerificationURI         string    `json:"verificationUri"`
	VerificationURIComplete string    `json:"verificationUriComplete,omitempty"`
	ExpiresAt               time.Time `json:"expiresAt"`

	response *oauth2.DeviceAuthResponse
}

type Status struct {
	Authenticated bool         `json:"authenticated"`
	ExpiresAt     *time.Time   `json:"expiresAt,omitempty"`
	CanRefresh    bool         `json:"canRefresh"`
	Pending       *DeviceLogin `json:"pending,omitempty"`
}

// Authenticator runs the OAuth device-code flow against the Microsoft
// identity platform and serves persisted, auto-refreshing tokens.
type Authenticator struct {
	oauth     *oauth2.Config
	tokenPath string
	client    *http.Client
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	source  oauth2.TokenSource
	pending *DeviceLogin
}

func NewAuthenticator(cfg AuthConfig) (*Authenticator, error) {
	clientID := strings.TrimSpace(cfg.ClientID)
	if clientID == "" {
		return nil, errors.New("client id is required")
	}

	tenant := strings.TrimSpace(cfg.TenantID)
	if tenant == "" {
		tenant = DefaultTenantID
	}
	authority := strings.TrimRight(strings.TrimSpace(cfg.AuthorityURL), "/")
	if authority == "" {
		authority = DefaultAuthorityURL
	}

	tokenPath := strings.TrimSpace(cfg.TokenPath)
	if tokenPath == "" {
		defaultPath, err := DefaultTokenPath()
		if err != nil {
			return nil, err
		}
		tokenPath = defaultPath
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base := authority + "/" + tenant + "/oauth2/v2.0"
	return &Authenticator{
		oauth: &oauth2.Config{
			ClientID: clientID,
			Scopes:   scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:       base + "/authorize",
				TokenURL:      base + "/token",
				DeviceAuthURL: base + "/devicecode",
				AuthStyle:     oauth2.AuthStyleInParams,
			},
		},
		tokenPath: tokenPath,
		client:    cfg.HTTPClient,
		logger:    logger,
		now:       time.Now,
	}, nil
}

func (a *Authenticator) TokenPath() string {
	return a.tokenPath
}

// oauthContext carries the identity HTTP client into oauth2 calls.
func (a *Authenticator) oauthContext(ctx context.Context) context.Context {
	if a.client == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, a.client)
}

// StartDeviceLogin requests a device code. The returned login must be passed
// to CompleteDeviceLogin once the user has been shown the code.
func (a *Authenticator) StartDeviceLogin(ctx context.Context) (*DeviceLogin, error) {
	resp, err := a.oauth.DeviceAuth(a.oauthContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("request device code: %w", err)
	}

	login := &DeviceLogin{
		UserCode:                resp.UserCode,
		VerificationURI:         resp.VerificationURI,
		VerificationURIComplete: resp.VerificationURIComplete,
		ExpiresAt:               resp.Expiry,
		response:                resp,
	}

	a.mu.Lock()
	a.pending = login
	a.mu.Unlock()

	a.logger.Info("device login started", "verification_uri", login.VerificationURI, "expires_at", login.ExpiresAt)
	return login, nil
}

// CompleteDeviceLogin polls the token endpoint until the user confirms the
// login, the code expires or ctx is cancelled, then persists the token.
func (a *Authenticator) CompleteDeviceLogin(ctx context.Context, login *DeviceLogin) error {
	if login == nil || login.response == nil {
		return errors.New("device login was not started")
	}
	defer a.clearPending(login)

	tok, err := a.oauth.DeviceAccessToken(a.oauthContext(ctx), login.response)
	if err != nil {
		return fmt.Errorf("complete device login: %w", err)
	}
	if err := SaveToken(a.tokenPath, tok); err != nil {
		return err
	}

	a.mu.Lock()
	a.source = a.newSource(tok)
	a.mu.Unlock()

	a.logger.Info("device login completed", "token_file", a.tokenPath, "expires_at", tok.Expiry)
	return nil
}

func (a *Authenticator) clearPending(login *DeviceLogin) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending == login {
		a.pending = nil
	}
}

func (a *Authenticator) newSource(tok *oauth2.Token) oauth2.TokenSource {
	refresher := a.oauth.TokenSource(a.oauthContext(context.Background()), tok)
	return newPersistingSource(a.tokenPath, refresher, tok)
}

// Token implements oauth2.TokenSource. Tokens are loaded from disk on first
// use and refreshed when they expire.
func (a *Authenticator) Token() (*oauth2.Token, error) {
	a.mu.Lock()
	source := a.source
	pending := a.pending
	a.mu.Unlock()

	if source == nil {
		tok, err := LoadToken(a.tokenPath)
		if err != nil {
			if errors.Is(err, ErrNotAuthenticated) && pending != nil {
				return nil, ErrAuthorizationPending
			}
			return nil, err
		}

		a.mu.Lock()
		if a.source == nil {
			a.source = a.newSource(tok)
		}
		source = a.source
		a.mu.Unlock()
	}

	tok, err := source.Token()
	if err != nil {
		return nil, fmt.Errorf("obtain access token: %w", err)
	}
	return tok, nil
}

// HTTPClient returns a client that authorizes every request with the
// current token. base may be nil.
func (a *Authenticator) HTTPClient(base *http.Client) *http.Client {
	transport := http.DefaultTransport
	timeout := 30 * time.Second
	if base != nil {
		if base.Transport != nil {
			transport = base.Transport
		}
		timeout = base.Timeout
	}
	return &http.Client{
		Transport: &oauth2.Transport{Source: a, Base: transport},
		Timeout:   timeout,
	}
}

func (a *Authenticator) Status() Status {
	a.mu.Lock()
	pending := a.pending
	a.mu.Unlock()

	status := Status{}
	if pending != nil && a.now().Before(pending.ExpiresAt) {
		copied := *pending
		copied.response = nil
		status.Pending = &copied
	}

	tok, err := LoadToken(a.tokenPath)
	if err != nil {
		return status
	}

	status.CanRefresh = tok.RefreshToken != ""
	status.Authenticated = status.CanRefresh || tok.Expiry.IsZero() || a.now().Before(tok.Expiry)
	if !tok.Expiry.IsZero() {
		expiry := tok.Expiry
		status.ExpiresAt = &expiry
	}
	return status
}

// Refresh forces a new access token from the stored refresh token.
func (a *Authenticator) Refresh(ctx context.Context) (*oauth2.Token, error) {
	current, err := LoadToken(a.tokenPath)
	if err != nil {
		return nil, err
	}
	if current.RefreshToken == "" {
		return nil, errors.New("stored token has no refresh token")
	}

	expired := &oauth2.Token{RefreshToken: current.RefreshToken}
	tok, err := a.oauth.TokenSource(a.oauthContext(ctx), expired).Token()
	if err != nil {
		return nil, fmt.Errorf("refresh access token: %w", err)
	}
	if err := SaveToken(a.tokenPath, tok); err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.source = a.newSource(tok)
	a.mu.Unlock()
	return tok, nil
}

// RefreshLoop refreshes the stored token ahead of its expiry, checking every
// interval until ctx is cancelled.
func (a *Authenticator) RefreshLoop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.refreshIfDue(ctx, interval)
		}
	}
}

func (a *Authenticator) refreshIfDue(ctx context.Context, interval time.Duration) {
	tok, err := LoadToken(a.tokenPath)
	if err != nil {
		if !errors.Is(err, ErrNotAuthenticated) {
			a.logger.Warn("read stored token failed", "error", err)
		}
		return
	}
	if tok.Expiry.IsZero() || tok.RefreshToken == "" {
		return
	}
	if tok.Expiry.Sub(a.now()) > interval+time.Minute {
		return
	}

	refreshed, err := a.Refresh(ctx)
	if err != nil {
		a.logger.Warn("scheduled token refresh failed", "error", err)
		return
	}
	a.logger.Debug("token refreshed", "expires_at", refreshed.Expiry)
}

func (a *Authenticator) Logout() error {
	a.mu.Lock()
	a.source = nil
	a.pending = nil
	a.mu.Unlock()

	if err := os.Remove(a.tokenPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
