// Package sfdc is the Salesforce REST collaborator: it acquires OAuth
// tokens and executes generated SOQL against the query API. The engine
// package never touches the network; everything remote lives here.
package sfdc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/browser"

	"github.com/soqlgen/soqlgen/config"
	"github.com/soqlgen/soqlgen/log"
)

const (
	tokenPath     = "/services/oauth2/token"
	authorizePath = "/services/oauth2/authorize"
	oauthScope    = "refresh_token full"
)

// TokenResponse is the body of the OAuth token endpoint.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	InstanceURL  string `json:"instance_url"`
}

// Authenticator obtains an access token. A saved refresh token is
// exchanged directly; otherwise the user authorizes in a browser and the
// resulting refresh token is persisted for next time.
type Authenticator struct {
	cfg    *config.Config
	logger log.Logger
	client *http.Client
}

func NewAuthenticator(cfg *config.Config, logger log.Logger) *Authenticator {
	return &Authenticator{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Token returns a fresh access token, running the browser authorization
// flow when no refresh token has been saved yet.
func (a *Authenticator) Token(ctx context.Context) (*TokenResponse, error) {
	data, err := os.ReadFile(a.cfg.TokenFile)
	if err == nil {
		return a.refreshGrant(ctx, strings.TrimSpace(string(data)))
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	return a.authorize(ctx)
}

func (a *Authenticator) refreshGrant(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	return a.tokenRequest(ctx, url.Values{
		"grant_type":    {"refresh_token"},
		"client_id":     {a.cfg.ClientID},
		"client_secret": {a.cfg.ClientSecret},
		"refresh_token": {refreshToken},
	})
}

// authorize runs the authorization-code flow: open the authorization URL
// in a browser, catch the redirect on a local callback server, exchange
// the code and save the refresh token.
func (a *Authenticator) authorize(ctx context.Context) (*TokenResponse, error) {
	authURL := a.cfg.LoginURL + authorizePath + "?" + url.Values{
		"response_type": {"code"},
		"client_id":     {a.cfg.ClientID},
		"redirect_uri":  {a.redirectURI()},
		"scope":         {oauthScope},
	}.Encode()

	if err := browser.OpenURL(authURL); err != nil {
		return nil, fmt.Errorf("opening authorization page: %w", err)
	}

	a.logger.Info("waiting for authorization",
		"port", a.cfg.CallbackPort)
	code, err := a.waitForCallback(ctx)
	if err != nil {
		return nil, err
	}

	token, err := a.tokenRequest(ctx, url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {a.cfg.ClientID},
		"client_secret": {a.cfg.ClientSecret},
		"redirect_uri":  {a.redirectURI()},
		"code":          {code},
	})
	if err != nil {
		return nil, err
	}

	if token.RefreshToken != "" {
		if err := os.WriteFile(a.cfg.TokenFile, []byte(token.RefreshToken), 0600); err != nil {
			return nil, fmt.Errorf("saving refresh token: %w", err)
		}
	}
	a.logger.Info("authorization complete")
	return token, nil
}

// waitForCallback serves GET /oauth/callback on the configured local port
// until the provider redirects back with a code, then shuts the server
// down.
func (a *Authenticator) waitForCallback(ctx context.Context) (string, error) {
	codes := make(chan string, 1)

	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/oauth/callback", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "You can close this window now.")
		codes <- r.URL.Query().Get("code")
	})

	handler := http.Handler(router)
	if a.cfg.RequestLogging {
		handler = log.NewLoggingHandler(handler, a.logger)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf("localhost:%d", a.cfg.CallbackPort),
		Handler: handler,
	}
	errs := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	select {
	case code := <-codes:
		if code == "" {
			return "", fmt.Errorf("authorization callback carried no code")
		}
		return code, nil
	case err := <-errs:
		return "", fmt.Errorf("callback server: %w", err)
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (a *Authenticator) redirectURI() string {
	return fmt.Sprintf("http://localhost:%d/oauth/callback", a.cfg.CallbackPort)
}

func (a *Authenticator) tokenRequest(ctx context.Context, form url.Values) (*TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		a.cfg.LoginURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token request failed with status %s", resp.Status)
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("decoding token response: %w", err)
	}
	return &token, nil
}
