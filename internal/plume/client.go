// Package plume is a small client for the parts of the Plume REST API the
// importer needs: app registration, the password grant and post creation.
package plume

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/amsterdam/internal/config"
	"github.com/debemdeboas/amsterdam/internal/model"
)

type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

type ClientConfig struct {
	Scheme string
	Domain string

	// Zero means no timeout.
	Timeout            time.Duration
	InsecureSkipVerify bool

	// HTTPClient replaces the client built from the fields above.
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

func NewClient(cfg ClientConfig) *Client {
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "https"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.InsecureSkipVerify {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		}
	}

	return &Client{
		baseURL: scheme + "://" + NormalizeDomain(cfg.Domain),
		http:    httpClient,
		logger:  cfg.Logger,
	}
}

// NormalizeDomain strips what users tend to paste around a host name.
func NormalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	return strings.TrimRight(domain, "/")
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type AppRegistration struct {
	Name        string `json:"name"`
	Website     string `json:"website,omitempty"`
	RedirectURI string `json:"redirect_uri,omitempty"`
}

type AppCredentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// RegisterApp creates an API client on the instance.
func (c *Client) RegisterApp(ctx context.Context, app AppRegistration) (*AppCredentials, error) {
	const op = "register app"

	var resp struct {
		AppCredentials
		apiError
	}
	status, err := c.do(ctx, op, http.MethodPost, config.PathApps, nil, app, "", &resp)
	if err != nil {
		return nil, err
	}
	if err := resp.check(op, status); err != nil {
		return nil, err
	}
	if resp.ClientID == "" || resp.ClientSecret == "" {
		return nil, &ApplicationError{Op: op, StatusCode: status, Message: "response has no client_id or client_secret"}
	}

	return &resp.AppCredentials, nil
}

type PasswordGrant struct {
	Username     string
	Password     string
	ClientID     string
	ClientSecret string
}

// ExchangePassword trades a username and password for a bearer token.
// The instance expects everything in the query string.
func (c *Client) ExchangePassword(ctx context.Context, grant PasswordGrant) (string, error) {
	const op = "password grant"

	query := url.Values{}
	query.Set("username", grant.Username)
	query.Set("password", grant.Password)
	query.Set("client_id", grant.ClientID)
	query.Set("client_secret", grant.ClientSecret)
	query.Set("scopes", config.ScopeWrite)

	var resp struct {
		Token string `json:"token"`
		apiError
	}
	status, err := c.do(ctx, op, http.MethodGet, config.PathOAuth2, query, nil, "", &resp)
	if err != nil {
		return "", err
	}
	if err := resp.check(op, status); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &ApplicationError{Op: op, StatusCode: status, Message: "response has no token"}
	}

	return resp.Token, nil
}

// PublishedPost is what the instance answers after creating a post.
type PublishedPost struct {
	ID int64 `json:"id"`
}

// Publish creates a post from draft.
func (c *Client) Publish(ctx context.Context, draft model.Draft, token string) (*PublishedPost, error) {
	const op = "publish post"

	var resp struct {
		PublishedPost
		apiError
	}
	status, err := c.do(ctx, op, http.MethodPost, config.PathPosts, nil, draft, token, &resp)
	if err != nil {
		return nil, err
	}
	if err := resp.check(op, status); err != nil {
		return nil, err
	}

	return &resp.PublishedPost, nil
}

type apiError struct {
	Error *string `json:"error"`
}

func (e apiError) check(op string, status int) error {
	if e.Error != nil {
		return &ApplicationError{Op: op, StatusCode: status, Message: *e.Error}
	}
	if status < 200 || status > 299 {
		return &ApplicationError{Op: op, StatusCode: status, Message: http.StatusText(status)}
	}
	return nil
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any, token string, out any) (int, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	// Never log the query, it carries the password.
	logURL := c.baseURL + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("%s: encoding request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, &TransportError{Op: op, URL: logURL, Err: err}
	}
	req.Header.Set(config.HAccept, config.CTypeJSON)
	if body != nil {
		req.Header.Set(config.HCType, config.CTypeJSON)
	}
	if token != "" {
		req.Header.Set(config.HAuthorization, "Bearer "+token)
	}

	c.logger.Debug().Str("method", method).Str("url", logURL).Msg("Sending request")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, &TransportError{Op: op, URL: logURL, Err: scrubURL(err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, &TransportError{Op: op, URL: logURL, Err: fmt.Errorf("reading response: %w", err)}
	}

	c.logger.Debug().Int("status", resp.StatusCode).Int("bytes", len(data)).Msg("Received response")

	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, &TransportError{
			Op:  op,
			URL: logURL,
			Err: fmt.Errorf("decoding %d response: %w", resp.StatusCode, err),
		}
	}

	return resp.StatusCode, nil
}

// scrubURL drops the request URL that net/http puts in its errors.
func scrubURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return urlErr.Err
	}
	return err
}
