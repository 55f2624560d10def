// Package auth makes sure the importer holds a usable instance domain, API
// client and bearer token before anything is published, asking the user for
// whatever is missing and persisting each value as soon as it is obtained.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/debemdeboas/amsterdam/internal/config"
	"github.com/debemdeboas/amsterdam/internal/model"
	"github.com/debemdeboas/amsterdam/internal/plume"
)

var authLogger = zerolog.Nop()

func SetLogger(logger zerolog.Logger) {
	authLogger = logger
}

// Phase names the bootstrap step that failed.
type Phase string

const (
	PhaseDomain   Phase = "domain"
	PhaseRegister Phase = "register"
	PhaseToken    Phase = "token"
	PhasePersist  Phase = "persist"
)

type BootstrapError struct {
	Phase Phase
	Err   error
}

func (e *BootstrapError) Error() string {
	return fmt.Sprintf("credential bootstrap failed during %s: %v", e.Phase, e.Err)
}

func (e *BootstrapError) Unwrap() error {
	return e.Err
}

var (
	ErrEmptyDomain   = errors.New("instance domain must not be empty")
	ErrEmptyUsername = errors.New("username must not be empty")
)

// Store is where credentials live between runs.
type Store interface {
	Set(key, value string) error
	Credentials() model.Credentials
}

// API is the part of the instance API the bootstrap talks to.
type API interface {
	RegisterApp(ctx context.Context, app plume.AppRegistration) (*plume.AppCredentials, error)
	ExchangePassword(ctx context.Context, grant plume.PasswordGrant) (string, error)
}

type Bootstrapper struct {
	store    Store
	prompter Prompter
	connect  func(domain string) API
	app      plume.AppRegistration
}

// NewBootstrapper wires a bootstrapper. connect builds an API client for the
// instance once its domain is known.
func NewBootstrapper(store Store, prompter Prompter, connect func(domain string) API, app plume.AppRegistration) *Bootstrapper {
	return &Bootstrapper{
		store:    store,
		prompter: prompter,
		connect:  connect,
		app:      app,
	}
}

// Ensure returns complete credentials, prompting and calling the instance only
// for what the store does not already hold. Every value obtained is persisted
// before the next step runs, so an interrupted bootstrap resumes where it stopped.
func (b *Bootstrapper) Ensure(ctx context.Context) (model.Credentials, error) {
	creds := b.store.Credentials()

	if creds.InstanceDomain == "" {
		domain, err := b.prompter.PromptLine("Instance domain")
		if err != nil {
			return creds, &BootstrapError{Phase: PhaseDomain, Err: err}
		}
		domain = plume.NormalizeDomain(domain)
		if domain == "" {
			return creds, &BootstrapError{Phase: PhaseDomain, Err: ErrEmptyDomain}
		}
		if err := b.persist(config.KeyAPIURL, domain); err != nil {
			return creds, err
		}
		creds.InstanceDomain = domain
	}

	if creds.BearerToken != "" {
		authLogger.Debug().Str("domain", creds.InstanceDomain).Msg("Using cached API token")
		return creds, nil
	}

	api := b.connect(creds.InstanceDomain)

	if !creds.HasClient() {
		authLogger.Info().Str("domain", creds.InstanceDomain).Msg("Registering API client")

		app, err := api.RegisterApp(ctx, b.app)
		if err != nil {
			return creds, &BootstrapError{Phase: PhaseRegister, Err: err}
		}
		if err := b.persist(config.KeyClientID, app.ClientID); err != nil {
			return creds, err
		}
		if err := b.persist(config.KeyClientSecret, app.ClientSecret); err != nil {
			return creds, err
		}
		creds.ClientID = app.ClientID
		creds.ClientSecret = app.ClientSecret
	}

	username, err := b.prompter.PromptLine("Username")
	if err != nil {
		return creds, &BootstrapError{Phase: PhaseToken, Err: err}
	}
	if username == "" {
		return creds, &BootstrapError{Phase: PhaseToken, Err: ErrEmptyUsername}
	}
	password, err := b.prompter.PromptSecret("Password")
	if err != nil {
		return creds, &BootstrapError{Phase: PhaseToken, Err: err}
	}

	token, err := api.ExchangePassword(ctx, plume.PasswordGrant{
		Username:     username,
		Password:     password,
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
	})
	if err != nil {
		return creds, &BootstrapError{Phase: PhaseToken, Err: err}
	}
	if err := b.persist(config.KeyAPIToken, token); err != nil {
		return creds, err
	}
	creds.BearerToken = token

	authLogger.Info().Str("domain", creds.InstanceDomain).Str("username", username).Msg("Obtained API token")

	return creds, nil
}

func (b *Bootstrapper) persist(key, value string) error {
	if err := b.store.Set(key, value); err != nil {
		return &BootstrapError{Phase: PhasePersist, Err: err}
	}
	return nil
}
