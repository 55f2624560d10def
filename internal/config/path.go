package config

const (
	// Keys persisted in the credential file. They double as environment variable names.

	KeyAPIURL       = "PLUME_API_URL"
	KeyClientID     = "PLUME_CLIENT_ID"
	KeyClientSecret = "PLUME_CLIENT_SECRET"
	KeyAPIToken     = "PLUME_API_TOKEN"

	// EnvSettingsPath overrides the settings file location.
	EnvSettingsPath     = "AMSTERDAM_CONFIG"
	DefaultSettingsPath = "amsterdam.yaml"
)
