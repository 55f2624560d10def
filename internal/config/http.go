package config

const (
	HCType         = "Content-Type"
	HAccept        = "Accept"
	HAuthorization = "Authorization"

	CTypeJSON = "application/json"
)

const (
	PathApps   = "/api/v1/apps"
	PathOAuth2 = "/api/v1/oauth2"
	PathPosts  = "/api/v1/posts/"

	// Scope requested by the password grant.
	ScopeWrite = "write"
)
