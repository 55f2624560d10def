package model

// Credentials are what the importer needs to talk to an instance. Any field may
// be empty until it has been acquired.
type Credentials struct {
	InstanceDomain string
	ClientID       string
	ClientSecret   string
	BearerToken    string
}

func (c Credentials) HasClient() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}
