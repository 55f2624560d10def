package config

const (
	// Settings errors
	ErrReadSettingsFmt   = "failed to read settings file %s: %w"
	ErrParseSettingsFmt  = "failed to parse settings file %s: %w"
	ErrInvalidSchemeFmt  = "unsupported api scheme %q (expected http or https)"
	ErrInvalidTimeoutFmt = "api timeout must not be negative, got %d"
	ErrEmptyEnvFile      = "env_file must not be empty"
	ErrEmptyJournalPath  = "journal path must not be empty when the journal is enabled"

	// Credential store errors
	ErrOpenEnvFileFmt  = "failed to open credential file %s: %w"
	ErrReadEnvFileFmt  = "failed to read credential file %s: %w"
	ErrWriteEnvFileFmt = "failed to write credential file %s: %w"

	// Journal errors
	ErrInitializeJournalFmt = "failed to initialize journal: %w"
	ErrRecordImportFmt      = "failed to record import of %s: %w"
)
