// Package envstore persists credentials in an append-only dotenv file.
package envstore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/debemdeboas/amsterdam/internal/cache"
	"github.com/debemdeboas/amsterdam/internal/config"
	"github.com/debemdeboas/amsterdam/internal/model"
)

// IOError means the credential file could not be read or written.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Store reads values from the dotenv file at path, overlaid by the process
// environment, overlaid by whatever was Set during this process.
type Store struct {
	path   string
	lookup LookupFunc
	values *cache.Cache[string, string]
}

// Open loads path. A missing file is an empty store; it is created on the first Set.
// lookup may be nil.
func Open(path string, lookup LookupFunc) (*Store, error) {
	s := &Store{
		path:   path,
		lookup: lookup,
		values: cache.NewCache[string, string](),
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, &IOError{Path: path, Err: fmt.Errorf(config.ErrReadEnvFileFmt, path, err)}
		}
		values = map[string]string{}
	}

	// Exported variables win over the file, the way dotenv loaders behave.
	for key := range values {
		if v, ok := s.lookupEnv(key); ok {
			values[key] = v
		}
	}
	s.values.SetTo(values)

	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(key string) (string, bool) {
	if v, ok := s.values.Get(key); ok {
		return v, true
	}
	return s.lookupEnv(key)
}

// Set appends key=value to the file and makes it visible to Get. Existing lines
// for key are left in place.
func (s *Store) Set(key, value string) error {
	line, err := godotenv.Marshal(map[string]string{key: value})
	if err != nil {
		return &IOError{Path: s.path, Err: fmt.Errorf(config.ErrWriteEnvFileFmt, s.path, err)}
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_APPEND|os.O_CREATE, 0600)
	if err != nil {
		return &IOError{Path: s.path, Err: fmt.Errorf(config.ErrOpenEnvFileFmt, s.path, err)}
	}
	defer f.Close()

	needsNewline, err := missingTrailingNewline(f)
	if err != nil {
		return &IOError{Path: s.path, Err: fmt.Errorf(config.ErrReadEnvFileFmt, s.path, err)}
	}
	if needsNewline {
		line = "\n" + line
	}

	if _, err := f.WriteString(line + "\n"); err != nil {
		return &IOError{Path: s.path, Err: fmt.Errorf(config.ErrWriteEnvFileFmt, s.path, err)}
	}
	if err := f.Close(); err != nil {
		return &IOError{Path: s.path, Err: fmt.Errorf(config.ErrWriteEnvFileFmt, s.path, err)}
	}

	s.values.Set(key, value)
	return nil
}

// Credentials snapshots the four persisted keys.
func (s *Store) Credentials() model.Credentials {
	get := func(key string) string {
		v, _ := s.Get(key)
		return strings.TrimSpace(v)
	}

	return model.Credentials{
		InstanceDomain: get(config.KeyAPIURL),
		ClientID:       get(config.KeyClientID),
		ClientSecret:   get(config.KeyClientSecret),
		BearerToken:    get(config.KeyAPIToken),
	}
}

func (s *Store) lookupEnv(key string) (string, bool) {
	if s.lookup == nil {
		return "", false
	}
	return s.lookup(key)
}

func missingTrailingNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil && err != io.EOF {
		return false, err
	}
	return last[0] != '\n', nil
}
