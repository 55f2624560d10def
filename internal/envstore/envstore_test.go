package envstore

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/debemdeboas/amsterdam/internal/config"
)

func fakeEnv(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Expected no error for missing file, got %v", err)
	}
	if _, ok := s.Get(config.KeyAPIURL); ok {
		t.Error("Expected empty store")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected Open to not create the file")
	}
}

func TestSetAppendsAndIsVisible(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}

	if err := s.Set(config.KeyAPIURL, "plume.example"); err != nil {
		t.Fatalf("Failed to set value: %v", err)
	}
	if err := s.Set(config.KeyClientID, "client id with spaces"); err != nil {
		t.Fatalf("Failed to set value: %v", err)
	}

	if got, _ := s.Get(config.KeyAPIURL); got != "plume.example" {
		t.Errorf("Expected 'plume.example', got %q", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d: %q", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], config.KeyAPIURL+"=") {
		t.Errorf("Expected first line to hold %s, got %q", config.KeyAPIURL, lines[0])
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat file: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected file mode 0600, got %v", info.Mode().Perm())
	}

	// A fresh store reads back what was written
	reopened, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	if got, _ := reopened.Get(config.KeyClientID); got != "client id with spaces" {
		t.Errorf("Expected value to survive a round trip, got %q", got)
	}
}

func TestSetDoesNotDeduplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}

	s.Set(config.KeyAPIToken, "first")
	s.Set(config.KeyAPIToken, "second")

	data, _ := os.ReadFile(path)
	if n := strings.Count(string(data), config.KeyAPIToken+"="); n != 2 {
		t.Errorf("Expected 2 lines for the key, got %d", n)
	}

	if got, _ := s.Get(config.KeyAPIToken); got != "second" {
		t.Errorf("Expected last value in process, got %q", got)
	}

	reopened, _ := Open(path, nil)
	if got, _ := reopened.Get(config.KeyAPIToken); got != "second" {
		t.Errorf("Expected last line to win on read, got %q", got)
	}
}

func TestSetAddsMissingTrailingNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("OTHER=1"), 0600); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if err := s.Set(config.KeyAPIURL, "plume.example"); err != nil {
		t.Fatalf("Failed to set value: %v", err)
	}

	reopened, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	if got, _ := reopened.Get("OTHER"); got != "1" {
		t.Errorf("Expected existing key to be intact, got %q", got)
	}
	if got, _ := reopened.Get(config.KeyAPIURL); got != "plume.example" {
		t.Errorf("Expected appended key on its own line, got %q", got)
	}
}

func TestEnvironmentPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := config.KeyAPIURL + "=file.example\n" + config.KeyClientID + "=file-id\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	env := fakeEnv(map[string]string{
		config.KeyAPIURL:   "env.example",
		config.KeyAPIToken: "env-token",
	})

	s, err := Open(path, env)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}

	if got, _ := s.Get(config.KeyAPIURL); got != "env.example" {
		t.Errorf("Expected environment to win over file, got %q", got)
	}
	if got, _ := s.Get(config.KeyClientID); got != "file-id" {
		t.Errorf("Expected file value, got %q", got)
	}
	if got, _ := s.Get(config.KeyAPIToken); got != "env-token" {
		t.Errorf("Expected environment-only value, got %q", got)
	}

	// Values set in this process win over everything
	if err := s.Set(config.KeyAPIURL, "set.example"); err != nil {
		t.Fatalf("Failed to set value: %v", err)
	}
	if got, _ := s.Get(config.KeyAPIURL); got != "set.example" {
		t.Errorf("Expected set value to win, got %q", got)
	}
}

func TestCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := strings.Join([]string{
		config.KeyAPIURL + "=plume.example",
		config.KeyClientID + "=id",
		config.KeyClientSecret + "=secret",
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to seed file: %v", err)
	}

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}

	creds := s.Credentials()
	if creds.InstanceDomain != "plume.example" {
		t.Errorf("Expected domain, got %q", creds.InstanceDomain)
	}
	if !creds.HasClient() {
		t.Error("Expected client credentials to be present")
	}
	if creds.BearerToken != "" {
		t.Errorf("Expected no token, got %q", creds.BearerToken)
	}
}

func TestIOErrors(t *testing.T) {
	t.Run("Unreadable path", func(t *testing.T) {
		// A directory cannot be read as a dotenv file
		dir := t.TempDir()

		_, err := Open(dir, nil)
		var ioErr *IOError
		if !errors.As(err, &ioErr) {
			t.Fatalf("Expected IOError, got %v", err)
		}
		if ioErr.Path != dir {
			t.Errorf("Expected path %q, got %q", dir, ioErr.Path)
		}
	})

	t.Run("Unwritable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing-dir", ".env")
		s, err := Open(path, nil)
		if err != nil {
			t.Fatalf("Expected missing file to open, got %v", err)
		}

		err = s.Set(config.KeyAPIURL, "plume.example")
		var ioErr *IOError
		if !errors.As(err, &ioErr) {
			t.Fatalf("Expected IOError, got %v", err)
		}
		if _, ok := s.Get(config.KeyAPIURL); ok {
			t.Error("Expected failed write to not be visible")
		}
	})
}
