package plume

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/debemdeboas/amsterdam/internal/config"
	"github.com/debemdeboas/amsterdam/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(ClientConfig{
		Scheme:     "http",
		Domain:     strings.TrimPrefix(srv.URL, "http://"),
		HTTPClient: srv.Client(),
	})
}

func TestNormalizeDomain(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{in: "plume.example", expected: "plume.example"},
		{in: "  plume.example  ", expected: "plume.example"},
		{in: "https://plume.example/", expected: "plume.example"},
		{in: "http://localhost:7878", expected: "localhost:7878"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			if got := NormalizeDomain(tc.in); got != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, got)
			}
		})
	}
}

func TestNewClientDefaultsToHTTPS(t *testing.T) {
	c := NewClient(ClientConfig{Domain: "plume.example/", Timeout: time.Second})
	if c.BaseURL() != "https://plume.example" {
		t.Errorf("Expected https base URL, got %q", c.BaseURL())
	}
}

func TestRegisterApp(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != config.PathApps {
			t.Errorf("Expected POST %s, got %s %s", config.PathApps, r.Method, r.URL.Path)
		}
		if ct := r.Header.Get(config.HCType); ct != config.CTypeJSON {
			t.Errorf("Expected JSON content type, got %q", ct)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode body: %v", err)
		}
		if body["name"] != "Amsterdam" {
			t.Errorf("Expected name 'Amsterdam', got %v", body["name"])
		}
		if _, ok := body["website"]; ok {
			t.Error("Expected empty website to be omitted")
		}

		w.Write([]byte(`{"client_id":"cid","client_secret":"csecret"}`))
	})

	creds, err := c.RegisterApp(context.Background(), AppRegistration{Name: "Amsterdam"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if creds.ClientID != "cid" || creds.ClientSecret != "csecret" {
		t.Errorf("Unexpected credentials: %+v", creds)
	}
}

func TestRegisterAppErrors(t *testing.T) {
	testCases := []struct {
		name        string
		status      int
		body        string
		application bool
	}{
		{name: "Error field", status: http.StatusOK, body: `{"error":"registrations closed"}`, application: true},
		{name: "Missing credentials", status: http.StatusOK, body: `{}`, application: true},
		{name: "Status without error field", status: http.StatusInternalServerError, body: `{}`, application: true},
		{name: "Not JSON", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, application: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			_, err := c.RegisterApp(context.Background(), AppRegistration{Name: "Amsterdam"})
			var appErr *ApplicationError
			var transportErr *TransportError
			switch {
			case tc.application && !errors.As(err, &appErr):
				t.Errorf("Expected ApplicationError, got %v", err)
			case !tc.application && !errors.As(err, &transportErr):
				t.Errorf("Expected TransportError, got %v", err)
			}
		})
	}
}

func TestExchangePassword(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != config.PathOAuth2 {
			t.Errorf("Expected GET %s, got %s %s", config.PathOAuth2, r.Method, r.URL.Path)
		}

		q := r.URL.Query()
		expected := map[string]string{
			"username":      "alice",
			"password":      "p&ss word",
			"client_id":     "cid",
			"client_secret": "csecret",
			"scopes":        "write",
		}
		for k, v := range expected {
			if q.Get(k) != v {
				t.Errorf("Expected %s=%q, got %q", k, v, q.Get(k))
			}
		}

		w.Write([]byte(`{"token":"tok"}`))
	})

	token, err := c.ExchangePassword(context.Background(), PasswordGrant{
		Username:     "alice",
		Password:     "p&ss word",
		ClientID:     "cid",
		ClientSecret: "csecret",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if token != "tok" {
		t.Errorf("Expected 'tok', got %q", token)
	}
}

func TestExchangePasswordRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Invalid credentials"}`))
	})

	_, err := c.ExchangePassword(context.Background(), PasswordGrant{Username: "alice"})
	var appErr *ApplicationError
	if !errors.As(err, &appErr) {
		t.Fatalf("Expected ApplicationError, got %v", err)
	}
	if appErr.Message != "Invalid credentials" {
		t.Errorf("Expected message from the instance, got %q", appErr.Message)
	}
}

func TestPublish(t *testing.T) {
	draft := model.NewDraft()
	draft.Title = "Hello"
	draft.Tags = []string{"a", "b"}
	draft.Body = "Body"

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != config.PathPosts {
			t.Errorf("Expected POST %s, got %s %s", config.PathPosts, r.Method, r.URL.Path)
		}
		if auth := r.Header.Get(config.HAuthorization); auth != "Bearer tok" {
			t.Errorf("Expected bearer header, got %q", auth)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode body: %v", err)
		}
		if body["title"] != "Hello" {
			t.Errorf("Expected title 'Hello', got %v", body["title"])
		}
		if body["source"] != "Body" {
			t.Errorf("Expected source 'Body', got %v", body["source"])
		}
		if body["published"] != true {
			t.Errorf("Expected published true, got %v", body["published"])
		}
		if _, ok := body["subtitle"]; ok {
			t.Error("Expected empty subtitle to be omitted")
		}

		w.Write([]byte(`{"id":42,"title":"Hello"}`))
	})

	post, err := c.Publish(context.Background(), draft, "tok")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if post.ID != 42 {
		t.Errorf("Expected id 42, got %d", post.ID)
	}
}

func TestPublishRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"Unauthorized"}`))
	})

	_, err := c.Publish(context.Background(), model.NewDraft(), "bad")
	var appErr *ApplicationError
	if !errors.As(err, &appErr) {
		t.Fatalf("Expected ApplicationError, got %v", err)
	}
	if appErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", appErr.StatusCode)
	}
}

func TestTransportErrorHidesQuery(t *testing.T) {
	c := NewClient(ClientConfig{Scheme: "http", Domain: "127.0.0.1:1"})

	_, err := c.ExchangePassword(context.Background(), PasswordGrant{Username: "alice", Password: "hunter2"})
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
	if strings.Contains(err.Error(), "hunter2") {
		t.Errorf("Expected error to not leak the password, got %q", err.Error())
	}
}

func TestContextCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Publish(ctx, model.NewDraft(), "tok")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
