package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const testKey = "0123456789abcdef-test"

func TestAuthMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	enabled := AuthConfig{Enabled: true, APIKey: testKey}

	tests := []struct {
		name   string
		cfg    AuthConfig
		path   string
		header string
		want   int
	}{
		{"disabled", AuthConfig{}, "/search", "", http.StatusOK},
		{"valid key", enabled, "/search", testKey, http.StatusOK},
		{"missing key", enabled, "/search", "", http.StatusUnauthorized},
		{"wrong key", enabled, "/search", "wrong-key-wrong-key", http.StatusUnauthorized},
		{"case sensitive", enabled, "/search", "0123456789ABCDEF-TEST", http.StatusUnauthorized},
		{"public root", enabled, "/", "", http.StatusOK},
		{"public health", enabled, "/health", "", http.StatusOK},
		{"websocket query key", enabled, "/ws?api_key=" + testKey, "", http.StatusOK},
		{"query key elsewhere", enabled, "/history?api_key=" + testKey, "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("X-API-Key", tt.header)
			}
			w := httptest.NewRecorder()
			AuthMiddleware(tt.cfg, next).ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestValidateAuthConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AuthConfig
		wantErr bool
	}{
		{"disabled", AuthConfig{}, false},
		{"disabled with short key", AuthConfig{APIKey: "x"}, false},
		{"valid", AuthConfig{Enabled: true, APIKey: testKey}, false},
		{"empty key", AuthConfig{Enabled: true}, true},
		{"short key", AuthConfig{Enabled: true, APIKey: "short"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateAuthConfig(tt.cfg); (err != nil) != tt.wantErr {
				t.Errorf("ValidateAuthConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestServerRequiresKey(t *testing.T) {
	s := newTestServer(t, Config{Auth: AuthConfig{Enabled: true, APIKey: testKey}})

	w, env := get(t, s.Handler(), "/search?q=light")
	if w.Code != http.StatusUnauthorized || env.Error.Code != "UNAUTHORIZED" {
		t.Errorf("unauthenticated search = %d %+v", w.Code, env.Error)
	}

	req := httptest.NewRequest(http.MethodGet, "/search?q=light", nil)
	req.Header.Set("X-API-Key", testKey)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated search = %d", rec.Code)
	}

	if w, _ := get(t, s.Handler(), "/health"); w.Code != http.StatusOK {
		t.Errorf("health = %d, want public", w.Code)
	}
}
