// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// testHash uses bcrypt.MinCost to keep the suite fast; production hashing
// goes through HashPassword with the default cost.
func testHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	return string(hash)
}

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(Config{
		Enabled:        true,
		PasswordHash:   testHash(t, "correct horse"),
		JWTSecret:      testSecret,
		SessionTimeout: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestNewManagerValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled needs nothing", Config{}, false},
		{"enabled without hash", Config{Enabled: true, JWTSecret: testSecret}, true},
		{"enabled with short secret", Config{Enabled: true, PasswordHash: "x", JWTSecret: "short"}, true},
		{"enabled complete", Config{Enabled: true, PasswordHash: "x", JWTSecret: testSecret}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewManager(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewManager error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoginRoundTrip(t *testing.T) {
	m := newTestManager(t)

	token, err := m.Login("correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != "owner" {
		t.Errorf("subject = %q, want owner", claims.Subject)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.Login("battery staple"); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("Login = %v, want ErrInvalidPassword", err)
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	m := newTestManager(t)

	for _, token := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		if _, err := m.ValidateToken(token); err == nil {
			t.Errorf("ValidateToken(%q) accepted garbage", token)
		}
	}
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	m := newTestManager(t)
	other, err := NewManager(Config{
		Enabled:        true,
		PasswordHash:   testHash(t, "p"),
		JWTSecret:      strings.Repeat("z", 32),
		SessionTimeout: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	token, err := other.Login("p")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := m.ValidateToken(token); err == nil {
		t.Error("token signed with a different secret was accepted")
	}
}

func TestRequireAuth(t *testing.T) {
	m := newTestManager(t)
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/books", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := m.Login("correct horse")
		if err != nil {
			t.Fatalf("Login: %v", err)
		}
		req := httptest.NewRequest(http.MethodPost, "/api/books", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
	})

	t.Run("disabled gate passes through", func(t *testing.T) {
		open, err := NewManager(Config{})
		if err != nil {
			t.Fatalf("NewManager: %v", err)
		}
		openHandler := open.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		rec := httptest.NewRecorder()
		openHandler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/books", nil))
		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
	})
}

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret")); err != nil {
		t.Errorf("hash does not verify: %v", err)
	}
}
