// My Library - Personal Book Library Tracker
// Copyright 2026 stratonov777
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/stratonov777/my-library

// Package auth gates write operations behind a single-user password login.
//
// The owner logs in with one password, checked against a bcrypt hash from
// configuration, and receives a short-lived HS256 JWT. Mutating endpoints
// require the token; reads stay open. There are no accounts or roles, it is
// a personal library.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/stratonov777/my-library/internal/metrics"
)

// ErrInvalidPassword is returned by Login when the password does not match.
var ErrInvalidPassword = errors.New("invalid password")

// Config holds authentication configuration.
type Config struct {
	// Enabled turns the write gate on. When false every request passes.
	Enabled bool `koanf:"enabled"`

	// PasswordHash is the bcrypt hash of the owner's password.
	PasswordHash string `koanf:"password_hash"`

	// JWTSecret signs session tokens. Minimum 32 bytes when auth is
	// enabled.
	JWTSecret string `koanf:"jwt_secret"`

	// SessionTimeout bounds token lifetime. Default: 24h.
	SessionTimeout time.Duration `koanf:"session_timeout"`
}

// Claims are the JWT claims carried by a session token.
type Claims struct {
	jwt.RegisteredClaims
}

// Manager checks passwords and issues and validates session tokens.
type Manager struct {
	enabled      bool
	passwordHash []byte
	secret       []byte
	timeout      time.Duration
}

// NewManager creates a Manager from configuration. With auth enabled, both
// the password hash and a 32+ byte JWT secret are required.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.SessionTimeout <= 0 {
		cfg.SessionTimeout = 24 * time.Hour
	}

	if cfg.Enabled {
		if cfg.PasswordHash == "" {
			return nil, fmt.Errorf("auth enabled but password_hash is empty")
		}
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("jwt_secret must be at least 32 characters, got %d", len(cfg.JWTSecret))
		}
	}

	return &Manager{
		enabled:      cfg.Enabled,
		passwordHash: []byte(cfg.PasswordHash),
		secret:       []byte(cfg.JWTSecret),
		timeout:      cfg.SessionTimeout,
	}, nil
}

// Enabled reports whether the write gate is active.
func (m *Manager) Enabled() bool {
	return m.enabled
}

// Login checks the password and returns a signed session token.
func (m *Manager) Login(password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)); err != nil {
		metrics.RecordAuthAttempt(false)
		return "", ErrInvalidPassword
	}

	token, err := m.generateToken()
	if err != nil {
		return "", err
	}
	metrics.RecordAuthAttempt(true)
	return token, nil
}

func (m *Manager) generateToken() (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "owner",
			ExpiresAt: jwt.NewNumericDate(now.Add(m.timeout)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken checks signature, expiry, and signing algorithm.
func (m *Manager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// HashPassword produces a bcrypt hash suitable for the password_hash config
// key. Exposed for the setup path and tests.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
