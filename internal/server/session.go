package server

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/goliatone/go-paramform/internal/config"
	"github.com/goliatone/go-paramform/pkg/bootstrap"
)

const (
	sessionCookie = "paramform_session"
	activationKey = "activation_token"
	flashKey      = "flash"
)

func newSessionManager(cfg config.ServerConfig, store scs.Store) *scs.SessionManager {
	manager := scs.New()
	if store == nil {
		store = memstore.New()
	}
	manager.Store = store
	if cfg.SessionLifetime > 0 {
		manager.Lifetime = cfg.SessionLifetime
	}
	manager.Cookie.Name = sessionCookie
	manager.Cookie.Path = "/"
	manager.Cookie.HttpOnly = true
	manager.Cookie.SameSite = http.SameSiteLaxMode
	manager.Cookie.Secure = cfg.SecureCookie
	return manager
}

func newToken() (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(tokenBytes), nil
}

// issueActivation stores a fresh one-shot token, replacing any earlier one.
func (s *Server) issueActivation(ctx context.Context) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	s.sessions.Put(ctx, activationKey, token)
	return token, nil
}

// consumeActivation removes the stored token and reports whether it matched.
func (s *Server) consumeActivation(ctx context.Context, presented string) bool {
	expected := s.sessions.PopString(ctx, activationKey)
	if expected == "" || presented == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(presented)) == 1
}

func (s *Server) addFlash(ctx context.Context, category, message string) {
	entry := category + "\t" + message
	if existing := s.sessions.GetString(ctx, flashKey); existing != "" {
		entry = existing + "\n" + entry
	}
	s.sessions.Put(ctx, flashKey, entry)
}

func (s *Server) popFlash(ctx context.Context) []bootstrap.FlashMessage {
	raw := s.sessions.PopString(ctx, flashKey)
	if raw == "" {
		return nil
	}
	var out []bootstrap.FlashMessage
	for _, line := range strings.Split(raw, "\n") {
		category, message, ok := strings.Cut(line, "\t")
		if !ok {
			category, message = "info", line
		}
		out = append(out, bootstrap.FlashMessage{Category: category, Message: message})
	}
	return out
}
