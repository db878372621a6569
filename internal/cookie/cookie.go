package cookie

import (
	"net/http"
	"time"

	"github.com/Skotchmaster/cse_motors/internal/tokens"
)

const DefaultName = "jwt"

type Options struct {
	Name string
	// Secure is off only for local plain-HTTP development.
	Secure bool
}

// Manager binds session tokens to the response cookie. It never reads the request.
type Manager struct {
	codec  *tokens.Codec
	name   string
	secure bool
}

func NewManager(codec *tokens.Codec, opts Options) *Manager {
	if opts.Name == "" {
		opts.Name = DefaultName
	}
	return &Manager{codec: codec, name: opts.Name, secure: opts.Secure}
}

func (m *Manager) Name() string { return m.name }

func (m *Manager) Attach(w http.ResponseWriter, claims tokens.Claims) error {
	token, err := m.codec.Issue(claims)
	if err != nil {
		return err
	}
	ttl := m.codec.TTL()
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
