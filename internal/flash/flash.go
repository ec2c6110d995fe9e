// Package flash is the one-time notice channel: messages pushed while
// handling one request are shown on the next rendered page and then dropped.
package flash

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	Notice  = "notice"
	Success = "success"
)

type Message struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

func NewNotice(text string) Message  { return Message{Category: Notice, Text: text} }
func NewSuccess(text string) Message { return Message{Category: Success, Text: text} }

// Store keeps pending messages per session id.
type Store interface {
	Push(ctx context.Context, sid string, m Message) error
	// Pop returns and removes every pending message.
	Pop(ctx context.Context, sid string) ([]Message, error)
	Clear(ctx context.Context, sid string) error
}

// CookieName holds the session id keying the store.
const CookieName = "sessionId"

type ctxKey struct{}

// Manager binds a Store to requests through the session id cookie.
type Manager struct {
	store       Store
	lg          *zap.SugaredLogger
	development bool
}

func NewManager(store Store, development bool, lg *zap.SugaredLogger) *Manager {
	return &Manager{store: store, lg: lg, development: development}
}

// Middleware makes sure every request has a session id.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := ""
		if ck, err := r.Cookie(CookieName); err == nil {
			if _, perr := uuid.Parse(ck.Value); perr == nil {
				sid = ck.Value
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			http.SetCookie(w, m.cookie(sid, 0))
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sid)))
	})
}

func (m *Manager) cookie(sid string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   !m.development,
		SameSite: http.SameSiteLaxMode,
	}
}

func sessionID(r *http.Request) string {
	sid, _ := r.Context().Value(ctxKey{}).(string)
	return sid
}

// Add queues a message. Failures are logged; a lost notice never fails a request.
func (m *Manager) Add(r *http.Request, msgs ...Message) {
	sid := sessionID(r)
	if sid == "" {
		m.lg.Warnw("flash without session", "path", r.URL.Path)
		return
	}
	for _, msg := range msgs {
		if err := m.store.Push(r.Context(), sid, msg); err != nil {
			m.lg.Errorw("flash push failed", "error", err)
			return
		}
	}
}

func (m *Manager) Notice(r *http.Request, text string) { m.Add(r, NewNotice(text)) }

// Take drains the pending messages for the current session.
func (m *Manager) Take(r *http.Request) []Message {
	sid := sessionID(r)
	if sid == "" {
		return nil
	}
	msgs, err := m.store.Pop(r.Context(), sid)
	if err != nil {
		m.lg.Errorw("flash pop failed", "error", err)
		return nil
	}
	return msgs
}

// Destroy drops the server-side session state and expires its cookie.
func (m *Manager) Destroy(w http.ResponseWriter, r *http.Request) {
	if sid := sessionID(r); sid != "" {
		if err := m.store.Clear(r.Context(), sid); err != nil {
			m.lg.Errorw("flash clear failed", "error", err)
		}
	}
	http.SetCookie(w, m.cookie("", -1))
}
