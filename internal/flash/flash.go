// Package flash queues one-shot notifications per browser session and
// hands them out on the next landing page render.
package flash

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"fyyur/internal/logger"
)

const (
	CookieName = "fyyur_session"

	CategorySuccess = "success"
	CategoryError   = "error"
)

type Message struct {
	Category string `json:"category"`
	Text     string `json:"message"`
}

// Store keeps pending messages per session. Pop removes what it returns.
type Store interface {
	Push(ctx context.Context, session string, msg Message) error
	Pop(ctx context.Context, session string) ([]Message, error)
}

type MemoryStore struct {
	mu       sync.Mutex
	messages map[string][]Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{messages: make(map[string][]Message)}
}

func (s *MemoryStore) Push(_ context.Context, session string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[session] = append(s.messages[session], msg)
	return nil
}

func (s *MemoryStore) Pop(_ context.Context, session string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.messages[session]
	delete(s.messages, session)
	if msgs == nil {
		msgs = []Message{}
	}
	return msgs, nil
}

type sessionKey struct{}

// WithSession stores the session id on ctx.
func WithSession(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

// SessionID returns the session attached by Middleware, or "".
func SessionID(ctx context.Context) string {
	s, _ := ctx.Value(sessionKey{}).(string)
	return s
}

// Middleware makes sure every request carries a session cookie.
func Middleware(ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := ""
			if c, err := r.Cookie(CookieName); err == nil {
				if _, err := uuid.Parse(c.Value); err == nil {
					session = c.Value
				}
			}
			if session == "" {
				session = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    session,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// Notifier is what handlers use. Store failures are logged, never returned:
// a lost notification must not fail a committed write.
type Notifier struct {
	store  Store
	logger *logger.Logger
}

func NewNotifier(store Store, log *logger.Logger) *Notifier {
	return &Notifier{store: store, logger: log}
}

func (n *Notifier) Success(ctx context.Context, text string) {
	n.push(ctx, Message{Category: CategorySuccess, Text: text})
}

func (n *Notifier) Error(ctx context.Context, text string) {
	n.push(ctx, Message{Category: CategoryError, Text: text})
}

func (n *Notifier) push(ctx context.Context, msg Message) {
	session := SessionID(ctx)
	if session == "" {
		return
	}
	if err := n.store.Push(ctx, session, msg); err != nil {
		n.logger.Warn("FLASH", "Failed to queue notification: "+err.Error())
	}
}

// Pop drains the notifications of the request's session.
func (n *Notifier) Pop(ctx context.Context) []Message {
	session := SessionID(ctx)
	if session == "" {
		return []Message{}
	}
	msgs, err := n.store.Pop(ctx, session)
	if err != nil {
		n.logger.Warn("FLASH", "Failed to read notifications: "+err.Error())
		return []Message{}
	}
	return msgs
}
