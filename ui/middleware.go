package ui

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/reallygood83/mathemotion/app"
)

const (
	sessionCookie = "survey_session"
	sessionCtxKey = "session"
)

// session is one browser's dashboard state
type session struct {
	id      string
	result  *app.LoadResult
	touched time.Time
}

// sessionStore keeps dashboard sessions in memory and forgets idle ones after ttl
type sessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*session
	now      func() time.Time
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		ttl:      ttl,
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// touch returns the live session for id, creating a fresh one when id is
// unknown or expired
func (s *sessionStore) touch(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	if sess, ok := s.sessions[id]; ok && id != "" {
		sess.touched = now
		return sess
	}
	sess := &session{id: uuid.NewString(), touched: now}
	s.sessions[sess.id] = sess
	return sess
}

// result returns the table loaded into the session, if any
func (s *sessionStore) result(id string) *app.LoadResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess.result
	}
	return nil
}

// replace swaps in a new load result; the previous table is dropped whole
func (s *sessionStore) replace(id string, result *app.LoadResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		sess.result = result
		sess.touched = s.now()
	}
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *sessionStore) sweepLocked(now time.Time) {
	if s.ttl <= 0 {
		return
	}
	for id, sess := range s.sessions {
		if now.Sub(sess.touched) > s.ttl {
			delete(s.sessions, id)
		}
	}
}

// sessionMiddleware attaches the caller's session id, issuing a cookie for new sessions
func (s *Server) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(sessionCookie)
		sess := s.sessions.touch(id)
		if sess.id != id {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, sess.id, int(s.opts.SessionTTL.Seconds()), "/", "", false, true)
		}
		c.Set(sessionCtxKey, sess.id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionCtxKey)
}
