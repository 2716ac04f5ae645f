package server

import (
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"prompt_playground/playground"
)

//go:embed web/index.html
var embeddedStatic embed.FS

const (
	sessionCookie     = "playground_session"
	generateTimeout   = 60 * time.Second
	defaultSessionTTL = 24 * time.Hour
)

type Server struct {
	llm      playground.LLMClient
	defaults playground.Settings
	store    *sessionStore
	page     *template.Template
	verbose  bool
	logger   *log.Logger
}

// Options tunes a Server. The zero value is usable.
type Options struct {
	// DefaultModel seeds new sessions when it names a known model.
	DefaultModel string
	// SessionTTL evicts sessions idle longer than this. Zero means 24h.
	SessionTTL   time.Duration
	Verbose      bool
	Logger       *log.Logger
}

type sessionEntry struct {
	sess     *playground.Session
	lastSeen time.Time
}

// sessionStore 保存内存中的 session；新建 session 时顺带清理闲置过久的条目。
type sessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]*sessionEntry
}

func newStore(ttl time.Duration) *sessionStore {
	return &sessionStore{ttl: ttl, now: time.Now, sessions: make(map[string]*sessionEntry)}
}

func (s *sessionStore) set(id string, sess *playground.Session) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	evicted := 0
	for k, e := range s.sessions {
		if now.Sub(e.lastSeen) > s.ttl {
			delete(s.sessions, k)
			evicted++
		}
	}
	s.sessions[id] = &sessionEntry{sess: sess, lastSeen: now}
	return evicted
}

func (s *sessionStore) get(id string) (*playground.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if now.Sub(e.lastSeen) > s.ttl {
		delete(s.sessions, id)
		return nil, false
	}
	e.lastSeen = now
	return e.sess, true
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func New(llm playground.LLMClient, opts Options) (*Server, error) {
	if llm == nil {
		return nil, errors.New("llm client required")
	}
	page, err := template.ParseFS(embeddedStatic, "web/index.html")
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	defaults := playground.DefaultSettings()
	if opts.DefaultModel != "" {
		if playground.KnownModel(opts.DefaultModel) {
			defaults.Model = opts.DefaultModel
		} else {
			logger.Printf("[server] ignoring unknown default model %q", opts.DefaultModel)
		}
	}

	return &Server{
		llm:      llm,
		defaults: defaults,
		store:    newStore(ttl),
		page:     page,
		verbose:  opts.Verbose,
		logger:   logger,
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/", s.handleIndex)

	r.Route("/api", func(r chi.Router) {
		r.Get("/models", s.handleModels)
		r.Get("/settings", s.handleSettingsGet)
		r.Patch("/settings", s.handleSettingsPatch)
		r.Post("/settings/reset", s.handleSettingsReset)
		r.Post("/generate", s.handleGenerate)
		r.Get("/output", s.handleOutput)
		r.Get("/history", s.handleHistoryList)
		r.Delete("/history", s.handleHistoryClear)
	})
	return r
}

func (s *Server) infof(format string, args ...interface{}) {
	if !s.verbose {
		return
	}
	s.logger.Printf("[server] "+format, args...)
}

// sessionFor 按 cookie 取 session，不存在时新建并下发 cookie。
func (s *Server) sessionFor(w http.ResponseWriter, r *http.Request) *playground.Session {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if _, perr := uuid.Parse(c.Value); perr == nil {
			if sess, ok := s.store.get(c.Value); ok {
				return sess
			}
		}
	}

	d, err := playground.NewDispatcher(s.llm, s.verbose, s.logger)
	if err != nil {
		// unreachable: llm is checked in New
		panic(err)
	}
	id := uuid.NewString()
	sess := playground.NewSession(id, d)
	sess.Seed(s.defaults)
	if n := s.store.set(id, sess); n > 0 {
		s.infof("evicted %d idle sessions", n)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.infof("new session %s (total %d)", id, s.store.len())
	return sess
}
