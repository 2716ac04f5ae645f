package playground

import (
	"context"
	"sync"
	"time"
)

// Session 持有一个用户的参数、历史记录与最近一次输出。
type Session struct {
	ID         string
	CreatedAt  time.Time
	settings   *Store
	history    *History
	dispatcher *Dispatcher

	mu     sync.RWMutex
	latest string
}

// NewSession 创建 session，参数为默认值，历史为空。
func NewSession(id string, dispatcher *Dispatcher) *Session {
	return &Session{
		ID:         id,
		CreatedAt:  time.Now(),
		settings:   NewStore(),
		history:    NewHistory(),
		dispatcher: dispatcher,
	}
}

func (s *Session) Settings() Settings {
	return s.settings.Snapshot()
}

func (s *Session) Set(field Field, value any) error {
	return s.settings.Set(field, value)
}

func (s *Session) SetString(field Field, raw string) error {
	return s.settings.SetString(field, raw)
}

// Seed replaces the starting settings, e.g. with a configured default model.
func (s *Session) Seed(next Settings) {
	s.settings.Replace(next)
}

func (s *Session) History() []Entry {
	return s.history.List()
}

func (s *Session) HistoryLen() int {
	return s.history.Len()
}

func (s *Session) ClearHistory() {
	s.history.Clear()
}

// Latest returns the most recent successful output, or "".
func (s *Session) Latest() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

func (s *Session) State() State {
	return s.dispatcher.State()
}

// Generate 以当前参数快照发起请求；成功时追加历史并覆盖最近输出。
// Edits made while the request is in flight do not affect the recorded parameters.
func (s *Session) Generate(ctx context.Context) (Record, error) {
	snap := s.settings.Snapshot()
	out, err := s.dispatcher.Generate(ctx, snap)
	if err != nil {
		return Record{}, err
	}
	rec := NewRecord(snap, out)
	s.history.Append(rec)
	s.mu.Lock()
	s.latest = out
	s.mu.Unlock()
	return rec, nil
}
