package service

import (
	"agritrain_backend/internal/model"
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"
)

type memUserStore struct {
	mu     sync.Mutex
	nextID uint
	users  []*model.User
}

func (m *memUserStore) Create(_ context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email || u.Username == user.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	m.nextID++
	user.ID = m.nextID
	cp := *user
	m.users = append(m.users, &cp)
	return nil
}

func (m *memUserStore) find(match func(*model.User) bool) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserStore) FindByID(_ context.Context, id uint) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.ID == id })
}

func (m *memUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.Email == email })
}

func (m *memUserStore) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return m.find(func(u *model.User) bool { return u.Username == username })
}

type memSessionStore struct {
	nextID   uint
	sessions []*model.UserSession
	err      error
}

func (m *memSessionStore) Create(_ context.Context, s *model.UserSession) error {
	if m.err != nil {
		return m.err
	}
	m.nextID++
	s.ID = m.nextID
	cp := *s
	m.sessions = append(m.sessions, &cp)
	return nil
}

func (m *memSessionStore) CloseFirstActive(_ context.Context, userID uint, at time.Time) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, s := range m.sessions {
		if s.UserID == userID && s.IsActive {
			s.IsActive = false
			t := at
			s.LogoutTime = &t
			return true, nil
		}
	}
	return false, nil
}

func (m *memSessionStore) ListByUser(_ context.Context, userID uint, activeOnly bool) ([]model.UserSession, error) {
	var out []model.UserSession
	for _, s := range m.sessions {
		if s.UserID == userID && (!activeOnly || s.IsActive) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSessionStore) TouchByToken(_ context.Context, token string, at time.Time) error {
	for _, s := range m.sessions {
		if s.SessionToken == token && s.IsActive {
			s.LastActivity = at
		}
	}
	return nil
}

type memScenarioStore struct {
	nextID    uint
	scenarios []*model.Scenario
	listCalls int
}

func (m *memScenarioStore) List(_ context.Context) ([]model.Scenario, error) {
	m.listCalls++
	out := make([]model.Scenario, 0, len(m.scenarios))
	for _, s := range m.scenarios {
		out = append(out, *s)
	}
	return out, nil
}

func (m *memScenarioStore) FindByID(_ context.Context, id uint) (*model.Scenario, error) {
	for _, s := range m.scenarios {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memScenarioStore) Create(_ context.Context, s *model.Scenario) error {
	m.nextID++
	s.ID = m.nextID
	cp := *s
	m.scenarios = append(m.scenarios, &cp)
	return nil
}

func (m *memScenarioStore) Save(_ context.Context, s *model.Scenario) error {
	for i, existing := range m.scenarios {
		if existing.ID == s.ID {
			cp := *s
			m.scenarios[i] = &cp
			return nil
		}
	}
	return errors.New("scenario not stored")
}

func (m *memScenarioStore) add(title string) uint {
	s := &model.Scenario{Title: title, Description: title, ScenarioType: model.ScenarioPest, DurationMinutes: 10}
	_ = m.Create(context.Background(), s)
	return s.ID
}

type memQuizStore struct {
	nextID  uint
	quizzes []*model.Quiz
}

func (m *memQuizStore) FindByID(_ context.Context, id uint) (*model.Quiz, error) {
	for _, q := range m.quizzes {
		if q.ID == id {
			cp := *q
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memQuizStore) FindByScenarioID(_ context.Context, scenarioID uint) (*model.Quiz, error) {
	for _, q := range m.quizzes {
		if q.ScenarioID == scenarioID {
			cp := *q
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memQuizStore) Create(_ context.Context, q *model.Quiz) error {
	m.nextID++
	q.ID = m.nextID
	cp := *q
	m.quizzes = append(m.quizzes, &cp)
	return nil
}

type memAttemptStore struct {
	nextID   uint
	attempts []model.QuizAttempt
}

func (m *memAttemptStore) Create(_ context.Context, a *model.QuizAttempt) error {
	m.nextID++
	a.ID = m.nextID
	m.attempts = append(m.attempts, *a)
	return nil
}

func (m *memAttemptStore) ListByUser(_ context.Context, userID uint) ([]model.QuizAttempt, error) {
	var out []model.QuizAttempt
	for _, a := range m.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type progressKey struct{ user, scenario uint }

type memProgressStore struct {
	nextID uint
	rows   map[progressKey]*model.UserProgress
}

func newMemProgressStore() *memProgressStore {
	return &memProgressStore{rows: make(map[progressKey]*model.UserProgress)}
}

func (m *memProgressStore) Upsert(_ context.Context, userID, scenarioID uint, apply func(p *model.UserProgress, exists bool)) (*model.UserProgress, error) {
	key := progressKey{userID, scenarioID}
	row, exists := m.rows[key]
	if !exists {
		m.nextID++
		row = &model.UserProgress{UserID: userID, ScenarioID: scenarioID}
		row.ID = m.nextID
	}
	apply(row, exists)
	m.rows[key] = row
	cp := *row
	return &cp, nil
}

func (m *memProgressStore) ListByUser(_ context.Context, userID uint) ([]model.UserProgress, error) {
	var out []model.UserProgress
	for k, row := range m.rows {
		if k.user == userID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (m *memProgressStore) countFor(userID, scenarioID uint) int {
	if _, ok := m.rows[progressKey{userID, scenarioID}]; ok {
		return 1
	}
	return 0
}

// memCache records invalidations and keeps values in maps.
type memCache struct {
	scenarios   []model.Scenario
	hasList     bool
	quizzes     map[uint]*model.Quiz
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{quizzes: make(map[uint]*model.Quiz)}
}

func (c *memCache) GetScenarios(context.Context) ([]model.Scenario, bool) {
	return c.scenarios, c.hasList
}

func (c *memCache) SetScenarios(_ context.Context, s []model.Scenario) {
	c.scenarios, c.hasList = s, true
}

func (c *memCache) InvalidateScenarios(context.Context) {
	c.scenarios, c.hasList = nil, false
	c.invalidated = append(c.invalidated, "scenarios")
}

func (c *memCache) GetQuizForScenario(_ context.Context, scenarioID uint) (*model.Quiz, bool) {
	q, ok := c.quizzes[scenarioID]
	return q, ok
}

func (c *memCache) SetQuizForScenario(_ context.Context, q *model.Quiz) {
	c.quizzes[q.ScenarioID] = q
}

func (c *memCache) InvalidateQuiz(_ context.Context, scenarioID uint) {
	delete(c.quizzes, scenarioID)
	c.invalidated = append(c.invalidated, "quiz")
}

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}
