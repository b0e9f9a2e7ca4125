package controller

import (
	"agritrain_backend/internal/config"
	"agritrain_backend/internal/middleware"
	"agritrain_backend/internal/model"
	"agritrain_backend/internal/service"
	"agritrain_backend/internal/util"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "controller-test-secret-0123456789abcdef"

type userStore struct{ users []*model.User }

func (s *userStore) Create(_ context.Context, u *model.User) error {
	for _, existing := range s.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return gorm.ErrDuplicatedKey
		}
	}
	u.ID = uint(len(s.users) + 1)
	s.users = append(s.users, u)
	return nil
}

func (s *userStore) find(match func(*model.User) bool) (*model.User, error) {
	for _, u := range s.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *userStore) FindByID(_ context.Context, id uint) (*model.User, error) {
	return s.find(func(u *model.User) bool { return u.ID == id })
}

func (s *userStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return s.find(func(u *model.User) bool { return u.Email == email })
}

func (s *userStore) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return s.find(func(u *model.User) bool { return u.Username == username })
}

type sessionStore struct{ sessions []*model.UserSession }

func (s *sessionStore) Create(_ context.Context, session *model.UserSession) error {
	session.ID = uint(len(s.sessions) + 1)
	s.sessions = append(s.sessions, session)
	return nil
}

func (s *sessionStore) CloseFirstActive(_ context.Context, userID uint, at time.Time) (bool, error) {
	for _, session := range s.sessions {
		if session.UserID == userID && session.IsActive {
			session.IsActive = false
			session.LogoutTime = &at
			return true, nil
		}
	}
	return false, nil
}

func (s *sessionStore) ListByUser(_ context.Context, userID uint, activeOnly bool) ([]model.UserSession, error) {
	var out []model.UserSession
	for _, session := range s.sessions {
		if session.UserID == userID && (!activeOnly || session.IsActive) {
			out = append(out, *session)
		}
	}
	return out, nil
}

func (s *sessionStore) TouchByToken(_ context.Context, token string, at time.Time) error {
	for _, session := range s.sessions {
		if session.SessionToken == token {
			session.LastActivity = at
		}
	}
	return nil
}

type scenarioStore struct{ scenarios []*model.Scenario }

func (s *scenarioStore) List(context.Context) ([]model.Scenario, error) {
	out := make([]model.Scenario, 0, len(s.scenarios))
	for _, sc := range s.scenarios {
		out = append(out, *sc)
	}
	return out, nil
}

func (s *scenarioStore) FindByID(_ context.Context, id uint) (*model.Scenario, error) {
	for _, sc := range s.scenarios {
		if sc.ID == id {
			cp := *sc
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *scenarioStore) Create(_ context.Context, sc *model.Scenario) error {
	sc.ID = uint(len(s.scenarios) + 1)
	s.scenarios = append(s.scenarios, sc)
	return nil
}

func (s *scenarioStore) Save(_ context.Context, sc *model.Scenario) error {
	for i, existing := range s.scenarios {
		if existing.ID == sc.ID {
			s.scenarios[i] = sc
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type quizStore struct{ quizzes []*model.Quiz }

func (s *quizStore) FindByID(_ context.Context, id uint) (*model.Quiz, error) {
	for _, q := range s.quizzes {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *quizStore) FindByScenarioID(_ context.Context, scenarioID uint) (*model.Quiz, error) {
	for _, q := range s.quizzes {
		if q.ScenarioID == scenarioID {
			return q, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *quizStore) Create(_ context.Context, q *model.Quiz) error {
	q.ID = uint(len(s.quizzes) + 1)
	s.quizzes = append(s.quizzes, q)
	return nil
}

type attemptStore struct{ attempts []model.QuizAttempt }

func (s *attemptStore) Create(_ context.Context, a *model.QuizAttempt) error {
	a.ID = uint(len(s.attempts) + 1)
	s.attempts = append(s.attempts, *a)
	return nil
}

func (s *attemptStore) ListByUser(_ context.Context, userID uint) ([]model.QuizAttempt, error) {
	var out []model.QuizAttempt
	for _, a := range s.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

type progressStore struct{ rows []*model.UserProgress }

func (s *progressStore) Upsert(_ context.Context, userID, scenarioID uint, apply func(*model.UserProgress, bool)) (*model.UserProgress, error) {
	for _, row := range s.rows {
		if row.UserID == userID && row.ScenarioID == scenarioID {
			apply(row, true)
			return row, nil
		}
	}
	row := &model.UserProgress{UserID: userID, ScenarioID: scenarioID}
	row.ID = uint(len(s.rows) + 1)
	apply(row, false)
	s.rows = append(s.rows, row)
	return row, nil
}

func (s *progressStore) ListByUser(_ context.Context, userID uint) ([]model.UserProgress, error) {
	var out []model.UserProgress
	for _, row := range s.rows {
		if row.UserID == userID {
			out = append(out, *row)
		}
	}
	return out, nil
}

type noCache struct{}

func (noCache) GetScenarios(context.Context) ([]model.Scenario, bool)         { return nil, false }
func (noCache) SetScenarios(context.Context, []model.Scenario)                {}
func (noCache) InvalidateScenarios(context.Context)                           {}
func (noCache) GetQuizForScenario(context.Context, uint) (*model.Quiz, bool) { return nil, false }
func (noCache) SetQuizForScenario(context.Context, *model.Quiz)               {}
func (noCache) InvalidateQuiz(context.Context, uint)                          {}

type testEnv struct {
	router    *gin.Engine
	auth      *service.AuthService
	sessions  *sessionStore
	scenarios *scenarioStore
	quizzes   *quizStore
	progress  *progressStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	util.RegisterValidations()

	env := &testEnv{
		sessions:  &sessionStore{},
		scenarios: &scenarioStore{},
		quizzes:   &quizStore{},
		progress:  &progressStore{},
	}

	sessionSvc := service.NewSessionService(env.sessions)
	env.auth = service.NewAuthService(&userStore{}, sessionSvc, config.JWTConfig{Secret: testSecret, ExpireTime: 30 * time.Minute})
	content := service.NewContentService(env.scenarios, env.quizzes, noCache{}, &service.StorageService{Provider: &service.LocalStorageProvider{Config: &config.StorageConfig{LocalPath: t.TempDir()}}})
	attempts := service.NewAttemptService(env.quizzes, &attemptStore{})
	progress := service.NewProgressService(env.progress, env.scenarios)

	authCtl := NewAuthController(env.auth)
	scenarioCtl := NewScenarioController(content)
	quizCtl := NewQuizController(content)
	attemptCtl := NewAttemptController(attempts)
	progressCtl := NewProgressController(progress)
	sessionCtl := NewSessionController(sessionSvc)

	r := gin.New()
	r.POST("/auth/register", authCtl.Register)
	r.POST("/auth/login", authCtl.Login)
	r.GET("/scenarios", scenarioCtl.List)
	r.GET("/scenarios/:id", scenarioCtl.Get)
	r.POST("/scenarios", scenarioCtl.Create)
	r.POST("/scenarios/:id/media", scenarioCtl.UploadMedia)
	r.GET("/scenarios/:id/quiz", quizCtl.GetForScenario)
	r.POST("/quizzes", quizCtl.Create)
	r.GET("/quizzes/:id", quizCtl.Get)

	authed := r.Group("/", middleware.AuthMiddleware(env.auth), middleware.ActivityMiddleware(sessionSvc))
	authed.GET("/auth/me", authCtl.Me)
	authed.POST("/auth/logout", authCtl.Logout)
	authed.POST("/quiz-attempts", attemptCtl.Submit)

	self := authed.Group("/users/:id", middleware.SelfOnly("id"))
	self.GET("/sessions", sessionCtl.List)
	self.GET("/sessions/active", sessionCtl.Active)
	self.GET("/quiz-attempts", attemptCtl.List)
	self.GET("/progress", progressCtl.List)
	self.POST("/progress", progressCtl.Upsert)

	env.router = r
	return env
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

// signup registers a user and logs in, returning the user id and token.
func (e *testEnv) signup(t *testing.T, email, username string) (uint, string) {
	t.Helper()
	w, _ := e.do(t, http.MethodPost, "/auth/register", "", gin.H{"email": email, "username": username, "password": "secret123"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := e.do(t, http.MethodPost, "/auth/login", "", gin.H{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)

	var res struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	return res.User.ID, res.AccessToken
}

func (e *testEnv) addScenario(title string) uint {
	sc := &model.Scenario{Title: title, Description: title, ScenarioType: model.ScenarioPest, DurationMinutes: 15}
	_ = e.scenarios.Create(context.Background(), sc)
	return sc.ID
}
