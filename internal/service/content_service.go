package service

import (
	"agritrain_backend/internal/model"
	"agritrain_backend/internal/util"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ScenarioInput struct {
	Title              string   `json:"title" binding:"required"`
	Description        string   `json:"description" binding:"required"`
	ScenarioType       string   `json:"scenario_type" binding:"required,scenario_type"`
	DurationMinutes    int      `json:"duration_minutes" binding:"required,gt=0"`
	DifficultyLevel    string   `json:"difficulty_level" binding:"omitempty,difficulty"`
	ImageURL           *string  `json:"image_url"`
	PanoramaURL        *string  `json:"panorama_url"`
	LearningObjectives []string `json:"learning_objectives"`
	Prerequisites      []uint   `json:"prerequisites"`
}

type QuestionInput struct {
	ID            int      `json:"id"`
	QuestionText  string   `json:"question_text" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2"`
	CorrectAnswer *int     `json:"correct_answer" binding:"required"`
	Explanation   *string  `json:"explanation"`
}

type QuizInput struct {
	ScenarioID       uint            `json:"scenario_id" binding:"required"`
	Title            string          `json:"title" binding:"required"`
	Description      *string         `json:"description"`
	Questions        []QuestionInput `json:"questions" binding:"required,dive"`
	PassingScore     *float64        `json:"passing_score" binding:"omitempty,gte=0,lte=100"`
	TimeLimitMinutes *int            `json:"time_limit_minutes" binding:"omitempty,gt=0"`
}

// ContentService is the scenario and quiz catalog.
type ContentService struct {
	Scenarios ScenarioStore
	Quizzes   QuizStore
	Cache     CatalogCache
	Storage   *StorageService
}

func NewContentService(scenarios ScenarioStore, quizzes QuizStore, cache CatalogCache, storage *StorageService) *ContentService {
	return &ContentService{
		Scenarios: scenarios,
		Quizzes:   quizzes,
		Cache:     cache,
		Storage:   storage,
	}
}

func (s *ContentService) ListScenarios(ctx context.Context) ([]model.Scenario, error) {
	if cached, ok := s.Cache.GetScenarios(ctx); ok {
		return cached, nil
	}

	scenarios, err := s.Scenarios.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	if scenarios == nil {
		scenarios = []model.Scenario{}
	}
	s.Cache.SetScenarios(ctx, scenarios)
	return scenarios, nil
}

func (s *ContentService) GetScenario(ctx context.Context, id uint) (*model.Scenario, error) {
	scenario, err := s.Scenarios.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrScenarioNotFound
		}
		return nil, fmt.Errorf("get scenario: %w", err)
	}
	return scenario, nil
}

func (s *ContentService) CreateScenario(ctx context.Context, in ScenarioInput) (*model.Scenario, error) {
	for _, prereq := range in.Prerequisites {
		if _, err := s.GetScenario(ctx, prereq); err != nil {
			if errors.Is(err, util.ErrScenarioNotFound) {
				return nil, fmt.Errorf("%w: prerequisite %d", util.ErrScenarioNotFound, prereq)
			}
			return nil, err
		}
	}

	objectives := in.LearningObjectives
	if objectives == nil {
		objectives = []string{}
	}
	prereqs := in.Prerequisites
	if prereqs == nil {
		prereqs = []uint{}
	}

	difficulty := model.DifficultyLevel(in.DifficultyLevel)
	if difficulty == "" {
		difficulty = model.DifficultyBeginner
	}

	scenario := &model.Scenario{
		Title:              in.Title,
		Description:        in.Description,
		ScenarioType:       model.ScenarioType(in.ScenarioType),
		DurationMinutes:    in.DurationMinutes,
		DifficultyLevel:    difficulty,
		ImageURL:           in.ImageURL,
		PanoramaURL:        in.PanoramaURL,
		LearningObjectives: datatypes.JSONSlice[string](objectives),
		Prerequisites:      datatypes.JSONSlice[uint](prereqs),
	}
	if err := s.Scenarios.Create(ctx, scenario); err != nil {
		return nil, fmt.Errorf("create scenario: %w", err)
	}

	s.Cache.InvalidateScenarios(ctx)
	return scenario, nil
}

func (s *ContentService) GetQuizForScenario(ctx context.Context, scenarioID uint) (*model.Quiz, error) {
	if cached, ok := s.Cache.GetQuizForScenario(ctx, scenarioID); ok {
		return cached, nil
	}

	quiz, err := s.Quizzes.FindByScenarioID(ctx, scenarioID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz for scenario: %w", err)
	}

	s.Cache.SetQuizForScenario(ctx, quiz)
	return quiz, nil
}

func (s *ContentService) GetQuiz(ctx context.Context, id uint) (*model.Quiz, error) {
	quiz, err := s.Quizzes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	return quiz, nil
}

// CreateQuiz attaches a quiz to a scenario. A scenario holds at most one quiz
// and every correct_answer must index into its question's options.
func (s *ContentService) CreateQuiz(ctx context.Context, in QuizInput) (*model.Quiz, error) {
	if _, err := s.GetScenario(ctx, in.ScenarioID); err != nil {
		return nil, err
	}

	_, err := s.Quizzes.FindByScenarioID(ctx, in.ScenarioID)
	if err == nil {
		return nil, util.ErrQuizExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup quiz: %w", err)
	}

	questions := make([]model.Question, 0, len(in.Questions))
	for i, q := range in.Questions {
		if *q.CorrectAnswer < 0 || *q.CorrectAnswer >= len(q.Options) {
			return nil, fmt.Errorf("%w: question %d correct_answer %d out of range", util.ErrInvalidQuestion, i+1, *q.CorrectAnswer)
		}
		id := q.ID
		if id == 0 {
			id = i + 1
		}
		questions = append(questions, model.Question{
			ID:            id,
			QuestionText:  q.QuestionText,
			Options:       q.Options,
			CorrectAnswer: *q.CorrectAnswer,
			Explanation:   q.Explanation,
		})
	}

	passingScore := util.DefaultPassingScore
	if in.PassingScore != nil {
		passingScore = *in.PassingScore
	}

	quiz := &model.Quiz{
		ScenarioID:       in.ScenarioID,
		Title:            in.Title,
		Description:      in.Description,
		Questions:        datatypes.JSONSlice[model.Question](questions),
		PassingScore:     passingScore,
		TimeLimitMinutes: in.TimeLimitMinutes,
	}
	if err := s.Quizzes.Create(ctx, quiz); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrQuizExists
		}
		return nil, fmt.Errorf("create quiz: %w", err)
	}

	s.Cache.InvalidateQuiz(ctx, quiz.ScenarioID)
	return quiz, nil
}

// UploadMedia stores an image for the scenario and records its URL in the
// field selected by kind ("image" or "panorama").
func (s *ContentService) UploadMedia(ctx context.Context, scenarioID uint, kind, filename string, reader io.Reader, size int64, contentType string) (*model.Scenario, error) {
	if kind != util.MediaKindImage && kind != util.MediaKindPanorama {
		return nil, util.ErrInvalidMediaKind
	}

	scenario, err := s.GetScenario(ctx, scenarioID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	objectName := fmt.Sprintf("scenarios/%d/%s-%s%s", scenarioID, kind, uuid.NewString(), ext)
	url, err := s.Storage.Upload(ctx, objectName, reader, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("upload media: %w", err)
	}

	if kind == util.MediaKindPanorama {
		scenario.PanoramaURL = &url
	} else {
		scenario.ImageURL = &url
	}
	if err := s.Scenarios.Save(ctx, scenario); err != nil {
		return nil, fmt.Errorf("save scenario media: %w", err)
	}

	s.Cache.InvalidateScenarios(ctx)
	return scenario, nil
}
