package service

import (
	"context"
	"testing"
	"time"

	"agritrain_backend/internal/model"
	"agritrain_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newAttemptFixture(t *testing.T) (*AttemptService, *memAttemptStore, uint, time.Time) {
	t.Helper()
	quizzes := &memQuizStore{}
	quiz := &model.Quiz{
		ScenarioID:   1,
		Title:        "Pest Management Assessment",
		Questions:    datatypes.JSONSlice[model.Question](questionsWithAnswers(1, 2, 0)),
		PassingScore: 70,
	}
	require.NoError(t, quizzes.Create(context.Background(), quiz))

	attempts := &memAttemptStore{}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewAttemptService(quizzes, attempts)
	svc.Now = fixedClock(now)
	return svc, attempts, quiz.ID, now
}

func TestAttemptSubmit_ScoresAndPersists(t *testing.T) {
	svc, store, quizID, now := newAttemptFixture(t)

	attempt, err := svc.Submit(context.Background(), 7, AttemptInput{QuizID: quizID, Answers: []int{1, 2, 1}})
	require.NoError(t, err)

	assert.InDelta(t, 66.67, attempt.Score, 0.01)
	assert.False(t, attempt.IsPassed)
	assert.Equal(t, uint(7), attempt.UserID)
	assert.Equal(t, quizID, attempt.QuizID)
	assert.Equal(t, []int{1, 2, 1}, []int(attempt.Answers))
	assert.Equal(t, now, attempt.StartedAt)
	require.NotNil(t, attempt.CompletedAt)
	assert.Equal(t, now, *attempt.CompletedAt)
	assert.Nil(t, attempt.TimeTakenMinutes)

	require.Len(t, store.attempts, 1)
	assert.Equal(t, attempt.ID, store.attempts[0].ID)
}

func TestAttemptSubmit_EachSubmissionIsNewRecord(t *testing.T) {
	svc, store, quizID, _ := newAttemptFixture(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, 7, AttemptInput{QuizID: quizID, Answers: []int{0, 0, 0}})
	require.NoError(t, err)
	second, err := svc.Submit(ctx, 7, AttemptInput{QuizID: quizID, Answers: []int{1, 2, 0}})
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.InDelta(t, 33.33, store.attempts[0].Score, 0.01)
	assert.Equal(t, 100.0, store.attempts[1].Score)
	assert.True(t, store.attempts[1].IsPassed)

	list, err := svc.ListForUser(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestAttemptSubmit_ShortAnswerList(t *testing.T) {
	svc, _, quizID, _ := newAttemptFixture(t)

	attempt, err := svc.Submit(context.Background(), 7, AttemptInput{QuizID: quizID, Answers: []int{}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, attempt.Score)
	assert.False(t, attempt.IsPassed)
	assert.NotNil(t, attempt.Answers)
}

func TestAttemptSubmit_ClientTimestamps(t *testing.T) {
	svc, _, quizID, _ := newAttemptFixture(t)
	started := time.Date(2025, 3, 1, 11, 45, 0, 0, time.UTC)
	completed := time.Date(2025, 3, 1, 11, 55, 30, 0, time.UTC)

	attempt, err := svc.Submit(context.Background(), 7, AttemptInput{
		QuizID:      quizID,
		Answers:     []int{1, 2, 0},
		StartedAt:   &started,
		CompletedAt: &completed,
	})
	require.NoError(t, err)
	assert.Equal(t, started, attempt.StartedAt)
	assert.Equal(t, completed, *attempt.CompletedAt)
	require.NotNil(t, attempt.TimeTakenMinutes)
	assert.InDelta(t, 10.5, *attempt.TimeTakenMinutes, 1e-9)
}

func TestAttemptSubmit_NegativeDurationClampedToZero(t *testing.T) {
	svc, _, quizID, _ := newAttemptFixture(t)
	started := time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC)
	completed := started.Add(-time.Minute)

	attempt, err := svc.Submit(context.Background(), 7, AttemptInput{
		QuizID:      quizID,
		Answers:     []int{1},
		StartedAt:   &started,
		CompletedAt: &completed,
	})
	require.NoError(t, err)
	require.NotNil(t, attempt.TimeTakenMinutes)
	assert.Equal(t, 0.0, *attempt.TimeTakenMinutes)
}

func TestAttemptSubmit_QuizNotFound(t *testing.T) {
	svc, store, _, _ := newAttemptFixture(t)

	_, err := svc.Submit(context.Background(), 7, AttemptInput{QuizID: 404, Answers: []int{1}})
	assert.ErrorIs(t, err, util.ErrQuizNotFound)
	assert.Empty(t, store.attempts)
}
