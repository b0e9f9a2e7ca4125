package service

import "agritrain_backend/internal/model"

// ScoreAttempt compares answers positionally with each question's correct
// option. Answers past the last question are ignored and questions without
// an answer count as wrong. The score is the percentage of correct answers,
// 0 for a quiz without questions.
func ScoreAttempt(questions []model.Question, answers []int, passingScore float64) (float64, bool) {
	total := len(questions)
	if total == 0 {
		return 0, 0 >= passingScore
	}

	correct := 0
	for i, q := range questions {
		if i >= len(answers) {
			break
		}
		if answers[i] == q.CorrectAnswer {
			correct++
		}
	}

	score := float64(correct) / float64(total) * 100
	return score, score >= passingScore
}
