package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("Email already registered")
	ErrUsernameTaken      = errors.New("Username already taken")
	ErrInvalidCredentials = errors.New("Incorrect email or password")
	ErrUnauthenticated    = errors.New("Invalid authentication credentials")
	ErrScenarioNotFound   = errors.New("Scenario not found")
	ErrQuizNotFound       = errors.New("Quiz not found")
	ErrQuizExists         = errors.New("Quiz already exists for this scenario")
	ErrInvalidQuestion    = errors.New("invalid question")
	ErrInvalidMediaKind   = errors.New("media kind must be image or panorama")
)
