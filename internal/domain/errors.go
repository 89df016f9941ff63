package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz definition could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrNoQuestions is returned for a definition with an empty question list.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrNoBands is returned for a definition with no score bands.
	ErrNoBands = errors.New("quiz has no bands")
	// ErrDuplicateQuestion is returned when two questions share an id.
	ErrDuplicateQuestion = errors.New("duplicate question id")
	// ErrInvalidQuestion is returned for a question whose kind and payload disagree.
	ErrInvalidQuestion = errors.New("invalid question")
)
