package engine

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"mechina-chat-service/internal/domain"
	"mechina-chat-service/internal/infra/memory"
	"mechina-chat-service/internal/quiz"
	"mechina-chat-service/internal/scoring"
)

// StartPayload is the out-of-band token that launches the questionnaire.
const StartPayload = "START_QUIZ"

// startKeywords launch the questionnaire when found at the start of the
// message or right after a slash command prefix.
var startKeywords = []string{"התחל שאלון", "שאלון", "start", "quiz"}

// ChoicePrompt is the id/label pair shown for a selectable option. The
// transport decides presentation (numbered list, buttons, ...).
type ChoicePrompt struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Sender delivers outbound conversation messages to a respondent.
type Sender interface {
	SendText(ctx context.Context, respondentID, text string) error
	SendOptions(ctx context.Context, respondentID, text string, options []ChoicePrompt) error
}

// SessionStore persists per-respondent questionnaire state. Get returns the
// zeroed inactive state when the respondent is unknown.
type SessionStore interface {
	Get(ctx context.Context, respondentID string) (domain.SessionState, error)
	Set(ctx context.Context, respondentID string, state domain.SessionState) error
}

// QuizRepository loads the quiz definition (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// Input carries one inbound chat turn. Payload is an out-of-band token such
// as an option id or StartPayload; Message is the typed text.
type Input struct {
	Message string
	Payload string
}

// Engine drives a respondent through the questionnaire: it validates input,
// accumulates the score, and emits prompts and the final summary through the
// injected Sender. Every operation is a read-modify-write cycle against the
// session store; a per-respondent mutex serializes concurrent calls for the
// same respondent.
type Engine struct {
	quizID       string
	quizzes      QuizRepository
	sender       Sender
	store        SessionStore
	scorer       scoring.Scorer
	includeOpen  bool
	scoreTimeout time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithSessionStore replaces the process-local fallback store.
func WithSessionStore(store SessionStore) Option {
	return func(e *Engine) { e.store = store }
}

// WithScorer installs an external scorer for delegated open-text questions.
func WithScorer(scorer scoring.Scorer) Option {
	return func(e *Engine) { e.scorer = scorer }
}

// WithOpenQuestion includes open-text questions in the asked sequence.
func WithOpenQuestion(include bool) Option {
	return func(e *Engine) { e.includeOpen = include }
}

// WithScoreTimeout bounds a single delegated-scorer call.
func WithScoreTimeout(d time.Duration) Option {
	return func(e *Engine) { e.scoreTimeout = d }
}

// New builds an Engine. Without WithSessionStore it falls back to a
// process-local map that is neither durable nor shared across instances.
func New(quizID string, quizzes QuizRepository, sender Sender, opts ...Option) *Engine {
	e := &Engine{
		quizID:       quizID,
		quizzes:      quizzes,
		sender:       sender,
		scoreTimeout: 10 * time.Second,
		locks:        make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = memory.NewSessionStore()
	}
	return e
}

// Start resets the respondent's session and asks the first question.
func (e *Engine) Start(ctx context.Context, respondentID string) error {
	defer e.lock(respondentID)()
	return e.start(ctx, respondentID)
}

// Handle processes one inbound turn. It reports false when the input was
// not for the questionnaire (no quiz active and no start intent) so the
// host can route the message elsewhere.
func (e *Engine) Handle(ctx context.Context, respondentID string, input Input) (bool, error) {
	defer e.lock(respondentID)()

	state, err := e.store.Get(ctx, respondentID)
	if err != nil {
		return false, err
	}
	if !state.Active {
		if wantsStart(input.Message, input.Payload) {
			return true, e.start(ctx, respondentID)
		}
		return false, nil
	}

	q, err := e.loadQuiz(ctx)
	if err != nil {
		return false, err
	}
	if state.Step >= len(q.Questions) {
		return true, e.finish(ctx, respondentID, q)
	}

	question := q.Questions[state.Step]
	switch question.Kind {
	case domain.QuestionChoice:
		return true, e.handleChoice(ctx, respondentID, q, question, state, input)
	case domain.QuestionOpenText:
		return true, e.handleOpenText(ctx, respondentID, q, question, state, input)
	default:
		return false, nil
	}
}

// Reset overwrites the session with the inactive default without emitting
// any message.
func (e *Engine) Reset(ctx context.Context, respondentID string) error {
	defer e.lock(respondentID)()
	return e.store.Set(ctx, respondentID, domain.NewSessionState())
}

// IsActive reports whether the respondent has a questionnaire in progress.
func (e *Engine) IsActive(ctx context.Context, respondentID string) (bool, error) {
	state, err := e.store.Get(ctx, respondentID)
	if err != nil {
		return false, err
	}
	return state.Active, nil
}

func (e *Engine) start(ctx context.Context, respondentID string) error {
	q, err := e.loadQuiz(ctx)
	if err != nil {
		return err
	}

	state := domain.NewSessionState()
	state.Active = true
	if err := e.store.Set(ctx, respondentID, state); err != nil {
		return err
	}

	choices, open := 0, 0
	for _, question := range q.Questions {
		if question.Kind == domain.QuestionOpenText {
			open++
		} else {
			choices++
		}
	}
	intro := fmt.Sprintf("נתחיל ב%q — %d שאלות קצרות", q.Title, choices)
	if open > 0 {
		intro += " (+שאלה פתוחה אופציונלית)"
	}
	intro += "."
	if err := e.sender.SendText(ctx, respondentID, intro); err != nil {
		return err
	}
	return e.askNext(ctx, respondentID, q)
}

// askNext re-emits the prompt for the respondent's current step without
// mutating state.
func (e *Engine) askNext(ctx context.Context, respondentID string, q domain.Quiz) error {
	state, err := e.store.Get(ctx, respondentID)
	if err != nil {
		return err
	}
	if state.Step >= len(q.Questions) {
		return e.finish(ctx, respondentID, q)
	}

	question := q.Questions[state.Step]
	if question.Kind == domain.QuestionChoice {
		prompts := make([]ChoicePrompt, 0, len(question.Options))
		for _, o := range question.Options {
			prompts = append(prompts, ChoicePrompt{ID: o.ID, Label: o.Label})
		}
		return e.sender.SendOptions(ctx, respondentID, question.Prompt, prompts)
	}
	return e.sender.SendText(ctx, respondentID, question.Prompt+"\n(ענה/י בטקסט חופשי)")
}

func (e *Engine) handleChoice(ctx context.Context, respondentID string, q domain.Quiz, question domain.Question, state domain.SessionState, input Input) error {
	chosen := resolveOption(question.Options, input)
	if chosen == nil {
		if err := e.sender.SendText(ctx, respondentID, "נא לבחור אחת מהאפשרויות או להקליד את מספר התשובה"); err != nil {
			return err
		}
		return e.askNext(ctx, respondentID, q)
	}

	state.Answers = append(state.Answers, domain.AnswerRecord{
		QuestionID: question.ID,
		Kind:       domain.QuestionChoice,
		OptionID:   chosen.ID,
		Label:      chosen.Label,
		Points:     chosen.Points,
	})
	state.Total += chosen.Points
	state.Step++
	if err := e.store.Set(ctx, respondentID, state); err != nil {
		return err
	}
	if state.Step < len(q.Questions) {
		return e.askNext(ctx, respondentID, q)
	}
	return e.finish(ctx, respondentID, q)
}

func (e *Engine) handleOpenText(ctx context.Context, respondentID string, q domain.Quiz, question domain.Question, state domain.SessionState, input Input) error {
	answer := strings.TrimSpace(input.Message)
	if answer == "" {
		return e.sender.SendText(ctx, respondentID, "נא לענות תשובה קצרה")
	}

	points := 0
	if question.Scoring != nil {
		switch question.Scoring.Mode {
		case domain.ScoreKeywords:
			if question.Scoring.Keywords != nil {
				points = scoring.Keywords(answer, *question.Scoring.Keywords)
			}
		case domain.ScoreDelegated:
			points = scoring.Delegated(ctx, answer, *question.Scoring, e.scorer, e.scoreTimeout)
		}
	}

	state.Answers = append(state.Answers, domain.AnswerRecord{
		QuestionID: question.ID,
		Kind:       domain.QuestionOpenText,
		Text:       answer,
		Points:     points,
	})
	state.Total += points
	state.Step++
	if err := e.store.Set(ctx, respondentID, state); err != nil {
		return err
	}
	if state.Step < len(q.Questions) {
		return e.askNext(ctx, respondentID, q)
	}
	return e.finish(ctx, respondentID, q)
}

// finish emits the recommendation summary and deactivates the session. The
// band and the track are separate classifications over the same total; only
// the track selects the visible recommendations, the band goes to the log.
func (e *Engine) finish(ctx context.Context, respondentID string, q domain.Quiz) error {
	state, err := e.store.Get(ctx, respondentID)
	if err != nil {
		return err
	}

	band := q.BandFor(state.Total)
	track := quiz.TrackFor(state.Total)
	log.Printf("questionnaire finished respondent=%s total=%d band=%s track=%s", respondentID, state.Total, band.Key, track)

	lines := []string{"המלצות לפי הפרופיל שלך:"}
	for i, suggestion := range quiz.Recommendations(track) {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, suggestion))
	}
	lines = append(lines, "", "פירוט תשובות:")
	for _, answer := range state.Answers {
		lines = append(lines, breakdownLine(answer))
	}
	if err := e.sender.SendText(ctx, respondentID, strings.Join(lines, "\n")); err != nil {
		return err
	}

	state.Active = false
	return e.store.Set(ctx, respondentID, state)
}

func (e *Engine) loadQuiz(ctx context.Context) (domain.Quiz, error) {
	q, err := e.quizzes.GetQuiz(ctx, e.quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	return quiz.Filter(q, e.includeOpen), nil
}

// lock serializes operations per respondent and returns the unlock func.
func (e *Engine) lock(respondentID string) func() {
	e.mu.Lock()
	l, ok := e.locks[respondentID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[respondentID] = l
	}
	e.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// resolveOption tries, in order: exact payload match against option ids, a
// 1-based numeric index typed as the message, then a case-insensitive
// substring match of the message within an option label.
func resolveOption(options []domain.Option, input Input) *domain.Option {
	if input.Payload != "" {
		for i := range options {
			if options[i].ID == input.Payload {
				return &options[i]
			}
		}
	}
	message := strings.ToLower(strings.TrimSpace(input.Message))
	if message == "" {
		return nil
	}
	if idx, err := strconv.Atoi(message); err == nil && idx >= 1 && idx <= len(options) {
		return &options[idx-1]
	}
	for i := range options {
		if strings.Contains(strings.ToLower(options[i].Label), message) {
			return &options[i]
		}
	}
	return nil
}

func wantsStart(message, payload string) bool {
	if payload == StartPayload {
		return true
	}
	normalized := strings.ToLower(strings.TrimSpace(message))
	for _, kw := range startKeywords {
		if strings.HasPrefix(normalized, kw) || strings.Contains(normalized, "/"+kw) {
			return true
		}
	}
	return false
}

func breakdownLine(a domain.AnswerRecord) string {
	if a.Kind == domain.QuestionOpenText {
		return fmt.Sprintf("• תשובה פתוחה: %q (+%d)", preview(a.Text, 80), a.Points)
	}
	return fmt.Sprintf("• %s (+%d)", a.Label, a.Points)
}

// preview truncates to limit runes with an ellipsis marker.
func preview(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "…"
}
