package domain

// QuestionKind discriminates the question variants.
type QuestionKind string

const (
	QuestionChoice   QuestionKind = "choice"
	QuestionOpenText QuestionKind = "open"
)

// ScoringMode discriminates how an open-text answer is scored.
type ScoringMode string

const (
	ScoreKeywords  ScoringMode = "keywords"
	ScoreDelegated ScoringMode = "delegated"
)

// Option is one selectable answer of a choice question. Points may be
// negative and are applied verbatim to the running total.
type Option struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// KeywordGroup contributes its weight at most once per answer, however many
// of its terms match.
type KeywordGroup struct {
	Terms  []string `json:"terms"`
	Weight int      `json:"weight"`
}

// KeywordRule scores free text by substring keyword groups starting from
// Base, clamped to [Min, Max].
type KeywordRule struct {
	Base     int            `json:"base"`
	Min      int            `json:"min"`
	Max      int            `json:"max"`
	Positive []KeywordGroup `json:"positive,omitempty"`
	Negative []KeywordGroup `json:"negative,omitempty"`
}

// ScoringRule is a tagged variant: Keywords is set when Mode is
// ScoreKeywords; Rubric and Max drive the external scorer when Mode is
// ScoreDelegated.
type ScoringRule struct {
	Mode     ScoringMode  `json:"mode"`
	Keywords *KeywordRule `json:"keywords,omitempty"`
	Max      int          `json:"max"`
	Rubric   string       `json:"rubric,omitempty"`
}

// Question is either a choice question (Options set) or an open-text
// question (Scoring set), never both.
type Question struct {
	ID      string       `json:"id"`
	Kind    QuestionKind `json:"kind"`
	Prompt  string       `json:"prompt"`
	Options []Option     `json:"options,omitempty"`
	Scoring *ScoringRule `json:"scoring,omitempty"`
}

// Band maps an inclusive total range to a descriptive classification.
type Band struct {
	Min     int    `json:"min"`
	Max     int    `json:"max"`
	Key     string `json:"key"`
	Label   string `json:"label"`
	Summary string `json:"summary"`
}

// Quiz is the full questionnaire definition. It is treated as immutable
// once loaded.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
	Bands     []Band     `json:"bands"`
}

// BandFor returns the first band whose range contains total, falling back
// to the last band for totals beyond the declared maximum.
func (q Quiz) BandFor(total int) Band {
	for _, b := range q.Bands {
		if total >= b.Min && total <= b.Max {
			return b
		}
	}
	return q.Bands[len(q.Bands)-1]
}

// AnswerRecord is one accepted answer, tagged by Kind: choice answers carry
// OptionID and Label, open answers carry Text.
type AnswerRecord struct {
	QuestionID string       `json:"questionId"`
	Kind       QuestionKind `json:"kind"`
	OptionID   string       `json:"optionId,omitempty"`
	Label      string       `json:"label,omitempty"`
	Text       string       `json:"text,omitempty"`
	Points     int          `json:"points"`
}

// SessionState is the per-respondent questionnaire progress record.
type SessionState struct {
	Step    int            `json:"step"`
	Total   int            `json:"total"`
	Answers []AnswerRecord `json:"answers"`
	Active  bool           `json:"active"`
}

// NewSessionState returns the zeroed inactive default.
func NewSessionState() SessionState {
	return SessionState{Answers: []AnswerRecord{}}
}
