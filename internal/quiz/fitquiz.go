package quiz

import "mechina-chat-service/internal/domain"

// FitQuizID is the id of the built-in volunteering-fit questionnaire.
const FitQuizID = "prearmy-volunteer-fit"

// FitQuiz returns the built-in mechina/volunteering fit questionnaire. A
// fresh copy is returned on every call so callers cannot mutate shared data.
func FitQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    FitQuizID,
		Title: "שאלון התאמה קצר (5 שאלות)",
		Questions: []domain.Question{
			{
				ID:     "q1",
				Kind:   domain.QuestionChoice,
				Prompt: "איזה תחום מדבר אלייך יותר?",
				Options: []domain.Option{
					{ID: "tech", Label: "טכנולוגיה / מחשבים / מתמטיקה", Points: 5},
					{ID: "social", Label: "חברתי / חינוך / סיוע לאנשים", Points: 2},
					{ID: "outdoor", Label: "טבע / שטח / אתגר פיזי", Points: 4},
				},
			},
			{
				ID:     "q2",
				Kind:   domain.QuestionChoice,
				Prompt: "איזה סוג פעילות את/ה מעדיף/ה?",
				Options: []domain.Option{
					{ID: "problem", Label: "פתרון בעיות ולמידה עצמית", Points: 4},
					{ID: "guide", Label: "ליווי, הדרכה ותמיכה באנשים", Points: 2},
					{ID: "lead", Label: "ארגון/מנהיגות/תיאום משימות", Points: 3},
				},
			},
			{
				ID:     "q3",
				Kind:   domain.QuestionChoice,
				Prompt: "איפה היית רוצה לפעול ?",
				Options: []domain.Option{
					{ID: "lab", Label: "סביבת מחשב / מעבדה / פרויקטים טכנולוגיים", Points: 5},
					{ID: "people", Label: "קהילה / קשר בין-אישי / חניכה", Points: 2},
					{ID: "field", Label: "שטח / לוגיסטיקה / אירועי שטח", Points: 3},
				},
			},
			{
				ID:     "q4",
				Kind:   domain.QuestionChoice,
				Prompt: "כמה אינטנסיביות ומחויבות מתאימות לך?",
				Options: []domain.Option{
					{ID: "high", Label: "גבוהה (לו\"ז צפוף ועמוס)", Points: 4},
					{ID: "medium", Label: "בינונית (איזון בין לימודים/בית לפעילות)", Points: 3},
					{ID: "low", Label: "קצרה/גמישה (מפגשים נקודתיים)", Points: 1},
				},
			},
			{
				ID:     "q5",
				Kind:   domain.QuestionChoice,
				Prompt: "עבודה בצוות או באופן עצמאי?",
				Options: []domain.Option{
					{ID: "team", Label: "צוות", Points: 3},
					{ID: "solo", Label: "עצמאית", Points: 2},
					{ID: "both", Label: "גם וגם", Points: 4},
				},
			},
			{
				ID:     "q6",
				Kind:   domain.QuestionOpenText,
				Prompt: "האם יש עוד משהו להוסיף על עצמך?",
				Scoring: &domain.ScoringRule{
					Mode: domain.ScoreKeywords,
					Max:  8,
					Keywords: &domain.KeywordRule{
						Base: 0,
						Min:  0,
						Max:  8,
						Positive: []domain.KeywordGroup{
							{Terms: []string{"מחשבים", "תכנות", "קוד", "אלגוריתמים", "מתמטיקה", "פיזיקה", "סייבר", "רובוטיקה"}, Weight: 3},
							{Terms: []string{"חברים", "קהילה", "חינוך", "הדרכה", "קשישים", "ילדים", "לעזור לאנשים", "התנדבות"}, Weight: 2},
							{Terms: []string{"פעילות גופנית", "ספורט", "כושר", "שטח", "טבע", "טיולים"}, Weight: 2},
						},
						Negative: []domain.KeywordGroup{
							{Terms: []string{"אין", "לא היה", "אין לי"}, Weight: 2},
						},
					},
				},
			},
		},
		Bands: []domain.Band{
			{Min: 0, Max: 9, Key: "social", Label: "התאמה חברתית", Summary: "כדאי להתמקד במסגרות עם עשייה חברתית ישירה."},
			{Min: 10, Max: 20, Key: "tech", Label: "התאמה טכנולוגית", Summary: "כדאי לשקול מסגרות טכנולוגיות/מתמטיות."},
			{Min: 21, Max: 100, Key: "other", Label: "התאמה גבוהה במיוחד", Summary: "אפשר לכוון גם למסגרות מאתגרות מסוגים שונים."},
		},
	}
}

// Filter returns a copy of q with open-text questions removed unless
// includeOpen is set. The definition keeps the open question; whether it is
// ever asked is a runtime switch.
func Filter(q domain.Quiz, includeOpen bool) domain.Quiz {
	if includeOpen {
		return q
	}
	questions := make([]domain.Question, 0, len(q.Questions))
	for _, question := range q.Questions {
		if question.Kind == domain.QuestionOpenText {
			continue
		}
		questions = append(questions, question)
	}
	q.Questions = questions
	return q
}
