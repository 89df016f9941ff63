package quiz

import (
	"testing"

	"mechina-chat-service/internal/domain"
)

func TestFitQuizIsValid(t *testing.T) {
	if err := Validate(FitQuiz()); err != nil {
		t.Fatalf("fit quiz invalid: %v", err)
	}
	if err := Validate(Filter(FitQuiz(), false)); err != nil {
		t.Fatalf("filtered fit quiz invalid: %v", err)
	}
}

func TestFilterExcludesOpenQuestions(t *testing.T) {
	full := FitQuiz()

	filtered := Filter(full, false)
	if len(filtered.Questions) != len(full.Questions)-1 {
		t.Fatalf("expected one question filtered, got %d of %d", len(filtered.Questions), len(full.Questions))
	}
	for _, q := range filtered.Questions {
		if q.Kind == domain.QuestionOpenText {
			t.Fatalf("open question %s survived the filter", q.ID)
		}
	}

	kept := Filter(full, true)
	if len(kept.Questions) != len(full.Questions) {
		t.Fatalf("expected all questions kept, got %d", len(kept.Questions))
	}
}

func TestFilterDoesNotMutateSource(t *testing.T) {
	full := FitQuiz()
	before := len(full.Questions)
	_ = Filter(full, false)
	if len(full.Questions) != before {
		t.Fatalf("filter mutated its input")
	}
}

func TestBandCoverage(t *testing.T) {
	q := FitQuiz()
	for total := 0; total <= 100; total++ {
		matches := 0
		for _, b := range q.Bands {
			if total >= b.Min && total <= b.Max {
				matches++
			}
		}
		if matches != 1 {
			t.Fatalf("total %d matched %d bands, want exactly 1", total, matches)
		}
	}
}

func TestBandForFallsBackToLastBand(t *testing.T) {
	q := FitQuiz()
	b := q.BandFor(1000)
	if b.Key != q.Bands[len(q.Bands)-1].Key {
		t.Fatalf("expected last band fallback, got %s", b.Key)
	}
}

func TestTrackThresholds(t *testing.T) {
	cases := []struct {
		total int
		want  Track
	}{
		{21, TrackOther},
		{20, TrackTech},
		{11, TrackTech},
		{10, TrackSocial},
		{0, TrackSocial},
	}
	for _, c := range cases {
		if got := TrackFor(c.total); got != c.want {
			t.Fatalf("total %d: expected %s, got %s", c.total, c.want, got)
		}
	}
}

func TestRecommendationsPerTrack(t *testing.T) {
	for _, track := range []Track{TrackSocial, TrackTech, TrackOther} {
		if len(Recommendations(track)) != 3 {
			t.Fatalf("expected 3 suggestions for %s, got %d", track, len(Recommendations(track)))
		}
	}
}

func TestValidateRejectsBrokenDefinitions(t *testing.T) {
	base := FitQuiz()

	empty := base
	empty.Questions = nil
	if err := Validate(empty); err == nil {
		t.Fatalf("expected error for empty question list")
	}

	dup := FitQuiz()
	dup.Questions[1].ID = dup.Questions[0].ID
	if err := Validate(dup); err == nil {
		t.Fatalf("expected error for duplicate ids")
	}

	noOptions := FitQuiz()
	noOptions.Questions[0].Options = nil
	if err := Validate(noOptions); err == nil {
		t.Fatalf("expected error for choice question without options")
	}

	noScoring := FitQuiz()
	noScoring.Questions[5].Scoring = nil
	if err := Validate(noScoring); err == nil {
		t.Fatalf("expected error for open question without scoring")
	}
}
