package migrations

import (
	"context"
	"encoding/json"

	"github.com/uptrace/bun"

	"mechina-chat-service/internal/quiz"
)

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			fit := quiz.FitQuiz()
			data, err := json.Marshal(fit)
			if err != nil {
				return err
			}
			_, err = db.ExecContext(ctx,
				`INSERT INTO quizzes (id, data) VALUES (?, ?::jsonb) ON CONFLICT (id) DO NOTHING`,
				fit.ID, string(data))
			return err
		},
		func(ctx context.Context, db *bun.DB) error {
			_, err := db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, quiz.FitQuizID)
			return err
		},
	)
}
