package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"mechina-chat-service/internal/config"
	"mechina-chat-service/internal/domain"
	"mechina-chat-service/internal/engine"
	"mechina-chat-service/internal/infra/llm"
	"mechina-chat-service/internal/infra/memory"
	pgloader "mechina-chat-service/internal/infra/postgres"
	redisinfra "mechina-chat-service/internal/infra/redis"
	"mechina-chat-service/internal/quiz"
	transport "mechina-chat-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the chat server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	sessionTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)
	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	quizID := cfg.Quiz.ID
	if quizID == "" {
		quizID = quiz.FitQuizID
	}

	var loader memory.DefinitionLoader = memory.NewStaticDefinitions(builtinQuizzes())
	if pool != nil {
		loader = pgloader.NewQuizLoader(pool)
	}

	var quizRepo engine.QuizRepository
	if redisClient != nil {
		quizRepo = redisinfra.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	// Fail fast on a broken definition before accepting traffic.
	definition, err := quizRepo.GetQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	if err := quiz.Validate(definition); err != nil {
		return err
	}

	var store engine.SessionStore
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, sessionTTL)
	} else {
		store = memory.NewSessionStore()
	}

	buffer := transport.NewReplyBuffer()
	opts := []engine.Option{
		engine.WithSessionStore(store),
		engine.WithOpenQuestion(cfg.Quiz.IncludeOpen),
		engine.WithScoreTimeout(config.TTLDuration(cfg.OpenAI.ScoreTimeout, 10*time.Second)),
	}

	var responder transport.Responder = transport.StaticResponder("אין חיבור ל-OpenAI כרגע (חסר OPENAI_API_KEY).")
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		client := llm.NewClient(apiKey, cfg.OpenAI.Model)
		responder = client
		opts = append(opts, engine.WithScorer(client))
	} else {
		log.Printf("OPENAI_API_KEY not set; chat falls back to a static reply and open answers score 0")
	}

	eng := engine.New(quizID, quizRepo, buffer, opts...)
	chatHandler := transport.NewChatHandler(eng, buffer, responder, cfg.Server.PublicDir)
	wsHandler := transport.NewWSHandler(eng, buffer, responder)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(chatHandler, wsHandler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting chat service on :%s (quiz %s, %d questions)", finalPort, definition.ID, len(definition.Questions))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// builtinQuizzes provides the bundled questionnaire when no Postgres is
// configured.
func builtinQuizzes() map[string]domain.Quiz {
	fit := quiz.FitQuiz()
	return map[string]domain.Quiz{fit.ID: fit}
}
