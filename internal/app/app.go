package app

import (
	"context"
	"errors"
	"fmt"
	api "github.com/OvyFlash/telegram-bot-api"
	"github.com/iamvkosarev/repair-chat-bot/config"
	http_api "github.com/iamvkosarev/repair-chat-bot/internal/http-api"
	"github.com/iamvkosarev/repair-chat-bot/internal/model"
	"github.com/iamvkosarev/repair-chat-bot/internal/storage/file"
	in_memory "github.com/iamvkosarev/repair-chat-bot/internal/storage/in-memory"
	key_value "github.com/iamvkosarev/repair-chat-bot/internal/storage/key-value"
	"github.com/iamvkosarev/repair-chat-bot/internal/usecase"
	"github.com/iamvkosarev/repair-chat-bot/internal/vocabulary"
	openai_tools "github.com/iamvkosarev/repair-chat-bot/pkg/openai-tools"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
	"net/http"
	"net/url"
	"time"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageFile   = "file"
)

var ErrUnknownStorageDriver = errors.New("unknown storage driver")

func Run(ctx context.Context, cfg *config.Config) error {
	logger, err := NewLogger(cfg.Log)
	if err != nil {
		return err
	}

	baseURL, err := url.JoinPath(cfg.OpenAI.OpenAIBaseURL, "/v1")
	if err != nil {
		return err
	}
	cfg.OpenAI.OpenAIBaseURL = baseURL

	vocab, err := loadVocabulary(cfg.Vocabulary)
	if err != nil {
		return fmt.Errorf("failed to load vocabulary: %w", err)
	}
	logger.WithField("vocabulary", vocab.Name).Info("vocabulary loaded")

	storage, closeStorage, err := NewStorage(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	defer closeStorage()

	openAIUsecase := usecase.NewOpenAIUsecase(cfg.OpenAI)
	advisorUsecase := usecase.NewAdvisorUsecase(vocab)
	errorCodeUsecase := usecase.NewErrorCodeUsecase(vocab)

	workspaceUsecase := usecase.NewWorkspaceUsecase(
		usecase.WorkspaceUsecaseDeps{
			Storage:     storage,
			Prompt:      usecase.NewPromptUsecase(vocab),
			Model:       openAIUsecase,
			CountTokens: openai_tools.CountToken,
			Logger:      logger,
		}, vocab, cfg.OpenAI.OpenAIAPIKey, openAIUsecase.Model(),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, 2)
	wg := conc.NewWaitGroup()

	if cfg.Telegram.Enabled {
		bot, err := api.NewBotAPI(cfg.Telegram.TelegramAPIToken)
		if err != nil {
			return fmt.Errorf("failed to create new bot: %w", err)
		}
		logger.Infof("Authorized on account %s", bot.Self.UserName)

		telegramUsecase, err := usecase.NewTelegramUsecase(
			cfg.Telegram, usecase.TelegramUsecaseDeps{
				Bot:        bot,
				Workspaces: workspaceUsecase,
				Advisor:    advisorUsecase,
				ErrorCodes: errorCodeUsecase,
				Logger:     logger.WithField("transport", "telegram"),
			}, vocab.Welcome,
		)
		if err != nil {
			return fmt.Errorf("failed to create telegram usecase: %w", err)
		}
		wg.Go(
			func() {
				if err := telegramUsecase.Run(ctx); err != nil {
					errs <- fmt.Errorf("telegram: %w", err)
				}
				cancel()
			},
		)
	}

	if cfg.HTTP.Enabled {
		handler := http_api.NewHandler(
			http_api.HandlerDeps{
				Workspaces: workspaceUsecase,
				Advisor:    advisorUsecase,
				ErrorCodes: errorCodeUsecase,
				Logger:     logger.WithField("transport", "http"),
			},
		)
		server := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           handler.Router(),
			ReadHeaderTimeout: 15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
		wg.Go(
			func() {
				logger.Infof("listening on %s", cfg.HTTP.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errs <- fmt.Errorf("http: %w", err)
				}
				cancel()
			},
		)
		wg.Go(
			func() {
				<-ctx.Done()
				if err := server.Shutdown(context.Background()); err != nil {
					logger.WithError(err).Warn("failed to shut down http server")
				}
			},
		)
	}

	wg.Wait()
	close(errs)
	return errors.Join(collect(errs)...)
}

func NewLogger(cfg config.Log) (*logrus.Logger, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}
	logger.SetLevel(level)
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

// NewStorage returns the configured key-value store and a func releasing its resources.
func NewStorage(cfg config.Storage) (usecase.KeyValueStorage, func(), error) {
	switch cfg.Driver {
	case StorageMemory:
		return in_memory.NewKVStorage(), func() {}, nil
	case StorageRedis:
		rdb := redis.NewClient(
			&redis.Options{
				Addr: cfg.Endpoint,
			},
		)
		return key_value.NewKVStorage(rdb), func() { rdb.Close() }, nil
	case StorageFile:
		storage, err := file.NewKVStorage(cfg.FilePath)
		if err != nil {
			return nil, nil, err
		}
		return storage, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownStorageDriver, cfg.Driver)
	}
}

func loadVocabulary(cfg config.Vocabulary) (model.Vocabulary, error) {
	if cfg.Path != "" {
		return vocabulary.LoadFile(cfg.Path)
	}
	return vocabulary.Load(cfg.Name)
}

func collect(errs <-chan error) []error {
	result := make([]error, 0)
	for err := range errs {
		result = append(result, err)
	}
	return result
}
