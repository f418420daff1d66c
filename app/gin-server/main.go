package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Ctrl-Joy/bridge-skill-connect-16/config"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/api/handlers"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/api/middleware"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/api/routes"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/cache"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/logger"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/matching"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/providers/llm"
	mongorepo "github.com/Ctrl-Joy/bridge-skill-connect-16/internal/repositories/mongo"
	pgrepo "github.com/Ctrl-Joy/bridge-skill-connect-16/internal/repositories/postgres"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/services"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/storage"
	"github.com/Ctrl-Joy/bridge-skill-connect-16/internal/workers"
)

func main() {
	_ = godotenv.Load()
	log := logger.New()

	settings, err := config.LoadSettings()
	if err != nil {
		log.WithError(err).Fatal("invalid settings")
	}
	pooling, err := matching.ParsePooling(settings.MatchPooling)
	if err != nil {
		log.WithError(err).Fatal("invalid MATCH_POOLING")
	}
	if settings.GinMode != "" {
		gin.SetMode(settings.GinMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init PostgreSQL
	if err := config.InitPostgres(); err != nil {
		log.WithError(err).Fatal("PostgreSQL init error")
	}
	log.Info("PostgreSQL connected")

	// Redis and Mongo are optional: they back the embedding cache and async doubts
	if config.RedisConfigured() {
		if err := config.InitRedis(); err != nil {
			log.WithError(err).Fatal("Redis init error")
		}
		log.Info("Redis connected")
	}

	var jobs mongorepo.DoubtJobRepository
	if config.MongoConfigured() {
		if err := config.InitMongo(); err != nil {
			log.WithError(err).Fatal("MongoDB init error")
		}
		if err := config.EnsureMongoIndexes(); err != nil {
			log.WithError(err).Warn("MongoDB index setup failed")
		}
		jobs = mongorepo.NewDoubtJobRepo(config.MongoDatabase(), settings.DoubtJobTTL)
		log.Info("MongoDB connected")
	}

	embedder, completer, closers, err := buildProviders(ctx, settings, log)
	if err != nil {
		log.WithError(err).Fatal("LLM provider init error")
	}
	defer func() {
		for _, c := range closers {
			_ = c()
		}
	}()

	var uploader storage.Uploader
	var signer storage.Signer
	if settings.GCSBucket != "" {
		gcs, err := storage.NewGCSUploader(ctx, settings.GCSBucket, settings.GCSPublic)
		if err != nil {
			log.WithError(err).Fatal("GCS init error")
		}
		defer gcs.Close()
		uploader, signer = gcs, gcs
	}

	// Repositories
	db := config.PostgresDB
	profileRepo := pgrepo.NewProfileRepo(db)
	skillRepo := pgrepo.NewSkillRepo(db)
	mentorshipRepo := pgrepo.NewMentorshipRepo(db)
	teamRepo := pgrepo.NewTeamRepo(db)
	doubtRepo := pgrepo.NewDoubtRepo(db)

	// Services
	opts := services.MatchOptions{Pooling: pooling, FetchConcurrency: settings.MatchFetchConcurrency}

	var queue services.DoubtQueue
	if config.RedisClient != nil {
		queue = workers.NewStreamQueue(config.RedisClient)
	}

	profileSvc := services.NewProfileService(profileRepo)
	skillSvc := services.NewSkillService(profileRepo, skillRepo, embedder, settings.EmbedConcurrency)
	mentorSvc := services.NewMentorService(profileRepo, skillRepo, mentorshipRepo, opts)
	teamSvc := services.NewTeamService(profileRepo, skillRepo, teamRepo, embedder, opts)
	resumeSvc := services.NewResumeService(profileRepo, uploader, signer)
	doubtSvc := services.NewDoubtService(services.DoubtDeps{
		Doubts:    doubtRepo,
		Profiles:  profileRepo,
		Skills:    skillRepo,
		Embedder:  embedder,
		Completer: completer,
		Jobs:      jobs,
		Queue:     queue,
		Options:   opts,
	})

	// Workers
	if config.RedisClient != nil && jobs != nil {
		pool := &workers.DoubtWorkerPool{
			Redis:          config.RedisClient,
			Doubts:         doubtSvc,
			NumWorkers:     settings.DoubtWorkers,
			Logger:         log,
			ConsumerPrefix: hostname(),
		}
		if err := pool.Start(ctx); err != nil {
			log.WithError(err).Fatal("doubt workers init error")
		}
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	routes.RegisterRoutes(r, routes.Deps{
		JWT:     middleware.JWTConfigFromEnv(),
		Profile: handlers.NewProfileHandler(profileSvc),
		Skill:   handlers.NewSkillHandler(profileSvc, skillSvc),
		Resume:  handlers.NewResumeHandler(profileSvc, resumeSvc),
		Mentor:  handlers.NewMentorHandler(profileSvc, mentorSvc),
		Team:    handlers.NewTeamHandler(profileSvc, teamSvc),
		Doubt:   handlers.NewDoubtHandler(profileSvc, doubtSvc),
		WS:      handlers.NewWSHandler(profileSvc, doubtSvc, config.RedisClient),
	})

	srv := &http.Server{
		Addr:              ":" + settings.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", settings.Port).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("http server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown error")
	}
	if config.RedisClient != nil {
		_ = config.RedisClient.Close()
	}
	if config.MongoClient != nil {
		_ = config.MongoClient.Disconnect(shutdownCtx)
	}
}

// embedCacheEntries bounds the in-process embedding cache used without Redis.
const embedCacheEntries = 10000

// buildProviders wires the configured embedder and completer, each behind a
// timeout; the embedder is also cached (Redis, else in memory) when
// EMBED_CACHE_TTL is set.
func buildProviders(ctx context.Context, s config.Settings, log *logrus.Logger) (llm.Embedder, llm.Completer, []func() error, error) {
	var closers []func() error

	var gemini *llm.Gemini
	getGemini := func() (*llm.Gemini, error) {
		if gemini != nil {
			return gemini, nil
		}
		if s.GeminiAPIKey == "" {
			return nil, errors.New("GEMINI_API_KEY is not set")
		}
		g, err := llm.NewGemini(ctx, s.GeminiAPIKey, s.GeminiEmbeddingModel, s.GeminiChatModel, s.EmbeddingDim)
		if err != nil {
			return nil, err
		}
		closers = append(closers, g.Close)
		gemini = g
		return g, nil
	}
	newOpenAI := func() (*llm.OpenAI, error) {
		if s.OpenAIAPIKey == "" {
			return nil, errors.New("OPENAI_API_KEY (or LOVABLE_API_KEY) is not set")
		}
		return llm.NewOpenAI(s.OpenAIBaseURL, s.OpenAIAPIKey, s.OpenAIEmbeddingModel, s.OpenAIChatModel, s.EmbeddingDim), nil
	}

	var embedder llm.Embedder
	switch s.EmbeddingProvider {
	case "gemini":
		g, err := getGemini()
		if err != nil {
			return nil, nil, closers, err
		}
		embedder = g
	default:
		o, err := newOpenAI()
		if err != nil {
			return nil, nil, closers, err
		}
		embedder = o
	}

	var completer llm.Completer
	switch s.LLMProvider {
	case "vertex":
		v, err := llm.NewVertexGemini(ctx, s.VertexProjectID, s.VertexLocation, s.VertexModel)
		if err != nil {
			return nil, nil, closers, err
		}
		closers = append(closers, v.Close)
		completer = v
	case "gemini":
		g, err := getGemini()
		if err != nil {
			return nil, nil, closers, err
		}
		completer = g
	default:
		o, err := newOpenAI()
		if err != nil {
			return nil, nil, closers, err
		}
		completer = o
	}

	embedder = llm.WithTimeout(embedder, s.LLMTimeout)
	if s.EmbedCacheTTL > 0 {
		var c cache.Cache = cache.NewMemory(embedCacheEntries)
		if config.RedisClient != nil {
			c = cache.NewRedisCache(config.RedisClient, "skillbridge:")
		}
		embedder = llm.NewCachedEmbedder(embedder, c, s.EmbedCacheTTL, log)
	}
	completer = llm.CompleteWithTimeout(completer, s.LLMTimeout)

	log.WithFields(logrus.Fields{
		"embedding_provider": s.EmbeddingProvider,
		"llm_provider":       s.LLMProvider,
		"embedding_model":    modelName(embedder),
	}).Info("providers ready")
	return embedder, completer, closers, nil
}

func modelName(e llm.Embedder) string {
	if m, ok := e.(llm.Model); ok {
		return m.ModelName()
	}
	return "unknown"
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "c"
	}
	return h
}
