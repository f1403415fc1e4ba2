package router

import (
	"context"
	"net/http"
	"strings"
	"time"

	"tsinda/internal/api/v1/handler"
	"tsinda/internal/config"
	"tsinda/internal/i18n"
	"tsinda/internal/middleware"
	"tsinda/internal/pubsub"
	"tsinda/internal/repository"
	"tsinda/internal/service"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New wires repositories, services and handlers and returns the root
// HTTP handler together with the connection pool for shutdown.
func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, error) {
	logger.Info().Str("environment", cfg.Environment).Msg("Router initializing")

	// Open the connection pool. Local development disables SSL unless
	// the DSN already says otherwise; anything behind a transaction
	// pooler needs the simple query protocol to avoid server-side
	// prepared statement clashes.
	dsn := cfg.DBConnectionString
	if cfg.Environment == "development" && !strings.Contains(dsn, "sslmode") {
		dsn = appendDSNParam(dsn, "sslmode=disable")
	}
	if cfg.Environment != "development" && !strings.Contains(dsn, "default_query_exec_mode") {
		dsn = appendDSNParam(dsn, "default_query_exec_mode=simple_protocol")
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create DB pool")
		return nil, nil, err
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to ping DB")
		pool.Close()
		return nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	// Resolve the JWT secret. Production deployments keep it in Secret
	// Manager; local development sets JWT_SECRET directly.
	jwtSecret := cfg.JWTSecret
	if cfg.JWTSecretName != "" {
		sm, err := service.NewSecretManagerService(context.Background(), cfg)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to create Secret Manager client")
			pool.Close()
			return nil, nil, err
		}
		secret, err := sm.GetSecret(context.Background(), cfg.JWTSecretName)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to fetch JWT secret")
			sm.Close()
			pool.Close()
			return nil, nil, err
		}
		sm.Close()
		jwtSecret = secret
	}

	// S3-compatible storage for lesson media.
	s3Config, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load S3 config")
		pool.Close()
		return nil, nil, err
	}
	s3Client := s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	})

	validate := validator.New(validator.WithRequiredStructEnabled())

	translator, err := i18n.NewTranslator()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load translations")
		pool.Close()
		return nil, nil, err
	}

	publisher, err := pubsub.NewPublisher(context.Background(), cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create Pub/Sub publisher")
		pool.Close()
		return nil, nil, err
	}

	profileRepo := repository.NewProfileRepo(pool)
	planRepo := repository.NewPlanRepo(pool)
	lessonRepo := repository.NewLessonRepo(pool)
	quizRepo := repository.NewQuizRepo(pool)
	attemptRepo := repository.NewAttemptRepo(pool)
	paymentRepo := repository.NewPaymentRepo(pool)
	contactRepo := repository.NewContactRepo(pool)

	processingDelay := time.Duration(cfg.PaymentProcessingDelayMs) * time.Millisecond

	profileSvc := service.NewProfileService(profileRepo, logger)
	planSvc := service.NewPlanService(planRepo, logger)
	lessonSvc := service.NewLessonService(lessonRepo, profileRepo, s3Client, cfg.S3Bucket, logger)
	quizSvc := service.NewQuizService(quizRepo, attemptRepo, profileRepo, publisher, cfg.EventsTopic, logger)
	purchaseSvc := service.NewPurchaseService(paymentRepo, planRepo, profileRepo, publisher, cfg.EventsTopic, processingDelay, logger)
	contactSvc := service.NewContactService(contactRepo, cfg.ContactRelayURL, nil, logger)

	userHandler := handler.NewUserHandler(profileSvc, lessonSvc, quizSvc, validate, logger)
	planHandler := handler.NewPlanHandler(planSvc, logger)
	lessonHandler := handler.NewLessonHandler(lessonSvc, profileSvc, logger)
	quizHandler := handler.NewQuizHandler(quizSvc, profileSvc, translator, validate, logger)
	paymentHandler := handler.NewPaymentHandler(purchaseSvc, validate, logger)
	contactHandler := handler.NewContactHandler(contactSvc, translator, validate, logger)

	authMiddleware := middleware.AuthMiddleware(jwtSecret, logger)
	optionalAuthMiddleware := middleware.OptionalAuthMiddleware(jwtSecret)

	apiV1Mux := http.NewServeMux()
	userHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	planHandler.RegisterRoutes(apiV1Mux)
	lessonHandler.RegisterRoutes(apiV1Mux, optionalAuthMiddleware)
	quizHandler.RegisterRoutes(apiV1Mux, optionalAuthMiddleware)
	paymentHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	contactHandler.RegisterRoutes(apiV1Mux, optionalAuthMiddleware)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger, c.Handler(mux)), pool, nil
}

func appendDSNParam(dsn, param string) string {
	separator := " "
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		separator = "?"
		if strings.Contains(dsn, "?") {
			separator = "&"
		}
	}
	return dsn + separator + param
}

// removeDisableGzip works around signature errors with some
// S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
