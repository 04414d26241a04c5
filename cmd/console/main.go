package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xavierca1/clinica-console/internal/config"
	"github.com/xavierca1/clinica-console/internal/infra/database"
	"github.com/xavierca1/clinica-console/internal/infra/http/handlers"
	metrics "github.com/xavierca1/clinica-console/internal/infra/http/middleware"
	"github.com/xavierca1/clinica-console/internal/infra/integration/clinica"
	"github.com/xavierca1/clinica-console/internal/infra/mail"
	"github.com/xavierca1/clinica-console/internal/infra/queue"
	"github.com/xavierca1/clinica-console/internal/infra/session"
	"github.com/xavierca1/clinica-console/internal/infra/worker"
	"github.com/xavierca1/clinica-console/internal/logging"
	"github.com/xavierca1/clinica-console/internal/usecase"
	"github.com/xavierca1/clinica-console/internal/workspace"
)

// stores agrupa o backend de sessão escolhido e as conexões que o health check observa.
type stores struct {
	sessions session.Store
	db       *sql.DB
	rdb      *redis.Client
}

// workspaces anônimos (sem login) somem depois desse tempo parados
const anonymousIdle = 30 * time.Minute

func main() {
	logger, err := logging.New()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuração inválida", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Armazenamento de sessão
	st, err := openStores(ctx, cfg)
	if err != nil {
		logger.Fatal("falha ao abrir armazenamento de sessão", zap.String("store", cfg.SessionStore), zap.Error(err))
	}
	if st.db != nil {
		defer st.db.Close()
	}
	if st.rdb != nil {
		defer st.rdb.Close()
	}

	manager := workspace.NewManager(workspace.Config{
		ClinicAPIURL:           cfg.ClinicAPIURL,
		ClinicAPITimeout:       cfg.ClinicAPITimeout,
		SessionTTL:             cfg.SessionTTL,
		RegistrationCloseDelay: cfg.RegistrationCloseDelay,
	}, st.sessions, logger)

	// 2. Envio de recibo por e-mail (opcional)
	var (
		publisher queue.ReceiptPublisher
		amqpConn  *amqp.Connection
	)
	if cfg.ReceiptDeliveryEnabled() {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			logger.Fatal("falha ao conectar no RabbitMQ", zap.Error(err))
		}
		defer rabbitMQ.Close()

		amqpConn = rabbitMQ.Conn
		publisher = queue.NewProducer(rabbitMQ.Ch)
		startReceiptWorker(ctx, cfg, rabbitMQ, logger)
	} else {
		logger.Info("RABBITMQ_URL vazio, envio de recibo por e-mail desabilitado")
	}

	// 3. Limpeza de sessões
	sweeper := worker.NewSessionSweeper(st.sessions, manager, cfg.SessionSweepInterval, anonymousIdle, logger)
	go sweeper.Start(ctx)

	// 4. Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigin,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", handlers.SessionHeader},
		ExposedHeaders:   []string{handlers.SessionHeader, "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Handle("/metrics", promhttp.Handler())
	handlers.RegisterRoutes(r, handlers.Dependencies{
		Manager:      manager,
		Publisher:    publisher,
		Health:       handlers.NewHealthHandler(st.db, amqpConn, redisOrNil(st.rdb), cfg.ClinicAPIURL, manager),
		SecureCookie: cfg.CookieSecure,
		Logger:       logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("console da clínica no ar", zap.String("addr", srv.Addr), zap.String("clinic_api", cfg.ClinicAPIURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("servidor HTTP caiu", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("desligando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown incompleto", zap.Error(err))
	}
}

func openStores(ctx context.Context, cfg *config.Config) (stores, error) {
	switch cfg.SessionStore {
	case "postgres":
		db, err := database.NewDBConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			return stores{}, err
		}
		pg := session.NewPostgresStore(db)
		if err := pg.Migrate(ctx); err != nil {
			db.Close()
			return stores{}, err
		}
		return stores{sessions: pg, db: db}, nil

	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return stores{}, err
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return stores{}, err
		}
		return stores{sessions: session.NewRedisStore(rdb), rdb: rdb}, nil

	default:
		return stores{sessions: session.NewMemoryStore()}, nil
	}
}

// redisOrNil evita um Cmdable não-nil envolvendo ponteiro nil no health check.
func redisOrNil(rdb *redis.Client) redis.Cmdable {
	if rdb == nil {
		return nil
	}
	return rdb
}

// startReceiptWorker consome a fila de recibos com uma conta de serviço própria.
func startReceiptWorker(ctx context.Context, cfg *config.Config, rabbitMQ *queue.RabbitMQ, logger *zap.Logger) {
	auth := clinica.NewServiceAuthenticator(cfg.ClinicAPIURL,
		clinica.Credentials{Username: cfg.ServiceUser, Password: cfg.ServicePass},
		logger,
		clinica.WithTimeout(cfg.ClinicAPITimeout),
	)
	api := clinica.NewClient(cfg.ClinicAPIURL, auth,
		clinica.WithTimeout(cfg.ClinicAPITimeout),
		clinica.WithLogger(logger.Named("receipt-worker")),
		clinica.OnUnauthorized(func(context.Context) { auth.Invalidate() }),
	)
	sender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)

	deliver := usecase.NewDeliverReceiptUseCase(auth, api, sender, logger)
	w := queue.NewWorker(rabbitMQ.Ch, deliver, logger)

	go func() {
		if err := w.Start(ctx, queue.QueueName); err != nil {
			logger.Error("worker de recibos parou", zap.Error(err))
		}
	}()
}
