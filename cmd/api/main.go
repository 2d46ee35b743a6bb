package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"supplierportal/internal/admin"
	"supplierportal/internal/audit"
	"supplierportal/internal/company"
	"supplierportal/internal/config"
	"supplierportal/internal/db"
	"supplierportal/internal/feedback"
	"supplierportal/internal/files"
	"supplierportal/internal/handlers"
	"supplierportal/internal/notifier"
	"supplierportal/internal/repository"
	"supplierportal/internal/tender"
)

func main() {
	cfg := config.Load() // .env

	// Logger JSON global - slog.Info/Error em qualquer lugar
	_ = config.InitLogger(cfg.LogLevel)
	slog.Info("starting", "port", cfg.Port, "mongo_db", cfg.MongoDB)

	// HOOK: admin job (one-off)
	task := flag.String("task", "", "admin task: seed")
	flag.Parse()
	if *task != "" {
		switch *task {
		case "seed":
			// conecta somente o necessário para o seed
			client, err := db.NewMongoClient(cfg.MongoURI)
			if err != nil {
				slog.Error("mongo_connect_error", "err", err)
				os.Exit(1)
			}
			defer func() { _ = client.Disconnect(context.Background()) }()

			repo := repository.NewCompanyRepository(client.Database(cfg.MongoDB))
			if err := admin.SeedSuppliers(context.Background(), repo, slog.Default()); err != nil {
				slog.Error("seed_failed", "err", err)
				os.Exit(1)
			}
			slog.Info("seed_done")
			return // encerra sem subir HTTP
		default:
			slog.Error("unknown_admin_task", "task", *task)
			os.Exit(2)
		}
	}

	client, err := db.NewMongoClient(cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect error: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	database := client.Database(cfg.MongoDB)

	// repositórios
	companies := repository.NewCompanyRepository(database)
	blocked := repository.NewBlockedCompanyRepository(database)
	qualifications := repository.NewQualificationRepository(database)
	dueDiligences := repository.NewDueDiligenceRepository(database)
	tenders := repository.NewTenderRepository(database)
	tenderResponses := repository.NewTenderResponseRepository(database)
	messages := repository.NewTenderMessageRepository(database)
	audits := repository.NewAuditRepository(database)
	auditResponses := repository.NewAuditResponseRepository(database)
	physicalAudits := repository.NewPhysicalAuditRepository(database)
	feedbacks := repository.NewFeedbackRepository(database)
	feedbackResponses := repository.NewFeedbackResponseRepository(database)
	configs := repository.NewConfigRepository(database)

	{
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		for _, ensure := range []func(context.Context) error{
			companies.EnsureIndexes,
			tenderResponses.EnsureIndexes,
			auditResponses.EnsureIndexes,
			feedbackResponses.EnsureIndexes,
		} {
			if err := ensure(ctx); err != nil {
				log.Fatalf("ensure indexes error: %v", err)
			}
		}
	}

	// publisher (Rabbit)
	pub, err := notifier.NewRabbitNotifier(cfg.RabbitURI, cfg.RabbitQueue)
	if err != nil {
		log.Fatalf("rabbitmq connect error: %v", err)
	}
	defer pub.Close()

	portalCfg, err := configs.Get(context.Background())
	if err != nil {
		log.Fatalf("portal config load error: %v", err)
	}

	fanout := &notifier.Fanout{
		Companies: companies,
		Blocked:   blocked,
		Notifier:  pub,
		Cfg:       portalCfg,
		Log:       slog.Default(),
	}

	// serviços
	companySvc := company.NewService(companies, blocked, qualifications, dueDiligences, slog.Default())
	tenderSvc := tender.NewService(tenders, tenderResponses, companies, messages, fanout, slog.Default())
	auditSvc := audit.NewService(audits, auditResponses, physicalAudits, slog.Default())
	feedbackSvc := feedback.NewService(feedbacks, feedbackResponses, slog.Default())
	authorizer := &files.Authorizer{Messages: messages, Responses: tenderResponses, Log: slog.Default()}

	mux := handlers.NewRouter(
		handlers.NewCompanyHandler(companySvc),
		handlers.NewTenderHandler(tenderSvc),
		handlers.NewAuditHandler(auditSvc),
		handlers.NewFeedbackHandler(feedbackSvc),
		handlers.NewFileHandler(authorizer),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           logMiddleware(mux),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("graceful shutdown error", "err", err)
	}
}

func logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("http_request",
			"method", r.Method, "path", r.URL.Path,
			"duration", fmtDuration(time.Since(start)),
		)
	})
}

func fmtDuration(d time.Duration) string {
	return fmt.Sprintf("%dms", d.Milliseconds())
}
