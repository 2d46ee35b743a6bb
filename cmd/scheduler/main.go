package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"supplierportal/internal/config"
	"supplierportal/internal/db"
	"supplierportal/internal/feedback"
	"supplierportal/internal/notifier"
	"supplierportal/internal/repository"
	"supplierportal/internal/tender"
)

// O agendador é o único dono das transições por tempo: abrir rascunho
// vencido, fechar tender no prazo, fechar janela de feedback. Os updates
// condicionais no Mongo tornam seguro rodar mais de uma réplica.
func main() {
	cfg := config.LoadSchedulerConfig()

	_ = config.InitLogger(cfg.LogLevel)
	log_ := slog.Default().With("svc", "scheduler")

	client, err := db.NewMongoClient(cfg.MongoURI)
	if err != nil {
		log.Fatalf("mongo connect error: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	database := client.Database(cfg.MongoDB)

	pub, err := notifier.NewRabbitNotifier(cfg.RabbitURI, cfg.RabbitQueue)
	if err != nil {
		log.Fatalf("rabbitmq connect error: %v", err)
	}
	defer pub.Close()

	companies := repository.NewCompanyRepository(database)
	blocked := repository.NewBlockedCompanyRepository(database)
	tenders := repository.NewTenderRepository(database)
	tenderResponses := repository.NewTenderResponseRepository(database)
	messages := repository.NewTenderMessageRepository(database)
	feedbacks := repository.NewFeedbackRepository(database)
	feedbackResponses := repository.NewFeedbackResponseRepository(database)
	configs := repository.NewConfigRepository(database)

	portalCfg, err := configs.Get(context.Background())
	if err != nil {
		log.Fatalf("portal config load error: %v", err)
	}

	fanout := &notifier.Fanout{
		Companies: companies,
		Blocked:   blocked,
		Notifier:  pub,
		Cfg:       portalCfg,
		Log:       log_,
	}
	tenderSvc := tender.NewService(tenders, tenderResponses, companies, messages, fanout, log_)
	feedbackSvc := feedback.NewService(feedbacks, feedbackResponses, log_)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	log_.Info("scheduler_started", "interval", cfg.Interval)
	tick(tenderSvc, feedbackSvc, log_) // primeira passada imediata

	for {
		select {
		case <-ticker.C:
			tick(tenderSvc, feedbackSvc, log_)
		case <-stop:
			log_.Info("scheduler_stopped")
			return
		}
	}
}

func tick(tenderSvc *tender.Service, feedbackSvc *feedback.Service, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	now := time.Now()

	if ids, err := tenderSvc.PublishDrafts(ctx, now); err != nil {
		log.Error("publish_drafts_error", "err", err)
	} else if len(ids) > 0 {
		log.Info("publish_drafts_done", "ids", ids)
	}

	if _, err := tenderSvc.CloseOpens(ctx, now); err != nil {
		log.Error("close_tenders_error", "err", err)
	}

	if _, err := feedbackSvc.CloseOpens(ctx, now); err != nil {
		log.Error("close_feedbacks_error", "err", err)
	}
}
