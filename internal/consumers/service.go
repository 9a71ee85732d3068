package consumers

import (
	"context"
	"log/slog"

	"ovation/internal/config"
	"ovation/internal/database"
	"ovation/internal/messaging"
	"ovation/internal/repository"
	"ovation/internal/ticketcode"
)

// ConsumerService runs the asynchronous side of the system: ticket code
// issuance off the booking stream. Issuance failures never touch the
// booking itself; the retry job picks up anything left pending.
type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	repos    *repository.Repositories
	handlers *Handlers
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		return nil, err
	}

	repos := repository.NewRepositories(db)

	var issuer ticketcode.Issuer
	if cfg.Issuer.BaseURL != "" {
		issuer = ticketcode.NewHTTPIssuer(cfg.Issuer)
	} else {
		issuer = ticketcode.NewLocalIssuer()
	}

	handlers := NewHandlers(repos, natsClient, issuer)

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		repos:    repos,
		handlers: handlers,
	}, nil
}

// Repos exposes the repositories for background jobs
func (cs *ConsumerService) Repos() *repository.Repositories {
	return cs.repos
}

// NATS exposes the messaging client for background jobs
func (cs *ConsumerService) NATS() *messaging.NATSClient {
	return cs.nats
}

// Handlers exposes the message handlers for background jobs
func (cs *ConsumerService) Handlers() *Handlers {
	return cs.handlers
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	_, err := cs.nats.SubscribeQueue("booking.confirmed", "issuance", cs.handlers.HandleBookingConfirmed)
	if err != nil {
		return err
	}

	_, err = cs.nats.SubscribeQueue("booking.cancelled", "issuance", cs.handlers.HandleBookingCancelled)
	if err != nil {
		return err
	}

	slog.Info("All consumers started successfully")
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
