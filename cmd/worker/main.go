package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/cache"
	"github.com/Domenick1991/travelbooking/internal/email"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/Domenick1991/travelbooking/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)

	flightRepo := repository.NewFlightRepository(pool)
	flightBookingRepo := repository.NewFlightBookingRepository(pool)
	flightService := flights.NewFlightService(
		flightRepo,
		flightBookingRepo,
		redisCache,
		nil,
		nil,
		"",
		cfg.Razorpay.Currency,
		cfg.Razorpay.KeySecret,
		logger,
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic, logger)
	defer consumer.Close()

	emailSender := email.NewSender(logger)

	go func() {
		if err := consumer.Consume(ctx, emailSender.Send); err != nil {
			logger.WithError(err).Error("consumer stopped")
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.OversellSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-sweepTicker.C:
			overbooked, err := flightService.AuditOverbooked(ctx)
			if err != nil {
				logger.WithError(err).Error("oversell sweep failed")
				continue
			}
			for _, f := range overbooked {
				logger.WithFields(logrus.Fields{
					"flight_id":       f.FlightID,
					"flight_number":   f.FlightNumber,
					"total_seats":     f.TotalSeats,
					"paid_passengers": f.PaidPassengers,
				}).Warn("flight overbooked")
			}
		case s := <-sig:
			logger.Infof("received signal %v, shutting down", s)
			return
		}
	}
}
