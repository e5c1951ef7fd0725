package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/travelbooking/config"
	"github.com/Domenick1991/travelbooking/internal/auth"
	"github.com/Domenick1991/travelbooking/internal/bootstrap"
	"github.com/Domenick1991/travelbooking/internal/cache"
	"github.com/Domenick1991/travelbooking/internal/kafka"
	"github.com/Domenick1991/travelbooking/internal/razorpay"
	"github.com/Domenick1991/travelbooking/internal/repository"
	"github.com/Domenick1991/travelbooking/internal/service/flights"
	"github.com/Domenick1991/travelbooking/internal/service/hotels"
	"github.com/Domenick1991/travelbooking/internal/service/payments"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	razorpayClient := razorpay.NewClient(razorpay.ClientConfig{
		BaseURL:   cfg.Razorpay.BaseURL,
		KeyID:     cfg.Razorpay.KeyID,
		KeySecret: cfg.Razorpay.KeySecret,
	})

	flightRepo := repository.NewFlightRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	hotelRepo := repository.NewHotelRepository(pool)
	hotelBookingRepo := repository.NewHotelBookingRepository(pool)
	flightBookingRepo := repository.NewFlightBookingRepository(pool)

	hotelService := hotels.NewHotelService(
		hotelBookingRepo,
		roomRepo,
		hotelRepo,
		razorpayClient,
		producer,
		cfg.Kafka.BookingEventsTopic,
		cfg.Razorpay.Currency,
		cfg.Razorpay.KeySecret,
		logger,
	)
	flightService := flights.NewFlightService(
		flightRepo,
		flightBookingRepo,
		redisCache,
		razorpayClient,
		producer,
		cfg.Kafka.BookingEventsTopic,
		cfg.Razorpay.Currency,
		cfg.Razorpay.KeySecret,
		logger,
	)
	reconciler := payments.NewReconciler(hotelService, flightService, cfg.Razorpay.WebhookSecret, logger)

	deps := bootstrap.Deps{
		Hotels:     hotelService,
		Flights:    flightService,
		Reconciler: reconciler,
		Guard:      redisCache,
		Verifier:   auth.NewVerifier(cfg.Auth.JWTSecret),
		Logger:     logger,
	}

	if err := bootstrap.Run(ctx, cfg, deps); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
