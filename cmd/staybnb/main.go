package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"staybnb/internal/app/commands"
	bookingapp "staybnb/internal/app/handlers/booking"
	favoriteapp "staybnb/internal/app/handlers/favorites"
	hostapp "staybnb/internal/app/handlers/hostops"
	listingapp "staybnb/internal/app/handlers/listings"
	reviewapp "staybnb/internal/app/handlers/reviews"
	"staybnb/internal/app/middleware"
	appoutbox "staybnb/internal/app/outbox"
	"staybnb/internal/app/policies"
	"staybnb/internal/app/queries"
	authsvc "staybnb/internal/app/services/auth"
	"staybnb/internal/app/uow"
	domainauth "staybnb/internal/domain/auth"
	domainuser "staybnb/internal/domain/user"
	kafkabroker "staybnb/internal/infra/broker/kafka"
	"staybnb/internal/infra/config"
	mongodb "staybnb/internal/infra/db/mongo"
	ginserver "staybnb/internal/infra/http/gin"
	"staybnb/internal/infra/obs"
	infraoutbox "staybnb/internal/infra/outbox"
	"staybnb/internal/infra/security"
	"staybnb/internal/infra/storage/memory"
	"staybnb/internal/infra/storage/s3"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	app, err := buildApplication(ctx, cfg, logger)
	if err != nil {
		logger.Error("application bootstrap failed", "error", err)
		os.Exit(1)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{
		Checks: app.readiness,
	}, app.handlers)

	if app.relay != nil {
		go func() {
			if err := app.relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("outbox relay stopped", "error", err)
			}
		}()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		if app.closeProducer != nil {
			app.closeProducer()
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers      ginserver.Handlers
	readiness     map[string]obs.ReadinessCheck
	relay         *infraoutbox.Worker
	closeProducer func()
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger) (application, error) {
	var (
		uowFactory  uow.UoWFactory
		users       domainuser.Repository
		sessions    domainauth.SessionStore
		eventSink   appoutbox.Outbox
		eventSource infraoutbox.EventSource

		readiness = map[string]obs.ReadinessCheck{}
	)

	switch cfg.StorageMode {
	case "mongo":
		client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return application{}, err
		}
		if err := client.EnsureIndexes(ctx); err != nil {
			return application{}, err
		}
		users = mongodb.NewUserRepository(client.DB)
		sessions = mongodb.NewSessionStore(client.DB)
		store := infraoutbox.NewStore(client.DB)
		eventSink = store
		eventSource = store
		uowFactory = mongodb.Factory{
			DB:            client.DB,
			BookingRepo:   mongodb.NewBookingRepository(client.DB),
			ListingsRepo:  mongodb.NewListingRepository(client.DB),
			UsersRepo:     users,
			ReviewsRepo:   mongodb.NewReviewRepository(client.DB),
			FavoritesRepo: mongodb.NewFavoriteRepository(client.DB),
		}
		readiness["mongo"] = client.Ping
	default:
		memUsers := memory.NewUserRepository()
		users = memUsers
		sessions = memory.NewSessionStore()
		box := memory.NewOutbox()
		eventSink = box
		eventSource = box
		uowFactory = memory.Factory{
			BookingRepo:   memory.NewBookingRepository(),
			ListingsRepo:  memory.NewListingRepository(),
			UsersRepo:     memUsers,
			ReviewsRepo:   memory.NewReviewRepository(),
			FavoritesRepo: memory.NewFavoriteRepository(),
		}
	}

	authService := &authsvc.Service{
		Users:      users,
		Sessions:   sessions,
		Passwords:  security.BcryptHasher{},
		Tokens:     security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	var photos policies.PhotoStorage = s3.NoopUploader{}
	if uploader, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger); err != nil {
		logger.Warn("photo storage unavailable", "error", err)
	} else {
		photos = uploader
	}

	encoder := appoutbox.JSONEventEncoder{}
	commandBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()

	listingLocks := bookingapp.NewListingLocks()
	createHandler := &bookingapp.CreateBookingHandler{
		UoWFactory: uowFactory,
		Locks:      listingLocks,
		Outbox:     eventSink,
		Encoder:    encoder,
		Logger:     logger,
	}
	commands.RegisterHandler(commandBus, bookingapp.CreateBookingCommand{}.Key(), createHandler)
	commands.RegisterHandler(commandBus, bookingapp.BookListingCommand{}.Key(), bookingapp.BookListingHandler(createHandler))
	commands.RegisterHandler(commandBus, bookingapp.CancelBookingCommand{}.Key(), &bookingapp.CancelBookingHandler{
		Outbox:  eventSink,
		Encoder: encoder,
		Logger:  logger,
	})

	decideHandler := &hostapp.DecideBookingHandler{Outbox: eventSink, Encoder: encoder, Logger: logger}
	commands.RegisterHandler(commandBus, hostapp.ApproveBookingCommand{}.Key(), hostapp.ApproveHandler(decideHandler))
	commands.RegisterHandler(commandBus, hostapp.RejectBookingCommand{}.Key(), hostapp.RejectHandler(decideHandler))
	commands.RegisterHandler(commandBus, hostapp.UpdateBookingStatusCommand{}.Key(), &hostapp.UpdateBookingStatusHandler{Logger: logger})

	hostListings := &listingapp.HostListingHandler{Currency: cfg.Currency, Logger: logger}
	commands.RegisterHandler(commandBus, listingapp.CreateListingCommand{}.Key(), listingapp.CreateHandler(hostListings))
	commands.RegisterHandler(commandBus, listingapp.UpdateListingCommand{}.Key(), listingapp.UpdateHandler(hostListings))
	commands.RegisterHandler(commandBus, listingapp.DeleteListingCommand{}.Key(), listingapp.DeleteHandler(hostListings))
	commands.RegisterHandler(commandBus, listingapp.SetListingVisibilityCommand{}.Key(), listingapp.SetVisibilityHandler(hostListings))
	commands.RegisterHandler(commandBus, listingapp.UploadListingPhotoCommand{}.Key(), &listingapp.UploadListingPhotoHandler{Photos: photos, Logger: logger})
	commands.RegisterHandler(commandBus, listingapp.ModerateListingCommand{}.Key(), &listingapp.ModerateListingHandler{Logger: logger})
	commands.RegisterHandler(commandBus, listingapp.AdminDeleteListingCommand{}.Key(), &listingapp.AdminDeleteListingHandler{Logger: logger})

	commands.RegisterHandler(commandBus, reviewapp.SubmitReviewCommand{}.Key(), &reviewapp.SubmitReviewHandler{Logger: logger})
	commands.RegisterHandler(commandBus, reviewapp.DeleteReviewCommand{}.Key(), &reviewapp.DeleteReviewHandler{Logger: logger})
	commands.RegisterHandler(commandBus, favoriteapp.AddFavoriteCommand{}.Key(), &favoriteapp.AddFavoriteHandler{Logger: logger})
	commands.RegisterHandler(commandBus, favoriteapp.RemoveFavoriteCommand{}.Key(), &favoriteapp.RemoveFavoriteHandler{Logger: logger})

	queries.RegisterHandler(queryBus, bookingapp.GetBookingQuery{}.Key(), &bookingapp.GetBookingHandler{UoWFactory: uowFactory, Logger: logger})
	queries.RegisterHandler(queryBus, bookingapp.ListUserBookingsQuery{}.Key(), &bookingapp.ListUserBookingsHandler{UoWFactory: uowFactory, Logger: logger})
	queries.RegisterHandler(queryBus, bookingapp.CheckAvailabilityQuery{}.Key(), &bookingapp.CheckAvailabilityHandler{UoWFactory: uowFactory, Logger: logger})
	queries.RegisterHandler(queryBus, hostapp.ListHostBookingsQuery{}.Key(), &hostapp.ListHostBookingsHandler{UoWFactory: uowFactory, Logger: logger})
	queries.RegisterHandler(queryBus, hostapp.HostEarningsQuery{}.Key(), &hostapp.HostEarningsHandler{UoWFactory: uowFactory, Logger: logger})
	queries.RegisterHandler(queryBus, listingapp.ListHostListingsQuery{}.Key(), &listingapp.ListHostListingsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, listingapp.ListAllListingsQuery{}.Key(), &listingapp.ListAllListingsHandler{UoWFactory: uowFactory})
	queries.RegisterHandler(queryBus, reviewapp.ListListingReviewsQuery{}.Key(), &reviewapp.ListListingReviewsHandler{UoWFactory: uowFactory, Logger: logger})
	queries.RegisterHandler(queryBus, reviewapp.ListUserReviewsQuery{}.Key(), &reviewapp.ListUserReviewsHandler{UoWFactory: uowFactory, Logger: logger})
	queries.RegisterHandler(queryBus, reviewapp.ListAllReviewsQuery{}.Key(), &reviewapp.ListAllReviewsHandler{UoWFactory: uowFactory, Logger: logger})
	queries.RegisterHandler(queryBus, favoriteapp.ListUserFavoritesQuery{}.Key(), &favoriteapp.ListUserFavoritesHandler{UoWFactory: uowFactory, Logger: logger})

	commandBusWithMiddleware := middleware.ChainCommands(
		commandBus,
		middleware.ListingLock(listingLocks.AcquireKey),
		middleware.Transaction(uowFactory, nil),
	)
	queryBusWithMiddleware := middleware.ChainQueries(queryBus)

	app := application{
		handlers: ginserver.Handlers{
			Auth: ginserver.AuthHandler{Service: authService, Logger: logger},
			Booking: ginserver.BookingHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Logger:   logger,
			},
			Review: ginserver.ReviewHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Logger:   logger,
			},
			Favorite: ginserver.FavoriteHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Logger:   logger,
			},
			HostBooking: ginserver.HostBookingHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Logger:   logger,
			},
			HostListing: ginserver.HostListingHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Logger:   logger,
			},
			Admin: ginserver.AdminHandler{
				Commands: commandBusWithMiddleware,
				Queries:  queryBusWithMiddleware,
				Logger:   logger,
			},
			AuthMiddleware: ginserver.AuthMiddleware{Service: authService, Logger: logger}.Handle,
		},
		readiness: readiness,
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafkabroker.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return application{}, err
		}
		app.relay = &infraoutbox.Worker{
			Store:       eventSource,
			Producer:    producer,
			Interval:    cfg.OutboxPollInterval,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Backoff:     cfg.RetryBackoff,
		}
		app.closeProducer = func() { _ = producer.Close() }
	}

	return app, nil
}
