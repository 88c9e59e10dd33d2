package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/marketplace-service/internal/api/http"
	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/observability"
	"github.com/spec-kit/marketplace-service/internal/persistence"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/service"
	"github.com/spec-kit/marketplace-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	verificationRepo := repository.NewVerificationRepository(pool)
	restaurantRepo := repository.NewRestaurantRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	dishRepo := repository.NewDishRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)

	userService := service.NewUserService(*cfg, service.UserDependencies{
		UserRepo:         userRepo,
		VerificationRepo: verificationRepo,
		Dispatcher:       dispatcher,
	})
	restaurantService := service.NewRestaurantService(service.RestaurantDependencies{
		RestaurantRepo: restaurantRepo,
		CategoryRepo:   categoryRepo,
		DishRepo:       dishRepo,
	})
	orderService := service.NewOrderService(service.OrderDependencies{
		OrderRepo:      orderRepo,
		RestaurantRepo: restaurantRepo,
		DishRepo:       dishRepo,
		Dispatcher:     dispatcher,
	})
	paymentService := service.NewPaymentService(*cfg, service.PaymentDependencies{
		PaymentRepo:    paymentRepo,
		RestaurantRepo: restaurantRepo,
		Dispatcher:     dispatcher,
	})
	mailService := service.NewMailService(cfg.Mail, dispatcher, logger)

	worker.StartMailWorker(mailService)

	sweeper := worker.NewPromotionSweeper(restaurantRepo, cfg.Promotion.SweepInterval(), logger, metrics, dispatcher)
	sweeper.Start(ctx)

	resolver := auth.NewIdentityResolver(userService.TokenManager(), userRepo)
	contextMiddleware := auth.NewContextMiddleware(resolver)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Users:             handlers.NewUsersHandler(userService),
		Restaurants:       handlers.NewRestaurantsHandler(restaurantService),
		Orders:            handlers.NewOrdersHandler(orderService),
		Payments:          handlers.NewPaymentsHandler(paymentService),
		ContextMiddleware: contextMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
