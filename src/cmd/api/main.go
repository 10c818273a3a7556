package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/waterfire-source/Mycalinks-sub008/src/internal/application/common"
	consignmentapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/consignment"
	customerapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/customer"
	ecapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/ec"
	inventoryapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/inventory"
	pointsapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/points"
	registerapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/register"
	reservationapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/reservation"
	shippingapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/shipping"
	storeapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/store"
	transactionapp "github.com/waterfire-source/Mycalinks-sub008/src/internal/application/transaction"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/config"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/domain/shared"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/infrastructure/cache"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/infrastructure/httpapi"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/infrastructure/messaging"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/infrastructure/observability"
	"github.com/waterfire-source/Mycalinks-sub008/src/internal/infrastructure/persistence"
)

func main() {
	cfg := config.Load()

	logger, err := observability.NewLogger(cfg.Environment)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting POS backoffice API",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
		zap.String("db_path", cfg.DBPath),
		zap.Bool("kafka_enabled", cfg.KafkaEnabled),
		zap.Bool("redis_enabled", cfg.RedisEnabled),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := observability.NewMetrics()

	// ===========================
	// 資料庫與事務
	// ===========================
	logLevel := gormlogger.Warn
	if cfg.IsProduction() {
		logLevel = gormlogger.Error
	}
	db, err := persistence.OpenSQLite(cfg.DBPath, logLevel)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}

	txManager := persistence.NewGORMTransactionManager(db,
		persistence.WithMaxRetries(cfg.TxMaxRetries),
		persistence.WithRetryBaseDelay(cfg.TxRetryBaseDelay),
		persistence.WithRetryMaxDelay(cfg.TxRetryMaxDelay),
		persistence.WithLogger(logger),
		persistence.WithRetryObserver(metrics),
	)

	storeRepo := persistence.NewStoreRepository(db)
	methodRepo := persistence.NewMethodRepository(db)
	productRepo := persistence.NewProductRepository(db)
	openingRepo := persistence.NewPackOpeningRepository(db)
	historyRepo := persistence.NewStockHistoryRepository(db)
	customerRepo := persistence.NewCustomerRepository(db)
	accountRepo := persistence.NewPointsAccountRepository(db)
	registerRepo := persistence.NewRegisterRepository(db)
	transactionRepo := persistence.NewTransactionRepository(db)
	reservationRepo := persistence.NewReservationRepository(db)
	clientRepo := persistence.NewClientRepository(db)
	saleRepo := persistence.NewSaleRepository(db)
	cartRepo := persistence.NewCartRepository(db)
	orderRepo := persistence.NewOrderRepository(db)

	// ===========================
	// 快取與事件
	// ===========================
	methodCache := cache.NewMethodCache(cfg.RedisEnabled, cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, cfg.ShippingCacheTTL, logger)
	if closer, ok := methodCache.(io.Closer); ok {
		defer closer.Close()
	}

	publisher := messaging.NewPublisher(cfg.KafkaEnabled, messaging.KafkaConfig{
		Brokers:        cfg.KafkaBrokers,
		ClientID:       cfg.KafkaClientID,
		TopicInventory: cfg.KafkaTopicInventory,
		TopicSales:     cfg.KafkaTopicSales,
		Retries:        cfg.KafkaRetries,
	}, logger, messaging.WithRecorder(metrics))
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close event publisher", zap.Error(err))
		}
	}()
	dispatcher := common.NewEventDispatcher(publisher, logger)

	// ===========================
	// Use Cases
	// ===========================
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("Unknown timezone, falling back to JST", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.FixedZone("JST", 9*60*60)
	}
	clock := shared.SystemClock{Location: location}
	candidates := shippingapp.NewCandidateService(methodRepo, methodCache)
	storeUC := storeapp.NewStoreUseCase(storeRepo, txManager, clock)

	txRepos := transactionapp.Repositories{
		Stores:       storeRepo,
		Transactions: transactionRepo,
		Products:     productRepo,
		Histories:    historyRepo,
		Customers:    customerRepo,
		Points:       accountRepo,
		Registers:    registerRepo,
		Clients:      clientRepo,
		Sales:        saleRepo,
	}
	ecRepos := ecapp.Repositories{
		Stores:    storeRepo,
		Carts:     cartRepo,
		Orders:    orderRepo,
		Products:  productRepo,
		Histories: historyRepo,
		Points:    accountRepo,
	}

	uc := httpapi.UseCases{
		Stores:             storeUC,
		ShippingMethods:    shippingapp.NewCreateMethodUseCase(storeRepo, methodRepo, candidates, txManager, clock),
		UpdateMethods:      shippingapp.NewUpdateMethodUseCase(methodRepo, candidates, txManager, clock),
		DeleteMethods:      shippingapp.NewDeleteMethodUseCase(methodRepo, candidates, txManager, clock),
		ShippingCandidates: shippingapp.NewShippingCandidatesUseCase(storeRepo, candidates, clock),

		Products:     inventoryapp.NewCreateProductUseCase(storeRepo, productRepo, historyRepo, clientRepo, txManager, clock),
		PackReleases: inventoryapp.NewReleaseOriginalPackUseCase(productRepo, openingRepo, historyRepo, txManager, dispatcher, metrics, clock),
		Bundles:      inventoryapp.NewBundleUseCase(productRepo, historyRepo, txManager, dispatcher, clock),
		StockAdjusts: inventoryapp.NewAdjustStockUseCase(productRepo, historyRepo, txManager, dispatcher, clock),

		SaveDraft:   transactionapp.NewSaveDraftUseCase(txRepos, txManager, clock),
		Finalize:    transactionapp.NewFinalizeUseCase(txRepos, txManager, dispatcher, metrics, clock),
		CancelDraft: transactionapp.NewCancelUseCase(transactionRepo, txManager, clock),

		CreateRegister: registerapp.NewCreateRegisterUseCase(storeRepo, registerRepo, txManager, clock),
		Settle:         registerapp.NewSettleUseCase(registerRepo, txManager, clock),
		Cash:           registerapp.NewCashUseCase(registerRepo, txManager, clock),
		Movements:      registerapp.NewListMovementsUseCase(registerRepo),

		Customers:     customerapp.NewRegisterCustomerUseCase(customerRepo, accountRepo, txManager, dispatcher, clock),
		PointsAccount: pointsapp.NewCreatePointsAccountUseCase(accountRepo, customerRepo, txManager, dispatcher, clock),
		PointsBalance: pointsapp.NewGetPointsBalanceUseCase(accountRepo),
		PointsAdjust:  pointsapp.NewAdjustPointsUseCase(accountRepo, txManager, dispatcher, clock),

		Reservations: reservationapp.NewReservationUseCase(reservationRepo, productRepo, historyRepo, customerRepo, txManager, clock),
		Clients:      consignmentapp.NewCreateClientUseCase(storeRepo, clientRepo, txManager, clock),
		Payouts:      consignmentapp.NewPayoutUseCase(clientRepo, saleRepo),

		Carts:    ecapp.NewCartUseCase(storeRepo, cartRepo, productRepo, customerRepo, candidates, txManager, clock),
		Checkout: ecapp.NewCheckoutUseCase(ecRepos, candidates, txManager, dispatcher, metrics, clock),
	}

	router := httpapi.NewRouter(httpapi.NewHandler(uc, logger), metrics)

	// ===========================
	// HTTP Server
	// ===========================
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
