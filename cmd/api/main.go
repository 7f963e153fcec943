package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"tukarlapak/internal/adapter/api"
	"tukarlapak/internal/adapter/api/handler"
	apimiddleware "tukarlapak/internal/adapter/api/middleware"
	"tukarlapak/internal/adapter/api/router"
	"tukarlapak/internal/adapter/repository"
	"tukarlapak/internal/infrastructure/storage"
	"tukarlapak/internal/usecase"
	"tukarlapak/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption

	// Service account from environment variable (production) or file path
	// (local development).
	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
	if serviceAccountJSON != "" {
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		if serviceAccountPath == "" {
			log.Fatalf("FIREBASE_SERVICE_ACCOUNT_JSON or FIREBASE_SERVICE_ACCOUNT_PATH is required")
		}
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.FirebaseProject, serviceAccountPath)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	disputeRepo := repository.NewFirestoreDisputeRepository(firestoreClient)
	orderRepo := repository.NewFirestoreOrderRepository(firestoreClient)
	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	actionLogRepo := repository.NewFirestoreActionLogRepository(firestoreClient)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	txRunner := repository.NewFirestoreTxRunner(firestoreClient)

	notifier := usecase.NewNotifier(notificationRepo, userRepo)
	evaluator := usecase.NewAbuseSignalEvaluator(disputeRepo, cfg.SuspiciousClientThreshold, cfg.SuspiciousSellerThreshold)
	sweeper := usecase.NewDeadlineSweeper(disputeRepo, actionLogRepo, notifier)
	proofUseCase := usecase.NewProofUploadUseCase(storageClient)
	disputeUseCase := usecase.NewDisputeUseCase(
		disputeRepo,
		orderRepo,
		userRepo,
		actionLogRepo,
		chatRepo,
		txRunner,
		evaluator,
		sweeper,
		notifier,
		cfg,
	)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	disputeHandler := handler.NewDisputeHandler(disputeUseCase, proofUseCase)

	router.Setup(e, authMiddleware, adminMiddleware, disputeHandler)

	// Escalation correctness never depends on this cadence; every dispute
	// request also sweeps inline.
	sweeper.StartJob(ctx)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
