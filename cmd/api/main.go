package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"gigmarket/internal/adapter/api"
	"gigmarket/internal/adapter/api/handler"
	apimiddleware "gigmarket/internal/adapter/api/middleware"
	"gigmarket/internal/adapter/api/router"
	"gigmarket/internal/adapter/repository"
	"gigmarket/internal/infrastructure/firebase"
	"gigmarket/internal/infrastructure/websocket"
	"gigmarket/internal/usecase"
	"gigmarket/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption

	serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON")
	if serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./service-account.json"
		}

		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}

		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
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

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	gigRepo := repository.NewFirestoreGigRepository(firestoreClient)
	orderRepo := repository.NewFirestoreOrderRepository(firestoreClient)
	reviewRepo := repository.NewFirestoreReviewRepository(firestoreClient)
	messageRepo := repository.NewFirestoreMessageRepository(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)
	handler.SetupHealthHandler(firebaseAuthClient)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	userUseCase := usecase.NewUserUseCase(userRepo, firebaseAuthClient)
	gigUseCase := usecase.NewGigUseCase(gigRepo, userRepo)
	orderUseCase := usecase.NewOrderUseCase(orderRepo, gigRepo)
	reviewUseCase := usecase.NewReviewUseCase(reviewRepo, gigRepo, orderRepo)
	chatUseCase := usecase.NewChatUseCase(orderRepo, messageRepo, wsManager)

	// The manager dispatches join_chat and send_message frames back into
	// the chat use case.
	wsManager.SetChatService(chatUseCase)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.CORSOrigin},
	}))

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	router.Setup(e, router.Handlers{
		User:      handler.NewUserHandler(userUseCase),
		Gig:       handler.NewGigHandler(gigUseCase),
		Order:     handler.NewOrderHandler(orderUseCase),
		Chat:      handler.NewChatHandler(chatUseCase),
		Review:    handler.NewReviewHandler(reviewUseCase),
		Admin:     handler.NewAdminHandler(userUseCase, gigUseCase, orderUseCase),
		WebSocket: handler.NewWebSocketHandler(wsManager, authMiddleware),
	}, authMiddleware, adminMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
