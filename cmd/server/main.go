package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/bilashs/StudyBuddy-Server/internal/ai"
	"github.com/bilashs/StudyBuddy-Server/internal/cache"
	"github.com/bilashs/StudyBuddy-Server/internal/config"
	"github.com/bilashs/StudyBuddy-Server/internal/database"
	"github.com/bilashs/StudyBuddy-Server/internal/handlers"
	"github.com/bilashs/StudyBuddy-Server/internal/jobs"
	"github.com/bilashs/StudyBuddy-Server/internal/repository"
	cronjobs "github.com/bilashs/StudyBuddy-Server/internal/scheduler"
	"github.com/bilashs/StudyBuddy-Server/internal/services"
	"github.com/bilashs/StudyBuddy-Server/pkg/logger"
	"github.com/bilashs/StudyBuddy-Server/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	previewCache, err := cache.NewPreviewCache(cfg.CacheDir)
	if err != nil {
		log.Fatalf("Preview cache init error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	chatRepo := repository.NewChatRepository(db)
	setRepo := repository.NewSetRepository(db)
	folderRepo := repository.NewFolderRepository(db)
	sessionRepo := repository.NewSessionRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo, cfg.BaseURL)
	relationshipService := services.NewRelationshipService(friendRepo, userRepo)
	chatService := services.NewChatService(chatRepo, userRepo, previewCache)
	setService := services.NewSetService(setRepo, folderRepo)
	sessionService := services.NewSessionService(sessionRepo)
	generator := ai.NewGenerator(cfg.OpenAIKey)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	friendHandler := handlers.NewFriendHandler(relationshipService)
	chatHandler := handlers.NewChatHandler(chatService)
	setHandler := handlers.NewSetHandler(setService)
	sessionHandler := handlers.NewSessionHandler(sessionService, setService)
	aiHandler := handlers.NewAIHandler(generator)
	liveHandler := handlers.NewLiveHandler(chatService, relationshipService, sessionService, cfg.JWTSecret)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Public user routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")
	router.HandleFunc("/users/verify", userHandler.VerifyEmailHandler).Methods("GET")

	// Password reset routes
	router.HandleFunc("/users/request-password-reset", userHandler.RequestPasswordResetHandler).Methods("POST")
	router.HandleFunc("/users/reset-password", userHandler.ResetPasswordHandler).Methods("POST")

	// Protected user routes (only authenticated users can access)
	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("/me", userHandler.UpdateProfileHandler).Methods("PATCH")
	protectedUserRoutes.HandleFunc("/me", userHandler.DeleteAccountHandler).Methods("DELETE")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")

	// Friend routes
	protectedFriendRoutes := router.PathPrefix("/friends").Subrouter()
	protectedFriendRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedFriendRoutes.HandleFunc("", friendHandler.GetFriendsHandler).Methods("GET")
	protectedFriendRoutes.HandleFunc("/search", friendHandler.SearchUsersHandler).Methods("GET")
	protectedFriendRoutes.HandleFunc("/requests", friendHandler.GetPendingRequestsHandler).Methods("GET")
	protectedFriendRoutes.HandleFunc("/notices", friendHandler.GetAcceptanceNoticesHandler).Methods("GET")
	protectedFriendRoutes.HandleFunc("/{id}/request", friendHandler.SendFriendRequestHandler).Methods("POST")
	protectedFriendRoutes.HandleFunc("/{id}/accept", friendHandler.AcceptFriendRequestHandler).Methods("POST")
	protectedFriendRoutes.HandleFunc("/{id}/decline", friendHandler.DeclineFriendRequestHandler).Methods("POST")
	protectedFriendRoutes.HandleFunc("/{id}/acknowledge", friendHandler.AcknowledgeAcceptanceHandler).Methods("POST")
	protectedFriendRoutes.HandleFunc("/{id}", friendHandler.RemoveFriendHandler).Methods("DELETE")

	// Chat routes
	protectedChatRoutes := router.PathPrefix("/chats").Subrouter()
	protectedChatRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedChatRoutes.HandleFunc("/previews", chatHandler.GetPreviewsHandler).Methods("GET")
	protectedChatRoutes.HandleFunc("/{id}/messages", chatHandler.SendMessageHandler).Methods("POST")
	protectedChatRoutes.HandleFunc("/{id}/messages", chatHandler.GetMessagesHandler).Methods("GET")
	protectedChatRoutes.HandleFunc("/{id}/seen", chatHandler.MarkSeenHandler).Methods("POST")

	// Study set routes
	protectedSetRoutes := router.PathPrefix("/sets").Subrouter()
	protectedSetRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedSetRoutes.HandleFunc("", setHandler.CreateSetHandler).Methods("POST")
	protectedSetRoutes.HandleFunc("", setHandler.ListSetsHandler).Methods("GET")
	protectedSetRoutes.HandleFunc("/generate", aiHandler.GenerateSetHandler).Methods("POST")
	protectedSetRoutes.HandleFunc("/{id}", setHandler.GetSetHandler).Methods("GET")
	protectedSetRoutes.HandleFunc("/{id}", setHandler.UpdateSetHandler).Methods("PUT")
	protectedSetRoutes.HandleFunc("/{id}", setHandler.DeleteSetHandler).Methods("DELETE")
	protectedSetRoutes.HandleFunc("/{id}/flashcards", setHandler.FlashcardsHandler).Methods("GET")
	protectedSetRoutes.HandleFunc("/{id}/practice", setHandler.PracticeTestHandler).Methods("GET")
	protectedSetRoutes.HandleFunc("/{id}/match", setHandler.MatchGameHandler).Methods("POST")

	// Folder routes
	protectedFolderRoutes := router.PathPrefix("/folders").Subrouter()
	protectedFolderRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedFolderRoutes.HandleFunc("", setHandler.CreateFolderHandler).Methods("POST")
	protectedFolderRoutes.HandleFunc("", setHandler.ListFoldersHandler).Methods("GET")
	protectedFolderRoutes.HandleFunc("/{id}", setHandler.GetFolderHandler).Methods("GET")
	protectedFolderRoutes.HandleFunc("/{id}", setHandler.RenameFolderHandler).Methods("PATCH")
	protectedFolderRoutes.HandleFunc("/{id}", setHandler.DeleteFolderHandler).Methods("DELETE")
	protectedFolderRoutes.HandleFunc("/{id}/sets/{setId}", setHandler.AddSetToFolderHandler).Methods("POST")
	protectedFolderRoutes.HandleFunc("/{id}/sets/{setId}", setHandler.RemoveSetFromFolderHandler).Methods("DELETE")

	// Session routes
	protectedSessionRoutes := router.PathPrefix("/sessions").Subrouter()
	protectedSessionRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedSessionRoutes.HandleFunc("", sessionHandler.CreateSessionHandler).Methods("POST")
	protectedSessionRoutes.HandleFunc("", sessionHandler.ListSessionsHandler).Methods("GET")
	protectedSessionRoutes.HandleFunc("/join", sessionHandler.JoinSessionHandler).Methods("POST")
	protectedSessionRoutes.HandleFunc("/{id}", sessionHandler.GetSessionHandler).Methods("GET")
	protectedSessionRoutes.HandleFunc("/{id}/sets", sessionHandler.AddSetsHandler).Methods("POST")

	// Live (WebSocket) routes; these authenticate via token query param
	router.HandleFunc("/live/previews", liveHandler.PreviewsSocketHandler)
	router.HandleFunc("/live/chats/{id}", liveHandler.MessagesSocketHandler)
	router.HandleFunc("/live/badges", liveHandler.BadgesSocketHandler)
	router.HandleFunc("/live/sessions", liveHandler.SessionsSocketHandler)

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Background maintenance
	maintenance := jobs.NewMaintenance(chatRepo, friendRepo)
	cronjobs.StartMaintenanceCronJobs(maintenance)

	// Start the HTTP server
	port := cfg.Port
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // adjust to frontend origin
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}
