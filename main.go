package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"

	"projecthub/backend/config"
	"projecthub/backend/handlers"
	"projecthub/backend/logging"
	"projecthub/backend/metrics"
	"projecthub/backend/middleware"
	"projecthub/backend/models"
	"projecthub/backend/repositories"
	"projecthub/backend/services"
	"projecthub/backend/utils"
)

const deadlineCheckInterval = time.Hour

func main() {
	logging.InitLogger()
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		logging.Logger.Fatal("JWT_SECRET is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := mongooptions.Client().ApplyURI(cfg.MongoURI)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logging.Logger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		logging.Logger.Fatalf("Failed to ping MongoDB: %v", err)
	}
	logging.Logger.Info("Connected to MongoDB!")
	defer client.Disconnect(context.Background())

	db := client.Database("projecthub")
	userCollection := db.Collection("users")
	projectCollection := db.Collection("projects")
	taskCollection := db.Collection("tasks")
	teamCollection := db.Collection("teams")
	activityCollection := db.Collection("activities")
	sessionCollection := db.Collection("sessions")
	preferenceCollection := db.Collection("preferences")

	ensureIndexes(ctx, userCollection, teamCollection)

	notificationRepo, err := repositories.NewNotificationRepo(cfg.CassandraHost)
	if err != nil {
		logging.Logger.Fatalf("Failed to connect to Cassandra: %v", err)
	}
	defer notificationRepo.CloseSession()
	if err := notificationRepo.CreateTable(); err != nil {
		logging.Logger.Fatalf("Failed to create notifications table: %v", err)
	}

	mailer := utils.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPPassword)

	jwtService := services.NewJWTService(cfg.JWTSecret)
	userService := services.NewUserService(userCollection, jwtService)
	activityService := services.NewActivityService(activityCollection)
	notificationService := services.NewNotificationService(notificationRepo)
	projectService := services.NewProjectService(projectCollection, activityService)
	taskService := services.NewTaskService(taskCollection, userCollection, projectService, notificationService, activityService, mailer)
	teamService := services.NewTeamService(teamCollection, userCollection, projectCollection, notificationService, activityService)
	sessionService := services.NewSessionService(sessionCollection, projectService)
	preferenceService := services.NewPreferenceService(preferenceCollection)
	deadlineService := services.NewDeadlineService(projectCollection, taskCollection, userCollection, notificationService, mailer)

	authHandler := handlers.NewAuthHandler(userService, jwtService)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	teamHandler := handlers.NewTeamHandler(teamService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	activityHandler := handlers.NewActivityHandler(activityService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	preferenceHandler := handlers.NewPreferenceHandler(preferenceService)

	authMiddleware := middleware.NewAuthMiddleware(jwtService, userService)
	authLimiter := middleware.NewRateLimiter(5, 10)

	router := mux.NewRouter()
	router.Use(metrics.Instrument)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()

	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(authLimiter.Limit)
	auth.HandleFunc("/signup", authHandler.Signup).Methods(http.MethodPost)
	auth.HandleFunc("/signin", authHandler.Signin).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(authMiddleware.Authenticate)

	protected.HandleFunc("/auth/update-email", authHandler.UpdateEmail).Methods(http.MethodPut)
	protected.HandleFunc("/users/members", userHandler.GetMembers).Methods(http.MethodGet)
	protected.HandleFunc("/users/profile", userHandler.GetProfile).Methods(http.MethodGet)
	protected.HandleFunc("/users/profile", userHandler.UpdateProfile).Methods(http.MethodPut)

	protected.HandleFunc("/projects", projectHandler.CreateProject).Methods(http.MethodPost)
	protected.HandleFunc("/projects", projectHandler.ListProjects).Methods(http.MethodGet)
	protected.HandleFunc("/projects/{id}", projectHandler.GetProject).Methods(http.MethodGet)
	protected.HandleFunc("/projects/{id}", projectHandler.UpdateProject).Methods(http.MethodPut)
	protected.HandleFunc("/projects/{id}", projectHandler.DeleteProject).Methods(http.MethodDelete)

	protected.HandleFunc("/tasks", taskHandler.CreateTask).Methods(http.MethodPost)
	protected.HandleFunc("/tasks", taskHandler.ListTasks).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", taskHandler.GetTask).Methods(http.MethodGet)
	protected.HandleFunc("/tasks/{id}", taskHandler.UpdateTask).Methods(http.MethodPut)
	protected.HandleFunc("/tasks/{id}", taskHandler.DeleteTask).Methods(http.MethodDelete)
	protected.HandleFunc("/tasks/{id}/comments", taskHandler.AddComment).Methods(http.MethodPost)

	protected.HandleFunc("/teams/create", teamHandler.CreateTeam).Methods(http.MethodPost)
	protected.HandleFunc("/teams/join", teamHandler.JoinTeam).Methods(http.MethodPost)
	protected.HandleFunc("/teams/leave", teamHandler.LeaveTeam).Methods(http.MethodPost)
	protected.HandleFunc("/teams/{teamId}/members", teamHandler.GetTeamMembers).Methods(http.MethodGet)

	protected.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/read", notificationHandler.MarkAsRead).Methods(http.MethodPut)
	protected.HandleFunc("/notifications/read-all", notificationHandler.MarkAllAsRead).Methods(http.MethodPut)
	protected.HandleFunc("/notifications", notificationHandler.DeleteNotification).Methods(http.MethodDelete)
	protected.HandleFunc("/notifications/clear", notificationHandler.ClearAll).Methods(http.MethodDelete)

	activities := protected.PathPrefix("/activities").Subrouter()
	activities.Use(authMiddleware.RequireRole(models.RoleManager, models.RoleAdmin))
	activities.HandleFunc("", activityHandler.ListActivities).Methods(http.MethodGet)

	protected.HandleFunc("/sessions/start", sessionHandler.StartSession).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/pause", sessionHandler.PauseSession).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/resume", sessionHandler.ResumeSession).Methods(http.MethodPost)
	protected.HandleFunc("/sessions/stop", sessionHandler.StopSession).Methods(http.MethodPost)
	protected.HandleFunc("/sessions", sessionHandler.ListSessions).Methods(http.MethodGet)

	protected.HandleFunc("/preferences/{kind}/{key}", preferenceHandler.PutPreference).Methods(http.MethodPut)
	protected.HandleFunc("/preferences/{kind}/{key}", preferenceHandler.GetPreference).Methods(http.MethodGet)
	protected.HandleFunc("/preferences/{kind}/{key}", preferenceHandler.DeletePreference).Methods(http.MethodDelete)
	protected.HandleFunc("/preferences/{kind}", preferenceHandler.ListPreferences).Methods(http.MethodGet)

	deadlineCtx, stopDeadlines := context.WithCancel(context.Background())
	defer stopDeadlines()
	go deadlineService.Run(deadlineCtx, deadlineCheckInterval)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      enableCORS(cfg.AllowedOrigin, router),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logging.Logger.Infof("Server is running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatalf("Server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logging.Logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Logger.Errorf("Graceful shutdown failed: %v", err)
	}
}

func ensureIndexes(ctx context.Context, users, teams *mongo.Collection) {
	unique := mongooptions.Index().SetUnique(true)

	if _, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: unique,
	}); err != nil {
		logging.Logger.Fatalf("Failed to create users.email index: %v", err)
	}

	if _, err := teams.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"accessCode": 1},
		Options: mongooptions.Index().SetUnique(true),
	}); err != nil {
		logging.Logger.Fatalf("Failed to create teams.accessCode index: %v", err)
	}
}

// CORS Middleware
func enableCORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
