package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ekverified/app-backend/handlers"
	"github.com/ekverified/app-backend/logging"
	"github.com/ekverified/app-backend/middleware"
	"github.com/ekverified/app-backend/services"
	"github.com/ekverified/app-backend/store"
)

func main() {
	logging.InitLogger()
	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting chama backend...")

	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_WARNING, Description: No .env file loaded: %v", err)
	}

	dataStore, cleanup, err := buildStore()
	if err != nil {
		logging.Logger.Fatalf("Event ID: STORE_INIT_FAILED, Description: Store initialization failed: %v", err)
	}
	defer cleanup()

	notificationService := services.NewNotificationService(dataStore)
	authService := services.NewAuthService(dataStore)
	loanService := services.NewLoanService(dataStore, notificationService)
	queueService := services.NewQueueService(dataStore, notificationService)
	pollService := services.NewPollService(dataStore)
	recordService := services.NewRecordService(dataStore)
	exportService := services.NewExportService(dataStore)

	loginHandler := handlers.NewLoginHandler(authService)
	memberHandler := handlers.NewMemberHandler(authService)
	loanHandler := handlers.NewLoanHandler(loanService)
	queueHandler := handlers.NewQueueHandler(queueService)
	pollHandler := handlers.NewPollHandler(pollService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	recordHandler := handlers.NewRecordHandler(recordService)
	exportHandler := handlers.NewExportHandler(exportService)

	r := mux.NewRouter()

	// Open routes.
	r.HandleFunc("/auth", loginHandler.Login).Methods("POST")
	r.HandleFunc("/members", memberHandler.Register).Methods("POST")
	r.HandleFunc("/loans", loanHandler.Create).Methods("POST")
	r.HandleFunc("/news", recordHandler.ListNews).Methods("GET")
	r.HandleFunc("/polls", pollHandler.List).Methods("GET")
	r.HandleFunc("/approved-reports", recordHandler.ListReports).Methods("GET")
	r.HandleFunc("/signatures", recordHandler.ListSignatures).Methods("GET")

	// Role-gated routes; allowed roles live in the middleware policy table.
	r.Handle("/members", middleware.Authorize("members.list", memberHandler.List)).Methods("GET")
	r.Handle("/members/{email}", middleware.Authorize("members.update", memberHandler.Update)).Methods("PUT")
	r.Handle("/members/{email}", middleware.Authorize("members.remove", memberHandler.Remove)).Methods("DELETE")
	r.Handle("/members/{email}/promote", middleware.Authorize("members.promote", memberHandler.Promote)).Methods("POST")
	r.Handle("/members/{email}/reset-pin", middleware.Authorize("members.resetpin", memberHandler.ResetPin)).Methods("POST")

	r.Handle("/loans", middleware.Authorize("loans.list", loanHandler.List)).Methods("GET")
	r.Handle("/loans/{id}", middleware.Authorize("loans.update", loanHandler.UpdateStatus)).Methods("PATCH")

	r.Handle("/chair-queue", middleware.Authorize("queue.list", queueHandler.List)).Methods("GET")
	r.Handle("/chair-queue", middleware.Authorize("queue.submit", queueHandler.Submit)).Methods("POST")
	r.Handle("/chair-queue/{id}/approve", middleware.Authorize("queue.approve", queueHandler.Approve)).Methods("PATCH")

	r.Handle("/polls", middleware.Authorize("polls.create", pollHandler.Create)).Methods("POST")
	r.Handle("/polls/{id}", middleware.Authorize("polls.vote", pollHandler.Vote)).Methods("PATCH")
	r.Handle("/polls/{id}/close", middleware.Authorize("polls.close", pollHandler.Close)).Methods("POST")

	r.Handle("/news", middleware.Authorize("news.post", recordHandler.PostNews)).Methods("POST")
	r.Handle("/welfare", middleware.Authorize("welfare.list", recordHandler.ListWelfare)).Methods("GET")
	r.Handle("/welfare", middleware.Authorize("welfare.submit", recordHandler.SubmitWelfare)).Methods("POST")
	r.Handle("/transactions", middleware.Authorize("transactions.list", recordHandler.ListTransactions)).Methods("GET")
	r.Handle("/transactions", middleware.Authorize("transactions.post", recordHandler.PostTransaction)).Methods("POST")
	r.Handle("/approved-reports", middleware.Authorize("reports.post", recordHandler.PostReport)).Methods("POST")
	r.Handle("/signatures/{role}", middleware.Authorize("signatures.update", recordHandler.UpsertSignature)).Methods("PATCH")
	r.Handle("/logs", middleware.Authorize("logs.list", recordHandler.ListLogs)).Methods("GET")
	r.Handle("/logs", middleware.Authorize("logs.post", recordHandler.PostLog)).Methods("POST")

	r.Handle("/notifications", middleware.Authorize("notifications.list", notificationHandler.List)).Methods("GET")
	r.Handle("/notifications", middleware.Authorize("notifications.post", notificationHandler.Create)).Methods("POST")
	r.Handle("/notifications/{id}/read", middleware.Authorize("notifications.read", notificationHandler.MarkRead)).Methods("PATCH")

	r.Handle("/export/{type}", middleware.Authorize("export", exportHandler.Export)).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Chama backend is running"))
	}).Methods("GET")

	corsRouter := middleware.EnableCORS(r)

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", serverPort),
		Handler:      corsRouter,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Server running on http://localhost:%s", serverPort)
	if err := srv.ListenAndServe(); err != nil {
		logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Server failed to start: %v", err)
	}
}

// buildStore constructs the configured store backend and returns it together
// with its teardown.
func buildStore() (store.Store, func(), error) {
	backend := os.Getenv("STORE_BACKEND")

	switch backend {
	case "", "file":
		dataDir := os.Getenv("DATA_DIR")
		if dataDir == "" {
			dataDir = "data"
		}
		fs, err := store.NewFileStore(dataDir)
		if err != nil {
			return nil, nil, err
		}
		logging.Logger.Infof("Event ID: STORE_READY, Description: Using file store in %s", dataDir)
		return fs, func() {}, nil

	case "mongo":
		mongoURI := os.Getenv("MONGO_URI")
		mongoDBName := os.Getenv("MONGO_DB_NAME")
		if mongoURI == "" || mongoDBName == "" {
			return nil, nil, fmt.Errorf("MONGO_URI and MONGO_DB_NAME are required for the mongo store")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx, nil); err != nil {
			return nil, nil, err
		}
		logging.Logger.Infof("Event ID: DB_CONNECTED, Description: Successfully connected to MongoDB at %s.", mongoURI)

		breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "mongo-store-cb",
			MaxRequests: 1,
			Timeout:     5 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 3
			},
			IsSuccessful: func(err error) bool {
				// A lost revision race is a caller problem, not a backend outage.
				return err == nil || errors.Is(err, store.ErrStaleWrite)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
			},
		})

		coll := client.Database(mongoDBName).Collection("collections")
		cleanup := func() {
			disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer disconnectCancel()
			_ = client.Disconnect(disconnectCtx)
		}
		return store.NewMongoStore(coll, breaker), cleanup, nil
	}

	return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", backend)
}
