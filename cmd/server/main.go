package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"parkledger/internal/mockapi"
	"parkledger/internal/mockapi/store"
	"parkledger/internal/notify"
)

func main() {
	godotenv.Load()

	driver := store.DriverSQLite
	dsn := os.Getenv("SQLITE_PATH")
	if dsn == "" {
		dsn = "parkledger.db"
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		driver = store.DriverPostgres
		dsn = dbURL
	}

	st, err := store.Open(driver, dsn)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	var sms notify.SMSSender
	if sender, err := notify.NewTwilioFromEnv(); err == nil {
		sms = sender
	} else {
		log.Printf("SMS delivery disabled: %v", err)
	}
	var email notify.EmailSender
	if sender, err := notify.NewSendGridFromEnv(); err == nil {
		email = sender
	} else {
		log.Printf("Email delivery disabled: %v", err)
	}

	authSvc := mockapi.NewAuthService(st, []byte(secret), sms, email)
	r := mockapi.NewRouter(st, authSvc)

	sweeper := mockapi.NewSweeper(st)
	c := cron.New()
	if _, err := c.AddFunc("@every 10m", func() {
		if err := sweeper.SweepExpiredOTPCodes(); err != nil {
			log.Printf("Sweep failed: %v", err)
		}
	}); err != nil {
		log.Fatalf("Failed to schedule sweeper: %v", err)
	}
	c.Start()
	defer c.Stop()

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Mock API running on port %s (%s store)", port, driver)
	log.Fatal(http.ListenAndServe(":"+port, handlers.LoggingHandler(os.Stdout, cors(r))))
}
