// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/RomanSery/rent-day-sub000/internal/auth"
	"github.com/RomanSery/rent-day-sub000/internal/cache"
	"github.com/RomanSery/rent-day-sub000/internal/database"
	"github.com/RomanSery/rent-day-sub000/internal/engine"
	"github.com/RomanSery/rent-day-sub000/internal/handlers"
	"github.com/RomanSery/rent-day-sub000/internal/middleware"
)

func main() {
	auth.Init()
	database.ConnectDB()

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	eng := engine.New(database.NewPgStore(database.DB), logger)

	if err := cache.ConnectRedis(); err != nil {
		logger.Warnf("redis unavailable, action log disabled: %v", err)
	} else {
		eng.Recorder = &cache.Recorder{Log: logger}
	}

	hub := handlers.NewHub(logger)
	eng.BroadcastFn = hub.Broadcast

	srv := handlers.NewGameServer(eng, hub, logger)

	mux := http.NewServeMux()

	// user endpoints
	mux.HandleFunc("/user/create", handlers.CreateUserHandler)
	mux.HandleFunc("/user/login", handlers.LoginHandler)

	// game event stream
	mux.Handle("/game/ws/", middleware.LogMiddleware(logger)(handlers.GameWSHandler(logger, srv)))

	// game actions
	mux.Handle("/game/", middleware.LogMiddleware(logger)(srv))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
