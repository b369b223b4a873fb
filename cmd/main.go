package main

import (
	"log"
	"os"

	"github.com/captenmasin/tracker/config"
	"github.com/captenmasin/tracker/routes"
)

func main() {
	config.InitDB()

	r := routes.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
