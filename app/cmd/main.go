package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"docchat/app/server"
	"docchat/config"
)

func init() {
	// .env is optional in production; real env vars win either way
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, relying on environment")
	}
}

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal("error loading config: ", err)
	}

	s := server.NewServer(os.Getenv("SERVER_ADDR"), cfg)

	go s.Run()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	<-sigch
	log.Println("Received shutdown signal, shutting down server...")
	s.Stop()
}
