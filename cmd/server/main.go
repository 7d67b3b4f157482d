package main

import (
	"github.com/joho/godotenv"

	"hradmin/internal/app/server"
)

func main() {
	_ = godotenv.Load()
	server.Run()
}
