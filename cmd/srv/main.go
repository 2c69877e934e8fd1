package main

import (
	"log"
	"os"
)

var server srv

func main() {
	server.loadConfig()
	server.loadLogger()
	server.loadApp()

	if err := server.app.Run(os.Args); err != nil {
		log.Fatalf("Cannot run the server: %v", err)
	}
}
