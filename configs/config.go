package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

var loadDotenv sync.Once

// Config returns the value of an environment key. The .env file is read
// once, on the first lookup; afterwards the process environment is the
// single source of truth.
func Config(key string) string {
	loadDotenv.Do(func() {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("Warning: .env file not found, reading from system environment variables")
		}
	})

	return os.Getenv(key)
}
