// Command s3deploy uploads the static assets described in a serverless.yml
// style project descriptor to their S3 buckets.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
