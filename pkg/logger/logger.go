package logger

import (
	"os"

	"go.uber.org/zap"
)

// New builds the process logger. Development mode (console encoder, debug
// level) is selected with APP_ENV=development; production JSON otherwise.
func New() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
