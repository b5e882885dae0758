package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/config"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/handlers"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/log"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log.SetLevel(cfg.AppLogLevel)

	h, err := handlers.NewRegisterHandler(context.Background(), cfg)
	if err != nil {
		log.Error("failed to init handler", "error", err)
		os.Exit(1)
	}

	lambda.Start(h.Handle)
}
