package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/config"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/handlers"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/log"
	"github.com/video-frame-pro/lambda-cognito-video-frame-pro-auth/internal/request"
)

var (
	mode     string
	dataPath string
)

func init() {
	flag.StringVar(&mode, "mode", "register", "handler to run: register or login")
	flag.StringVar(&dataPath, "data", "", "path to JSON file with test event data")
	flag.Parse()
}

func NewDebugConfig() (*config.Config, error) {
	envpath := filepath.Join(".env")
	if _, err := os.Stat(envpath); err == nil {
		_ = godotenv.Load(envpath)
	}

	cfg, err := config.New()
	if err != nil {
		return nil, err
	}

	if cfg.DebugDataPath == "" {
		cfg.DebugDataPath = filepath.Join("fixtures", "debug-data.json")
	}
	if dataPath != "" {
		cfg.DebugDataPath = dataPath
	}

	return cfg, nil
}

func newHandler(ctx context.Context, cfg *config.Config) (func(context.Context, request.Event) (handlers.Response, error), error) {
	if mode == "login" {
		h, err := handlers.NewLoginHandler(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return h.Handle, nil
	}
	h, err := handlers.NewRegisterHandler(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return h.Handle, nil
}

func main() {
	ctx := context.Background()

	cfg, err := NewDebugConfig()
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	log.SetLevel(cfg.AppLogLevel)

	handle, err := newHandler(ctx, cfg)
	if err != nil {
		log.Error("failed to init handler", "mode", mode, "error", err)
		os.Exit(1)
	}

	data, err := os.ReadFile(cfg.DebugDataPath)
	if err != nil {
		log.Error("failed to read data file", "path", cfg.DebugDataPath, "error", err)
		os.Exit(1)
	}

	evts := []request.Event{}
	if err := json.Unmarshal(data, &evts); err != nil {
		log.Error("failed to parse event file", "error", err)
		os.Exit(1)
	}

	for i, e := range evts {
		rErr := ""
		r, err := handle(ctx, e)
		if err != nil {
			rErr = err.Error()
			log.Error("integration test failed", "error", err)
		}
		rJSON, err := json.Marshal(r)
		if err != nil {
			log.Error("failed to parse response", "error", err)
		}
		log.Info("event handled", "index", i, "error", rErr, "response", string(rJSON))
	}

	log.Info("integration test completed")
}
