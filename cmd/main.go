package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/weininghu1012/NextBus/pkg/client"
	"github.com/weininghu1012/NextBus/pkg/config"
	"github.com/weininghu1012/NextBus/pkg/server"
	"github.com/weininghu1012/NextBus/pkg/translink"
)

var (
	apiKeyFile = flag.String("apikey", "",
		"Translink API key (in a text file, alternatively set the TRANSLINK_API_KEY environment variable)")
	configFile = flag.String("config", "config.yml", "path to the YAML configuration file")
)

func getApiKey() (string, error) {
	secretPath := strings.TrimSpace(*apiKeyFile)
	envvar := strings.TrimSpace(os.Getenv("TRANSLINK_API_KEY"))

	if secretPath == "" && envvar == "" {
		return "", fmt.Errorf("missing API key")
	}

	if secretPath == "" {
		return envvar, nil
	}

	contents, err := os.ReadFile(secretPath)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(contents)), nil
}

func loadConfig() (config.AppConfig, error) {
	if _, err := os.Stat(*configFile); os.IsNotExist(err) {
		return config.Default(), nil
	}

	return config.Load(*configFile)
}

func main() {
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	apiKey, err := getApiKey()
	if err != nil {
		logger.Fatal("Failed to get API key", zap.Error(err))
	}

	cli, err := client.NewHttpClient(client.Options{
		BaseURL:        cfg.Translink.BaseURL,
		ApiKey:         apiKey,
		UserAgent:      cfg.Translink.UserAgent,
		ConnectTimeout: cfg.Translink.ConnectTimeout(),
		ReadTimeout:    cfg.Translink.ReadTimeout(),
		Connectivity:   client.NewDialProbe(cfg.Connectivity.ProbeAddress, cfg.Connectivity.ProbeTimeout()),
	})
	if err != nil {
		logger.Fatal("Failed to create Translink client", zap.Error(err))
	}

	service := translink.NewService(cli, logger)

	http.Handle("/stops/", server.NewHandler(service, logger))
	http.Handle("/metrics", promhttp.Handler())

	address := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Starting HTTP server", zap.String("address", address))
	logger.Fatal("HTTP server stopped", zap.Error(http.ListenAndServe(address, nil)))
}
