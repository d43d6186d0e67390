// The devserver command runs the quotes API as a plain HTTP server for local
// development, with no API Gateway or Lambda in front. It serves the same
// dispatch table by translating each request into a gateway-shaped event, and
// exposes prometheus metrics on /metrics.
//
// By default quotes live in an in-memory store; set DYNAMODB_ENDPOINT to work
// against DynamoDB Local (see cmd/provision for table setup).
package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"sync/atomic"

	ddb "brucesays-backend/infrastructure/dynamodb"
	"brucesays-backend/internal/api"
	"brucesays-backend/internal/config"
	"brucesays-backend/internal/domain"
	"brucesays-backend/internal/repository"
	"brucesays-backend/internal/repository/memory"
	"brucesays-backend/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Missing .env is fine; the config defaults cover local use.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	repo := newRepository(cfg, logger)

	// The live router is swapped atomically when dev overrides change.
	var router atomic.Pointer[api.Router]
	build := func(allowOrigin string, defaultLimit int) {
		read := api.NewReadHandler(repo, defaultLimit)
		write := api.NewWriteHandler(repo, domain.NewULIDGenerator(), nil, metrics)
		router.Store(api.NewRouter(read, write, allowOrigin, logger))
	}
	build(cfg.AllowOrigin, cfg.DefaultLimit)

	if cfg.DevConfigPath != "" {
		watcher, err := config.NewWatcher(cfg.DevConfigPath, logger)
		if err != nil {
			logger.Fatal("failed to watch dev overrides", zap.Error(err))
		}
		defer watcher.Stop()
		watcher.OnChange(func(o *config.DevOverrides) {
			allowOrigin := cfg.AllowOrigin
			if o.AllowOrigin != "" {
				allowOrigin = o.AllowOrigin
			}
			defaultLimit := cfg.DefaultLimit
			if o.DefaultLimit > 0 {
				defaultLimit = o.DefaultLimit
			}
			build(allowOrigin, defaultLimit)
		})
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	r.HandleFunc("/*", func(w http.ResponseWriter, req *http.Request) {
		serveEvent(router.Load(), w, req, logger)
	})

	logger.Info("dev server listening",
		zap.String("address", cfg.ServerAddress),
		zap.String("table", cfg.TableName),
		zap.String("endpoint", cfg.DynamoDBEndpoint),
	)
	if err := http.ListenAndServe(cfg.ServerAddress, r); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// newRepository picks DynamoDB Local when an endpoint is configured, falling
// back to the in-memory store.
func newRepository(cfg *config.Config, logger *zap.Logger) repository.QuoteRepository {
	if cfg.DynamoDBEndpoint == "" {
		logger.Info("using in-memory quote store")
		return memory.NewStore()
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
		// DynamoDB Local accepts any credentials but requires some.
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("fake", "fake", "")),
	)
	if err != nil {
		logger.Fatal("unable to load SDK config", zap.Error(err))
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
	})
	return ddb.NewQuoteRepository(client, cfg.TableName, logger)
}

// serveEvent adapts a plain HTTP request into the gateway event shape the
// router dispatches on, then writes the router's response back.
func serveEvent(router *api.Router, w http.ResponseWriter, req *http.Request, logger *zap.Logger) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	query := make(map[string]string)
	for key, values := range req.URL.Query() {
		if len(values) > 0 {
			query[key] = values[0]
		}
	}

	event := api.Event{
		RawPath:               req.URL.Path,
		QueryStringParameters: query,
		Body:                  string(body),
	}
	event.RequestContext.HTTP.Method = req.Method
	event.RequestContext.HTTP.Path = req.URL.Path

	resp, err := router.Route(req.Context(), event)
	if err != nil {
		logger.Error("request failed", zap.Error(err))
		http.Error(w, "The request could not be completed.", http.StatusInternalServerError)
		return
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write([]byte(resp.Body))
}
