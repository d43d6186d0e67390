// The api command is the Lambda entrypoint for the quotes HTTP API.
package main

import (
	"context"
	"log"

	"brucesays-backend/internal/api"
	"brucesays-backend/internal/config"
	"brucesays-backend/internal/domain"
	ddb "brucesays-backend/infrastructure/dynamodb"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
	)
	if err != nil {
		logger.Fatal("unable to load SDK config", zap.Error(err))
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})

	repo := ddb.NewQuoteRepository(client, cfg.TableName, logger)
	read := api.NewReadHandler(repo, cfg.DefaultLimit)
	write := api.NewWriteHandler(repo, domain.NewULIDGenerator(), nil, nil)
	router := api.NewRouter(read, write, cfg.AllowOrigin, logger)

	logger.Info("quotes api initialized",
		zap.String("table", cfg.TableName),
		zap.String("region", cfg.AWSRegion),
	)
	lambda.Start(router.Route)
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
