// The renderer command is the Lambda entrypoint for the change-feed renderer.
// It consumes the quote table's DynamoDB stream and publishes static pages to
// the site bucket.
package main

import (
	"context"
	"log"

	ddb "brucesays-backend/infrastructure/dynamodb"
	s3sink "brucesays-backend/infrastructure/s3"
	"brucesays-backend/internal/config"
	"brucesays-backend/internal/render"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.ValidateRenderer(); err != nil {
		log.Fatalf("Invalid renderer configuration: %v", err)
	}

	logger, err := zap.NewProduction()
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

	dbClient := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})

	repo := ddb.NewQuoteRepository(dbClient, cfg.TableName, logger)
	sink := s3sink.NewSink(s3.NewFromConfig(awsCfg), cfg.BucketName, logger)
	renderer := render.NewRenderer(repo, sink, cfg.Domain, logger, nil)

	logger.Info("renderer initialized",
		zap.String("table", cfg.TableName),
		zap.String("bucket", cfg.BucketName),
		zap.String("domain", cfg.Domain),
	)
	lambda.Start(renderer.HandleStream)
}
