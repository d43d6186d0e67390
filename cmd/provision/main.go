// The provision command creates the quotes table on DynamoDB Local for
// development. It is hard-wired to the local endpoint on purpose: it must
// never run against a real account.
package main

import (
	"context"
	"log"

	"brucesays-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const localEndpoint = "http://localhost:8000"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.AWSRegion),
		// Fake credentials are required even for DynamoDB Local.
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("fake", "fake", "")),
		// Fail fast if the endpoint is wrong.
		awsconfig.WithRetryMaxAttempts(1),
	)
	if err != nil {
		log.Fatalf("unable to load SDK config: %v", err)
	}

	client := dynamodb.NewFromConfig(awsCfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(localEndpoint)
	})

	ctx := context.Background()

	// Connectivity check before creating anything.
	if _, err := client.ListTables(ctx, &dynamodb.ListTablesInput{}); err != nil {
		log.Fatalf("Could not reach DynamoDB Local at %s. Is the container running and port mapped? Original error: %v", localEndpoint, err)
	}

	out, err := client.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName:   aws.String(cfg.TableName),
		BillingMode: types.BillingModePayPerRequest,
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("PK"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("SK"), KeyType: types.KeyTypeRange},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("PK"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("SK"), AttributeType: types.ScalarAttributeTypeS},
		},
	})
	if err != nil {
		log.Fatalf("failed to create table: %v", err)
	}

	log.Printf("Created table: %s", aws.ToString(out.TableDescription.TableName))
}
