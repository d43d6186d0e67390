// Package dynamodb implements the quote storage gateway using AWS DynamoDB.
// This is the infrastructure layer that contains DynamoDB-specific code.
package dynamodb

import (
	"context"
	"errors"

	"brucesays-backend/internal/domain"
	"brucesays-backend/internal/repository"
	appErrors "brucesays-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"
)

// DBClient is the narrow slice of the DynamoDB API the gateway needs, making
// the repository testable without a real client.
type DBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// QuoteRepository is the DynamoDB implementation of the storage gateway.
type QuoteRepository struct {
	client    DBClient
	tableName string
	logger    *zap.Logger
}

var _ repository.QuoteRepository = (*QuoteRepository)(nil)

// NewQuoteRepository creates a DynamoDB-backed quote repository.
func NewQuoteRepository(client DBClient, tableName string, logger *zap.Logger) *QuoteRepository {
	return &QuoteRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// Query pages through the quote partition newest-first. The limit is clamped
// to the gateway's bounds before it reaches DynamoDB.
func (r *QuoteRepository) Query(ctx context.Context, limit int, startAfter *repository.Cursor) ([]domain.Quote, *repository.Cursor, error) {
	limit = repository.ClampLimit(limit)

	keyCond := expression.Key("PK").Equal(expression.Value(domain.Partition))
	proj := expression.NamesList(
		expression.Name("quote"),
		expression.Name("createdAt"),
		expression.Name("SK"),
	)
	expr, err := expression.NewBuilder().
		WithKeyCondition(keyCond).
		WithProjection(proj).
		Build()
	if err != nil {
		return nil, nil, appErrors.NewStorage("failed to build query expression", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ProjectionExpression:      expr.Projection(),
		ScanIndexForward:          aws.Bool(false), // newest first
		Limit:                     aws.Int32(int32(limit)),
	}
	if startAfter != nil {
		input.ExclusiveStartKey = cursorKey(startAfter)
	}

	out, err := r.client.Query(ctx, input)
	if err != nil {
		r.logError("query quotes failed", err)
		return nil, nil, appErrors.NewStorage("failed to query quotes", err)
	}

	items := make([]domain.Quote, 0, len(out.Items))
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &items); err != nil {
		return nil, nil, appErrors.NewStorage("failed to unmarshal quote items", err)
	}

	return items, cursorFromKey(out.LastEvaluatedKey), nil
}

// Put writes a single quote item unconditionally. A failed put is never
// retried here: a blind retry would mint a new sort key and store a duplicate,
// so resubmission is the caller's decision.
func (r *QuoteRepository) Put(ctx context.Context, quote domain.Quote) error {
	item, err := attributevalue.MarshalMap(quote)
	if err != nil {
		return appErrors.NewStorage("failed to marshal quote item", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		r.logError("put quote failed", err)
		return appErrors.NewStorage("failed to store quote", err)
	}

	r.logger.Debug("stored quote", zap.String("sk", quote.SK))
	return nil
}

func cursorKey(c *repository.Cursor) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: c.PK},
		"SK": &types.AttributeValueMemberS{Value: c.SK},
	}
}

func cursorFromKey(key map[string]types.AttributeValue) *repository.Cursor {
	if len(key) == 0 {
		return nil
	}
	c := &repository.Cursor{}
	if v, ok := key["PK"].(*types.AttributeValueMemberS); ok {
		c.PK = v.Value
	}
	if v, ok := key["SK"].(*types.AttributeValueMemberS); ok {
		c.SK = v.Value
	}
	return c
}

func (r *QuoteRepository) logError(msg string, err error) {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		r.logger.Error(msg,
			zap.String("code", apiErr.ErrorCode()),
			zap.String("fault", apiErr.ErrorFault().String()),
			zap.Error(err),
		)
		return
	}
	r.logger.Error(msg, zap.Error(err))
}
