package dynamodb

import (
	"context"
	"errors"
	"testing"

	"brucesays-backend/internal/domain"
	"brucesays-backend/internal/repository"
	appErrors "brucesays-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeDBClient records the last inputs and returns canned outputs.
type fakeDBClient struct {
	lastQuery *awsdynamodb.QueryInput
	lastPut   *awsdynamodb.PutItemInput
	queryOut  *awsdynamodb.QueryOutput
	err       error
}

func (f *fakeDBClient) Query(_ context.Context, params *awsdynamodb.QueryInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.QueryOutput, error) {
	f.lastQuery = params
	if f.err != nil {
		return nil, f.err
	}
	return f.queryOut, nil
}

func (f *fakeDBClient) PutItem(_ context.Context, params *awsdynamodb.PutItemInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.PutItemOutput, error) {
	f.lastPut = params
	if f.err != nil {
		return nil, f.err
	}
	return &awsdynamodb.PutItemOutput{}, nil
}

func item(sk, text, createdAt string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"SK":        &types.AttributeValueMemberS{Value: sk},
		"quote":     &types.AttributeValueMemberS{Value: text},
		"createdAt": &types.AttributeValueMemberS{Value: createdAt},
	}
}

func TestQuoteRepository_Query(t *testing.T) {
	client := &fakeDBClient{queryOut: &awsdynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{
			item("01B", "newer quote", "2025-01-02T00:00:00Z"),
			item("01A", "older quote", "2025-01-01T00:00:00Z"),
		},
		LastEvaluatedKey: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: domain.Partition},
			"SK": &types.AttributeValueMemberS{Value: "01A"},
		},
	}}
	repo := NewQuoteRepository(client, "bruce-quotes", zap.NewNop())

	items, cursor, err := repo.Query(context.Background(), 2, nil)
	require.NoError(t, err)

	require.NotNil(t, client.lastQuery)
	assert.Equal(t, "bruce-quotes", aws.ToString(client.lastQuery.TableName))
	assert.False(t, aws.ToBool(client.lastQuery.ScanIndexForward), "must scan newest first")
	assert.Equal(t, int32(2), aws.ToInt32(client.lastQuery.Limit))
	assert.Nil(t, client.lastQuery.ExclusiveStartKey)

	require.Len(t, items, 2)
	assert.Equal(t, "newer quote", items[0].Text)
	assert.Equal(t, "01B", items[0].SK)

	require.NotNil(t, cursor)
	assert.Equal(t, domain.Partition, cursor.PK)
	assert.Equal(t, "01A", cursor.SK)
}

func TestQuoteRepository_QueryResumes(t *testing.T) {
	client := &fakeDBClient{queryOut: &awsdynamodb.QueryOutput{}}
	repo := NewQuoteRepository(client, "bruce-quotes", zap.NewNop())

	_, cursor, err := repo.Query(context.Background(), 10, &repository.Cursor{PK: domain.Partition, SK: "01A"})
	require.NoError(t, err)
	assert.Nil(t, cursor, "exhausted scan returns no cursor")

	require.NotNil(t, client.lastQuery.ExclusiveStartKey)
	sk, ok := client.lastQuery.ExclusiveStartKey["SK"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "01A", sk.Value)
}

func TestQuoteRepository_QueryClampsLimit(t *testing.T) {
	client := &fakeDBClient{queryOut: &awsdynamodb.QueryOutput{}}
	repo := NewQuoteRepository(client, "bruce-quotes", zap.NewNop())

	_, _, err := repo.Query(context.Background(), 5000, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(repository.MaxLimit), aws.ToInt32(client.lastQuery.Limit))

	_, _, err = repo.Query(context.Background(), 0, nil)
	require.NoError(t, err)
	assert.Equal(t, int32(repository.MinLimit), aws.ToInt32(client.lastQuery.Limit))
}

func TestQuoteRepository_QueryError(t *testing.T) {
	client := &fakeDBClient{err: errors.New("throttled")}
	repo := NewQuoteRepository(client, "bruce-quotes", zap.NewNop())

	_, _, err := repo.Query(context.Background(), 10, nil)
	require.Error(t, err)
	assert.True(t, appErrors.IsStorage(err))
}

func TestQuoteRepository_Put(t *testing.T) {
	client := &fakeDBClient{}
	repo := NewQuoteRepository(client, "bruce-quotes", zap.NewNop())

	quote := domain.NewQuote("01C", "a stored quote", "2025-01-03T00:00:00Z")
	require.NoError(t, repo.Put(context.Background(), quote))

	require.NotNil(t, client.lastPut)
	assert.Equal(t, "bruce-quotes", aws.ToString(client.lastPut.TableName))

	pk, ok := client.lastPut.Item["PK"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, domain.Partition, pk.Value)
	text, ok := client.lastPut.Item["quote"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "a stored quote", text.Value)
}

func TestQuoteRepository_PutError(t *testing.T) {
	client := &fakeDBClient{err: errors.New("table missing")}
	repo := NewQuoteRepository(client, "bruce-quotes", zap.NewNop())

	err := repo.Put(context.Background(), domain.NewQuote("01D", "another quote", "2025-01-04T00:00:00Z"))
	require.Error(t, err)
	assert.True(t, appErrors.IsStorage(err))
}
