// Package s3 implements the renderer's object-storage sink on AWS S3.
package s3

import (
	"bytes"
	"context"
	"time"

	appErrors "brucesays-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// S3API is the slice of the S3 client the sink needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Sink uploads rendered artifacts to a bucket. Uploads run through a circuit
// breaker: when the bucket is persistently unreachable the breaker fails fast
// instead of burning the invocation timeout, and the error still propagates
// so the stream batch is redriven.
type Sink struct {
	client  S3API
	bucket  string
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewSink creates an S3 sink for the given bucket.
func NewSink(client S3API, bucket string, logger *zap.Logger) *Sink {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "s3-sink",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.8
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Sink{
		client:  client,
		bucket:  bucket,
		breaker: breaker,
		logger:  logger,
	}
}

// Upload stores one artifact under the given key.
func (s *Sink) Upload(ctx context.Context, key, contentType, cacheControl string, body []byte) error {
	_, err := s.breaker.Execute(func() (interface{}, error) {
		return s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:       aws.String(s.bucket),
			Key:          aws.String(key),
			Body:         bytes.NewReader(body),
			ContentType:  aws.String(contentType),
			CacheControl: aws.String(cacheControl),
		})
	})
	if err != nil {
		s.logger.Error("upload failed", zap.String("key", key), zap.Error(err))
		return appErrors.NewRender("failed to upload "+key, err)
	}
	return nil
}
