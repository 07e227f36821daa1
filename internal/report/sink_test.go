package report

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/proforma/internal/resilience"
)

type mockS3 struct {
	mock.Mock
}

func (m *mockS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}
}

func TestFileSink_Put(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "out")
	loc, err := FileSink{Dir: dir}.Put(context.Background(), "../escape.xlsx", []byte("data"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.xlsx"), loc)

	got, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "data", string(got))
}

func TestS3Sink_Put(t *testing.T) {
	t.Parallel()

	client := &mockS3{}
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		return aws.ToString(in.Bucket) == "plans" &&
			aws.ToString(in.Key) == "exports/schedule.xlsx" &&
			aws.ToString(in.ContentType) == xlsxContentType &&
			string(body) == "xlsx"
	})).Return(&s3.PutObjectOutput{}, nil).Once()

	sink := newS3Sink(client, S3Config{Bucket: "plans", Prefix: "exports"}, fastRetry())
	loc, err := sink.Put(context.Background(), "schedule.xlsx", []byte("xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "s3://plans/exports/schedule.xlsx", loc)
	client.AssertExpectations(t)
}

func TestS3Sink_RetriesTransient(t *testing.T) {
	t.Parallel()

	client := &mockS3{}
	client.On("PutObject", mock.Anything, mock.Anything).
		Return(nil, errors.New("api error SlowDown: please reduce your request rate")).Once()
	client.On("PutObject", mock.Anything, mock.Anything).
		Return(&s3.PutObjectOutput{}, nil).Once()

	sink := newS3Sink(client, S3Config{Bucket: "plans"}, fastRetry())
	loc, err := sink.Put(context.Background(), "schedule.xlsx", []byte("xlsx"))
	require.NoError(t, err)
	assert.Equal(t, "s3://plans/schedule.xlsx", loc)
	client.AssertNumberOfCalls(t, "PutObject", 2)
}

func TestS3Sink_PermanentError(t *testing.T) {
	t.Parallel()

	client := &mockS3{}
	client.On("PutObject", mock.Anything, mock.Anything).
		Return(nil, errors.New("AccessDenied")).Once()

	sink := newS3Sink(client, S3Config{Bucket: "plans"}, fastRetry())
	_, err := sink.Put(context.Background(), "schedule.xlsx", []byte("xlsx"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "s3://plans/schedule.xlsx")
	client.AssertNumberOfCalls(t, "PutObject", 1)
}

func TestS3Sink_BreakerOpens(t *testing.T) {
	t.Parallel()

	client := &mockS3{}
	client.On("PutObject", mock.Anything, mock.Anything).
		Return(nil, errors.New("AccessDenied"))

	sink := newS3Sink(client, S3Config{Bucket: "plans"}, fastRetry())
	for i := 0; i < resilience.DefaultBreakerConfig().FailureThreshold; i++ {
		_, err := sink.Put(context.Background(), "x.xlsx", nil)
		require.Error(t, err)
	}
	_, err := sink.Put(context.Background(), "x.xlsx", nil)
	require.ErrorIs(t, err, resilience.ErrBreakerOpen)
	client.AssertNumberOfCalls(t, "PutObject", resilience.DefaultBreakerConfig().FailureThreshold)
}

func TestNewS3Sink_RequiresBucket(t *testing.T) {
	t.Parallel()

	_, err := NewS3Sink(context.Background(), S3Config{}, fastRetry())
	require.Error(t, err)
}
