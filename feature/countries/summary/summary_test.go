package summary_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"countrypulse/core/storage/mocks"
	"countrypulse/feature/countries/models"
	"countrypulse/feature/countries/summary"

	"github.com/minio/minio-go/v7"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestRender(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("TopCountries", func(t *testing.T) {
		top := []models.Country{
			{Name: "Nigeria", EstimatedGdp: lo.ToPtr(187500000.0)},
			{Name: "Ghana & Co", EstimatedGdp: lo.ToPtr(90000.0)},
		}

		svg := string(summary.Render(250, top, at))

		assert.Contains(t, svg, "<svg")
		assert.Contains(t, svg, "Nigeria")
		// Names are escaped for the SVG document.
		assert.Contains(t, svg, "Ghana &amp; Co")
		assert.Contains(t, svg, "250 countries")
		assert.Contains(t, svg, "2025-06-01T12:00:00Z")
	})

	t.Run("NullGdpExcluded", func(t *testing.T) {
		top := []models.Country{
			{Name: "Nigeria", EstimatedGdp: lo.ToPtr(100.0)},
			{Name: "Mystery"},
		}

		svg := string(summary.Render(2, top, at))
		assert.Contains(t, svg, "Nigeria")
		assert.NotContains(t, svg, "Mystery")
	})

	t.Run("EmptyTopList", func(t *testing.T) {
		svg := string(summary.Render(0, nil, at))
		assert.Contains(t, svg, "No GDP data available")
	})

	t.Run("PureFunction", func(t *testing.T) {
		top := []models.Country{{Name: "Nigeria", EstimatedGdp: lo.ToPtr(100.0)}}
		assert.Equal(t, summary.Render(1, top, at), summary.Render(1, top, at))
	})
}

func TestArtifactStore_PutFetch(t *testing.T) {
	mockClient := new(mocks.Client)
	store := summary.NewArtifactStore(mockClient, "test-bucket")
	data := []byte("<svg/>")

	mockClient.On("PutObject", mock.Anything, "test-bucket", summary.ObjectName,
		mock.Anything, int64(len(data)), mock.MatchedBy(func(opts minio.PutObjectOptions) bool {
			return opts.ContentType == summary.ContentType
		})).Return(minio.UploadInfo{}, nil)

	assert.NoError(t, store.Put(context.Background(), data))

	mockClient.On("GetObject", mock.Anything, "test-bucket", summary.ObjectName, mock.Anything).
		Return(io.NopCloser(bytes.NewReader(data)), nil)

	got, err := store.Fetch(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, data, got)

	mockClient.AssertExpectations(t)
}

func TestArtifactStore_FetchMissing(t *testing.T) {
	mockClient := new(mocks.Client)
	store := summary.NewArtifactStore(mockClient, "test-bucket")

	mockClient.On("GetObject", mock.Anything, "test-bucket", summary.ObjectName, mock.Anything).
		Return(nil, minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."})

	_, err := store.Fetch(context.Background())
	assert.ErrorIs(t, err, summary.ErrNoArtifact)
}

func TestArtifactStore_Ensure(t *testing.T) {
	t.Run("BucketExists", func(t *testing.T) {
		mockClient := new(mocks.Client)
		store := summary.NewArtifactStore(mockClient, "test-bucket")
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(true, nil)

		assert.NoError(t, store.Ensure(context.Background()))
		mockClient.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BucketCreated", func(t *testing.T) {
		mockClient := new(mocks.Client)
		store := summary.NewArtifactStore(mockClient, "test-bucket")
		mockClient.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)
		mockClient.On("MakeBucket", mock.Anything, "test-bucket", mock.Anything).Return(nil)

		assert.NoError(t, store.Ensure(context.Background()))
		mockClient.AssertExpectations(t)
	})
}
