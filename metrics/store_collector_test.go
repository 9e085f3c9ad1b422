package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/JSONbored/directory-relay/event/mocks"
	"github.com/stretchr/testify/assert"
)

func TestStoreCollector_GetStatusCounts(t *testing.T) {
	ctx := context.Background()

	t.Run("success - passes through store counts", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("StatusCounts", ctx).Return(map[string]int64{
			"pending":   3,
			"processed": 10,
			"failed":    1,
		}, nil)

		counts, err := NewStoreCollector(repo).GetStatusCounts(ctx)
		assert.Nil(t, err)
		assert.Equal(t, int64(3), counts["pending"])
		assert.Equal(t, int64(10), counts["processed"])
		assert.Equal(t, int64(1), counts["failed"])
	})

	t.Run("success - fills missing states with zero", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("StatusCounts", ctx).Return(map[string]int64{"processed": 2}, nil)

		counts, err := NewStoreCollector(repo).GetStatusCounts(ctx)
		assert.Nil(t, err)
		assert.Equal(t, int64(0), counts["pending"])
		assert.Equal(t, int64(0), counts["failed"])
		assert.Equal(t, int64(2), counts["processed"])
	})

	t.Run("error - store failure", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("StatusCounts", ctx).Return(nil, errors.New("db down"))

		_, err := NewStoreCollector(repo).GetStatusCounts(ctx)
		assert.NotNil(t, err)
	})
}

func TestStoreCollector_Collect(t *testing.T) {
	ctx := context.Background()

	t.Run("success - stamps collection time", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("StatusCounts", ctx).Return(map[string]int64{"pending": 1}, nil)

		m, err := NewStoreCollector(repo).Collect(ctx)
		assert.Nil(t, err)
		assert.Equal(t, int64(1), m.StatusCounts["pending"])
		assert.False(t, m.Timestamp.IsZero())
	})
}
