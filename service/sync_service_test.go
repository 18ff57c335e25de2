package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"kardly-server/models"
	"kardly-server/repository/repotest"
	"kardly-server/service"
	"kardly-server/service/mocks"
	"kardly-server/utils"
)

func uploadName() string {
	return utils.UploadFileName(uuid.New(), ".png")
}

func TestReconcilerSweep(t *testing.T) {
	ctrl := gomock.NewController(t)
	assets := mocks.NewMockRemoteAssetStore(ctrl)
	store := repotest.NewStore()
	store.AddPhotocard(nil, "h-referenced")

	objects := []models.RemoteObject{
		{Handle: "h-referenced", Name: uploadName()},
		{Handle: "h-orphan", Name: uploadName()},
		{Handle: "h-foreign", Name: "holiday.jpg"},
		{Handle: "h-stuck", Name: uploadName()},
	}

	start := time.Now()
	assets.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, cutoff time.Time) ([]models.RemoteObject, error) {
		assert.WithinDuration(t, start.Add(-time.Hour), cutoff, time.Minute)
		return objects, nil
	})
	assets.EXPECT().Delete(gomock.Any(), "h-orphan").Return(nil)
	assets.EXPECT().Delete(gomock.Any(), "h-stuck").Return(errors.New("rate limited"))

	r := service.NewReconciler(zaptest.NewLogger(t), assets, store)
	stats, err := r.Sweep(context.Background(), service.SweepOptions{OlderThan: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, service.SweepStats{Listed: 4, Referenced: 1, Skipped: 1, Deleted: 1, Failed: 1}, stats)
}

func TestReconcilerDryRun(t *testing.T) {
	ctrl := gomock.NewController(t)
	assets := mocks.NewMockRemoteAssetStore(ctrl)
	store := repotest.NewStore()

	assets.EXPECT().List(gomock.Any(), gomock.Any()).Return([]models.RemoteObject{
		{Handle: "h-1", Name: uploadName()},
		{Handle: "h-2", Name: uploadName()},
	}, nil)
	// no Delete expected

	r := service.NewReconciler(zaptest.NewLogger(t), assets, store)
	stats, err := r.Sweep(context.Background(), service.SweepOptions{OlderThan: time.Hour, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Deleted)
}

func TestReconcilerLookupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	assets := mocks.NewMockRemoteAssetStore(ctrl)
	store := repotest.NewStore()
	store.LookupErr = errors.New("connection reset")

	assets.EXPECT().List(gomock.Any(), gomock.Any()).Return([]models.RemoteObject{{Handle: "h-1", Name: uploadName()}}, nil)

	r := service.NewReconciler(zaptest.NewLogger(t), assets, store)
	stats, err := r.Sweep(context.Background(), service.SweepOptions{OlderThan: time.Hour})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Zero(t, stats.Deleted, "an asset that could not be checked is never deleted")
}

func TestReconcilerListFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	assets := mocks.NewMockRemoteAssetStore(ctrl)
	assets.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, errors.New("unauthorized"))

	r := service.NewReconciler(zaptest.NewLogger(t), assets, repotest.NewStore())
	_, err := r.Sweep(context.Background(), service.SweepOptions{OlderThan: time.Hour})
	require.Error(t, err)
}

func TestReconcilerRejectsNonPositiveAge(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := service.NewReconciler(zaptest.NewLogger(t), mocks.NewMockRemoteAssetStore(ctrl), repotest.NewStore())

	_, err := r.Sweep(context.Background(), service.SweepOptions{})
	require.Error(t, err)
	assert.Equal(t, models.CodeValidationError, service.Classify(err).Code)
}

func TestReconcilerStopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	assets := mocks.NewMockRemoteAssetStore(ctrl)
	ctx, cancel := context.WithCancel(context.Background())

	assets.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, time.Time) ([]models.RemoteObject, error) {
		cancel()
		return []models.RemoteObject{{Handle: "h-1", Name: uploadName()}}, nil
	})

	r := service.NewReconciler(zaptest.NewLogger(t), assets, repotest.NewStore())
	_, err := r.Sweep(ctx, service.SweepOptions{OlderThan: time.Hour})
	require.ErrorIs(t, err, context.Canceled)
}
