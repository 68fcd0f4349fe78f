package asset_test

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fundly/internal/asset"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/worker"
)

func TestRenderQR(t *testing.T) {
	b, err := asset.RenderQR("https://fundly.example.org/donation/abc")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())

	_, err = asset.RenderQR("")
	assert.Error(t, err)
}

func TestRenderCard(t *testing.T) {
	qr, err := asset.RenderQR("https://fundly.example.org/donation/abc")
	require.NoError(t, err)

	title := strings.Repeat("A very long campaign title ", 10)

	b, err := asset.RenderCard(qr, title, "Scan to donate")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 400, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())

	_, err = asset.RenderCard([]byte("not a png"), "t", "c")
	assert.Error(t, err)
}

type memStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func (m *memStorage) Put(_ context.Context, key, _ string, body []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return "", m.err
	}

	if m.objects == nil {
		m.objects = map[string][]byte{}
	}

	m.objects[key] = body

	return "https://cdn.test/" + key, nil
}

func TestService_GeneratePlacementAssets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := asset.NewMockRepository(ctrl)
	queue := asset.NewMockQueue(ctrl)
	store := &memStorage{}

	extID := uuid.MustParse("6f1c7a0e-8d0f-4c3b-9f55-1c2d3e4f5a6b")
	placement := &ledger.Placement{ID: 9, ExternalID: extID, CampaignID: 2, Name: "Poster", URL: "https://fundly.test/donation/" + extID.String()}

	repo.EXPECT().GetPlacement(gomock.Any(), int64(9)).Return(placement, nil)
	repo.EXPECT().GetCampaign(gomock.Any(), int64(2)).Return(&ledger.Campaign{ID: 2, Title: "Clean Water"}, nil)
	repo.EXPECT().SetPlacementAssets(gomock.Any(), int64(9),
		"https://cdn.test/placements/"+extID.String()+"/qr.png",
		"https://cdn.test/placements/"+extID.String()+"/card.png",
	).Return(nil)

	svc := asset.NewService(repo, store, queue)
	require.NoError(t, svc.GeneratePlacementAssets(context.Background(), 9))
	assert.Len(t, store.objects, 2)
}

func TestService_GeneratePlacementAssets_StorageFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := asset.NewMockRepository(ctrl)
	store := &memStorage{err: errors.New("bucket gone")}

	repo.EXPECT().GetPlacement(gomock.Any(), int64(9)).Return(&ledger.Placement{ID: 9, CampaignID: 2, URL: "https://x"}, nil)
	repo.EXPECT().GetCampaign(gomock.Any(), int64(2)).Return(&ledger.Campaign{ID: 2}, nil)

	svc := asset.NewService(repo, store, asset.NewMockQueue(ctrl))
	assert.Error(t, svc.GeneratePlacementAssets(context.Background(), 9))
}

func TestService_EnqueuePlacementAssets(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := asset.NewMockRepository(ctrl)
	queue := asset.NewMockQueue(ctrl)

	var job worker.Job

	queue.EXPECT().Submit(gomock.Any()).DoAndReturn(func(j worker.Job) error {
		job = j
		return nil
	})

	svc := asset.NewService(repo, &memStorage{}, queue)
	require.NoError(t, svc.EnqueuePlacementAssets(5))
	require.NotNil(t, job)

	// A failing job is logged, not propagated.
	repo.EXPECT().GetPlacement(gomock.Any(), int64(5)).Return(nil, ledger.ErrNotFound)
	job(context.Background())
}

func TestService_EnqueuePlacementAssets_QueueFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	queue := asset.NewMockQueue(ctrl)
	queue.EXPECT().Submit(gomock.Any()).Return(worker.ErrQueueFull)

	svc := asset.NewService(asset.NewMockRepository(ctrl), &memStorage{}, queue)
	assert.ErrorIs(t, svc.EnqueuePlacementAssets(5), worker.ErrQueueFull)
}
