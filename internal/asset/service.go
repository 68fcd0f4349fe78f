package asset

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/metrics"
	"github.com/MrJamesThe3rd/fundly/internal/storage"
	"github.com/MrJamesThe3rd/fundly/internal/worker"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=asset
type Repository interface {
	GetPlacement(ctx context.Context, id int64) (*ledger.Placement, error)
	GetCampaign(ctx context.Context, id int64) (*ledger.Campaign, error)
	SetPlacementAssets(ctx context.Context, id int64, qrCodeURL, donationCardURL string) error
}

type Queue interface {
	Submit(job worker.Job) error
}

// Service renders a placement's QR code and donation card off the request
// path. Failures are logged and never reach the ledger.
type Service struct {
	repo    Repository
	store   storage.Storage
	queue   Queue
	timeout time.Duration
}

func NewService(repo Repository, store storage.Storage, queue Queue) *Service {
	return &Service{repo: repo, store: store, queue: queue, timeout: time.Minute}
}

// EnqueuePlacementAssets schedules asset generation for a placement.
func (s *Service) EnqueuePlacementAssets(placementID int64) error {
	err := s.queue.Submit(func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		if err := s.GeneratePlacementAssets(ctx, placementID); err != nil {
			metrics.AssetJobs.WithLabelValues("error").Inc()
			slog.Error("failed to generate placement assets", "placement_id", placementID, "error", err)

			return
		}

		metrics.AssetJobs.WithLabelValues("ok").Inc()
	})
	if err != nil {
		metrics.AssetJobs.WithLabelValues("rejected").Inc()
		return fmt.Errorf("enqueueing placement assets: %w", err)
	}

	return nil
}

// GeneratePlacementAssets renders and stores both assets and records their URLs.
func (s *Service) GeneratePlacementAssets(ctx context.Context, placementID int64) error {
	p, err := s.repo.GetPlacement(ctx, placementID)
	if err != nil {
		return fmt.Errorf("getting placement: %w", err)
	}

	c, err := s.repo.GetCampaign(ctx, p.CampaignID)
	if err != nil {
		return fmt.Errorf("getting campaign: %w", err)
	}

	qr, err := RenderQR(p.URL)
	if err != nil {
		return err
	}

	card, err := RenderCard(qr, c.Title, "Scan to donate: "+p.Name)
	if err != nil {
		return err
	}

	prefix := "placements/" + p.ExternalID.String()

	qrURL, err := s.store.Put(ctx, prefix+"/qr.png", "image/png", qr)
	if err != nil {
		return fmt.Errorf("storing QR code: %w", err)
	}

	cardURL, err := s.store.Put(ctx, prefix+"/card.png", "image/png", card)
	if err != nil {
		return fmt.Errorf("storing donation card: %w", err)
	}

	if err := s.repo.SetPlacementAssets(ctx, p.ID, qrURL, cardURL); err != nil {
		return fmt.Errorf("saving asset urls: %w", err)
	}

	slog.Info("placement assets generated", "placement_id", p.ExternalID, "qr_code_url", qrURL)

	return nil
}
