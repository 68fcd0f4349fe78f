package campaign

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=campaign
type Repository interface {
	CreateCampaign(ctx context.Context, c *ledger.Campaign) error
	GetCampaign(ctx context.Context, id int64) (*ledger.Campaign, error)
	// GetCampaignByExternalID ignores soft-deleted campaigns.
	GetCampaignByExternalID(ctx context.Context, externalID uuid.UUID) (*ledger.Campaign, error)
	ListCampaigns(ctx context.Context, filter ListFilter) ([]*ledger.Campaign, error)
	// UpdateCampaignDetails never touches the balance columns.
	UpdateCampaignDetails(ctx context.Context, c *ledger.Campaign) error
	DeleteCampaign(ctx context.Context, id int64) error
	SetVerified(ctx context.Context, id int64, verified bool) error

	CreatePlacement(ctx context.Context, p *ledger.Placement) error
	GetPlacement(ctx context.Context, id int64) (*ledger.Placement, error)
	GetPlacementByExternalID(ctx context.Context, externalID uuid.UUID) (*ledger.Placement, error)
	ListPlacements(ctx context.Context, campaignID int64) ([]*ledger.Placement, error)
	ListPlacementsMissingAssets(ctx context.Context) ([]*ledger.Placement, error)
	UpdatePlacement(ctx context.Context, p *ledger.Placement) error
	DeletePlacement(ctx context.Context, id int64) error
}

// AssetQueue schedules QR code and donation card rendering for a placement.
type AssetQueue interface {
	EnqueuePlacementAssets(placementID int64) error
}

// Order is a sortable campaign column.
type Order string

const (
	OrderStartDate         Order = "start_date"
	OrderTotalDonated      Order = "total_donated"
	OrderUnallocatedAmount Order = "unallocated_amount"
)

type ListFilter struct {
	OrganizerID string
	IsActive    *bool
	Verified    *bool
	// Search matches title or description, case-insensitively.
	Search     string
	OrderBy    Order
	Descending bool
}

// ParseOrdering reads "field" or "-field" as used in ?ordering= query params.
func ParseOrdering(s string) (Order, bool, error) {
	if s == "" {
		return OrderStartDate, true, nil
	}

	desc := strings.HasPrefix(s, "-")

	switch o := Order(strings.TrimPrefix(s, "-")); o {
	case OrderStartDate, OrderTotalDonated, OrderUnallocatedAmount:
		return o, desc, nil
	}

	return "", false, fmt.Errorf("%w: unknown ordering %q", ledger.ErrValidation, s)
}

type Service struct {
	repo          Repository
	assets        AssetQueue
	publicBaseURL string
	now           func() time.Time
}

func NewService(repo Repository, assets AssetQueue, publicBaseURL string) *Service {
	return &Service{
		repo:          repo,
		assets:        assets,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		now:           time.Now,
	}
}

type CreateParams struct {
	OrganizerID string
	Title       string
	Description string
	GoalAmount  money.Money
	StartDate   *time.Time
	EndDate     *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*ledger.Campaign, error) {
	if params.OrganizerID == "" {
		return nil, fmt.Errorf("%w: organizer is required", ledger.ErrValidation)
	}

	c := &ledger.Campaign{
		Title:       strings.TrimSpace(params.Title),
		Description: params.Description,
		OrganizerID: params.OrganizerID,
		GoalAmount:  params.GoalAmount,
		IsActive:    true,
		StartDate:   s.now(),
		EndDate:     params.EndDate,
	}

	if params.StartDate != nil {
		c.StartDate = *params.StartDate
	}

	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.CreateCampaign(ctx, c); err != nil {
		return nil, err
	}

	slog.Info("campaign created", "campaign_id", c.ExternalID, "organizer_id", c.OrganizerID)

	return c, nil
}

func validate(c *ledger.Campaign) error {
	if c.Title == "" {
		return fmt.Errorf("%w: title is required", ledger.ErrValidation)
	}

	if !c.GoalAmount.IsPositive() {
		return fmt.Errorf("%w: goal amount must be positive", ledger.ErrValidation)
	}

	if c.EndDate != nil && !c.EndDate.After(c.StartDate) {
		return fmt.Errorf("%w: end date must be after start date", ledger.ErrValidation)
	}

	return nil
}

// Get returns a live campaign to anyone.
func (s *Service) Get(ctx context.Context, externalID uuid.UUID) (*ledger.Campaign, error) {
	return s.repo.GetCampaignByExternalID(ctx, externalID)
}

// GetOwned returns a live campaign only to its organizer.
func (s *Service) GetOwned(ctx context.Context, externalID uuid.UUID, callerID string) (*ledger.Campaign, error) {
	c, err := s.repo.GetCampaignByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if c.OrganizerID != callerID {
		return nil, fmt.Errorf("%w: not the campaign organizer", ledger.ErrForbidden)
	}

	return c, nil
}

// List returns the organizer's own live campaigns.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*ledger.Campaign, error) {
	if filter.OrganizerID == "" {
		return nil, fmt.Errorf("%w: organizer is required", ledger.ErrValidation)
	}

	if filter.OrderBy == "" {
		filter.OrderBy = OrderStartDate
	}

	return s.repo.ListCampaigns(ctx, filter)
}

// Browse lists campaigns across organizers for operators.
func (s *Service) Browse(ctx context.Context, filter ListFilter) ([]*ledger.Campaign, error) {
	if filter.OrderBy == "" {
		filter.OrderBy = OrderStartDate
	}

	return s.repo.ListCampaigns(ctx, filter)
}

// GetByID looks a campaign up by its internal id.
func (s *Service) GetByID(ctx context.Context, id int64) (*ledger.Campaign, error) {
	return s.repo.GetCampaign(ctx, id)
}

// UpdateParams holds the editable campaign fields. Nil fields are left as is.
type UpdateParams struct {
	Title       *string
	Description *string
	GoalAmount  *money.Money
	EndDate     *time.Time
	IsActive    *bool
}

func (s *Service) Update(ctx context.Context, externalID uuid.UUID, callerID string, params UpdateParams) (*ledger.Campaign, error) {
	c, err := s.GetOwned(ctx, externalID, callerID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		c.Title = strings.TrimSpace(*params.Title)
	}

	if params.Description != nil {
		c.Description = *params.Description
	}

	if params.GoalAmount != nil {
		c.GoalAmount = *params.GoalAmount
	}

	if params.EndDate != nil {
		c.EndDate = params.EndDate
	}

	if params.IsActive != nil {
		c.IsActive = *params.IsActive
	}

	if err := validate(c); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCampaignDetails(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// Delete soft-deletes the campaign. Its ledger history stays intact.
func (s *Service) Delete(ctx context.Context, externalID uuid.UUID, callerID string) error {
	c, err := s.GetOwned(ctx, externalID, callerID)
	if err != nil {
		return err
	}

	return s.repo.DeleteCampaign(ctx, c.ID)
}

// Verify sets the verified flag. Callers must have checked the admin role.
func (s *Service) Verify(ctx context.Context, externalID uuid.UUID, verified bool) (*ledger.Campaign, error) {
	c, err := s.repo.GetCampaignByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetVerified(ctx, c.ID, verified); err != nil {
		return nil, err
	}

	c.Verified = verified

	return c, nil
}

type PlacementParams struct {
	Name string
	URL  string
}

// CreatePlacement adds an attribution channel and schedules its assets. An
// empty URL defaults to the public donation page of the placement.
func (s *Service) CreatePlacement(ctx context.Context, campaignID uuid.UUID, callerID string, params PlacementParams) (*ledger.Placement, error) {
	c, err := s.GetOwned(ctx, campaignID, callerID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: placement name is required", ledger.ErrValidation)
	}

	p := &ledger.Placement{
		ExternalID: uuid.New(),
		CampaignID: c.ID,
		Name:       name,
		URL:        params.URL,
		CreatedBy:  callerID,
		CreatedAt:  s.now(),
	}

	if p.URL == "" {
		p.URL = s.donationURL(p.ExternalID)
	}

	if err := s.repo.CreatePlacement(ctx, p); err != nil {
		return nil, err
	}

	s.enqueueAssets(p)

	return p, nil
}

func (s *Service) donationURL(placementID uuid.UUID) string {
	return s.publicBaseURL + "/donation/" + placementID.String()
}

func (s *Service) enqueueAssets(p *ledger.Placement) {
	if err := s.assets.EnqueuePlacementAssets(p.ID); err != nil {
		slog.Error("failed to enqueue placement assets", "placement_id", p.ExternalID, "error", err)
	}
}

func (s *Service) ListPlacements(ctx context.Context, campaignID uuid.UUID, callerID string) ([]*ledger.Placement, error) {
	c, err := s.GetOwned(ctx, campaignID, callerID)
	if err != nil {
		return nil, err
	}

	return s.repo.ListPlacements(ctx, c.ID)
}

// ownedPlacement loads a live placement whose campaign the caller organizes.
func (s *Service) ownedPlacement(ctx context.Context, placementID uuid.UUID, callerID string) (*ledger.Placement, error) {
	p, err := s.repo.GetPlacementByExternalID(ctx, placementID)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.GetCampaign(ctx, p.CampaignID)
	if err != nil {
		return nil, err
	}

	if c.OrganizerID != callerID {
		return nil, fmt.Errorf("%w: not the campaign organizer", ledger.ErrForbidden)
	}

	return p, nil
}

// UpdatePlacement renames a placement or changes its URL. A new URL, or a
// placement still lacking its QR code, schedules asset rendering again.
func (s *Service) UpdatePlacement(ctx context.Context, placementID uuid.UUID, callerID string, params PlacementParams) (*ledger.Placement, error) {
	p, err := s.ownedPlacement(ctx, placementID, callerID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(params.Name); name != "" {
		p.Name = name
	}

	urlChanged := params.URL != "" && params.URL != p.URL
	if urlChanged {
		p.URL = params.URL
	}

	if err := s.repo.UpdatePlacement(ctx, p); err != nil {
		return nil, err
	}

	if urlChanged || p.QRCodeURL == "" {
		s.enqueueAssets(p)
	}

	return p, nil
}

func (s *Service) DeletePlacement(ctx context.Context, placementID uuid.UUID, callerID string) error {
	p, err := s.ownedPlacement(ctx, placementID, callerID)
	if err != nil {
		return err
	}

	return s.repo.DeletePlacement(ctx, p.ID)
}

// EnqueueMissingAssets schedules rendering for every live placement without a
// QR code. It returns how many jobs were queued.
func (s *Service) EnqueueMissingAssets(ctx context.Context) (int, error) {
	placements, err := s.repo.ListPlacementsMissingAssets(ctx)
	if err != nil {
		return 0, err
	}

	queued := 0

	for _, p := range placements {
		if err := s.assets.EnqueuePlacementAssets(p.ID); err != nil {
			return queued, fmt.Errorf("enqueueing placement %s: %w", p.ExternalID, err)
		}

		queued++
	}

	return queued, nil
}
