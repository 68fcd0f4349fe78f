package donation_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fundly/internal/donation"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
)

var createdAt = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestService_Create(t *testing.T) {
	campaignID := uuid.New()
	placementID := uuid.New()
	live := &ledger.Campaign{ID: 5, ExternalID: campaignID, IsActive: true}

	type testCase struct {
		name      string
		params    donation.CreateParams
		setupMock func(m *donation.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: donation.CreateParams{CampaignID: campaignID, Amount: money.MustParse("25"), TransactionID: " tx-1 "},
			setupMock: func(m *donation.MockRepository) {
				m.EXPECT().GetCampaignByExternalID(gomock.Any(), campaignID).Return(live, nil)
				m.EXPECT().
					CreateDonation(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, d *ledger.Donation) error {
						assert.Equal(t, int64(5), d.CampaignID)
						assert.Equal(t, "tx-1", d.TransactionID)
						assert.Equal(t, ledger.DonationPending, d.Status)
						assert.Equal(t, createdAt, d.Timestamp)
						assert.Nil(t, d.PlacementID)
						d.ID = 1
						return nil
					})
			},
		},
		{
			name: "WithPlacement",
			params: donation.CreateParams{
				CampaignID:    campaignID,
				PlacementID:   &placementID,
				DonorID:       new("donor-1"),
				Amount:        money.MustParse("25"),
				TransactionID: "tx-2",
			},
			setupMock: func(m *donation.MockRepository) {
				m.EXPECT().GetCampaignByExternalID(gomock.Any(), campaignID).Return(live, nil)
				m.EXPECT().GetPlacementByExternalID(gomock.Any(), placementID).Return(&ledger.Placement{ID: 9, CampaignID: 5}, nil)
				m.EXPECT().
					CreateDonation(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, d *ledger.Donation) error {
						require.NotNil(t, d.PlacementID)
						assert.Equal(t, int64(9), *d.PlacementID)
						assert.Equal(t, "donor-1", *d.DonorID)
						return nil
					})
			},
		},
		{
			name:   "PlacementOfOtherCampaign",
			params: donation.CreateParams{CampaignID: campaignID, PlacementID: &placementID, Amount: money.MustParse("1"), TransactionID: "tx-3"},
			setupMock: func(m *donation.MockRepository) {
				m.EXPECT().GetCampaignByExternalID(gomock.Any(), campaignID).Return(live, nil)
				m.EXPECT().GetPlacementByExternalID(gomock.Any(), placementID).Return(&ledger.Placement{ID: 9, CampaignID: 6}, nil)
			},
			wantErr: ledger.ErrValidation,
		},
		{
			name:      "ZeroAmount",
			params:    donation.CreateParams{CampaignID: campaignID, Amount: money.Zero, TransactionID: "tx-4"},
			setupMock: func(*donation.MockRepository) {},
			wantErr:   ledger.ErrValidation,
		},
		{
			name:      "MissingTransactionID",
			params:    donation.CreateParams{CampaignID: campaignID, Amount: money.MustParse("1")},
			setupMock: func(*donation.MockRepository) {},
			wantErr:   ledger.ErrValidation,
		},
		{
			name:   "InactiveCampaign",
			params: donation.CreateParams{CampaignID: campaignID, Amount: money.MustParse("1"), TransactionID: "tx-5"},
			setupMock: func(m *donation.MockRepository) {
				m.EXPECT().GetCampaignByExternalID(gomock.Any(), campaignID).Return(&ledger.Campaign{ID: 5}, nil)
			},
			wantErr: ledger.ErrInvalidState,
		},
		{
			name:   "DuplicateTransaction",
			params: donation.CreateParams{CampaignID: campaignID, Amount: money.MustParse("1"), TransactionID: "tx-1"},
			setupMock: func(m *donation.MockRepository) {
				m.EXPECT().GetCampaignByExternalID(gomock.Any(), campaignID).Return(live, nil)
				m.EXPECT().CreateDonation(gomock.Any(), gomock.Any()).Return(donation.ErrDuplicateTransaction)
			},
			wantErr: donation.ErrDuplicateTransaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := donation.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := donation.NewService(repo, donation.NewMockAllocator(ctrl), donation.WithClock(func() time.Time { return createdAt }))
			d, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, d)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, ledger.DonationPending, d.Status)
		})
	}
}

func TestService_Confirm(t *testing.T) {
	pending := func() *ledger.Donation {
		return &ledger.Donation{ID: 3, TransactionID: "tx-1", Amount: money.MustParse("50"), Status: ledger.DonationPending}
	}

	type testCase struct {
		name          string
		params        donation.ConfirmParams
		setupMock     func(m *donation.MockRepository, a *donation.MockAllocator)
		wantErr       error
		wantDuplicate bool
		wantAllocs    int
	}

	tests := []testCase{
		{
			name:   "SuccessAllocates",
			params: donation.ConfirmParams{TransactionID: "tx-1", Status: ledger.DonationSuccess, Amount: new(money.MustParse("50.00"))},
			setupMock: func(m *donation.MockRepository, a *donation.MockAllocator) {
				m.EXPECT().GetDonationByTransactionID(gomock.Any(), "tx-1").Return(pending(), nil)
				m.EXPECT().TransitionStatus(gomock.Any(), int64(3), ledger.DonationSuccess).Return(true, nil)
				a.EXPECT().OnDonationSucceeded(gomock.Any(), int64(3)).Return([]*ledger.FundAllocation{{ID: 1}}, nil)
			},
			wantAllocs: 1,
		},
		{
			name:   "FailedDoesNotAllocate",
			params: donation.ConfirmParams{TransactionID: "tx-1", Status: ledger.DonationFailed},
			setupMock: func(m *donation.MockRepository, _ *donation.MockAllocator) {
				m.EXPECT().GetDonationByTransactionID(gomock.Any(), "tx-1").Return(pending(), nil)
				m.EXPECT().TransitionStatus(gomock.Any(), int64(3), ledger.DonationFailed).Return(true, nil)
			},
		},
		{
			name:   "RepeatedSuccessIsDuplicate",
			params: donation.ConfirmParams{TransactionID: "tx-1", Status: ledger.DonationSuccess},
			setupMock: func(m *donation.MockRepository, _ *donation.MockAllocator) {
				d := pending()
				d.Status = ledger.DonationSuccess
				d.Credited = true
				m.EXPECT().GetDonationByTransactionID(gomock.Any(), "tx-1").Return(d, nil)
			},
			wantDuplicate: true,
		},
		{
			name:   "UncreditedSuccessIsResumed",
			params: donation.ConfirmParams{TransactionID: "tx-1", Status: ledger.DonationSuccess},
			setupMock: func(m *donation.MockRepository, a *donation.MockAllocator) {
				d := pending()
				d.Status = ledger.DonationSuccess
				m.EXPECT().GetDonationByTransactionID(gomock.Any(), "tx-1").Return(d, nil)
				a.EXPECT().OnDonationSucceeded(gomock.Any(), int64(3)).Return(nil, nil)
			},
		},
		{
			name:   "RepeatedFailureIsDuplicate",
			params: donation.ConfirmParams{TransactionID: "tx-1", Status: ledger.DonationFailed},
			setupMock: func(m *donation.MockRepository, _ *donation.MockAllocator) {
				d := pending()
				d.Status = ledger.DonationFailed
				m.EXPECT().GetDonationByTransactionID(gomock.Any(), "tx-1").Return(d, nil)
			},
			wantDuplicate: true,
		},
		{
			name:   "ConflictingStatus",
			params: donation.ConfirmParams{TransactionID: "tx-1", Status: ledger.DonationSuccess},
			setupMock: func(m *donation.MockRepository, _ *donation.MockAllocator) {
				d := pending()
				d.Status = ledger.DonationCancelled
				m.EXPECT().GetDonationByTransactionID(gomock.Any(), "tx-1").Return(d, nil)
			},
			wantErr: donation.ErrAlreadyConfirmed,
		},
		{
			name:   "LostRace",
			params: donation.ConfirmParams{TransactionID: "tx-1", Status: ledger.DonationSuccess},
			setupMock: func(m *donation.MockRepository, _ *donation.MockAllocator) {
				failed := pending()
				failed.Status = ledger.DonationFailed
				gomock.InOrder(
					m.EXPECT().GetDonationByTransactionID(gomock.Any(), "tx-1").Return(pending(), nil),
					m.EXPECT().TransitionStatus(gomock.Any(), int64(3), ledger.DonationSuccess).Return(false, nil),
					m.EXPECT().GetDonationByTransactionID(gomock.Any(), "tx-1").Return(failed, nil),
				)
			},
			wantErr: ledger.ErrInvalidState,
		},
		{
			name:   "AmountMismatch",
			params: donation.ConfirmParams{TransactionID: "tx-1", Status: ledger.DonationSuccess, Amount: new(money.MustParse("49.99"))},
			setupMock: func(m *donation.MockRepository, _ *donation.MockAllocator) {
				m.EXPECT().GetDonationByTransactionID(gomock.Any(), "tx-1").Return(pending(), nil)
			},
			wantErr: donation.ErrAmountMismatch,
		},
		{
			name:   "UnknownTransaction",
			params: donation.ConfirmParams{TransactionID: "nope", Status: ledger.DonationSuccess},
			setupMock: func(m *donation.MockRepository, _ *donation.MockAllocator) {
				m.EXPECT().GetDonationByTransactionID(gomock.Any(), "nope").Return(nil, ledger.ErrNotFound)
			},
			wantErr: ledger.ErrNotFound,
		},
		{
			name:      "PendingIsNotAConfirmation",
			params:    donation.ConfirmParams{TransactionID: "tx-1", Status: ledger.DonationPending},
			setupMock: func(*donation.MockRepository, *donation.MockAllocator) {},
			wantErr:   ledger.ErrValidation,
		},
		{
			name:   "AllocationConflictSurfaces",
			params: donation.ConfirmParams{TransactionID: "tx-1", Status: ledger.DonationSuccess},
			setupMock: func(m *donation.MockRepository, a *donation.MockAllocator) {
				m.EXPECT().GetDonationByTransactionID(gomock.Any(), "tx-1").Return(pending(), nil)
				m.EXPECT().TransitionStatus(gomock.Any(), int64(3), ledger.DonationSuccess).Return(true, nil)
				a.EXPECT().OnDonationSucceeded(gomock.Any(), int64(3)).Return(nil, ledger.ErrConcurrencyConflict)
			},
			wantErr: ledger.ErrConcurrencyConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := donation.NewMockRepository(ctrl)
			alloc := donation.NewMockAllocator(ctrl)
			tt.setupMock(repo, alloc)

			svc := donation.NewService(repo, alloc)
			res, err := svc.Confirm(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.params.Status, res.Donation.Status)
			assert.Equal(t, tt.wantDuplicate, res.Duplicate)
			assert.Len(t, res.Allocations, tt.wantAllocs)
		})
	}
}

func TestService_Confirm_RetriesAllocation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := donation.NewMockRepository(ctrl)
	alloc := donation.NewMockAllocator(ctrl)

	repo.EXPECT().GetDonationByTransactionID(gomock.Any(), "tx-1").
		Return(&ledger.Donation{ID: 3, Amount: money.MustParse("1"), Status: ledger.DonationPending}, nil)
	repo.EXPECT().TransitionStatus(gomock.Any(), int64(3), ledger.DonationSuccess).Return(true, nil)
	gomock.InOrder(
		alloc.EXPECT().OnDonationSucceeded(gomock.Any(), int64(3)).Return(nil, ledger.ErrConcurrencyConflict),
		alloc.EXPECT().OnDonationSucceeded(gomock.Any(), int64(3)).Return([]*ledger.FundAllocation{{ID: 1}}, nil),
	)

	svc := donation.NewService(repo, alloc, donation.WithRetries(3, time.Millisecond))
	res, err := svc.Confirm(context.Background(), donation.ConfirmParams{TransactionID: "tx-1", Status: ledger.DonationSuccess})
	require.NoError(t, err)
	assert.Len(t, res.Allocations, 1)
	assert.True(t, res.Donation.Credited)
}

func TestService_CreditPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := donation.NewMockRepository(ctrl)
	alloc := donation.NewMockAllocator(ctrl)

	repo.EXPECT().
		ListDonations(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f donation.ListFilter) ([]*ledger.Donation, error) {
			require.NotNil(t, f.Status)
			require.NotNil(t, f.Credited)
			assert.Equal(t, ledger.DonationSuccess, *f.Status)
			assert.False(t, *f.Credited)

			return []*ledger.Donation{{ID: 1}, {ID: 2}}, nil
		})
	alloc.EXPECT().OnDonationSucceeded(gomock.Any(), int64(1)).Return(nil, nil)
	alloc.EXPECT().OnDonationSucceeded(gomock.Any(), int64(2)).Return(nil, nil)

	n, err := donation.NewService(repo, alloc).CreditPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
