package withdrawal_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
	"github.com/MrJamesThe3rd/fundly/internal/withdrawal"
)

var reviewTime = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    withdrawal.CreateParams
		setupMock func(m *withdrawal.MockRepository)
		wantErr   error
	}

	campaign := &ledger.Campaign{ID: 3, OrganizerID: "org-1", UnallocatedAmount: money.MustParse("10")}

	tests := []testCase{
		{
			name:   "Success",
			params: withdrawal.CreateParams{CampaignID: 3, RequestedBy: "org-1", Amount: money.MustParse("500")},
			setupMock: func(m *withdrawal.MockRepository) {
				m.EXPECT().GetCampaign(gomock.Any(), int64(3)).Return(campaign, nil)
				m.EXPECT().
					CreateRequest(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, r *withdrawal.Request) error {
						assert.Equal(t, withdrawal.StatusRequested, r.Status)
						r.ID = 1
						r.ExternalID = uuid.New()
						return nil
					})
			},
		},
		{
			name:      "NonPositiveAmount",
			params:    withdrawal.CreateParams{CampaignID: 3, RequestedBy: "org-1", Amount: money.MustParse("-1")},
			setupMock: func(*withdrawal.MockRepository) {},
			wantErr:   ledger.ErrValidation,
		},
		{
			name:   "NotOrganizer",
			params: withdrawal.CreateParams{CampaignID: 3, RequestedBy: "someone-else", Amount: money.MustParse("5")},
			setupMock: func(m *withdrawal.MockRepository) {
				m.EXPECT().GetCampaign(gomock.Any(), int64(3)).Return(campaign, nil)
			},
			wantErr: ledger.ErrForbidden,
		},
		{
			name:   "DeletedCampaign",
			params: withdrawal.CreateParams{CampaignID: 4, RequestedBy: "org-1", Amount: money.MustParse("5")},
			setupMock: func(m *withdrawal.MockRepository) {
				m.EXPECT().GetCampaign(gomock.Any(), int64(4)).Return(&ledger.Campaign{ID: 4, OrganizerID: "org-1", Deleted: true}, nil)
			},
			wantErr: ledger.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := withdrawal.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := withdrawal.NewService(repo)
			r, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, r)

				return
			}

			require.NoError(t, err)
			assert.False(t, r.Approved())
		})
	}
}

func TestService_Review(t *testing.T) {
	type testCase struct {
		name       string
		approve    bool
		request    withdrawal.Request
		campaign   ledger.Campaign
		setupTx    func(tx *withdrawal.MockReviewTx)
		wantErr    error
		wantStatus withdrawal.Status
	}

	extID := uuid.New()
	pending := withdrawal.Request{ID: 7, ExternalID: extID, CampaignID: 3, Amount: money.MustParse("40"), Status: withdrawal.StatusRequested}
	reviewed := pending
	reviewed.Status = withdrawal.StatusRejected

	tests := []testCase{
		{
			name:     "ApproveDecrementsUnallocated",
			approve:  true,
			request:  pending,
			campaign: ledger.Campaign{ID: 3, UnallocatedAmount: money.MustParse("100")},
			setupTx: func(tx *withdrawal.MockReviewTx) {
				tx.EXPECT().
					UpdateUnallocated(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *ledger.Campaign) error {
						assert.Equal(t, "60.00", c.UnallocatedAmount.String())
						return nil
					})
				tx.EXPECT().UpdateReview(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			},
			wantStatus: withdrawal.StatusApproved,
		},
		{
			name:     "ApproveExactBalance",
			approve:  true,
			request:  pending,
			campaign: ledger.Campaign{ID: 3, UnallocatedAmount: money.MustParse("40")},
			setupTx: func(tx *withdrawal.MockReviewTx) {
				tx.EXPECT().UpdateUnallocated(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().UpdateReview(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			},
			wantStatus: withdrawal.StatusApproved,
		},
		{
			name:     "InsufficientFundsLeavesBalances",
			approve:  true,
			request:  pending,
			campaign: ledger.Campaign{ID: 3, UnallocatedAmount: money.MustParse("39.99")},
			setupTx:  func(*withdrawal.MockReviewTx) {},
			wantErr:  ledger.ErrInsufficientFunds,
		},
		{
			name:     "RejectMovesNoFunds",
			approve:  false,
			request:  pending,
			campaign: ledger.Campaign{ID: 3, UnallocatedAmount: money.MustParse("0")},
			setupTx: func(tx *withdrawal.MockReviewTx) {
				tx.EXPECT().UpdateReview(gomock.Any(), gomock.Any()).Return(nil)
				tx.EXPECT().Commit().Return(nil)
			},
			wantStatus: withdrawal.StatusRejected,
		},
		{
			name:     "AlreadyReviewed",
			approve:  true,
			request:  reviewed,
			campaign: ledger.Campaign{ID: 3, UnallocatedAmount: money.MustParse("100")},
			setupTx:  func(*withdrawal.MockReviewTx) {},
			wantErr:  withdrawal.ErrAlreadyReviewed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := withdrawal.NewMockRepository(ctrl)
			tx := withdrawal.NewMockReviewTx(ctrl)

			request, campaign := tt.request, tt.campaign

			repo.EXPECT().GetRequest(gomock.Any(), extID).Return(&request, nil)
			repo.EXPECT().BeginReview(gomock.Any(), int64(3)).Return(tx, nil)
			tx.EXPECT().LockCampaign(gomock.Any(), int64(3)).Return(&campaign, nil)
			tx.EXPECT().LockRequest(gomock.Any(), int64(7)).Return(&request, nil)
			tx.EXPECT().Rollback().Return(nil)
			tt.setupTx(tx)

			svc := withdrawal.NewService(repo, withdrawal.WithClock(func() time.Time { return reviewTime }))

			review := svc.Reject
			if tt.approve {
				review = svc.Approve
			}

			r, err := review(context.Background(), extID, "admin-1", "ok")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, r)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, r.Status)
			require.NotNil(t, r.ReviewedBy)
			assert.Equal(t, "admin-1", *r.ReviewedBy)
			assert.Equal(t, reviewTime, *r.ReviewedAt)
		})
	}
}

func TestErrAlreadyReviewed_IsInvalidState(t *testing.T) {
	assert.ErrorIs(t, withdrawal.ErrAlreadyReviewed, ledger.ErrInvalidState)
}

func TestService_Review_RetriesOnConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := withdrawal.NewMockRepository(ctrl)
	tx := withdrawal.NewMockReviewTx(ctrl)

	extID := uuid.New()
	request := &withdrawal.Request{ID: 7, ExternalID: extID, CampaignID: 3, Amount: money.MustParse("1"), Status: withdrawal.StatusRequested}

	repo.EXPECT().GetRequest(gomock.Any(), extID).Return(request, nil)
	gomock.InOrder(
		repo.EXPECT().BeginReview(gomock.Any(), int64(3)).Return(nil, ledger.ErrConcurrencyConflict),
		repo.EXPECT().BeginReview(gomock.Any(), int64(3)).Return(tx, nil),
	)
	tx.EXPECT().LockCampaign(gomock.Any(), int64(3)).Return(&ledger.Campaign{ID: 3}, nil)
	tx.EXPECT().LockRequest(gomock.Any(), int64(7)).Return(request, nil)
	tx.EXPECT().UpdateReview(gomock.Any(), gomock.Any()).Return(nil)
	tx.EXPECT().Commit().Return(nil)
	tx.EXPECT().Rollback().Return(nil)

	svc := withdrawal.NewService(repo, withdrawal.WithRetries(3))
	r, err := svc.Reject(context.Background(), extID, "admin-1", "")
	require.NoError(t, err)
	assert.Equal(t, withdrawal.StatusRejected, r.Status)
}

func TestService_ListPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := withdrawal.NewMockRepository(ctrl)
	repo.EXPECT().
		ListRequests(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f withdrawal.ListFilter) ([]*withdrawal.Request, error) {
			require.NotNil(t, f.Status)
			assert.Equal(t, withdrawal.StatusRequested, *f.Status)
			assert.Nil(t, f.CampaignID)

			return []*withdrawal.Request{{ID: 1}}, nil
		})

	svc := withdrawal.NewService(repo)
	got, err := svc.ListPending(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
