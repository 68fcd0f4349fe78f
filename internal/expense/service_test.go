package expense_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fundly/internal/expense"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
	"github.com/MrJamesThe3rd/fundly/internal/storage"
)

var now = time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T, repo expense.Repository, alloc expense.Allocator, opts ...expense.Option) *expense.Service {
	t.Helper()

	opts = append([]expense.Option{expense.WithClock(func() time.Time { return now })}, opts...)

	return expense.NewService(repo, alloc, storage.NewLocal(t.TempDir(), "http://files.test"), opts...)
}

func TestService_Create(t *testing.T) {
	campaignID := uuid.New()
	campaign := &ledger.Campaign{ID: 2, ExternalID: campaignID, OrganizerID: "org-1"}

	type testCase struct {
		name          string
		params        expense.CreateParams
		setupMock     func(m *expense.MockRepository, a *expense.MockAllocator)
		wantErr       error
		wantExpense   bool
		wantAllocated string
	}

	tests := []testCase{
		{
			name:   "CoveredImmediately",
			params: expense.CreateParams{CampaignID: campaignID, CreatedBy: "org-1", Description: " Water pump ", Amount: money.MustParse("150")},
			setupMock: func(m *expense.MockRepository, a *expense.MockAllocator) {
				m.EXPECT().GetCampaignByExternalID(gomock.Any(), campaignID).Return(campaign, nil)
				m.EXPECT().
					CreateExpense(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *ledger.Expense) error {
						assert.Equal(t, "Water pump", e.Description)
						assert.Equal(t, now, e.Timestamp)
						assert.Equal(t, int64(2), e.CampaignID)
						e.ID = 7
						return nil
					})
				a.EXPECT().OnExpenseCreated(gomock.Any(), int64(7)).Return([]*ledger.FundAllocation{
					{DonationID: 1, ExpenseID: 7, AllocatedAmount: money.MustParse("100")},
					{DonationID: 2, ExpenseID: 7, AllocatedAmount: money.MustParse("50")},
				}, nil)
			},
			wantExpense:   true,
			wantAllocated: "150.00",
		},
		{
			name:   "NoFundsYet",
			params: expense.CreateParams{CampaignID: campaignID, CreatedBy: "org-1", Description: "Fuel", Amount: money.MustParse("20")},
			setupMock: func(m *expense.MockRepository, a *expense.MockAllocator) {
				m.EXPECT().GetCampaignByExternalID(gomock.Any(), campaignID).Return(campaign, nil)
				m.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
				a.EXPECT().OnExpenseCreated(gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantExpense:   true,
			wantAllocated: "0.00",
		},
		{
			name:   "NotOrganizer",
			params: expense.CreateParams{CampaignID: campaignID, CreatedBy: "donor-1", Description: "Fuel", Amount: money.MustParse("20")},
			setupMock: func(m *expense.MockRepository, _ *expense.MockAllocator) {
				m.EXPECT().GetCampaignByExternalID(gomock.Any(), campaignID).Return(campaign, nil)
			},
			wantErr: ledger.ErrForbidden,
		},
		{
			name:   "DeletedCampaign",
			params: expense.CreateParams{CampaignID: campaignID, CreatedBy: "org-1", Description: "Fuel", Amount: money.MustParse("20")},
			setupMock: func(m *expense.MockRepository, _ *expense.MockAllocator) {
				m.EXPECT().GetCampaignByExternalID(gomock.Any(), campaignID).Return(nil, ledger.ErrNotFound)
			},
			wantErr: ledger.ErrNotFound,
		},
		{
			name:      "NegativeAmount",
			params:    expense.CreateParams{CampaignID: campaignID, CreatedBy: "org-1", Description: "Fuel", Amount: money.MustParse("-20")},
			setupMock: func(*expense.MockRepository, *expense.MockAllocator) {},
			wantErr:   ledger.ErrValidation,
		},
		{
			name:      "MissingDescription",
			params:    expense.CreateParams{CampaignID: campaignID, CreatedBy: "org-1", Amount: money.MustParse("20")},
			setupMock: func(*expense.MockRepository, *expense.MockAllocator) {},
			wantErr:   ledger.ErrValidation,
		},
		{
			name: "StoredReceipt",
			params: expense.CreateParams{
				CampaignID: campaignID, CreatedBy: "org-1", Description: "Fuel", Amount: money.MustParse("20"),
				ReceiptURL: "http://files.test/receipts/fuel.pdf",
			},
			setupMock: func(m *expense.MockRepository, a *expense.MockAllocator) {
				m.EXPECT().GetCampaignByExternalID(gomock.Any(), campaignID).Return(campaign, nil)
				m.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
				a.EXPECT().OnExpenseCreated(gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantExpense: true,
		},
		{
			name: "ForeignReceiptURL",
			params: expense.CreateParams{
				CampaignID: campaignID, CreatedBy: "org-1", Description: "Fuel", Amount: money.MustParse("20"),
				ReceiptURL: "http://127.0.0.1:9000/latest/meta-data/iam",
			},
			setupMock: func(*expense.MockRepository, *expense.MockAllocator) {},
			wantErr:   ledger.ErrValidation,
		},
		{
			name:   "AllocationFailureKeepsExpense",
			params: expense.CreateParams{CampaignID: campaignID, CreatedBy: "org-1", Description: "Fuel", Amount: money.MustParse("20")},
			setupMock: func(m *expense.MockRepository, a *expense.MockAllocator) {
				m.EXPECT().GetCampaignByExternalID(gomock.Any(), campaignID).Return(campaign, nil)
				m.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
				a.EXPECT().OnExpenseCreated(gomock.Any(), gomock.Any()).Return(nil, ledger.ErrConcurrencyConflict)
			},
			wantErr:     ledger.ErrConcurrencyConflict,
			wantExpense: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			alloc := expense.NewMockAllocator(ctrl)
			tt.setupMock(repo, alloc)

			e, _, err := newService(t, repo, alloc).Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			if !tt.wantExpense {
				assert.Nil(t, e)
				return
			}

			require.NotNil(t, e)

			if tt.wantAllocated != "" {
				assert.Equal(t, tt.wantAllocated, e.Allocated.String())
			}
		})
	}
}

func TestService_Delete(t *testing.T) {
	extID := uuid.New()

	type testCase struct {
		name      string
		caller    string
		setupMock func(m *expense.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Organizer",
			caller: "org-1",
			setupMock: func(m *expense.MockRepository) {
				m.EXPECT().DeleteExpense(gomock.Any(), int64(7)).Return(nil)
			},
		},
		{
			name:      "Stranger",
			caller:    "someone",
			setupMock: func(*expense.MockRepository) {},
			wantErr:   ledger.ErrForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			repo.EXPECT().GetExpenseByExternalID(gomock.Any(), extID).Return(&ledger.Expense{ID: 7, CampaignID: 2}, nil)
			repo.EXPECT().GetCampaign(gomock.Any(), int64(2)).Return(&ledger.Campaign{ID: 2, OrganizerID: "org-1"}, nil)
			tt.setupMock(repo)

			err := newService(t, repo, expense.NewMockAllocator(ctrl)).Delete(context.Background(), extID, tt.caller)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestService_AttachReceipt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	extID := uuid.New()
	repo := expense.NewMockRepository(ctrl)

	repo.EXPECT().GetExpenseByExternalID(gomock.Any(), extID).Return(&ledger.Expense{ID: 7, ExternalID: extID, CampaignID: 2}, nil)
	repo.EXPECT().GetCampaign(gomock.Any(), int64(2)).Return(&ledger.Campaign{ID: 2, OrganizerID: "org-1"}, nil)
	repo.EXPECT().
		SetReceiptURL(gomock.Any(), int64(7), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, url string) error {
			assert.True(t, strings.HasPrefix(url, "http://files.test/receipts/"+extID.String()+"/"), url)
			assert.True(t, strings.HasSuffix(url, ".pdf"), url)
			return nil
		})

	svc := newService(t, repo, expense.NewMockAllocator(ctrl))
	e, err := svc.AttachReceipt(context.Background(), extID, "org-1", "application/pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.NotEmpty(t, e.ReceiptURL)
}

func TestService_AttachReceipt_Rejects(t *testing.T) {
	type testCase struct {
		name        string
		contentType string
		body        []byte
	}

	tests := []testCase{
		{name: "UnsupportedType", contentType: "text/html", body: []byte("<html>")},
		{name: "Empty", contentType: "image/png", body: nil},
		{name: "TooLarge", contentType: "image/png", body: make([]byte, expense.MaxReceiptSize+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc := newService(t, expense.NewMockRepository(ctrl), expense.NewMockAllocator(ctrl))
			_, err := svc.AttachReceipt(context.Background(), uuid.New(), "org-1", tt.contentType, tt.body)
			assert.ErrorIs(t, err, ledger.ErrValidation)
		})
	}
}

func TestService_CoverPending(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := expense.NewMockRepository(ctrl)
	alloc := expense.NewMockAllocator(ctrl)

	repo.EXPECT().ListExpenses(gomock.Any(), expense.ListFilter{Underfunded: true}).Return([]*ledger.Expense{{ID: 1}, {ID: 2}}, nil)
	alloc.EXPECT().OnExpenseCreated(gomock.Any(), int64(1)).Return([]*ledger.FundAllocation{{ID: 10}}, nil)
	alloc.EXPECT().OnExpenseCreated(gomock.Any(), int64(2)).Return(nil, errors.New("db down"))

	n, err := newService(t, repo, alloc).CoverPending(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 1, n)
}
