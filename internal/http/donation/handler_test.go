package donation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fundly/internal/auth"
	"github.com/MrJamesThe3rd/fundly/internal/donation"
	donationHandler "github.com/MrJamesThe3rd/fundly/internal/http/donation"
	"github.com/MrJamesThe3rd/fundly/internal/http/httpx"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
)

var tokens = auth.NewTokenManager("secret", "fundly", time.Hour)

func newRouter(repo donation.Repository, alloc donation.Allocator) http.Handler {
	h := donationHandler.NewHandler(donation.NewService(repo, alloc), nil)

	r := chi.NewRouter()
	r.Route("/donations", func(r chi.Router) {
		r.Use(httpx.Identify(tokens))
		h.Routes(r)
	})
	r.With(httpx.RequireSecret(donationHandler.SignatureHeader, "hook")).Route("/webhook", h.WebhookRoutes)

	return r
}

func TestHandler_Create_AttributesSignedInDonor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	campaignID := uuid.New()
	repo := donation.NewMockRepository(ctrl)

	repo.EXPECT().GetCampaignByExternalID(gomock.Any(), campaignID).Return(&ledger.Campaign{ID: 3, IsActive: true}, nil)
	repo.EXPECT().
		CreateDonation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, d *ledger.Donation) error {
			require.NotNil(t, d.DonorID)
			assert.Equal(t, "donor-9", *d.DonorID)
			d.ExternalID = uuid.New()
			return nil
		})

	token, err := tokens.Issue("donor-9", "donor")
	require.NoError(t, err)

	body := `{"campaign_id":"` + campaignID.String() + `","amount":"12.50","transaction_id":"tx-1"}`
	req := httptest.NewRequest(http.MethodPost, "/donations/", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	newRouter(repo, donation.NewMockAllocator(ctrl)).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "12.50", resp["amount"])
	assert.Equal(t, "pending", resp["status"])
}

func TestHandler_Create_AmountBeyondColumnRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	body := `{"campaign_id":"` + uuid.NewString() + `","amount":"10000000000000","transaction_id":"tx-big"}`
	req := httptest.NewRequest(http.MethodPost, "/donations/", strings.NewReader(body))

	rec := httptest.NewRecorder()
	newRouter(donation.NewMockRepository(ctrl), donation.NewMockAllocator(ctrl)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"code":"validation"`)
}

func TestHandler_Confirm(t *testing.T) {
	type testCase struct {
		name       string
		signature  string
		body       string
		setupMock  func(m *donation.MockRepository, a *donation.MockAllocator)
		wantStatus int
		wantBody   string
	}

	pending := func() *ledger.Donation {
		return &ledger.Donation{ID: 4, ExternalID: uuid.New(), Amount: money.MustParse("30"), Status: ledger.DonationPending}
	}

	tests := []testCase{
		{
			name:      "SuccessAllocates",
			signature: "hook",
			body:      `{"transaction_id":"tx-4","status":"success","amount":"30.00"}`,
			setupMock: func(m *donation.MockRepository, a *donation.MockAllocator) {
				m.EXPECT().GetDonationByTransactionID(gomock.Any(), "tx-4").Return(pending(), nil)
				m.EXPECT().TransitionStatus(gomock.Any(), int64(4), ledger.DonationSuccess).Return(true, nil)
				a.EXPECT().OnDonationSucceeded(gomock.Any(), int64(4)).Return([]*ledger.FundAllocation{
					{DonationID: 4, ExpenseID: 1, AllocatedAmount: money.MustParse("20")},
				}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"allocated_now":"20.00"`,
		},
		{
			name:      "ReplayIsDuplicate",
			signature: "hook",
			body:      `{"transaction_id":"tx-4","status":"failed"}`,
			setupMock: func(m *donation.MockRepository, _ *donation.MockAllocator) {
				d := pending()
				d.Status = ledger.DonationFailed
				m.EXPECT().GetDonationByTransactionID(gomock.Any(), "tx-4").Return(d, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `"duplicate":true`,
		},
		{
			name:      "ConflictingStatus",
			signature: "hook",
			body:      `{"transaction_id":"tx-4","status":"success"}`,
			setupMock: func(m *donation.MockRepository, _ *donation.MockAllocator) {
				d := pending()
				d.Status = ledger.DonationCancelled
				m.EXPECT().GetDonationByTransactionID(gomock.Any(), "tx-4").Return(d, nil)
			},
			wantStatus: http.StatusConflict,
		},
		{
			name:      "UnknownTransaction",
			signature: "hook",
			body:      `{"transaction_id":"nope","status":"success"}`,
			setupMock: func(m *donation.MockRepository, _ *donation.MockAllocator) {
				m.EXPECT().GetDonationByTransactionID(gomock.Any(), "nope").Return(nil, ledger.ErrNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "BadSignature",
			signature:  "guess",
			body:       `{"transaction_id":"tx-4","status":"success"}`,
			setupMock:  func(*donation.MockRepository, *donation.MockAllocator) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "MalformedBody",
			signature:  "hook",
			body:       `{"transaction_id":`,
			setupMock:  func(*donation.MockRepository, *donation.MockAllocator) {},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := donation.NewMockRepository(ctrl)
			alloc := donation.NewMockAllocator(ctrl)
			tt.setupMock(repo, alloc)

			req := httptest.NewRequest(http.MethodPost, "/webhook/", strings.NewReader(tt.body))
			req.Header.Set(donationHandler.SignatureHeader, tt.signature)

			rec := httptest.NewRecorder()
			newRouter(repo, alloc).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}
		})
	}
}
