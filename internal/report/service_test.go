package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/money"
)

func at(day int) time.Time {
	return time.Date(2024, 5, day, 8, 0, 0, 0, time.UTC)
}

func TestService_Build(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepository(ctrl)
	extID := uuid.New()
	donor := "donor-1"

	c := &ledger.Campaign{
		ID:                1,
		ExternalID:        extID,
		Title:             "Clean Water",
		GoalAmount:        money.MustParse("1000"),
		TotalDonated:      money.MustParse("350"),
		UnallocatedAmount: money.MustParse("20"),
	}

	lines := []Line{
		{AllocationID: uuid.New(), AllocatedAt: at(2), Amount: money.MustParse("200"), DonationID: uuid.New(), DonationTimestamp: at(1), DonorID: &donor, PlacementName: "Poster", ExpenseID: uuid.New(), ExpenseDesc: "Pump"},
		{AllocationID: uuid.New(), AllocatedAt: at(4), Amount: money.MustParse("100"), DonationID: uuid.New(), DonationTimestamp: at(1), ExpenseID: uuid.New(), ExpenseDesc: "Pipes, fittings", ExpenseDeleted: true},
	}

	expenses := []ExpenseLine{
		{ExpenseID: lines[0].ExpenseID, Timestamp: at(2), Description: "Pump", Amount: money.MustParse("200"), Allocated: money.MustParse("200")},
		{ExpenseID: lines[1].ExpenseID, Timestamp: at(4), Description: "Pipes, fittings", Amount: money.MustParse("100"), Allocated: money.MustParse("100"), Deleted: true},
		{ExpenseID: uuid.New(), Timestamp: at(5), Description: "Labour", Amount: money.MustParse("500"), Allocated: money.Zero},
	}

	repo.EXPECT().GetCampaignByExternalID(gomock.Any(), extID).Return(c, nil)
	repo.EXPECT().ListAllocationLines(gomock.Any(), ledger.AllocationFilter{CampaignID: new(int64(1))}).Return(lines, nil)
	repo.EXPECT().ListExpenseLines(gomock.Any(), int64(1)).Return(expenses, nil)
	repo.EXPECT().ApprovedWithdrawals(gomock.Any(), int64(1)).Return(money.MustParse("30"), nil)

	svc := NewService(repo)
	svc.now = func() time.Time { return at(10) }

	r, err := svc.Build(context.Background(), extID)
	require.NoError(t, err)

	t.Run("CSV", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, r.WriteCSV(&buf))

		records, err := csv.NewReader(&buf).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 3)

		assert.Equal(t, csvHeader, records[0])
		assert.Equal(t, "200.00", records[1][2])
		assert.Equal(t, "donor-1", records[1][5])
		assert.Equal(t, "Poster", records[1][6])
		assert.Equal(t, "anonymous", records[2][5])
		assert.Equal(t, "Pipes, fittings", records[2][8])
		assert.Equal(t, "true", records[2][9])
	})

	t.Run("Summary", func(t *testing.T) {
		s := r.Summary()

		assert.Contains(t, s, "Clean Water")
		assert.Contains(t, s, "Generated 2024-05-10 08:00 UTC")
		assert.Contains(t, s, "Spent:              300.00")
		assert.Contains(t, s, "Withdrawn:           30.00")
		assert.Contains(t, s, "* 2024-05-02 | Pump | 200.00 / 200.00 | covered")
		assert.Contains(t, s, "| deleted")
		assert.Contains(t, s, "* 2024-05-05 | Labour | 0.00 / 500.00 | unfunded")
	})
}

func TestService_Build_UnknownCampaign(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepository(ctrl)
	repo.EXPECT().GetCampaignByExternalID(gomock.Any(), gomock.Any()).Return(nil, ledger.ErrNotFound)

	_, err := NewService(repo).Build(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestService_CampaignHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := NewMockRepository(ctrl)
	extID := uuid.New()
	lines := []Line{{AllocationID: uuid.New(), Amount: money.MustParse("5")}}

	repo.EXPECT().GetCampaignByExternalID(gomock.Any(), extID).Return(&ledger.Campaign{ID: 9}, nil)
	repo.EXPECT().ListAllocationLines(gomock.Any(), ledger.AllocationFilter{CampaignID: new(int64(9))}).Return(lines, nil)

	got, err := NewService(repo).CampaignHistory(context.Background(), extID)
	require.NoError(t, err)
	assert.Equal(t, lines, got)
}
