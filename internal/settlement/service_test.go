package settlement_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fundly/internal/donation"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/settlement"
)

func TestService_Import(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	confirmer := settlement.NewMockConfirmer(ctrl)

	csv := `transaction_id,status,amount
tx-ok,success,100.00
tx-dup,success,50.00
tx-missing,success,10.00
tx-short,success,9.99
tx-raced,failed,5.00
tx-broken,success,1.00
tx-bad,refunded,1.00
`

	confirm := func(txID string) *gomock.Call {
		return confirmer.EXPECT().Confirm(gomock.Any(), gomock.Cond(func(p donation.ConfirmParams) bool {
			return p.TransactionID == txID
		}))
	}

	gomock.InOrder(
		confirm("tx-ok").DoAndReturn(func(_ context.Context, p donation.ConfirmParams) (*donation.ConfirmResult, error) {
			assert.Equal(t, ledger.DonationSuccess, p.Status)
			require.NotNil(t, p.Amount)
			assert.Equal(t, "100.00", p.Amount.String())

			return &donation.ConfirmResult{Allocations: make([]*ledger.FundAllocation, 2)}, nil
		}),
		confirm("tx-dup").Return(&donation.ConfirmResult{Duplicate: true}, nil),
		confirm("tx-missing").Return(nil, ledger.ErrNotFound),
		confirm("tx-short").Return(nil, donation.ErrAmountMismatch),
		confirm("tx-raced").Return(nil, donation.ErrAlreadyConfirmed),
		confirm("tx-broken").Return(nil, errors.New("connection reset")),
	)

	svc := settlement.NewService(confirmer)
	report, err := svc.Import(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, "gateway", report.Format)
	assert.Equal(t, 2, report.Applied)
	assert.Equal(t, 5, report.Failed)

	want := []settlement.Outcome{
		settlement.OutcomeApplied,
		settlement.OutcomeDuplicate,
		settlement.OutcomeUnknownTransaction,
		settlement.OutcomeAmountMismatch,
		settlement.OutcomeConflict,
		settlement.OutcomeError,
		settlement.OutcomeInvalid,
	}

	require.Len(t, report.Rows, len(want))

	for i, outcome := range want {
		assert.Equal(t, outcome, report.Rows[i].Outcome, report.Rows[i].TransactionID)
	}

	assert.Equal(t, 2, report.Rows[0].Allocations)
	assert.Contains(t, report.String(), "line 4 tx-missing: unknown_transaction")
}

func TestService_Import_UnknownFormat(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := settlement.NewService(settlement.NewMockConfirmer(ctrl))

	_, err := svc.Import(context.Background(), strings.NewReader("foo;bar\n1;2\n"))
	assert.ErrorIs(t, err, settlement.ErrUnknownFormat)
}
