package settlement

import (
	"strings"

	"github.com/MrJamesThe3rd/fundly/internal/ledger"
)

var statusAliases = map[string]ledger.DonationStatus{
	"success":   ledger.DonationSuccess,
	"succeeded": ledger.DonationSuccess,
	"paid":      ledger.DonationSuccess,
	"completed": ledger.DonationSuccess,
	"pago":      ledger.DonationSuccess,
	"concluído": ledger.DonationSuccess,

	"failed":   ledger.DonationFailed,
	"declined": ledger.DonationFailed,
	"falhado":  ledger.DonationFailed,
	"recusado": ledger.DonationFailed,

	"cancelled": ledger.DonationCancelled,
	"canceled":  ledger.DonationCancelled,
	"voided":    ledger.DonationCancelled,
	"cancelado": ledger.DonationCancelled,
	"anulado":   ledger.DonationCancelled,
}

// parseStatus maps a report status to a final donation status.
func parseStatus(s string) (ledger.DonationStatus, bool) {
	status, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	return status, ok
}
