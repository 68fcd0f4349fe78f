package settlement

// decimalMark is the decimal separator used by a report's amount column.
type decimalMark rune

const (
	decimalPoint decimalMark = '.'
	decimalComma decimalMark = ','
)

// Profile describes the column layout of a settlement report format.
// Adding a new format is just adding a new Profile to the profiles slice.
type Profile struct {
	Name      string
	TxCol     string
	StatusCol string
	AmountCol string // optional; empty when the format carries no amount
	Decimal   decimalMark
}

func (p Profile) requiredCols() []string {
	cols := []string{p.TxCol, p.StatusCol}
	if p.AmountCol != "" {
		cols = append(cols, p.AmountCol)
	}

	return cols
}

// profiles is tried in order during detection. Profiles with more required
// columns come first.
var profiles = []Profile{
	{
		Name:      "gateway",
		TxCol:     "transaction_id",
		StatusCol: "status",
		AmountCol: "amount",
		Decimal:   decimalPoint,
	},
	{
		Name:      "payout",
		TxCol:     "Transaction ID",
		StatusCol: "Status",
		AmountCol: "Gross",
		Decimal:   decimalPoint,
	},
	{
		Name:      "multibanco",
		TxCol:     "Referência",
		StatusCol: "Estado",
		AmountCol: "Montante",
		Decimal:   decimalComma,
	},
	{
		Name:      "status-only",
		TxCol:     "transaction_id",
		StatusCol: "status",
	},
}
