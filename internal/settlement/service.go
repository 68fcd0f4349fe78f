package settlement

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/MrJamesThe3rd/fundly/internal/donation"
	"github.com/MrJamesThe3rd/fundly/internal/ledger"
	"github.com/MrJamesThe3rd/fundly/internal/metrics"
)

//go:generate mockgen -source=service.go -destination=confirmer_mock.go -package=settlement
type Confirmer interface {
	Confirm(ctx context.Context, params donation.ConfirmParams) (*donation.ConfirmResult, error)
}

// Outcome is what happened to one settlement row.
type Outcome string

const (
	OutcomeApplied            Outcome = "applied"
	OutcomeDuplicate          Outcome = "duplicate"
	OutcomeUnknownTransaction Outcome = "unknown_transaction"
	OutcomeAmountMismatch     Outcome = "amount_mismatch"
	OutcomeConflict           Outcome = "conflict"
	OutcomeInvalid            Outcome = "invalid"
	OutcomeError              Outcome = "error"
)

type RowResult struct {
	Line          int
	TransactionID string
	Status        string
	Outcome       Outcome
	Allocations   int
	Error         string
}

type Report struct {
	Format  string
	Charset string
	Rows    []RowResult
	Applied int
	Failed  int
}

type Service struct {
	parser    *Parser
	confirmer Confirmer
}

func NewService(confirmer Confirmer) *Service {
	return &Service{parser: NewParser(), confirmer: confirmer}
}

// Import parses a settlement report and confirms each row through the regular
// payment confirmation path. Row failures are collected in the report; only an
// unreadable report is an error.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Report, error) {
	doc, err := s.parser.Parse(r)
	if err != nil {
		return nil, err
	}

	report := &Report{Format: doc.Format, Charset: string(doc.Charset), Rows: make([]RowResult, 0, len(doc.Rows))}

	for _, row := range doc.Rows {
		res := s.apply(ctx, row)
		metrics.SettlementRows.WithLabelValues(string(res.Outcome)).Inc()

		switch res.Outcome {
		case OutcomeApplied, OutcomeDuplicate:
			report.Applied++
		default:
			report.Failed++
		}

		report.Rows = append(report.Rows, res)
	}

	slog.Info("settlement report imported",
		"format", doc.Format,
		"charset", doc.Charset,
		"rows", len(doc.Rows),
		"applied", report.Applied,
		"failed", report.Failed,
	)

	return report, nil
}

func (s *Service) apply(ctx context.Context, row Row) RowResult {
	res := RowResult{Line: row.Line, TransactionID: row.TransactionID, Status: string(row.Status)}

	if row.Err != nil {
		res.Outcome = OutcomeInvalid
		res.Error = row.Err.Error()

		return res
	}

	confirmed, err := s.confirmer.Confirm(ctx, donation.ConfirmParams{
		TransactionID: row.TransactionID,
		Status:        row.Status,
		Amount:        row.Amount,
	})
	if err != nil {
		res.Outcome = rowOutcome(err)
		res.Error = err.Error()

		if res.Outcome == OutcomeError {
			slog.Error("failed to apply settlement row", "line", row.Line, "transaction_id", row.TransactionID, "error", err)
		}

		return res
	}

	res.Outcome = OutcomeApplied
	if confirmed.Duplicate {
		res.Outcome = OutcomeDuplicate
	}

	res.Allocations = len(confirmed.Allocations)

	return res
}

func rowOutcome(err error) Outcome {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return OutcomeUnknownTransaction
	case errors.Is(err, donation.ErrAmountMismatch):
		return OutcomeAmountMismatch
	case errors.Is(err, donation.ErrAlreadyConfirmed), errors.Is(err, ledger.ErrConcurrencyConflict):
		return OutcomeConflict
	case errors.Is(err, ledger.ErrValidation), errors.Is(err, ledger.ErrInvalidState):
		return OutcomeInvalid
	}

	return OutcomeError
}

// String renders the report as one line per failed row.
func (r *Report) String() string {
	out := fmt.Sprintf("format %s (%s): %d applied, %d failed\n", r.Format, r.Charset, r.Applied, r.Failed)

	for _, row := range r.Rows {
		if row.Outcome == OutcomeApplied || row.Outcome == OutcomeDuplicate {
			continue
		}

		out += fmt.Sprintf("line %d %s: %s %s\n", row.Line, row.TransactionID, row.Outcome, row.Error)
	}

	return out
}
