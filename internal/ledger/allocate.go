package ledger

import (
	"cmp"
	"slices"
	"time"

	"github.com/MrJamesThe3rd/fundly/internal/money"
)

// byAge orders records oldest first, falling back to the sequence id when
// timestamps collide so every pass walks candidates in the same order.
func byAge(at, bt time.Time, aID, bID int64) int {
	if c := at.Compare(bt); c != 0 {
		return c
	}

	return cmp.Compare(aID, bID)
}

func sortExpenses(expenses []*Expense) {
	slices.SortStableFunc(expenses, func(a, b *Expense) int {
		return byAge(a.Timestamp, b.Timestamp, a.ID, b.ID)
	})
}

func sortDonations(donations []*Donation) {
	slices.SortStableFunc(donations, func(a, b *Donation) int {
		return byAge(a.Timestamp, b.Timestamp, a.ID, b.ID)
	})
}

// allocateDonation spends d on the given expenses oldest first.
// At most budget is spent in total. Deleted expenses and expenses with no
// remaining need are skipped. The Allocated fields of d and of every touched
// expense are advanced in place.
func allocateDonation(d *Donation, expenses []*Expense, budget money.Money, now time.Time) []*FundAllocation {
	sortExpenses(expenses)

	var allocs []*FundAllocation

	for _, e := range expenses {
		available := money.Min(d.Remaining(), budget)
		if !available.IsPositive() {
			break
		}

		if e.Deleted || e.CampaignID != d.CampaignID {
			continue
		}

		need := e.Need()
		if !need.IsPositive() {
			continue
		}

		amount := money.Min(available, need)

		allocs = append(allocs, &FundAllocation{
			DonationID:      d.ID,
			ExpenseID:       e.ID,
			AllocatedAmount: amount,
			CreatedAt:       now,
		})

		d.Allocated = d.Allocated.Add(amount)
		e.Allocated = e.Allocated.Add(amount)
		budget = budget.Sub(amount)
	}

	return allocs
}

// allocateExpense covers e from the given donations oldest first.
// Only successful donations with remaining funds are drawn from, and at most
// budget is spent in total.
func allocateExpense(e *Expense, donations []*Donation, budget money.Money, now time.Time) []*FundAllocation {
	sortDonations(donations)

	var allocs []*FundAllocation

	for _, d := range donations {
		wanted := money.Min(e.Need(), budget)
		if !wanted.IsPositive() {
			break
		}

		if d.Status != DonationSuccess || d.CampaignID != e.CampaignID {
			continue
		}

		remaining := d.Remaining()
		if !remaining.IsPositive() {
			continue
		}

		amount := money.Min(wanted, remaining)

		allocs = append(allocs, &FundAllocation{
			DonationID:      d.ID,
			ExpenseID:       e.ID,
			AllocatedAmount: amount,
			CreatedAt:       now,
		})

		d.Allocated = d.Allocated.Add(amount)
		e.Allocated = e.Allocated.Add(amount)
		budget = budget.Sub(amount)
	}

	return allocs
}

func totalAllocated(allocs []*FundAllocation) money.Money {
	total := money.Zero
	for _, a := range allocs {
		total = total.Add(a.AllocatedAmount)
	}

	return total
}
