// Package ledger reduces journal entries into per-account balances.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

var (
	// ErrNegativeAmount is returned when an entry carries a negative amount.
	ErrNegativeAmount = errors.New("negative amount")
	// ErrInvalidEntryType is returned when an entry is neither debit nor credit.
	ErrInvalidEntryType = errors.New("invalid entry type")
	// ErrAmountOverflow is returned when the aggregated amounts no longer fit
	// in an int64.
	ErrAmountOverflow = errors.New("aggregated amount overflows int64")
)

// AccountLookup resolves account ids against the chart of accounts.
type AccountLookup interface {
	All() []model.Account
	Get(id string) (model.Account, bool)
}

// AccountBalance holds the totals of one account.
type AccountBalance struct {
	Account model.Account
	Debit   int64
	Credit  int64
	Balance int64 // signed by the account nature
}

// Movement reports whether the account had any entries.
func (b AccountBalance) Movement() bool {
	return b.Debit != 0 || b.Credit != 0
}

// Balances maps account ids to their balances.
type Balances map[string]AccountBalance

// UnknownAccountReference records an entry whose account is not in the chart.
type UnknownAccountReference struct {
	EntryID   string
	AccountID string
}

// Anomaly converts the reference into a reportable anomaly.
func (u UnknownAccountReference) Anomaly() model.Anomaly {
	return model.Anomaly{
		Kind:      model.AnomalyUnknownAccount,
		Reference: u.EntryID,
		Message:   fmt.Sprintf("entry references unknown account %q", u.AccountID),
	}
}

// Aggregation is the output of the aggregator: one balance per chart account
// plus the entries that could not be resolved.
//
// Volume is the sum of every debit and credit folded into Balances. Keeping
// it within int64 bounds every statement total built from the aggregation.
type Aggregation struct {
	Balances Balances
	Unknown  []UnknownAccountReference
	Volume   int64
}

// Empty returns an aggregation with every account at zero.
func Empty(accts AccountLookup) Aggregation {
	all := accts.All()
	balances := make(Balances, len(all))
	for _, a := range all {
		if _, dup := balances[a.ID]; dup {
			continue
		}
		balances[a.ID] = AccountBalance{Account: a}
	}
	return Aggregation{Balances: balances}
}

// Aggregate folds entries into per-account totals. Entries referencing an
// unknown account are excluded from the totals and reported in Unknown.
// A negative amount, an invalid entry type or a total beyond int64 aborts
// the call.
func Aggregate(entries []model.JournalEntry, accts AccountLookup) (Aggregation, error) {
	agg := Empty(accts)
	for _, e := range entries {
		if err := agg.add(e, accts); err != nil {
			return Aggregation{}, err
		}
	}
	return agg, nil
}

func (a *Aggregation) add(e model.JournalEntry, accts AccountLookup) error {
	if e.Amount < 0 {
		return fmt.Errorf("entry %s: %w (%d)", e.ID, ErrNegativeAmount, e.Amount)
	}
	if !e.Type.Valid() {
		return fmt.Errorf("entry %s: %w %q", e.ID, ErrInvalidEntryType, e.Type)
	}

	acct, ok := accts.Get(e.AccountID)
	if !ok {
		a.Unknown = append(a.Unknown, UnknownAccountReference{EntryID: e.ID, AccountID: e.AccountID})
		return nil
	}

	if e.Amount > math.MaxInt64-a.Volume {
		return fmt.Errorf("entry %s: %w", e.ID, ErrAmountOverflow)
	}
	a.Volume += e.Amount

	b := a.Balances[acct.ID]
	b.Account = acct
	if e.Type == model.EntryDebit {
		b.Debit += e.Amount
	} else {
		b.Credit += e.Amount
	}
	b.Balance = acct.SignedBalance(b.Debit, b.Credit)
	a.Balances[acct.ID] = b
	return nil
}

// Merge adds two aggregations account by account. Unknown references keep
// the receiver's first, so merging partitions in order preserves entry order.
func (a Aggregation) Merge(other Aggregation) (Aggregation, error) {
	if other.Volume > math.MaxInt64-a.Volume {
		return Aggregation{}, ErrAmountOverflow
	}
	out := Aggregation{
		Balances: make(Balances, len(a.Balances)),
		Volume:   a.Volume + other.Volume,
	}
	for id, b := range a.Balances {
		out.Balances[id] = b
	}
	for id, ob := range other.Balances {
		b, ok := out.Balances[id]
		if !ok {
			out.Balances[id] = ob
			continue
		}
		b.Debit += ob.Debit
		b.Credit += ob.Credit
		b.Balance = b.Account.SignedBalance(b.Debit, b.Credit)
		out.Balances[id] = b
	}
	if n := len(a.Unknown) + len(other.Unknown); n > 0 {
		out.Unknown = make([]UnknownAccountReference, 0, n)
		out.Unknown = append(out.Unknown, a.Unknown...)
		out.Unknown = append(out.Unknown, other.Unknown...)
	}
	return out, nil
}

// AggregateParallel splits entries into contiguous partitions, aggregates
// them concurrently and merges the partial results in partition order. The
// result equals Aggregate over the same entries.
func AggregateParallel(ctx context.Context, entries []model.JournalEntry, accts AccountLookup, partitions int) (Aggregation, error) {
	if partitions <= 1 || len(entries) < partitions {
		return Aggregate(entries, accts)
	}

	parts := make([]Aggregation, partitions)
	size := (len(entries) + partitions - 1) / partitions

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < partitions; i++ {
		lo := i * size
		hi := min(lo+size, len(entries))
		if lo >= hi {
			parts[i] = Empty(accts)
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			agg, err := Aggregate(entries[lo:hi], accts)
			if err != nil {
				return err
			}
			parts[i] = agg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Aggregation{}, err
	}

	out := parts[0]
	for _, p := range parts[1:] {
		var err error
		if out, err = out.Merge(p); err != nil {
			return Aggregation{}, err
		}
	}
	return out, nil
}

// Sum returns the signed balance total over the accounts accepted by keep.
func (b Balances) Sum(keep func(model.Account) bool) int64 {
	var total int64
	for _, ab := range b {
		if keep(ab.Account) {
			total += ab.Balance
		}
	}
	return total
}
