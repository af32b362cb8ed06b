package statements

import (
	"fmt"

	"github.com/cleared-dev/ledgerbook/internal/ledger"
	"github.com/cleared-dev/ledgerbook/internal/model"
)

// BalanceSheet places asset, liability and equity balances and checks the
// fundamental equation.
//
// Equity is reported two ways. EquityBalanceDerived is what the assets and
// liabilities imply; EquityBookDerived is what the equity accounts hold. The
// gap between them is the result not yet closed into equity.
type BalanceSheet struct {
	Assets            Section `json:"assets"`
	ContraAssets      Section `json:"contra_assets"`
	Liabilities       Section `json:"liabilities"`
	ContraLiabilities Section `json:"contra_liabilities"`
	Equity            Section `json:"equity"`

	TotalAssets      int64 `json:"total_assets"`
	TotalLiabilities int64 `json:"total_liabilities"`

	EquityBalanceDerived int64 `json:"equity_balance_derived"`
	EquityBookDerived    int64 `json:"equity_book_derived"`
	UnclosedResult       int64 `json:"unclosed_result"`

	NetPeriodResult           int64 `json:"net_period_result"`
	TotalLiabilitiesAndEquity int64 `json:"total_liabilities_and_equity"`

	Difference int64           `json:"difference"`
	Balanced   bool            `json:"is_balanced"`
	Anomalies  []model.Anomaly `json:"anomalies,omitempty"`
}

// BuildBalanceSheet builds the balance sheet. netPeriodResult is the result
// not yet posted to equity through closing entries, as produced by the
// income statement over the same balances; pass 0 for a closed ledger.
func BuildBalanceSheet(agg ledger.Aggregation, netPeriodResult int64) BalanceSheet {
	bs := BalanceSheet{
		Assets:            Section{Label: string(model.CategoryAsset), Items: []Line{}},
		ContraAssets:      Section{Label: string(model.CategoryContraAsset), Items: []Line{}},
		Liabilities:       Section{Label: string(model.CategoryLiability), Items: []Line{}},
		ContraLiabilities: Section{Label: string(model.CategoryContraLiability), Items: []Line{}},
		Equity:            Section{Label: string(model.CategoryEquity), Items: []Line{}},
		NetPeriodResult:   netPeriodResult,
	}

	sections := map[model.Category]*Section{
		model.CategoryAsset:           &bs.Assets,
		model.CategoryContraAsset:     &bs.ContraAssets,
		model.CategoryLiability:       &bs.Liabilities,
		model.CategoryContraLiability: &bs.ContraLiabilities,
		model.CategoryEquity:          &bs.Equity,
	}

	for _, b := range reportable(agg.Balances) {
		sec, ok := sections[b.Account.Category]
		if !ok {
			continue
		}
		sec.add(b, abs(b.Balance))
	}

	bs.TotalAssets = bs.Assets.Total - bs.ContraAssets.Total
	bs.TotalLiabilities = bs.Liabilities.Total - bs.ContraLiabilities.Total
	bs.EquityBalanceDerived = bs.TotalAssets - bs.TotalLiabilities
	bs.EquityBookDerived = bs.Equity.Total
	bs.UnclosedResult = bs.EquityBalanceDerived - bs.EquityBookDerived

	bs.TotalLiabilitiesAndEquity = bs.TotalLiabilities + bs.EquityBookDerived + netPeriodResult
	bs.Difference = bs.TotalAssets - bs.TotalLiabilitiesAndEquity
	bs.Balanced = withinEpsilon(bs.Difference)

	if !bs.Balanced {
		bs.Anomalies = append(bs.Anomalies, model.Anomaly{
			Kind: model.AnomalyUnbalancedEquation,
			Message: fmt.Sprintf("assets %d != liabilities %d + equity %d + period result %d",
				bs.TotalAssets, bs.TotalLiabilities, bs.EquityBookDerived, netPeriodResult),
			Difference: bs.Difference,
		})
	}
	return bs
}
