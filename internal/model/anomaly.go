package model

import "fmt"

// AnomalyKind classifies a data-quality finding.
type AnomalyKind string

const (
	AnomalyUnknownAccount         AnomalyKind = "unknown_account_reference"
	AnomalyUnbalancedTransaction  AnomalyKind = "unbalanced_transaction"
	AnomalyUnbalancedTrialBalance AnomalyKind = "unbalanced_trial_balance"
	AnomalyUnbalancedEquation     AnomalyKind = "unbalanced_equation"
	AnomalyCashFlowMismatch       AnomalyKind = "cash_flow_reconciliation_mismatch"
)

// Anomaly is a non-fatal finding returned alongside a report. Reports are
// still produced; the caller decides whether to block, warn or proceed.
type Anomaly struct {
	Kind       AnomalyKind `json:"kind"`
	Reference  string      `json:"reference,omitempty"` // entry, transaction or account id
	Message    string      `json:"message"`
	Difference int64       `json:"difference,omitempty"`
}

func (a Anomaly) String() string {
	if a.Reference == "" {
		return fmt.Sprintf("%s: %s", a.Kind, a.Message)
	}
	return fmt.Sprintf("%s [%s]: %s", a.Kind, a.Reference, a.Message)
}
