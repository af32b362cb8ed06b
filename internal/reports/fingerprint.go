package reports

import (
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/cleared-dev/ledgerbook/internal/model"
	"github.com/cleared-dev/ledgerbook/internal/period"
)

// fingerprint hashes everything a package depends on. Two snapshots with
// the same fingerprint produce equal packages.
func fingerprint(p period.Period, opts Options, snap snapshot) string {
	d := xxhash.New()
	field := func(s string) {
		d.WriteString(s)
		d.Write([]byte{0})
	}

	field(p.Label)
	field(p.Start.Format("2006-01-02"))
	field(p.End.Format("2006-01-02"))
	field(strconv.FormatBool(opts.ReportUngrouped))

	for _, a := range snap.accounts {
		field(a.ID)
		field(a.Code)
		field(a.Name)
		field(string(a.Category))
		field(string(a.Nature))
		field(strconv.FormatBool(a.Active))
		field(string(a.Role))
	}
	field("--")
	for _, set := range [][]model.JournalEntry{snap.opening, snap.period} {
		for _, e := range set {
			field(e.ID)
			field(e.AccountID)
			field(e.TransactionID)
			field(string(e.Type))
			field(strconv.FormatInt(e.Amount, 10))
			field(e.Date.Format("2006-01-02"))
			field(e.Description)
		}
		field("--")
	}
	return strconv.FormatUint(d.Sum64(), 16)
}
