package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/cleared-dev/ledgerbook/internal/model"
)

// Header is the CSV header for chart-of-accounts.csv.
var Header = []string{"account_id", "code", "name", "category", "nature", "active", "statement_role"}

const (
	numFields = 7
	colID     = 0
	colCode   = 1
	colName   = 2
	colCat    = 3
	colNature = 4
	colActive = 5
	colRole   = 6
)

// ReadAccounts reads chart-of-accounts.csv. Rows are validated and account
// ids must be unique.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	seen := make(map[string]bool)
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if seen[acct.ID] {
			return nil, fmt.Errorf("row %d: duplicate account_id %q", i+2, acct.ID)
		}
		seen[acct.ID] = true
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes chart-of-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colID] = acct.ID
	row[colCode] = acct.Code
	row[colName] = acct.Name
	row[colCat] = string(acct.Category)
	row[colNature] = string(acct.Nature)
	row[colActive] = strconv.FormatBool(acct.Active)
	if acct.Role != model.RoleNone {
		row[colRole] = string(acct.Role)
	}
	return row
}

// UnmarshalAccount converts a CSV row to an Account. An empty active column
// means active; an empty statement_role means none.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	active := true
	if record[colActive] != "" {
		v, err := strconv.ParseBool(record[colActive])
		if err != nil {
			return model.Account{}, fmt.Errorf("parsing active %q: %w", record[colActive], err)
		}
		active = v
	}

	role := model.StatementRole(record[colRole])
	if role == "" {
		role = model.RoleNone
	}

	acct := model.Account{
		ID:       record[colID],
		Code:     record[colCode],
		Name:     record[colName],
		Category: model.Category(record[colCat]),
		Nature:   model.Nature(record[colNature]),
		Active:   active,
		Role:     role,
	}
	if err := acct.Validate(); err != nil {
		return model.Account{}, err
	}
	return acct, nil
}
