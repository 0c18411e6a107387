/*
Package factory converts account profiles into registry records.

PURPOSE:
  Account profiles arrive as YAML or JSON (admin UI, sample files, CLI
  flags). The factory validates them against the period definition table and
  produces the sqlite.Account record plus, when the profile lists its own
  codes, the custom period set it points at.

PROFILE SCHEMA (YAML shown, JSON accepted):
  code: ACME-GROWTH              # optional, generated when empty
  name: Acme Growth Composite
  inception_date: 2000-10-31     # ISO, optional
  fiscal_year_end: 06-30         # MM-DD, optional
  period_set: standard           # preset or stored set name
  periods: [QTD, YTD, 5YA]       # optional inline list, overrides period_set

KEY FEATURES:
  - Every inline code must resolve against the table (no late surprises)
  - Inline lists become a period set named "<code>-periods"
  - Codes are generated as "ACCT-<ulid>" when omitted

USAGE:
  f := factory.NewAccountFactory(periods.DefaultTable())
  acct, set, err := f.ParseProfile(data)

SEE ALSO:
  - store/sqlite/sqlite.go: Account and PeriodSetRecord
  - factory/samples.yaml: demo accounts
*/
package factory

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/warp/period-engine/calendar"
	"github.com/warp/period-engine/periods"
	"github.com/warp/period-engine/store/sqlite"
)

//go:embed samples.yaml
var samplesYAML []byte

// ErrInvalidProfile is returned for profiles that fail validation.
var ErrInvalidProfile = errors.New("invalid account profile")

// =============================================================================
// PROFILE SCHEMA TYPES
// =============================================================================

// AccountProfile is the wire form of an account.
type AccountProfile struct {
	Code          string   `yaml:"code" json:"code"`
	Name          string   `yaml:"name" json:"name"`
	InceptionDate string   `yaml:"inception_date,omitempty" json:"inception_date,omitempty"`
	FiscalYearEnd string   `yaml:"fiscal_year_end,omitempty" json:"fiscal_year_end,omitempty"`
	PeriodSet     string   `yaml:"period_set,omitempty" json:"period_set,omitempty"`
	Periods       []string `yaml:"periods,omitempty" json:"periods,omitempty"`
	Description   string   `yaml:"description,omitempty" json:"description,omitempty"`
}

// =============================================================================
// ACCOUNT FACTORY
// =============================================================================

// AccountFactory validates profiles against a definition table.
type AccountFactory struct {
	table *periods.Table
}

// NewAccountFactory creates a factory; nil selects periods.DefaultTable.
func NewAccountFactory(table *periods.Table) *AccountFactory {
	if table == nil {
		table = periods.DefaultTable()
	}
	return &AccountFactory{table: table}
}

// ParseProfile parses a YAML or JSON profile.
func (f *AccountFactory) ParseProfile(data []byte) (sqlite.Account, *sqlite.PeriodSetRecord, error) {
	var p AccountProfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return sqlite.Account{}, nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	return f.FromProfile(p)
}

// FromProfile validates p and converts it to registry records. The period set
// is nil unless p lists its own codes.
func (f *AccountFactory) FromProfile(p AccountProfile) (sqlite.Account, *sqlite.PeriodSetRecord, error) {
	a := sqlite.Account{
		Code:      strings.ToUpper(strings.TrimSpace(p.Code)),
		Name:      strings.TrimSpace(p.Name),
		PeriodSet: strings.TrimSpace(p.PeriodSet),
	}
	if a.Code == "" {
		a.Code = "ACCT-" + ulid.Make().String()
	}
	if a.Name == "" {
		return sqlite.Account{}, nil, fmt.Errorf("%w: %s has no name", ErrInvalidProfile, a.Code)
	}

	if p.InceptionDate != "" {
		d, err := calendar.ParseISO(p.InceptionDate)
		if err != nil {
			return sqlite.Account{}, nil, fmt.Errorf("%w: %s inception_date: %w", ErrInvalidProfile, a.Code, err)
		}
		a.InceptionDate = d
	}
	if p.FiscalYearEnd != "" {
		fye, err := calendar.ParseFiscalYearEnd(p.FiscalYearEnd)
		if err != nil {
			return sqlite.Account{}, nil, fmt.Errorf("%w: %s: %w", ErrInvalidProfile, a.Code, err)
		}
		a.FiscalYearEnd = fye
	}

	if len(p.Periods) == 0 {
		return a, nil, nil
	}

	codes := make([]string, 0, len(p.Periods))
	for _, raw := range p.Periods {
		code := periods.NormalizeCode(raw)
		if err := f.table.Accepts(code); err != nil {
			return sqlite.Account{}, nil, fmt.Errorf("%w: %s: %w", ErrInvalidProfile, a.Code, err)
		}
		codes = append(codes, code)
	}

	set := &sqlite.PeriodSetRecord{
		Name:        strings.ToLower(a.Code) + "-periods",
		Description: p.Description,
		Codes:       codes,
	}
	a.PeriodSet = set.Name
	return a, set, nil
}

// ToProfile converts registry records back to the wire form.
func (f *AccountFactory) ToProfile(a sqlite.Account, set *sqlite.PeriodSetRecord) AccountProfile {
	p := AccountProfile{
		Code:      a.Code,
		Name:      a.Name,
		PeriodSet: a.PeriodSet,
	}
	if !a.InceptionDate.IsZero() {
		p.InceptionDate = a.InceptionDate.String()
	}
	if !a.FiscalYearEnd.IsZero() {
		p.FiscalYearEnd = a.FiscalYearEnd.String()
	}
	if set != nil {
		p.Periods = append([]string(nil), set.Codes...)
		p.Description = set.Description
	}
	return p
}

// =============================================================================
// SAMPLE ACCOUNTS
// =============================================================================

type sampleFile struct {
	Accounts []AccountProfile `yaml:"accounts"`
}

// SampleProfiles returns the embedded demo accounts.
func SampleProfiles() ([]AccountProfile, error) {
	var f sampleFile
	if err := yaml.Unmarshal(samplesYAML, &f); err != nil {
		return nil, fmt.Errorf("failed to parse sample accounts: %w", err)
	}
	return f.Accounts, nil
}
