/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the resolver's types from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Periods:
    PeriodDefinitionDTO, PresetDTO, ResolveRequest, RangeDTO,
    ValidPeriodsRequest, ValidPeriodDTO, AnnualizeRequest, AnnualizedDTO

  Accounts:
    AccountDTO (wraps factory.AccountProfile), AccountPeriodsResponse,
    ScheduleResponse

  Samples:
    SampleDTO

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/account.go: AccountProfile type
*/
package api

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/period-engine/factory"
	"github.com/warp/period-engine/periods"
	"github.com/warp/period-engine/store/sqlite"
)

// =============================================================================
// PERIOD TYPES
// =============================================================================

// PeriodDefinitionDTO is one definition table entry.
type PeriodDefinitionDTO struct {
	Code         string `json:"code"`
	DisplayName  string `json:"display_name,omitempty"`
	Rule         string `json:"rule"`
	Months       *int   `json:"months,omitempty"`
	Quarters     *int   `json:"quarters,omitempty"`
	Years        *int   `json:"years,omitempty"`
	IsAnnualized bool   `json:"is_annualized"`
}

// PresetDTO is a named code list, built in or stored.
type PresetDTO struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Codes       []string `json:"codes"`
	BuiltIn     bool     `json:"built_in"`
}

// CreatePeriodSetRequest stores a custom code list.
type CreatePeriodSetRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Codes       []string `json:"codes"`
}

// ResolveRequest resolves a single code.
type ResolveRequest struct {
	PeriodCode    string `json:"period_code"`
	AsOfDate      string `json:"as_of_date"`
	InceptionDate string `json:"inception_date"`
	FiscalYearEnd string `json:"fiscal_year_end"`
	DatePattern   string `json:"date_pattern"`
}

// RangeDTO is the single-resolution record.
type RangeDTO struct {
	BeginDate string `json:"begin_date"`
	EndDate   string `json:"end_date"`
}

// ValidPeriodsRequest resolves a list of codes. Periods is a comma-separated
// list; Preset is used when Periods is empty.
type ValidPeriodsRequest struct {
	Periods               string `json:"periods"`
	Preset                string `json:"preset"`
	AsOfDate              string `json:"as_of_date"`
	InceptionDate         string `json:"inception_date"`
	FiscalYearEnd         string `json:"fiscal_year_end"`
	DatePattern           string `json:"date_pattern"`
	SuppressNotApplicable bool   `json:"suppress_not_applicable"`
	SuppressDuplicates    bool   `json:"suppress_duplicates"`
}

// ValidPeriodDTO is one batch record. Years is the span in fractional
// years, fixed to yearsPlaces decimals.
type ValidPeriodDTO struct {
	Period       string `json:"period"`
	BeginDate    string `json:"begin_date"`
	EndDate      string `json:"end_date"`
	IsAnnualized bool   `json:"is_annualized"`
	Years        string `json:"years"`
}

// AnnualizeRequest converts a cumulative return over one resolved code.
// CumulativeReturn accepts a JSON number or a quoted decimal.
type AnnualizeRequest struct {
	PeriodCode       string              `json:"period_code"`
	CumulativeReturn decimal.NullDecimal `json:"cumulative_return"`
	AsOfDate         string              `json:"as_of_date"`
	InceptionDate    string              `json:"inception_date"`
	FiscalYearEnd    string              `json:"fiscal_year_end"`
	DatePattern      string              `json:"date_pattern"`
}

// AnnualizedDTO is the annualize result. Returns are serialized as decimal
// strings.
type AnnualizedDTO struct {
	ValidPeriodDTO
	CumulativeReturn decimal.Decimal `json:"cumulative_return"`
	AnnualizedReturn decimal.Decimal `json:"annualized_return"`
}

// DataResponse wraps list payloads.
type DataResponse[T any] struct {
	Data []T `json:"data"`
}

// =============================================================================
// ACCOUNT TYPES
// =============================================================================

// AccountDTO represents an account in API responses.
type AccountDTO struct {
	factory.AccountProfile
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// AccountPeriodsResponse is an account's filtered batch on one as-of date.
type AccountPeriodsResponse struct {
	Account string           `json:"account"`
	AsOf    string           `json:"as_of"`
	Source  string           `json:"source"` // where the code list came from
	Cached  bool             `json:"cached"`
	Data    []ValidPeriodDTO `json:"data"`
}

// ScheduleEntryDTO is the batch for one month-end.
type ScheduleEntryDTO struct {
	AsOf    string           `json:"as_of"`
	Periods []ValidPeriodDTO `json:"periods"`
}

// ScheduleResponse is an account's batches across month-ends.
type ScheduleResponse struct {
	Account string             `json:"account"`
	Source  string             `json:"source"`
	Data    []ScheduleEntryDTO `json:"data"`
}

// SampleDTO describes a loadable demo account.
type SampleDTO struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	InceptionDate string `json:"inception_date"`
	FiscalYearEnd string `json:"fiscal_year_end"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toDefinitionDTO(d periods.Definition) PeriodDefinitionDTO {
	return PeriodDefinitionDTO{
		Code:         d.Code,
		DisplayName:  d.DisplayName,
		Rule:         string(d.Rule()),
		Months:       d.Months,
		Quarters:     d.Quarters,
		Years:        d.Years,
		IsAnnualized: periods.IsAnnualized(d.Code),
	}
}

const yearsPlaces = 4

func toValidPeriodDTO(p periods.ResolvedPeriod) ValidPeriodDTO {
	return ValidPeriodDTO{
		Period:       p.Code,
		BeginDate:    p.BeginDate(),
		EndDate:      p.EndDate(),
		IsAnnualized: p.IsAnnualized,
		Years:        p.Years().StringFixed(yearsPlaces),
	}
}

func toValidPeriodDTOs(batch periods.Batch) []ValidPeriodDTO {
	dtos := make([]ValidPeriodDTO, len(batch))
	for i, p := range batch {
		dtos[i] = toValidPeriodDTO(p)
	}
	return dtos
}

func toAccountDTO(f *factory.AccountFactory, a sqlite.Account, set *sqlite.PeriodSetRecord) AccountDTO {
	dto := AccountDTO{AccountProfile: f.ToProfile(a, set)}
	if !a.CreatedAt.IsZero() {
		dto.CreatedAt = a.CreatedAt.Format(time.RFC3339)
	}
	if !a.UpdatedAt.IsZero() {
		dto.UpdatedAt = a.UpdatedAt.Format(time.RFC3339)
	}
	return dto
}

func toPresetDTO(ps sqlite.PeriodSetRecord) PresetDTO {
	return PresetDTO{
		Name:        ps.Name,
		Description: ps.Description,
		Codes:       ps.Codes,
	}
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func joinCodes(codes []string) string {
	return strings.Join(codes, ",")
}
