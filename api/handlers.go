/*
handlers.go - HTTP API handlers for the period engine

PURPOSE:
  Exposes the period resolver, the period-list filter and the account
  registry via REST API. Handles HTTP request/response, JSON serialization,
  and delegates to the periods package.

ENDPOINTS:
  Periods:
    GET    /api/periods                   Definition table
    GET    /api/periods/presets           Built-in presets and stored sets
    POST   /api/periods/resolve           One code -> {begin_date, end_date}
    POST   /api/periods/valid             Code list + flags -> filtered batch
    POST   /api/periods/annualize         Cumulative return -> annual rate

  Period sets:
    POST   /api/period-sets               Store a custom code list
    DELETE /api/period-sets/{name}        Remove it

  Accounts:
    GET    /api/accounts                  List accounts
    POST   /api/accounts                  Create/update from a profile
    GET    /api/accounts/{code}           Account details
    DELETE /api/accounts/{code}           Remove account and its cache
    GET    /api/accounts/{code}/periods   Filtered batch on one as-of date
    GET    /api/accounts/{code}/schedule  Filtered batches across month-ends

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: account registry and snapshot cache
  - Resolver: period resolution over the injected definition table
  - Factory: profile validation against the same table

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed dates, invalid codes, missing context, bad profiles
  - 404: Account not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - samples.go: Demo account loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/warp/period-engine/calendar"
	"github.com/warp/period-engine/factory"
	"github.com/warp/period-engine/periods"
	"github.com/warp/period-engine/store/sqlite"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const maxBodyBytes = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Resolver *periods.Resolver
	Factory  *factory.AccountFactory

	// DatePattern parses as-of dates when a request does not name its own.
	DatePattern string
	// DefaultFiscalYearEnd applies to ad-hoc requests that omit fiscal_year_end.
	DefaultFiscalYearEnd calendar.FiscalYearEnd
	ScheduleWorkers      int

	now func() time.Time
}

// NewHandler creates a handler; a nil resolver uses the embedded table.
func NewHandler(store *sqlite.Store, resolver *periods.Resolver) *Handler {
	if resolver == nil {
		resolver = periods.NewResolver(nil)
	}
	return &Handler{
		Store:           store,
		Resolver:        resolver,
		Factory:         factory.NewAccountFactory(resolver.Table()),
		ScheduleWorkers: periods.DefaultScheduleWorkers,
		now:             time.Now,
	}
}

// =============================================================================
// PERIOD HANDLERS
// =============================================================================

// ListDefinitions returns the definition table.
func (h *Handler) ListDefinitions(w http.ResponseWriter, r *http.Request) {
	defs := h.Resolver.Table().Definitions()
	dtos := make([]PeriodDefinitionDTO, len(defs))
	for i, d := range defs {
		dtos[i] = toDefinitionDTO(d)
	}
	writeJSON(w, http.StatusOK, DataResponse[PeriodDefinitionDTO]{Data: dtos})
}

// ListPresets returns built-in presets followed by stored period sets.
func (h *Handler) ListPresets(w http.ResponseWriter, r *http.Request) {
	var dtos []PresetDTO
	for _, name := range periods.PresetNames() {
		codes, _ := periods.PresetCodes(name)
		dtos = append(dtos, PresetDTO{Name: name, Codes: codes, BuiltIn: true})
	}

	sets, err := h.Store.ListPeriodSets(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list period sets", err)
		return
	}
	for _, ps := range sets {
		dtos = append(dtos, toPresetDTO(ps))
	}

	writeJSON(w, http.StatusOK, DataResponse[PresetDTO]{Data: dtos})
}

// CreatePeriodSet stores a custom code list.
func (h *Handler) CreatePeriodSet(w http.ResponseWriter, r *http.Request) {
	var req CreatePeriodSetRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	name := strings.ToLower(strings.TrimSpace(req.Name))
	if name == "" {
		writeError(w, http.StatusBadRequest, "Period set name is required", nil)
		return
	}
	if _, err := periods.PresetCodes(name); err == nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%q is a built-in preset", name), nil)
		return
	}
	if len(req.Codes) == 0 {
		writeError(w, http.StatusBadRequest, "Period set needs at least one code", nil)
		return
	}

	codes := make([]string, len(req.Codes))
	for i, raw := range req.Codes {
		codes[i] = periods.NormalizeCode(raw)
		if err := h.Resolver.Table().Accepts(codes[i]); err != nil {
			handleError(w, "Invalid period set", err)
			return
		}
	}

	ps := sqlite.PeriodSetRecord{Name: name, Description: req.Description, Codes: codes}
	if err := h.Store.SavePeriodSet(r.Context(), ps); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save period set", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPresetDTO(ps))
}

// DeletePeriodSet removes a stored period set.
func (h *Handler) DeletePeriodSet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.Store.DeletePeriodSet(r.Context(), name); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete period set", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Resolve computes begin/end dates for one code.
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	tc, err := h.temporalContext(req.AsOfDate, req.InceptionDate, req.FiscalYearEnd, req.DatePattern)
	if err != nil {
		handleError(w, "Invalid temporal context", err)
		return
	}

	p, err := h.Resolver.Resolve(req.PeriodCode, tc)
	if err != nil {
		handleError(w, "Failed to resolve period", err)
		return
	}

	writeJSON(w, http.StatusOK, DataResponse[RangeDTO]{
		Data: []RangeDTO{{BeginDate: p.BeginDate(), EndDate: p.EndDate()}},
	})
}

// ValidPeriods resolves a code list and applies the requested suppression.
func (h *Handler) ValidPeriods(w http.ResponseWriter, r *http.Request) {
	var req ValidPeriodsRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	codes := periods.ParseCodeList(req.Periods)
	if len(codes) == 0 && req.Preset != "" {
		var err error
		if codes, err = periods.PresetCodes(req.Preset); err != nil {
			handleError(w, "Unknown preset", err)
			return
		}
	}
	if len(codes) == 0 {
		writeError(w, http.StatusBadRequest, "No period codes requested", nil)
		return
	}

	tc, err := h.temporalContext(req.AsOfDate, req.InceptionDate, req.FiscalYearEnd, req.DatePattern)
	if err != nil {
		handleError(w, "Invalid temporal context", err)
		return
	}

	batch, err := h.Resolver.ResolveAll(codes, tc, periods.FilterOptions{
		SuppressNotApplicable: req.SuppressNotApplicable,
		SuppressDuplicates:    req.SuppressDuplicates,
	})
	if err != nil {
		handleError(w, "Failed to resolve periods", err)
		return
	}

	writeJSON(w, http.StatusOK, DataResponse[ValidPeriodDTO]{Data: toValidPeriodDTOs(batch)})
}

// Annualize resolves one code and converts a cumulative return over it into
// an annual rate. Codes that are not annualized echo the input.
func (h *Handler) Annualize(w http.ResponseWriter, r *http.Request) {
	var req AnnualizeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if !req.CumulativeReturn.Valid {
		writeError(w, http.StatusBadRequest, "cumulative_return is required", nil)
		return
	}

	tc, err := h.temporalContext(req.AsOfDate, req.InceptionDate, req.FiscalYearEnd, req.DatePattern)
	if err != nil {
		handleError(w, "Invalid temporal context", err)
		return
	}

	p, err := h.Resolver.Resolve(req.PeriodCode, tc)
	if err != nil {
		handleError(w, "Failed to resolve period", err)
		return
	}

	cumulative := req.CumulativeReturn.Decimal
	annual, err := periods.Annualize(cumulative, p)
	if err != nil {
		handleError(w, "Failed to annualize return", err)
		return
	}

	writeJSON(w, http.StatusOK, AnnualizedDTO{
		ValidPeriodDTO:   toValidPeriodDTO(p),
		CumulativeReturn: cumulative,
		AnnualizedReturn: annual,
	})
}

// temporalContext parses an ad-hoc context, falling back to the handler's
// date pattern and default fiscal year-end.
func (h *Handler) temporalContext(asOf, inception, fye, pattern string) (periods.TemporalContext, error) {
	if pattern == "" {
		pattern = h.DatePattern
	}
	tc, err := periods.NewTemporalContext(asOf, inception, fye, pattern)
	if err != nil {
		return tc, err
	}
	if fye == "" {
		tc.FiscalYearEnd = h.DefaultFiscalYearEnd
	}
	return tc, nil
}

// =============================================================================
// ACCOUNT HANDLERS
// =============================================================================

// ListAccounts returns all accounts.
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.Store.ListAccounts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list accounts", err)
		return
	}

	dtos := make([]AccountDTO, len(accounts))
	for i, a := range accounts {
		dtos[i] = toAccountDTO(h.Factory, a, nil)
	}
	writeJSON(w, http.StatusOK, DataResponse[AccountDTO]{Data: dtos})
}

// CreateAccount creates or updates an account from a JSON profile.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	acct, set, err := h.Factory.ParseProfile(body)
	if err != nil {
		handleError(w, "Invalid account profile", err)
		return
	}

	saved, err := h.saveAccount(r.Context(), acct, set)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save account", err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"account":    saved.Code,
		"period_set": saved.PeriodSet,
	}).Info("Account saved")

	writeJSON(w, http.StatusCreated, toAccountDTO(h.Factory, *saved, set))
}

func (h *Handler) saveAccount(ctx context.Context, acct sqlite.Account, set *sqlite.PeriodSetRecord) (*sqlite.Account, error) {
	if set != nil {
		if err := h.Store.SavePeriodSet(ctx, *set); err != nil {
			return nil, err
		}
	}
	if err := h.Store.SaveAccount(ctx, acct); err != nil {
		return nil, err
	}
	saved, err := h.Store.GetAccount(ctx, acct.Code)
	if err != nil {
		return nil, err
	}
	if saved == nil {
		return nil, fmt.Errorf("account %s vanished after save", acct.Code)
	}
	return saved, nil
}

// GetAccount returns a single account, with its custom codes if it has any.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.loadAccount(w, r)
	if !ok {
		return
	}

	var set *sqlite.PeriodSetRecord
	if _, err := periods.PresetCodes(acct.PeriodSet); err != nil && acct.PeriodSet != "" {
		set, err = h.Store.GetPeriodSet(r.Context(), acct.PeriodSet)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load period set", err)
			return
		}
	}

	writeJSON(w, http.StatusOK, toAccountDTO(h.Factory, *acct, set))
}

// DeleteAccount removes an account and its cached batches.
func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	existed, err := h.Store.DeleteAccount(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete account", err)
		return
	}
	if !existed {
		writeError(w, http.StatusNotFound, "Account not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// AccountPeriods returns the account's filtered batch on one as-of date.
//
// Query: as_of (default: latest month-end), date_pattern, periods | preset |
// set, suppress_not_applicable (default true when inception is known),
// suppress_duplicates (default false).
func (h *Handler) AccountPeriods(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.loadAccount(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	asOf, err := h.asOfParam(q)
	if err != nil {
		handleError(w, "Invalid as_of", err)
		return
	}
	codes, source, err := h.codesFor(r.Context(), *acct, q)
	if err != nil {
		handleError(w, "Invalid period selection", err)
		return
	}
	opts, err := filterOptions(*acct, q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid suppression flag", err)
		return
	}

	dtos, cached, err := h.accountBatch(r.Context(), *acct, asOf, codes, opts)
	if err != nil {
		handleError(w, "Failed to resolve periods", err)
		return
	}

	writeJSON(w, http.StatusOK, AccountPeriodsResponse{
		Account: acct.Code,
		AsOf:    asOf.String(),
		Source:  source,
		Cached:  cached,
		Data:    dtos,
	})
}

// accountBatch resolves through the snapshot cache. Cache failures are
// logged and fall back to resolving.
func (h *Handler) accountBatch(ctx context.Context, acct sqlite.Account, asOf calendar.Date, codes []string, opts periods.FilterOptions) ([]ValidPeriodDTO, bool, error) {
	key := sqlite.RequestKey(map[string]string{
		"codes":          joinCodes(codes),
		"not_applicable": formatBool(opts.SuppressNotApplicable),
		"duplicates":     formatBool(opts.SuppressDuplicates),
	})
	log := logrus.WithFields(logrus.Fields{"account": acct.Code, "as_of": asOf.String()})

	snap, err := h.Store.GetSnapshot(ctx, acct.Code, asOf, key)
	if err != nil {
		log.WithError(err).Warn("Snapshot lookup failed")
	}
	if snap != nil {
		var dtos []ValidPeriodDTO
		// Snapshots written before years was recorded are rebuilt.
		if err := json.Unmarshal([]byte(snap.PeriodsJSON), &dtos); err == nil && (len(dtos) == 0 || dtos[0].Years != "") {
			return dtos, true, nil
		}
		log.Warn("Discarding stale snapshot")
	}

	batch, err := h.Resolver.ResolveAll(codes, acct.TemporalContext(asOf), opts)
	if err != nil {
		return nil, false, err
	}
	dtos := toValidPeriodDTOs(batch)

	data, err := json.Marshal(dtos)
	if err == nil {
		err = h.Store.SaveSnapshot(ctx, sqlite.SnapshotRecord{
			AccountCode: acct.Code,
			AsOf:        asOf,
			RequestKey:  key,
			PeriodsJSON: string(data),
		})
	}
	if err != nil {
		log.WithError(err).Warn("Snapshot save failed")
	}
	return dtos, false, nil
}

// AccountSchedule returns the account's filtered batch for every month-end
// in [from, to].
func (h *Handler) AccountSchedule(w http.ResponseWriter, r *http.Request) {
	acct, ok := h.loadAccount(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()

	from, err := calendar.ParseISO(q.Get("from"))
	if err != nil {
		handleError(w, "Invalid from date", &periods.DateError{Field: "from", Err: err})
		return
	}
	to := latestMonthEnd(h.now())
	if s := q.Get("to"); s != "" {
		if to, err = calendar.ParseISO(s); err != nil {
			handleError(w, "Invalid to date", &periods.DateError{Field: "to", Err: err})
			return
		}
	}

	asOfs := calendar.MonthEnds(from, to)
	if len(asOfs) == 0 {
		writeError(w, http.StatusBadRequest, "No month-ends between from and to", nil)
		return
	}
	if len(asOfs) > periods.MaxScheduleDates {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Schedule limited to %d month-ends", periods.MaxScheduleDates), nil)
		return
	}

	codes, source, err := h.codesFor(r.Context(), *acct, q)
	if err != nil {
		handleError(w, "Invalid period selection", err)
		return
	}
	opts, err := filterOptions(*acct, q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid suppression flag", err)
		return
	}

	out, err := h.Resolver.ResolveSchedule(r.Context(), asOfs, acct.TemporalContext(calendar.Date{}), codes, opts, h.ScheduleWorkers)
	if err != nil {
		handleError(w, "Failed to resolve schedule", err)
		return
	}

	entries := make([]ScheduleEntryDTO, len(out))
	for i, sb := range out {
		entries[i] = ScheduleEntryDTO{AsOf: sb.AsOf.String(), Periods: toValidPeriodDTOs(sb.Periods)}
	}

	logrus.WithFields(logrus.Fields{
		"account":    acct.Code,
		"month_ends": len(asOfs),
		"request_id": middleware.GetReqID(r.Context()),
	}).Debug("Schedule resolved")

	writeJSON(w, http.StatusOK, ScheduleResponse{Account: acct.Code, Source: source, Data: entries})
}

// loadAccount fetches the {code} account, writing 404/500 itself on failure.
func (h *Handler) loadAccount(w http.ResponseWriter, r *http.Request) (*sqlite.Account, bool) {
	code := chi.URLParam(r, "code")

	acct, err := h.Store.GetAccount(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get account", err)
		return nil, false
	}
	if acct == nil {
		writeError(w, http.StatusNotFound, "Account not found", nil)
		return nil, false
	}
	return acct, true
}

// codesFor picks the code list: explicit periods, then preset, then stored
// set, then the account's own period set, then the standard preset. The
// second result names the source.
func (h *Handler) codesFor(ctx context.Context, acct sqlite.Account, q url.Values) ([]string, string, error) {
	if s := q.Get("periods"); s != "" {
		codes := periods.ParseCodeList(s)
		if len(codes) == 0 {
			return nil, "", &periods.CodeError{Code: s, Reason: "empty period list"}
		}
		return codes, "request", nil
	}
	if name := q.Get("preset"); name != "" {
		codes, err := periods.PresetCodes(name)
		return codes, "preset:" + name, err
	}
	if name := q.Get("set"); name != "" {
		codes, err := h.namedCodes(ctx, name)
		return codes, "set:" + name, err
	}

	name := acct.PeriodSet
	if name == "" {
		name = periods.PresetStandard
	}
	codes, err := h.namedCodes(ctx, name)
	return codes, "account:" + name, err
}

// namedCodes resolves a preset or stored period set name.
func (h *Handler) namedCodes(ctx context.Context, name string) ([]string, error) {
	if codes, err := periods.PresetCodes(name); err == nil {
		return codes, nil
	}
	ps, err := h.Store.GetPeriodSet(ctx, name)
	if err != nil {
		return nil, err
	}
	if ps == nil {
		return nil, fmt.Errorf("%w: %q", periods.ErrUnknownPreset, name)
	}
	return ps.Codes, nil
}

func (h *Handler) asOfParam(q url.Values) (calendar.Date, error) {
	s := q.Get("as_of")
	if s == "" {
		return latestMonthEnd(h.now()), nil
	}
	pattern := q.Get("date_pattern")
	if pattern == "" {
		pattern = h.DatePattern
	}
	d, err := calendar.Parse(s, pattern)
	if err != nil {
		return calendar.Date{}, &periods.DateError{Field: "as_of", Err: err}
	}
	return d, nil
}

func filterOptions(acct sqlite.Account, q url.Values) (periods.FilterOptions, error) {
	opts := periods.FilterOptions{SuppressNotApplicable: !acct.InceptionDate.IsZero()}

	if s := q.Get("suppress_not_applicable"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return opts, fmt.Errorf("suppress_not_applicable: %w", err)
		}
		opts.SuppressNotApplicable = v
	}
	if s := q.Get("suppress_duplicates"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return opts, fmt.Errorf("suppress_duplicates: %w", err)
		}
		opts.SuppressDuplicates = v
	}
	return opts, nil
}

// latestMonthEnd is the most recent month-end on or before now.
func latestMonthEnd(now time.Time) calendar.Date {
	today := calendar.FromTime(now)
	if today.IsMonthEnd() {
		return today
	}
	return calendar.MonthEndShift(today.Year(), today.Month(), -1)
}

// =============================================================================
// ADMIN HANDLERS
// =============================================================================

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Code = errorCode(err)
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// handleError maps caller mistakes to 400 and everything else to 500.
func handleError(w http.ResponseWriter, message string, err error) {
	if periods.IsClientError(err) || errors.Is(err, factory.ErrInvalidProfile) {
		writeError(w, http.StatusBadRequest, message, err)
		return
	}
	logrus.WithError(err).Error(message)
	writeError(w, http.StatusInternalServerError, message, err)
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, periods.ErrDateParse), errors.Is(err, calendar.ErrInvalidDate):
		return "date_parse_error"
	case errors.Is(err, periods.ErrAmbiguousPeriodCode):
		return "ambiguous_period_code"
	case errors.Is(err, periods.ErrInvalidPeriodCode):
		return "invalid_period_code"
	case errors.Is(err, periods.ErrMissingFiscalYearEnd):
		return "missing_fiscal_year_end"
	case errors.Is(err, periods.ErrMissingInceptionDate):
		return "missing_inception_date"
	case errors.Is(err, periods.ErrInceptionAfterAsOf):
		return "inception_after_as_of"
	case errors.Is(err, periods.ErrUnknownPreset):
		return "unknown_preset"
	case errors.Is(err, periods.ErrScheduleTooLong):
		return "schedule_too_long"
	case errors.Is(err, periods.ErrInvalidReturn):
		return "invalid_return"
	case errors.Is(err, calendar.ErrInvalidFiscalYearEnd):
		return "invalid_fiscal_year_end"
	case errors.Is(err, factory.ErrInvalidProfile):
		return "invalid_profile"
	}
	return ""
}
