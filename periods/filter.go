package periods

// =============================================================================
// PERIOD-LIST FILTER
// =============================================================================

// FilterOptions controls which resolved periods survive ResolveAll.
type FilterOptions struct {
	// SuppressNotApplicable drops periods that begin before the inception date.
	SuppressNotApplicable bool

	// SuppressDuplicates drops later periods whose (begin, end, annualized)
	// triple repeats an earlier one.
	SuppressDuplicates bool
}

// Batch is an ordered list of resolved periods. Order follows the input code
// list; the first entry is the primary period for downstream consumers.
type Batch []ResolvedPeriod

// Codes returns the period codes in batch order.
func (b Batch) Codes() []string {
	out := make([]string, len(b))
	for i, p := range b {
		out[i] = p.Code
	}
	return out
}

// Find returns the period for code, if it survived filtering.
func (b Batch) Find(code string) (ResolvedPeriod, bool) {
	code = NormalizeCode(code)
	for _, p := range b {
		if p.Code == code {
			return p, true
		}
	}
	return ResolvedPeriod{}, false
}

type spanKey struct {
	begin, end string
	annualized bool
}

// ResolveAll resolves every code in order and applies the requested
// suppression. Any failing code fails the whole call with a *BatchError;
// no partial batch is returned.
func (r *Resolver) ResolveAll(codes []string, tc TemporalContext, opts FilterOptions) (Batch, error) {
	if opts.SuppressNotApplicable && tc.Inception.IsZero() {
		return nil, ErrMissingInceptionDate
	}

	batch := make(Batch, 0, len(codes))
	seen := make(map[spanKey]struct{}, len(codes))

	for i, code := range codes {
		p, err := r.Resolve(code, tc)
		if err != nil {
			return nil, &BatchError{Index: i, Code: code, Err: err}
		}

		if opts.SuppressNotApplicable && p.Begin.Before(tc.Inception) {
			continue
		}

		if opts.SuppressDuplicates {
			key := spanKey{begin: p.BeginDate(), end: p.EndDate(), annualized: p.IsAnnualized}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}

		batch = append(batch, p)
	}
	return batch, nil
}
