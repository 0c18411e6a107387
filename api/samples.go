/*
samples.go - Demo account loaders for testing and demonstrations

PURPOSE:

	Populates the registry with the embedded sample accounts so the
	per-account endpoints can be tried without writing profiles by hand.
	The samples cover a June fiscal year with the performance preset, a
	calendar-year account with a mid-month inception, an inline code list,
	and a young account whose long trailing periods are not yet applicable.

USAGE VIA API:

	GET  /api/accounts/samples          list what would be loaded
	POST /api/accounts/samples          load (upsert) all samples
	POST /api/accounts/samples?reset=1  clear the database first

NOTE:

	Loading is an upsert. Existing accounts with the same code are replaced
	and their cached batches dropped.

SEE ALSO:
  - factory/samples.yaml: sample profiles
  - handlers.go: saveAccount
*/
package api

import (
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/warp/period-engine/factory"
)

// ListSamples returns the loadable demo accounts.
func (h *Handler) ListSamples(w http.ResponseWriter, r *http.Request) {
	profiles, err := factory.SampleProfiles()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read samples", err)
		return
	}

	dtos := make([]SampleDTO, len(profiles))
	for i, p := range profiles {
		dtos[i] = SampleDTO{
			Code:          p.Code,
			Name:          p.Name,
			InceptionDate: p.InceptionDate,
			FiscalYearEnd: p.FiscalYearEnd,
		}
	}
	writeJSON(w, http.StatusOK, DataResponse[SampleDTO]{Data: dtos})
}

// LoadSamples stores every demo account.
func (h *Handler) LoadSamples(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s := r.URL.Query().Get("reset"); s != "" {
		reset, err := strconv.ParseBool(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid reset flag", err)
			return
		}
		if reset {
			if err := h.Store.Reset(ctx); err != nil {
				writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
				return
			}
		}
	}

	profiles, err := factory.SampleProfiles()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read samples", err)
		return
	}

	dtos := make([]AccountDTO, 0, len(profiles))
	for _, p := range profiles {
		acct, set, err := h.Factory.FromProfile(p)
		if err != nil {
			handleError(w, "Invalid sample "+p.Code, err)
			return
		}
		saved, err := h.saveAccount(ctx, acct, set)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save sample "+p.Code, err)
			return
		}
		dtos = append(dtos, toAccountDTO(h.Factory, *saved, set))
	}

	logrus.WithField("count", len(dtos)).Info("Sample accounts loaded")
	writeJSON(w, http.StatusCreated, DataResponse[AccountDTO]{Data: dtos})
}
