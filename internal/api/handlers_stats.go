// Chirpcast - Feed-Triggered Tweet Delivery
// Copyright 2026 Chirpcast Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/chirpcast/chirpcast

package api

import (
	"fmt"
	"net/http"

	"github.com/chirpcast/chirpcast/internal/counter"
	"github.com/chirpcast/chirpcast/internal/logging"
	"github.com/chirpcast/chirpcast/internal/metrics"
)

// Stats serves the delivery counters as CSV: a header row and one data row.
// Basic Auth is enforced by the router.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.counters.Get(r.Context(), counter.TotalJobs)
	if err != nil {
		h.statsError(w, r, err)
		return
	}
	errCount, err := h.counters.Get(r.Context(), counter.TotalErrors)
	if err != nil {
		h.statsError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "total_jobs,total_errors\n%d,%d\n", jobs, errCount)
}

func (h *Handler) statsError(w http.ResponseWriter, r *http.Request, err error) {
	metrics.RecordCounterStoreError("get")
	logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to read delivery counters")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	fmt.Fprintf(w, "Unexpected error occurred: %s", err.Error())
}
