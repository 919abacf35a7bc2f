package http

import (
	"net/http"
	syncerrors "staysync/pkg/errors"
	"time"
)

const dateLayout = "2006-01-02"

// ExtractDateRange reads from/to query parameters as calendar dates. The
// range is inclusive on both ends, matching the availability push contract.
func ExtractDateRange(r *http.Request) (time.Time, time.Time, error) {
	query := r.URL.Query()

	fromStr := query.Get("from")
	toStr := query.Get("to")
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, syncerrors.Validation("from and to query parameters are required", nil)
	}

	from, err := time.Parse(dateLayout, fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, syncerrors.Validation("invalid from date: "+fromStr, nil)
	}
	to, err := time.Parse(dateLayout, toStr)
	if err != nil {
		return time.Time{}, time.Time{}, syncerrors.Validation("invalid to date: "+toStr, nil)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, syncerrors.Validation("to date must not be before from date", nil)
	}

	return from, to, nil
}
