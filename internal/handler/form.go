package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/easytrip/backend/internal/domain"
	"github.com/pkordes/easytrip/backend/internal/view"
)

// parsePlanForm reads the planning form from an already parsed request.
// The returned view.TripForm echoes the raw values for re-rendering.
// Returns a domain.ErrValidation error when trip_length is not a whole
// number in range; every other field is accepted as-is and checked by the
// service.
func parsePlanForm(form url.Values) (domain.PlanRequest, view.TripForm, error) {
	raw := view.TripForm{
		Destination: form.Get("destination"),
		TripLength:  strings.TrimSpace(form.Get("trip_length")),
		GroupSize:   form.Get("group_size"),
		StartDate:   form.Get("start_date"),
		EndDate:     form.Get("end_date"),
		Interests:   form["interests"],
	}

	req := domain.PlanRequest{
		Destination: raw.Destination,
		TripLength:  domain.DefaultTripLength,
		GroupSize:   raw.GroupSize,
		StartDate:   parseDate(raw.StartDate),
		EndDate:     parseDate(raw.EndDate),
		Interests:   raw.Interests,
	}

	if raw.TripLength != "" {
		n, err := strconv.Atoi(raw.TripLength)
		if err != nil || n < 1 || n > domain.MaxTripLength {
			return req, raw, fmt.Errorf("%w: trip length must be a whole number between 1 and %d", domain.ErrValidation, domain.MaxTripLength)
		}
		req.TripLength = n
	}
	return req, raw, nil
}

// parseDate binds a YYYY-MM-DD form value. Blank or malformed input yields nil.
func parseDate(v string) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	var d openapi_types.Date
	if err := runtime.BindStringToObject(v, &d); err != nil {
		return nil
	}
	t := d.Time
	return &t
}

// tripID binds the {id} path parameter the same way generated routers do.
func tripID(raw string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", raw, &id, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	return id, err
}

// safeNext returns next if it is a local absolute path, otherwise "".
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return ""
	}
	return next
}
