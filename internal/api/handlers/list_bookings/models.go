package list_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/internal/service/bookings/models"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// ToServiceRequest формирует запрос к сервису из query параметров
// startDate, endDate, status, kind, email, limit, offset
func ToServiceRequest(query url.Values, location *time.Location) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{Limit: defaultLimit}

	for key, dst := range map[string]**time.Time{"startDate": &req.StartDate, "endDate": &req.EndDate} {
		raw := query.Get(key)
		if raw == "" {
			continue
		}
		date, err := time.ParseInLocation(domain.DateFormat, raw, location)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = &date
	}

	for key, dst := range map[string]**string{"status": &req.Status, "kind": &req.Kind, "email": &req.Email} {
		if raw := query.Get(key); raw != "" {
			value := raw
			*dst = &value
		}
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || limit == 0 {
			return nil, fmt.Errorf("invalid limit %q", raw)
		}
		if limit > maxLimit {
			limit = maxLimit
		}
		req.Limit = limit
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid offset %q", raw)
		}
		req.Offset = offset
	}

	return req, nil
}
