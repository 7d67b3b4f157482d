package shared

import (
	"net/http"
	"strconv"
)

type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads limit/offset query parameters, falling back to
// defaultLimit and zero for anything missing or malformed. The limit is
// clamped to maxLimit when maxLimit is positive.
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) Pagination {
	p := Pagination{
		Limit:  queryInt(r, "limit", defaultLimit, 1),
		Offset: queryInt(r, "offset", 0, 0),
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

func queryInt(r *http.Request, name string, fallback, floor int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < floor {
		return fallback
	}
	return value
}
