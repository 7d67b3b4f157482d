package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"hradmin/internal/requestctx"
)

const requestIDHeader = "X-Request-ID"

// RequestID honors an inbound correlation id, minting one otherwise, and
// echoes it on the response so clients can cite it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(requestctx.WithRequestID(r.Context(), id)))
	})
}

func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}
