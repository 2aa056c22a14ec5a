package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"shiprestrict/pkg/requestcontext"
)

// RequestIDHeader is honored when the platform already assigned an id.
const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with a correlation id, reusing the inbound
// header when present. Services read it back via requestcontext.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
