package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	authgate "github.com/authgate-dev/authgate"
)

type principalContextKey struct{}

// PrincipalFromContext returns the principal the gate attached to the
// request, if any.
func PrincipalFromContext(ctx context.Context) (*authgate.Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(*authgate.Principal)
	return p, ok
}

var gateDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "authgate",
	Name:      "gate_decisions_total",
	Help:      "Request gate outcomes by decision",
}, []string{"decision"})

// Gate returns middleware enforcing the given strategy on every request.
// Unprotected paths pass through untouched. Protected requests without
// credential evidence get 401; evidence that does not resolve to a
// principal gets 403; everything else proceeds with the principal attached
// to the request context.
func Gate(strategy authgate.Strategy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := authgate.Evaluate(strategy, r)

			switch decision.Failure {
			case authgate.FailureMissingCredentials:
				gateDecisions.WithLabelValues("unauthorized").Inc()
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			case authgate.FailureInvalidCredentials:
				gateDecisions.WithLabelValues("forbidden").Inc()
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}

			gateDecisions.WithLabelValues("allowed").Inc()

			if decision.Principal != nil {
				ctx := context.WithValue(r.Context(), principalContextKey{}, decision.Principal)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
