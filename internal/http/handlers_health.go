package httpx

import (
	"io"
	"net/http"
)

const healthResponse = `{"status":"ok","service":"opsdesk"}`

// healthHandler answers readiness/liveness probes. Probes carry no
// cookies, so identity resolution never touches the store for them.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.WriteString(w, healthResponse); err != nil {
		// Nothing more to do if the client connection is gone.
		return
	}
}
