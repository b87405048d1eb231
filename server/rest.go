package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-pkgz/rest"

	"github.com/umputun/tweetbot/pkg/publisher"
)

// homeHandler is a plain text liveness banner
func (s *Server) homeHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "tweetbot running")
}

// healthHandler is a liveness check, ok even without credentials
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, r, http.StatusOK, rest.JSON{"ok": true})
}

// postNowHandler publishes synchronously and reports the actual outcome
func (s *Server) postNowHandler(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] manual post requested from %s", r.RemoteAddr)
	res := s.publisher.Publish(r.Context())

	switch res.Status {
	case publisher.StatusPosted:
		renderJSON(w, r, http.StatusOK, rest.JSON{"posted": true, "status": res.Status, "text": res.Text, "id": res.TweetID})
	case publisher.StatusDryRun:
		renderJSON(w, r, http.StatusOK, rest.JSON{"posted": false, "status": res.Status, "text": res.Text})
	case publisher.StatusSkipped:
		renderJSON(w, r, http.StatusServiceUnavailable, rest.JSON{"posted": false, "status": res.Status, "error": errMsg(res.Err)})
	default:
		renderJSON(w, r, http.StatusBadGateway,
			rest.JSON{"posted": false, "status": res.Status, "text": res.Text, "error": errMsg(res.Err)})
	}
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := rest.JSON{
		"status":     "ok",
		"version":    s.Version,
		"time":       time.Now().UTC(),
		"configured": s.publisher.Configured(),
	}
	if next := s.scheduler.NextRun(); !next.IsZero() {
		status["next_run"] = next.UTC()
	}
	renderJSON(w, r, http.StatusOK, status)
}

func errMsg(err error) string {
	if err == nil {
		return "unknown error"
	}
	return err.Error()
}
