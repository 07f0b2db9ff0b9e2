package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hndlyt/releaseboard-backend/api/responses"
	"github.com/hndlyt/releaseboard-backend/internal/live"
	"github.com/hndlyt/releaseboard-backend/internal/releases"
	"github.com/hndlyt/releaseboard-backend/internal/submissions"
	pkgerrors "github.com/hndlyt/releaseboard-backend/pkg/errors"
	"github.com/hndlyt/releaseboard-backend/pkg/logger"
)

// WatchReleases streams full release snapshots over SSE. Every write by
// the owner replaces the previous snapshot; intermediate states are not
// replayed for slow consumers.
func WatchReleases(hub *live.Hub, svc releases.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		snapshots, cancel := hub.WatchReleases(userID)
		defer cancel()

		initial, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		startEventStream(w)
		if err := writeEvent(w, flusher, "releases", initial); err != nil {
			return
		}

		for {
			select {
			case <-r.Context().Done():
				return
			case snapshot, open := <-snapshots:
				if !open {
					return
				}
				if err := writeEvent(w, flusher, "releases", snapshot); err != nil {
					return
				}
			}
		}
	}
}

// WatchSubmissions streams full submission snapshots over SSE.
func WatchSubmissions(hub *live.Hub, svc submissions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticatedUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		snapshots, cancel := hub.WatchSubmissions(userID)
		defer cancel()

		initial, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		startEventStream(w)
		if err := writeEvent(w, flusher, "submissions", initial); err != nil {
			return
		}

		for {
			select {
			case <-r.Context().Done():
				return
			case snapshot, open := <-snapshots:
				if !open {
					return
				}
				if err := writeEvent(w, flusher, "submissions", snapshot); err != nil {
					return
				}
			}
		}
	}
}

func startEventStream(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
