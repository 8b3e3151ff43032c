package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is an optional structured logger. If unset, falls back to log.Printf.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

func logInfo(r *http.Request, msg string, dur time.Duration) {
	if zlog == nil {
		log.Printf("%s path=%s dur=%s", msg, r.URL.Path, dur)
		return
	}
	z := zlog.Info().Str("path", r.URL.Path).Dur("dur", dur)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Msg(msg)
}

func logWarn(r *http.Request, msg string) {
	if zlog == nil {
		log.Printf("warn: %s path=%s", msg, r.URL.Path)
		return
	}
	z := zlog.Warn().Str("path", r.URL.Path)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Msg(msg)
}

// logError records a handler failure with the full error chain before the
// 500 response is written.
func logError(r *http.Request, err error, dur time.Duration) {
	if zlog == nil {
		log.Printf("error path=%s dur=%s err=%v", r.URL.Path, dur, err)
		return
	}
	z := zlog.Error().Err(err).Str("path", r.URL.Path).Dur("dur", dur)
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		z = z.Str("request_id", rid)
	}
	z.Msg("request failed")
}
