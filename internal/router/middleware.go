package router

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"fyyur/internal/logger"
	"fyyur/internal/utils"
)

func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.LogAPI(r.Method, r.URL.Path, strconv.Itoa(status), time.Since(start).Round(time.Microsecond).String())
		})
	}
}

// recoverer turns a panic into the JSON 500 page.
func recoverer(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error("PANIC", fmt.Sprintf("%s %s: %v\n%s", r.Method, r.URL.Path, rec, debug.Stack()))
				utils.WriteJSON(w, http.StatusInternalServerError,
					utils.ErrorResponse("Something went wrong", http.StatusText(http.StatusInternalServerError)))
			}()
			next.ServeHTTP(w, r)
		})
	}
}
