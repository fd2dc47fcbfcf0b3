package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/scorecard/internal/config"
	"github.com/okian/scorecard/pkg/logger"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func TestNewMux(t *testing.T) {
	convey.Convey("Given a service wired from default configuration", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		cfg := config.New(ctx)
		svc, err := newService(cfg)
		convey.So(err, convey.ShouldBeNil)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer func() { _ = svc.Stop(context.Background()) }()

		mux := newMux(ctx, cfg, svc)

		convey.Convey("When a table is posted", func() {
			body := `{"rows":[
				{"candidate_id":"c1","department":"Eng","interviewer_id":"ana","raw_score":4,"submitted":"yes"},
				{"candidate_id":"c1","department":"Eng","interviewer_id":"ben","raw_score":"","submitted":"no"}]}`
			req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.Convey("Then the report is created and its reminders served", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusCreated)
				loc := w.Header().Get("Location")
				convey.So(loc, convey.ShouldStartWith, "/reports/")

				rw := httptest.NewRecorder()
				mux.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, loc+"/reminders", http.NoBody))
				convey.So(rw.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(rw.Body.String(), convey.ShouldContainSubstring, `"interviewer_id":"ben"`)
			})
		})

		convey.Convey("Then docs and health routes are mounted", func() {
			for _, path := range []string{"/openapi.yaml", "/api-docs", "/healthz", "/stats"} {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a config on a free port", t, func() {
		l, err := net.Listen("tcp", "127.0.0.1:0")
		convey.So(err, convey.ShouldBeNil)
		addr := l.Addr().String()
		_ = l.Close()

		cfg := config.New(context.Background())
		cfg.Addr = addr
		cfg.ShutdownTimeoutSeconds = 2

		convey.Convey("When the context is canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan error, 1)
			go func() { done <- run(ctx, cfg) }()

			var resp *http.Response
			for i := 0; i < 50; i++ {
				resp, err = http.Get("http://" + addr + "/healthz")
				if err == nil {
					break
				}
				time.Sleep(20 * time.Millisecond)
			}
			convey.So(err, convey.ShouldBeNil)
			_ = resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)
			cancel()

			convey.Convey("Then run shuts down cleanly", func() {
				select {
				case err := <-done:
					convey.So(err, convey.ShouldBeNil)
				case <-time.After(5 * time.Second):
					convey.So("run did not return", convey.ShouldBeEmpty)
				}
			})
		})
	})

	convey.Convey("Given an address that cannot be bound", t, func() {
		cfg := config.New(context.Background())
		cfg.Addr = "256.0.0.1:bad"

		convey.Convey("Then run reports the listen error", func() {
			err := run(context.Background(), cfg)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestUpdateSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.So(updateSystemMetrics, convey.ShouldNotPanic)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
	})
}
