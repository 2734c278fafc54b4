package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/okian/qscore/internal/config"
	"github.com/okian/qscore/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	convey.Convey("Given the main application", t, func() {
		convey.Convey("When testing configuration loading", func() {
			_ = os.Setenv("QSCORE_ADDR", ":8088")
			_ = os.Setenv("QSCORE_MAX_BATCH_SIZE", "25")
			_ = os.Setenv("QSCORE_QUALITY__STRATEGY", "ratio")
			defer func() {
				_ = os.Unsetenv("QSCORE_ADDR")
				_ = os.Unsetenv("QSCORE_MAX_BATCH_SIZE")
				_ = os.Unsetenv("QSCORE_QUALITY__STRATEGY")
			}()

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8088")
				convey.So(cfg.MaxBatchSize, convey.ShouldEqual, 25)
				convey.So(string(cfg.Quality.Strategy), convey.ShouldEqual, "ratio")
			})
		})

		convey.Convey("When the service is built from a sqlite configuration", func() {
			ctx := context.Background()
			cfg := config.New()
			cfg.SettingsBackend = config.BackendSQLite
			cfg.SettingsDSN = filepath.Join(t.TempDir(), "settings.db")

			svc, err := newService(ctx, cfg, logger.Nop())
			convey.So(err, convey.ShouldBeNil)
			defer svc.Stop()

			convey.Convey("Then the HTTP server serves the API", func() {
				srv := newHTTPServer(ctx, cfg, svc)
				convey.So(srv.Addr, convey.ShouldEqual, cfg.Addr)
				convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)

				w := httptest.NewRecorder()
				srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)

				w = httptest.NewRecorder()
				srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)

				w = httptest.NewRecorder()
				body := strings.NewReader(`{"items":[{"id":"a","hits":100,"kudos":1}]}`)
				srv.Handler.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/score", body))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			})
		})
	})
}

func TestMainApplicationComponents(t *testing.T) {
	convey.Convey("Given main application components", t, func() {
		convey.Convey("When testing system metrics updater", func() {
			convey.Convey("Then it returns once the context is done", func() {
				ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
				defer cancel()

				convey.So(func() {
					startSystemMetricsUpdater(ctx)
				}, convey.ShouldNotPanic)
			})
		})

		convey.Convey("When testing system metrics update", func() {
			convey.Convey("Then it should update metrics without panicking", func() {
				convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			})
		})
	})
}

func TestMainApplicationErrorHandling(t *testing.T) {
	convey.Convey("Given main application error handling", t, func() {
		convey.Convey("When testing invalid configuration", func() {
			_ = os.Setenv("QSCORE_ADDR", "")
			defer func() { _ = os.Unsetenv("QSCORE_ADDR") }()

			convey.Convey("Then configuration loading should fail", func() {
				cfg, err := config.Load(context.Background())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the settings backend is unknown", func() {
			cfg := config.New()
			cfg.SettingsBackend = "etcd"

			convey.Convey("Then the service is not built", func() {
				svc, err := newService(context.Background(), cfg, logger.Nop())
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(svc, convey.ShouldBeNil)
			})
		})
	})
}
