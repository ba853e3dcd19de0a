package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/recruitportal/internal/adapters/http/stubserver"
	"github.com/okian/recruitportal/pkg/logger"
	"github.com/okian/recruitportal/pkg/metrics"
	"github.com/smartystreets/goconvey/convey"
)

func TestStubServer(t *testing.T) {
	convey.Convey("Given the stub wired as the binary wires it", t, func() {
		stub := stubserver.New(stubserver.WithOTPCode("654321"), stubserver.WithLogger(logger.Nop()))
		srv := newHTTPServer(":0", stub.Handler())

		convey.Convey("Then the HTTP server carries timeouts", func() {
			convey.So(srv.ReadHeaderTimeout, convey.ShouldEqual, readHeaderTimeout)
			convey.So(srv.WriteTimeout, convey.ShouldEqual, writeTimeout)
			convey.So(stub.OTPCode(), convey.ShouldEqual, "654321")
		})

		convey.Convey("Then health and metrics are served", func() {
			ts := httptest.NewServer(srv.Handler)
			defer ts.Close()

			resp, err := http.Get(ts.URL + "/healthz")
			convey.So(err, convey.ShouldBeNil)
			_ = resp.Body.Close()
			convey.So(resp.StatusCode, convey.ShouldEqual, http.StatusOK)

			updateStubMetrics(stub)
			updateSystemMetrics()

			resp, err = http.Get(ts.URL + "/metrics")
			convey.So(err, convey.ShouldBeNil)
			body, _ := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			convey.So(strings.Contains(string(body), "portal_stub_records"), convey.ShouldBeTrue)
			convey.So(strings.Contains(string(body), "portal_system_goroutines"), convey.ShouldBeTrue)
		})

		convey.Convey("Then the inventory starts empty", func() {
			convey.So(stub.Stats()["jobs"], convey.ShouldEqual, 0)
			convey.So(metrics.GetRegistry(), convey.ShouldNotBeNil)
		})
	})
}
