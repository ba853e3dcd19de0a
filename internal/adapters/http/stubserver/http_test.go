package stubserver_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/recruitportal/internal/adapters/http/stubserver"
	. "github.com/smartystreets/goconvey/convey"
)

func form(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func post(t *testing.T, h http.Handler, path string, fields map[string]string, mutate ...func(*http.Request)) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	body, ctype := form(t, fields)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", ctype)
	for _, m := range mutate {
		m(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec, out
}

func sessionFrom(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == stubserver.SessionCookie {
			return c
		}
	}
	return nil
}

func TestAuthContract(t *testing.T) {
	Convey("Given a stub with one recruiter", t, func() {
		srv := stubserver.New(
			stubserver.WithOTPCode("654321"),
			stubserver.WithUser("rita@example.com", "pw", "Rita", "recruiter"),
		)
		h := srv.Handler()
		login := map[string]string{"mode": "login", "role": "candidate", "email": "rita@example.com", "password": "pw"}

		Convey("Start without credentials is rejected with ok:false", func() {
			rec, out := post(t, h, "/api/auth/start", map[string]string{"mode": "login"})
			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(out["ok"], ShouldEqual, false)
			So(out["error"], ShouldEqual, "Email and password required")
		})

		Convey("A wrong password is rejected", func() {
			bad := map[string]string{"mode": "login", "email": "rita@example.com", "password": "nope"}
			_, out := post(t, h, "/api/auth/start", bad)
			So(out["error"], ShouldEqual, "Invalid email or password")
		})

		Convey("Verify reports the registered role, not the requested one", func() {
			_, out := post(t, h, "/api/auth/start", login)
			So(out["ok"], ShouldEqual, true)

			verify := map[string]string{"email": "rita@example.com", "code": "000000"}
			_, out = post(t, h, "/api/auth/verify", verify)
			So(out["error"], ShouldEqual, "Invalid or expired OTP")

			verify["code"] = srv.OTPCode()
			rec, out := post(t, h, "/api/auth/verify", verify)
			So(out["ok"], ShouldEqual, true)
			So(out["role"], ShouldEqual, "recruiter")
			So(sessionFrom(rec), ShouldNotBeNil)

			Convey("And the challenge is consumed", func() {
				_, out := post(t, h, "/api/auth/verify", verify)
				So(out["ok"], ShouldEqual, false)
			})
		})

		Convey("Signing up an existing account is rejected", func() {
			signup := map[string]string{"mode": "signup", "role": "candidate", "email": "RITA@example.com", "password": "x", "name": "R"}
			rec, out := post(t, h, "/api/auth/start", signup)
			So(rec.Code, ShouldEqual, http.StatusConflict)
			So(out["error"], ShouldEqual, "Account already exists")
		})
	})
}

func TestAccessControl(t *testing.T) {
	Convey("Given a stub", t, func() {
		h := stubserver.New(stubserver.WithCSRFToken("tok 1")).Handler()

		Convey("Recruiter routes need a session", func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recruiter/jobs", nil))
			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
			So(rec.Body.String(), ShouldContainSubstring, `"ok":false`)
		})

		Convey("Reads hand out the csrf cookie", func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Set-Cookie"), ShouldContainSubstring, "csrf=tok+1")
		})

		Convey("Mutations without the header are refused", func() {
			rec, out := post(t, h, "/api/auth/start", map[string]string{"email": "a", "password": "b"})
			So(rec.Code, ShouldEqual, http.StatusForbidden)
			So(out["error"], ShouldEqual, "CSRF token missing or invalid")

			rec, _ = post(t, h, "/api/auth/start", map[string]string{"email": "a", "password": "b"},
				func(r *http.Request) { r.Header.Set("X-CSRF-Token", "tok 1") })
			So(rec.Code, ShouldEqual, http.StatusUnauthorized)
		})

		Convey("Health reports ok", func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			So(strings.TrimSpace(rec.Body.String()), ShouldContainSubstring, `"status":"healthy"`)
		})

		Convey("The API description is served", func() {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Content-Type"), ShouldContainSubstring, "application/yaml")
			So(rec.Body.String(), ShouldContainSubstring, "/api/auth/verify")

			rec = httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api-docs", nil))
			So(rec.Body.String(), ShouldContainSubstring, `spec-url="/openapi.yaml"`)
		})
	})
}
