package portalapi

import (
	"net/http"
	"net/url"
	"strings"
)

// CSRFHeader carries the anti-forgery token on every mutating request.
const CSRFHeader = "X-CSRF-Token"

// CSRFCookie is the cookie consulted when no static token is configured.
const CSRFCookie = "csrf"

// CSRFSource yields the token for the next mutating request. An empty token
// means the header is omitted.
type CSRFSource interface {
	Token() string
}

// StaticToken is a token known up front, the equivalent of the page meta tag.
type StaticToken string

// Token returns the configured value.
func (t StaticToken) Token() string { return strings.TrimSpace(string(t)) }

// CookieToken reads the csrf cookie that the backend set for base.
type CookieToken struct {
	Jar  http.CookieJar
	Base *url.URL
}

// Token returns the URL-decoded cookie value, or "".
func (c CookieToken) Token() string {
	if c.Jar == nil || c.Base == nil {
		return ""
	}
	for _, ck := range c.Jar.Cookies(c.Base) {
		if ck.Name != CSRFCookie {
			continue
		}
		v, err := url.QueryUnescape(ck.Value)
		if err != nil {
			return ck.Value
		}
		return v
	}
	return ""
}

// FirstToken tries each source in order and returns the first non-empty token.
type FirstToken []CSRFSource

// Token implements CSRFSource.
func (f FirstToken) Token() string {
	for _, s := range f {
		if s == nil {
			continue
		}
		if t := s.Token(); t != "" {
			return t
		}
	}
	return ""
}
