package portalapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
)

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// SaveSession writes the backend cookies to path so a later process can reuse
// the signed-in session.
func (c *Client) SaveSession(path string) error {
	const op = "portalapi.SaveSession"
	cookies := c.http.Jar.Cookies(c.base)
	stored := make([]storedCookie, 0, len(cookies))
	for _, ck := range cookies {
		stored = append(stored, storedCookie{Name: ck.Name, Value: ck.Value})
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return WrapKind(op, ErrTransport, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return WrapKind(op, ErrTransport, fmt.Errorf("create session dir: %w", err))
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return WrapKind(op, ErrTransport, fmt.Errorf("write session: %w", err))
	}
	return nil
}

// LoadSession restores cookies saved by SaveSession. A missing file is not an error.
func (c *Client) LoadSession(path string) error {
	const op = "portalapi.LoadSession"
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return WrapKind(op, ErrTransport, fmt.Errorf("read session: %w", err))
	}
	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		return WrapKind(op, ErrTransport, fmt.Errorf("decode session: %w", err))
	}
	cookies := make([]*http.Cookie, 0, len(stored))
	for _, s := range stored {
		cookies = append(cookies, &http.Cookie{Name: s.Name, Value: s.Value, Path: "/"})
	}
	c.http.Jar.SetCookies(c.base, cookies)
	return nil
}

// ClearSession deletes the saved session file.
func (c *Client) ClearSession(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return WrapKind("portalapi.ClearSession", ErrTransport, err)
	}
	return nil
}
