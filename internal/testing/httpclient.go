package testing

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestClient provides an HTTP client against a test server, adding the
// API key header when one is set.
type TestClient struct {
	Server *httptest.Server
	APIKey string
}

// NewTestClient starts a test server around the handler. The server is
// closed automatically when the test finishes.
func NewTestClient(t *testing.T, handler http.Handler) *TestClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &TestClient{Server: server}
}

// Do performs an HTTP request with a JSON body
func (tc *TestClient) Do(method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, tc.Server.URL+path, reqBody)
	if err != nil {
		return nil, err
	}

	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if tc.APIKey != "" {
		req.Header.Set("X-API-Key", tc.APIKey)
	}

	return http.DefaultClient.Do(req)
}

// Get performs a GET request
func (tc *TestClient) Get(path string) (*http.Response, error) {
	return tc.Do("GET", path, nil)
}

// Post performs a POST request
func (tc *TestClient) Post(path string, body interface{}) (*http.Response, error) {
	return tc.Do("POST", path, body)
}

// ParseResponse parses a JSON response body
func ParseResponse(t *testing.T, resp *http.Response, v interface{}) error {
	t.Helper()

	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(v)
}

// AssertStatus asserts the response status code
func AssertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()

	if resp.StatusCode != expected {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("Expected status %d, got %d. Body: %s", expected, resp.StatusCode, string(body))
	}
}

// RequireField fails the test when a decoded JSON map is missing a field
func RequireField(t *testing.T, payload map[string]interface{}, field string) interface{} {
	t.Helper()

	value, ok := payload[field]
	if !ok {
		t.Fatalf("Expected response to contain field %q, got %v", field, payload)
	}
	return value
}
