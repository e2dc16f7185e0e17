package api

import (
	"io"
	"net/url"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/bogdanfinn/tls-client/bandwidth"
)

// MockHttpClient is a mock implementation of tls_client.HttpClient for testing.
// It records the last request sent through Do.
type MockHttpClient struct {
	Response *fhttp.Response
	Err      error

	LastRequest *fhttp.Request
	LastBody    string
	DoCalls     int
	IdleClosed  bool
}

func (m *MockHttpClient) GetCookies(u *url.URL) []*fhttp.Cookie { return nil }

func (m *MockHttpClient) SetCookies(u *url.URL, cookies []*fhttp.Cookie) {}

func (m *MockHttpClient) SetCookieJar(jar fhttp.CookieJar) {}

func (m *MockHttpClient) GetCookieJar() fhttp.CookieJar { return nil }

func (m *MockHttpClient) SetProxy(proxyUrl string) error { return nil }

func (m *MockHttpClient) GetProxy() string { return "" }

func (m *MockHttpClient) SetFollowRedirect(followRedirect bool) {}

func (m *MockHttpClient) GetFollowRedirect() bool { return false }

func (m *MockHttpClient) CloseIdleConnections() { m.IdleClosed = true }

// Do records the request and returns the canned response
func (m *MockHttpClient) Do(req *fhttp.Request) (*fhttp.Response, error) {
	m.DoCalls++
	m.LastRequest = req
	if req.Body != nil {
		data, _ := io.ReadAll(req.Body)
		m.LastBody = string(data)
	}
	return m.Response, m.Err
}

func (m *MockHttpClient) Get(url string) (*fhttp.Response, error) { return m.Response, m.Err }

func (m *MockHttpClient) Head(url string) (*fhttp.Response, error) { return m.Response, m.Err }

func (m *MockHttpClient) Post(url, contentType string, body io.Reader) (*fhttp.Response, error) {
	return m.Response, m.Err
}

func (m *MockHttpClient) GetBandwidthTracker() bandwidth.BandwidthTracker { return nil }

// NewMockHttpClient creates a new MockHttpClient with a canned response
func NewMockHttpClient(body string, statusCode int) *MockHttpClient {
	return &MockHttpClient{
		Response: &fhttp.Response{
			StatusCode: statusCode,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(fhttp.Header),
		},
	}
}

// NewMockHttpClientWithError creates a new MockHttpClient that returns an error
func NewMockHttpClientWithError(err error) *MockHttpClient {
	return &MockHttpClient{Err: err}
}
