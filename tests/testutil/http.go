package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SessionHeader is the header carrying the cart session token
const SessionHeader = "X-Cart-Session"

// Envelope mirrors the API response envelope with a typed payload
type Envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
		Details   []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"details"`
	} `json:"error"`
}

// Client drives an engine the way a browser tab would: the session token
// minted on the first cart request is replayed on every later one.
type Client struct {
	t          *testing.T
	engine     *gin.Engine
	Session    string
	RemoteAddr string
}

// NewClient creates a client without a session
func NewClient(t *testing.T, engine *gin.Engine) *Client {
	return &Client{t: t, engine: engine, RemoteAddr: "192.0.2.10:40000"}
}

// Do sends a request. body is JSON encoded unless nil.
func (c *Client) Do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = c.RemoteAddr
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Session != "" {
		req.Header.Set(SessionHeader, c.Session)
	}

	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)

	if minted := w.Header().Get(SessionHeader); minted != "" {
		c.Session = minted
	}
	return w
}

// Get sends a GET request
func (c *Client) Get(path string) *httptest.ResponseRecorder {
	return c.Do(http.MethodGet, path, nil)
}

// Post sends a POST request with a JSON body
func (c *Client) Post(path string, body any) *httptest.ResponseRecorder {
	return c.Do(http.MethodPost, path, body)
}

// Put sends a PUT request with a JSON body
func (c *Client) Put(path string, body any) *httptest.ResponseRecorder {
	return c.Do(http.MethodPut, path, body)
}

// Delete sends a DELETE request
func (c *Client) Delete(path string) *httptest.ResponseRecorder {
	return c.Do(http.MethodDelete, path, nil)
}

// Decode parses the response envelope
func Decode[T any](t *testing.T, w *httptest.ResponseRecorder) Envelope[T] {
	t.Helper()
	var env Envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return env
}

// AssertErrorCode checks the status and the error code of a failed response
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, w.Code, "body: %s", w.Body.String())
	env := Decode[json.RawMessage](t, w)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, code, env.Error.Code)
}
