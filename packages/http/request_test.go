package http

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/pinga/packages/core/parser"
)

type mockEscaper struct {
	mock.Mock
}

func (m *mockEscaper) Escape(s string) string {
	args := m.Called(s)
	return args.String(0)
}

type passthrough struct{}

func (passthrough) Escape(s string) string { return s }

func mustConfig(t *testing.T, input string) *parser.RequestConfig {
	t.Helper()
	cfg, err := parser.ParseRequestConfig([]byte(input))
	require.NoError(t, err)
	return cfg
}

func TestRequest_AddQueryParam(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"starts query string", "http://h/p", "http://h/p?a=1&b=2"},
		{"extends existing query", "http://h/p?x=9", "http://h/p?x=9&a=1&b=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRequest("GET", tt.url)
			r.AddQueryParam(passthrough{}, "a", "1").AddQueryParam(passthrough{}, "b", "2")
			assert.Equal(t, tt.expected, r.URL)
		})
	}
}

func TestRequest_SetPathParam(t *testing.T) {
	r := NewRequest("GET", "http://h/users/{id}/posts/{id}")
	r.SetPathParam(passthrough{}, "id", "42")
	assert.Equal(t, "http://h/users/42/posts/42", r.URL)

	r.SetPathParam(passthrough{}, "missing", "x")
	assert.Equal(t, "http://h/users/42/posts/42", r.URL)
}

func TestRequest_EscapesValues(t *testing.T) {
	esc := &mockEscaper{}
	esc.On("Escape", "a b").Return("a%20b").Once()
	esc.On("Escape", "q").Return("q").Once()
	esc.On("Escape", "x/y").Return("x%2Fy").Once()

	r := NewRequest("GET", "http://h/{p}")
	r.SetPathParam(esc, "p", "x/y")
	r.AddQueryParam(esc, "q", "a b")

	assert.Equal(t, "http://h/x%2Fy?q=a%20b", r.URL)
	esc.AssertExpectations(t)
}

func TestRequest_HasHeader(t *testing.T) {
	r := NewRequest("GET", "http://h").AddHeader("Content-Type", "text/plain")

	assert.True(t, r.HasHeader("content-type"))
	assert.False(t, r.HasHeader("Accept"))
}

func TestBuildRequest_EndToEnd(t *testing.T) {
	cfg := mustConfig(t, `{"url":"http://x/{id}","path_params":{"id":"7"},"query_params":{"q":"a b"}}`)

	r, err := BuildRequest(cfg, NewClient())
	require.NoError(t, err)

	assert.Equal(t, "GET", r.Method)
	assert.Equal(t, "http://x/7?q=a%20b", r.URL)
	assert.False(t, r.HasBody)
	assert.Empty(t, r.Headers)
}

func TestBuildRequest_Method(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"get without payload", `{"url":"http://x"}`, "GET"},
		{"post with payload", `{"url":"http://x","payload":"a"}`, "POST"},
		{"post with empty payload", `{"url":"http://x","payload":""}`, "POST"},
		{"explicit method wins", `{"url":"http://x","method":"PUT","payload":"a"}`, "PUT"},
		{"empty method is unset", `{"url":"http://x","method":""}`, "GET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := BuildRequest(mustConfig(t, tt.input), passthrough{})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, r.Method)
		})
	}
}

func TestBuildRequest_Headers(t *testing.T) {
	cfg := mustConfig(t, `{
		"url": "http://x",
		"headers": [
			{"name": "Accept", "value": "text/plain"},
			{"key": "Accept", "value": "application/json"},
			{"ignored": true},
			{"name": "X-Empty", "value": ""}
		]
	}`)

	r, err := BuildRequest(cfg, passthrough{})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Accept: text/plain",
		"Accept: application/json",
		"X-Empty: ",
	}, r.Headers)
}

func TestBuildRequest_Payload(t *testing.T) {
	cfg := mustConfig(t, `{"url":"http://x","payload":{"a":[1,2]}}`)

	r, err := BuildRequest(cfg, passthrough{})
	require.NoError(t, err)
	assert.True(t, r.HasBody)
	assert.Equal(t, `{"a":[1,2]}`, string(r.Body))
}

func TestBuildRequest_PayloadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "body.bin")
	content := []byte("raw\x00bytes\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	cfg := mustConfig(t, `{"url":"http://x","payload_file":"`+filepath.ToSlash(path)+`"}`)

	r, err := BuildRequest(cfg, passthrough{})
	require.NoError(t, err)
	assert.Equal(t, "POST", r.Method)
	assert.Equal(t, content, r.Body)
}

func TestBuildRequest_PayloadFileMissing(t *testing.T) {
	cfg := mustConfig(t, `{"url":"http://x","payload_file":"/nonexistent/body.json"}`)

	_, err := BuildRequest(cfg, passthrough{})
	require.Error(t, err)
	assert.Equal(t, "failed to read payload_file: /nonexistent/body.json", err.Error())
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestBuildRequest_CollectionError(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{
			"query params not a collection",
			`{"url":"http://x","query_params":"a=b"}`,
			"invalid query_params: expected array or object",
		},
		{
			"header value not a string",
			`{"url":"http://x","headers":{"X-Count":3}}`,
			"invalid headers entry: key/value must be strings (got string/primitive)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildRequest(mustConfig(t, tt.input), passthrough{})
			require.Error(t, err)
			assert.Equal(t, tt.message, err.Error())

			var ce *parser.CollectionError
			assert.ErrorAs(t, err, &ce)
		})
	}
}
