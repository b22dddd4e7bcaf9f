package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/abdul-hamid-achik/pinga/packages/http"
)

func format(t *testing.T, resp *http.Response, opts ...JSONOption) string {
	t.Helper()
	var buf bytes.Buffer
	f := NewJSONFormatter(append([]JSONOption{JSONWithWriter(&buf)}, opts...)...)
	require.NoError(t, f.FormatResponse(resp))
	return buf.String()
}

func TestJSONFormatter_Document(t *testing.T) {
	resp := &http.Response{
		StatusCode: 200,
		StatusLine: "HTTP/1.1 200 OK",
		Headers: []http.HeaderField{
			{Name: "Content-Type", Value: "application/json"},
			{Name: "Set-Cookie", Value: "a=1"},
			{Name: "Set-Cookie", Value: "b=2"},
		},
		Body: []byte(`{"a":1}`),
	}

	out := format(t, resp)

	assert.Equal(t,
		`{"status":200,"status_text":"HTTP/1.1 200 OK","headers":[`+
			`{"name":"Content-Type","value":"application/json"},`+
			`{"name":"Set-Cookie","value":"a=1"},`+
			`{"name":"Set-Cookie","value":"b=2"}],"body":{"a":1}}`+"\n",
		out)
	assert.True(t, gjson.Valid(out))
}

func TestJSONFormatter_Body(t *testing.T) {
	tests := []struct {
		name     string
		body     []byte
		expected string
	}{
		{"object raw", []byte(`{"a":1}`), `{"a":1}`},
		{"array raw", []byte(` [1, 2] `), ` [1, 2] `},
		{"scalar raw", []byte(`42`), `42`},
		{"text escaped", []byte("not json"), `"not json"`},
		{"broken json escaped", []byte(`{"a":`), `"{\"a\":"`},
		{"two values escaped", []byte(`{} {}`), `"{} {}"`},
		{"empty", []byte{}, `""`},
		{"absent", nil, `""`},
		{"binary escaped", []byte("\x00\x01"), `"\u0000\u0001"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := format(t, &http.Response{StatusCode: 200, Body: tt.body})
			assert.Equal(t, `{"status":200,"status_text":"","headers":[],"body":`+tt.expected+"}\n", out)
			assert.True(t, gjson.Valid(out))
		})
	}
}

func TestJSONFormatter_MaxBodyTokens(t *testing.T) {
	body := []byte(`[1,2,3,4,5]`)

	out := format(t, &http.Response{StatusCode: 200, Body: body}, JSONWithMaxBodyTokens(3))
	assert.Equal(t, "[1,2,3,4,5]", gjson.Get(out, "body").String())
	assert.Equal(t, gjson.String, gjson.Get(out, "body").Type)

	out = format(t, &http.Response{StatusCode: 200, Body: body}, JSONWithMaxBodyTokens(16))
	assert.True(t, gjson.Get(out, "body").IsArray())
}

func TestJSONFormatter_EscapesStatusAndHeaders(t *testing.T) {
	resp := &http.Response{
		StatusCode: 500,
		StatusLine: `HTTP/1.1 500 "Broken"`,
		Headers:    []http.HeaderField{{Name: "X-Path", Value: `C:\tmp`}},
	}

	out := format(t, resp)

	require.True(t, gjson.Valid(out))
	assert.Equal(t, int64(500), gjson.Get(out, "status").Int())
	assert.Equal(t, `HTTP/1.1 500 "Broken"`, gjson.Get(out, "status_text").String())
	assert.Equal(t, `C:\tmp`, gjson.Get(out, "headers.0.value").String())
}
