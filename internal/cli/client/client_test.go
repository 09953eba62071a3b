package client

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticTokens is a fixed token source
type staticTokens struct {
	token string
	err   error
}

func (s staticTokens) Token() (string, error) { return s.token, s.err }

// captured is what the test server saw
type captured struct {
	method string
	path   string
	header http.Header
	body   []byte
	form   map[string][]string
	files  []string
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *captured) {
	t.Helper()
	got := &captured{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.RequestURI()
		got.header = r.Header.Clone()

		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			assert.NoError(t, r.ParseMultipartForm(1<<20))
			got.form = r.MultipartForm.Value
			for _, fh := range r.MultipartForm.File["files"] {
				got.files = append(got.files, fh.Filename)
			}
		} else {
			got.body, _ = io.ReadAll(r.Body)
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func TestRequest_AttachesBearerToken(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{"success":true,"message":"ok","data":{"id":1}}`)
	c := New(srv.URL, staticTokens{token: "xyz"})

	res, err := c.Get("/api/trips/1")
	require.NoError(t, err)

	assert.Equal(t, "Bearer xyz", got.header.Get("Authorization"))
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/api/trips/1", got.path)
	assert.True(t, res.Success)
	assert.Equal(t, "ok", res.Message)
	assert.JSONEq(t, `{"id":1}`, string(res.Data))
}

func TestRequest_NoTokenNoAuthorizationHeader(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{"success":true}`)

	for _, tokens := range []TokenSource{nil, staticTokens{}} {
		c := New(srv.URL, tokens)
		_, err := c.Request("/api/trips", Options{
			Header: http.Header{"Authorization": {"Bearer stale"}},
		})
		require.NoError(t, err)

		if tokens == nil {
			// Without a token source the caller's header is left alone
			assert.Equal(t, "Bearer stale", got.header.Get("Authorization"))
			continue
		}
		_, present := got.header["Authorization"]
		assert.False(t, present)
	}
}

func TestRequest_TokenSourceErrorFailsLoudly(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{}`)
	c := New(srv.URL, staticTokens{err: errors.New("keychain locked")})

	_, err := c.Get("/api/trips")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keychain locked")
	assert.Empty(t, got.method)
}

func TestPost_SendsJSON(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{"success":true}`)
	c := New(srv.URL+"/", staticTokens{token: "abc"})

	_, err := c.Post("api/trips", map[string]any{"title": "Jeju"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/trips", got.path)
	assert.Equal(t, "application/json", got.header.Get("Content-Type"))
	assert.JSONEq(t, `{"title":"Jeju"}`, string(got.body))
}

func TestPutAndDelete_Methods(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{"success":true}`)
	c := New(srv.URL, nil)

	_, err := c.Put("/api/trips/1", map[string]string{"title": "x"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, got.method)

	_, err = c.Delete("/api/trips/1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, got.method)
	assert.Empty(t, got.body)
}

func TestDescribe_MultipartWithholdsContentType(t *testing.T) {
	c := New("http://api.test", staticTokens{token: "abc"})
	body, err := NewMultipart(map[string]string{"title": "Day 1"})
	require.NoError(t, err)

	desc, err := c.describe("/api/travel-logs?tripId=1", Options{
		Method: http.MethodPost,
		Header: http.Header{"Content-Type": {"application/json"}},
		Body:   body,
	})
	require.NoError(t, err)

	_, present := desc.Header["Content-Type"]
	assert.False(t, present)
	assert.Equal(t, "Bearer abc", desc.Header.Get("Authorization"))
	assert.Equal(t, "http://api.test/api/travel-logs?tripId=1", desc.URL)
}

func TestPostMultipart_SendsBoundaryNotJSON(t *testing.T) {
	srv, got := newServer(t, http.StatusOK, `{"success":true,"data":null}`)
	c := New(srv.URL, staticTokens{token: "abc"})

	body, err := NewMultipart(
		map[string]any{"title": "Day 1", "tagIds": []int{1, 2}},
		File{Name: "a.jpg", ContentType: "image/jpeg", Content: strings.NewReader("aaa")},
		File{Name: "b.png", Content: strings.NewReader("bbb")},
	)
	require.NoError(t, err)

	_, err = c.PostMultipart("/api/travel-logs?tripId=1", body)
	require.NoError(t, err)

	ctype := got.header.Get("Content-Type")
	assert.True(t, strings.HasPrefix(ctype, "multipart/form-data; boundary="), ctype)
	assert.NotContains(t, ctype, "application/json")
	assert.Equal(t, "Bearer abc", got.header.Get("Authorization"))
	require.Len(t, got.form["data"], 1)
	assert.JSONEq(t, `{"title":"Day 1","tagIds":[1,2]}`, got.form["data"][0])
	assert.Equal(t, []string{"a.jpg", "b.png"}, got.files)
}

func TestNewMultipart_FileCap(t *testing.T) {
	files := make([]File, MaxFiles+1)
	for i := range files {
		files[i] = File{Name: "f", Content: strings.NewReader("x")}
	}

	_, err := NewMultipart(map[string]string{}, files...)
	require.ErrorIs(t, err, ErrTooManyFiles)

	_, err = NewMultipart(map[string]string{}, files[:MaxFiles]...)
	require.NoError(t, err)
}

func TestRequest_ErrorDetail(t *testing.T) {
	srv, _ := newServer(t, http.StatusNotFound, `{"status":404,"error":"Not Found","detail":"Trip not found"}`)
	c := New(srv.URL, staticTokens{token: "abc"})

	_, err := c.Get("/api/trips/99")
	require.Error(t, err)
	assert.Equal(t, "Trip not found", err.Error())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.True(t, IsStatus(err, http.StatusNotFound))
	assert.False(t, IsStatus(err, http.StatusUnauthorized))
}

func TestRequest_ErrorWithoutDetail(t *testing.T) {
	for _, body := range []string{`{}`, `{"error":"Bad Request"}`, `[1,2]`, `"nope"`} {
		srv, _ := newServer(t, http.StatusBadRequest, body)
		c := New(srv.URL, nil)

		_, err := c.Get("/api/trips")
		require.Error(t, err, body)
		assert.Equal(t, GenericFailureMessage, err.Error(), body)
	}
}

func TestRequest_NonJSONBodyIsDecodeError(t *testing.T) {
	for _, status := range []int{http.StatusInternalServerError, http.StatusOK} {
		srv, _ := newServer(t, status, "Internal Server Error")
		c := New(srv.URL, nil)

		_, err := c.Get("/api/trips")
		require.Error(t, err)

		var decodeErr *DecodeError
		require.True(t, errors.As(err, &decodeErr))
		assert.Equal(t, status, decodeErr.StatusCode)

		var apiErr *APIError
		assert.False(t, errors.As(err, &apiErr))
	}
}

func TestRequest_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, nil)
	_, err := c.Get("/api/trips")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send request")

	var apiErr *APIError
	var decodeErr *DecodeError
	assert.False(t, errors.As(err, &apiErr))
	assert.False(t, errors.As(err, &decodeErr))
}

func TestRequest_NonObjectSuccessBody(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `[{"id":1}]`)
	c := New(srv.URL, nil)

	res, err := c.Get("/api/anything")
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Empty(t, res.Data)

	var items []map[string]int
	require.NoError(t, json.Unmarshal(res.Raw, &items))
	assert.Equal(t, 1, items[0]["id"])
}
