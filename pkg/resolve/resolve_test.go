package resolve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vabarbosa/simple-data-vis/pkg/cache"
	"github.com/vabarbosa/simple-data-vis/pkg/dataset"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/options"
)

func quietResolver(c *Client) *Resolver {
	return New(c, log.New(io.Discard))
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		view string
		opts options.Options
		want string
	}{
		{"no params", "http://h/db", "v", nil, "http://h/db/v"},
		{"trailing slash kept", "http://h/db/", "v", nil, "http://h/db/v"},
		{"params", "http://h/db", "v",
			options.Options{options.Param: map[string]any{"foo": "bar", "a": 1.0}},
			"http://h/db/v?a=1&foo=bar"},
		{"existing query", "http://h/db?x=1", "", options.Options{options.Param: map[string]any{"a": "b"}},
			"http://h/db?x=1&a=b"},
		{"empty values skipped", "http://h", "v",
			options.Options{options.Param: map[string]any{"a": "", "b": "c"}},
			"http://h/v?b=c"},
		{"group true", "http://h", "v", options.Options{options.Group: "TRUE"}, "http://h/v?group=true"},
		{"group false", "http://h", "v", options.Options{options.Group: false}, "http://h/v"},
		{"group false string", "http://h", "v", options.Options{options.Group: "false"}, "http://h/v"},
		{"group zero", "http://h", "v", options.Options{options.Group: 0.0}, "http://h/v"},
		{"falsy params skipped", "http://h", "v",
			options.Options{options.Param: map[string]any{"limit": 0.0, "skip": false, "x": "0"}},
			"http://h/v?x=0"},
		{"group level", "http://h", "v", options.Options{options.Group: 2.0}, "http://h/v?group_level=2"},
		{"group passthrough", "http://h", "v", options.Options{options.Group: "exact"}, "http://h/v?group=exact"},
		{"scalar startkey", "http://h", "v", options.Options{options.StartKey: "a"}, "http://h/v?startkey=a"},
		{"sequence endkey", "http://h", "v", options.Options{options.EndKey: []any{"z", 1.0}},
			"http://h/v?endkey=%5B%22z%22%2C1%5D"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildURL(tt.base, tt.view, tt.opts))
		})
	}
}

func TestBuildURLStartKeyEncoding(t *testing.T) {
	opts := options.Options{
		options.Param:    map[string]any{"foo": "bar"},
		options.StartKey: []any{"a", map[string]any{"x": 1}},
	}
	got := BuildURL("http://h/db", "view", opts)
	assert.Contains(t, got, "foo=bar")
	assert.Contains(t, got, "startkey=%5B%22a%22%2C%7B%7D%5D")
}

func TestBuildURLGroupReplacesGroupLevel(t *testing.T) {
	p := options.NewParams()
	p.Set(options.GroupLevel, 3)
	opts := options.Options{options.Param: p, options.Group: "true"}

	got := BuildURL("http://h", "v", opts)
	assert.Equal(t, "http://h/v?group=true", got)
	// The caller's params are untouched.
	assert.True(t, p.Has(options.GroupLevel))
	assert.False(t, p.Has(options.Group))
}

func TestEncodeURIComponent(t *testing.T) {
	assert.Equal(t, "a%20b%2Fc-_.!~*'()", EncodeURIComponent("a b/c-_.!~*'()"))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "boom", "boom"},
		{"message", map[string]any{"message": "m", "response": "r"}, "m"},
		{"response", map[string]any{"response": "r", "status": 500.0}, "r"},
		{"status", map[string]any{"status": 404.0, "statusText": "Not Found"}, "404: Not Found"},
		{"status defaults", map[string]any{"status": 0.0}, "connection failed"},
		{"json", map[string]any{"x": 1.0}, `{"x":1}`},
		{"status error body", &StatusError{Status: 500, StatusText: "Internal Server Error", Response: "oops"}, "oops"},
		{"status error line", &StatusError{Status: 502, StatusText: "Bad Gateway"}, "502: Bad Gateway"},
		{"coded", errors.New(errors.ErrCodeInvalidSource, "empty data source"), "empty data source"},
		{"plain", fmt.Errorf("plain"), "plain"},
		{"other", []any{1.0}, "[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.in))
		})
	}
}

func TestResolveSequenceUnchanged(t *testing.T) {
	data := []any{map[string]any{"key": "a", "value": 1.0}}
	var got any
	v, err := quietResolver(nil).Resolve(context.Background(), data, "", nil, Hooks{Done: func(raw any) { got = raw }})
	require.NoError(t, err)
	assert.Equal(t, data, v)
	assert.Equal(t, data, got)

	ds := dataset.MustNormalize(data)
	v, err = quietResolver(nil).Resolve(context.Background(), ds, "", nil, Hooks{})
	require.NoError(t, err)
	assert.Same(t, ds, v)
}

func TestResolveProducer(t *testing.T) {
	calls := 0
	p := Producer(func() any {
		calls++
		return []any{1.0, 2.0}
	})
	v, err := quietResolver(nil).Resolve(context.Background(), p, "", nil, Hooks{})
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, 2.0}, v)
	assert.Equal(t, 1, calls)

	v, err = quietResolver(nil).Resolve(context.Background(), func() any { return "x" }, "", nil, Hooks{})
	require.NoError(t, err)
	assert.Equal(t, "x", v)
}

func TestResolveOtherPassesThrough(t *testing.T) {
	var got any
	v, err := quietResolver(nil).Resolve(context.Background(), 42, "", nil, Hooks{Done: func(raw any) { got = raw }})
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.Equal(t, 42, got)
}

func TestResolveURL(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/db/_view/v", r.URL.Path)
		assert.Equal(t, "bar", r.URL.Query().Get("foo"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"rows":[{"key":"b","value":2},{"key":"a","value":1}]}`)
	}))
	defer srv.Close()

	var started string
	var done any
	opts := options.Options{options.Param: map[string]any{"foo": "bar"}}
	v, err := quietResolver(nil).Resolve(context.Background(), srv.URL+"/db", "_view/v", opts, Hooks{
		OnStart: func(u string) { started = u },
		Done:    func(raw any) { done = raw },
		OnFail:  func(msg string) { t.Errorf("unexpected failure: %s", msg) },
	})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/db/_view/v?foo=bar", started)
	assert.Equal(t, v, done)
	assert.Equal(t, int32(1), hits.Load())

	ds, err := dataset.Normalize(v)
	require.NoError(t, err)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "b", ds.Records[0].Key)
}

func TestResolveFailureNoRetry(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "database missing", http.StatusNotFound)
	}))
	defer srv.Close()

	var failed string
	doneCalled := false
	_, err := quietResolver(nil).Resolve(context.Background(), srv.URL, "v", nil, Hooks{
		OnFail: func(msg string) { failed = msg },
		Done:   func(any) { doneCalled = true },
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
	assert.Equal(t, "database missing", failed)
	assert.False(t, doneCalled)
	assert.Equal(t, int32(1), hits.Load())
}

func TestResolveStatusWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	var failed string
	_, err := quietResolver(nil).Resolve(context.Background(), srv.URL, "", nil, Hooks{OnFail: func(m string) { failed = m }})
	require.Error(t, err)
	assert.Equal(t, "500: Internal Server Error", failed)
}

func TestResolveConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := quietResolver(nil).Resolve(context.Background(), addr, "v", nil, Hooks{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNetwork) || errors.Is(err, errors.ErrCodeTimeout))
}

func TestResolveRelativeToOrigin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/v", r.URL.Path)
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	r := quietResolver(nil)
	r.Origin = srv.URL + "/page/"
	var started string
	_, err := r.Resolve(context.Background(), "../data", "v", nil, Hooks{OnStart: func(u string) { started = u }})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/data/v", started)
}

func TestResolveEmptySourceWithoutOrigin(t *testing.T) {
	var failed string
	_, err := quietResolver(nil).Resolve(context.Background(), "", "v", nil, Hooks{OnFail: func(m string) { failed = m }})
	require.Error(t, err)
	assert.Equal(t, "empty data source", failed)
}

func TestResolveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"key":"a","value":1}]`), 0o644))

	r := quietResolver(nil)
	_, err := r.Resolve(context.Background(), path, "", nil, Hooks{})
	require.Error(t, err, "files are refused unless allowed")

	r.AllowFiles = true
	v, err := r.Resolve(context.Background(), path, "ignored", nil, Hooks{})
	require.NoError(t, err)
	assert.Equal(t, 1, dataset.MustNormalize(v).Len())

	v, err = r.Resolve(context.Background(), "file://"+path, "", nil, Hooks{})
	require.NoError(t, err)
	assert.Equal(t, 1, dataset.MustNormalize(v).Len())
}

func TestClientCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `[1,2,3]`)
	}))
	defer srv.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	c := NewClient(WithCache(fc, time.Hour))

	for i := 0; i < 2; i++ {
		v, err := c.Get(context.Background(), srv.URL)
		require.NoError(t, err)
		assert.Len(t, v, 3)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestClientHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer t", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	c := NewClient(WithHeaders(map[string]string{"Authorization": "Bearer t"}))
	_, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
}

func TestClientInvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer srv.Close()

	_, err := NewClient().Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidData))
}
