package server

import (
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/dirchart/pkg/diagram"
	dcerrors "github.com/matzehuels/dirchart/pkg/errors"
	"github.com/matzehuels/dirchart/pkg/pipeline"
)

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	d, err := diagram.Default()
	require.NoError(t, err)
	s, err := New(pipeline.NewRunner(nil, nil, nil), d, opts...)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string, header http.Header) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/healthz", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])

	_, err := uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NoError(t, err, "X-Request-ID should be a UUID")
}

func TestRequestIDPropagated(t *testing.T) {
	ts := newTestServer(t)
	id := uuid.NewString()
	resp := get(t, ts.URL+"/healthz", http.Header{RequestIDHeader: {id}})
	assert.Equal(t, id, resp.Header.Get(RequestIDHeader))

	resp = get(t, ts.URL+"/healthz", http.Header{RequestIDHeader: {"not-a-uuid"}})
	assert.NotEqual(t, "not-a-uuid", resp.Header.Get(RequestIDHeader))
}

func TestLayout(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/layout", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "application/toml"))
	d, err := diagram.Decode(resp.Body)
	require.NoError(t, err)
	assert.Len(t, d.Boxes, 13)
}

func TestDiagramPNG(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/diagram.png?dpi=10", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())
}

func TestDiagramSVGETag(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/diagram.svg?dpi=20", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	etag := resp.Header.Get("ETag")
	require.NotEmpty(t, etag)

	again := get(t, ts.URL+"/diagram.svg?dpi=20", http.Header{"If-None-Match": {etag}})
	assert.Equal(t, http.StatusNotModified, again.StatusCode)

	other := get(t, ts.URL+"/diagram.svg?dpi=30", nil)
	assert.NotEqual(t, etag, other.Header.Get("ETag"))
}

func TestNodelinkDOT(t *testing.T) {
	ts := newTestServer(t)
	resp := get(t, ts.URL+"/nodelink.dot", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/vnd.graphviz"))
}

func TestArtifactErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		path   string
		status int
		code   dcerrors.Code
	}{
		{"/diagram.gif", http.StatusBadRequest, dcerrors.ErrCodeInvalidFormat},
		{"/diagram.dot", http.StatusNotImplemented, dcerrors.ErrCodeUnsupported},
		{"/diagram.png?dpi=abc", http.StatusBadRequest, dcerrors.ErrCodeInvalidInput},
		{"/diagram.png?dpi=5000", http.StatusBadRequest, dcerrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := get(t, ts.URL+tt.path, nil)
			assert.Equal(t, tt.status, resp.StatusCode)

			var body errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, string(tt.code), body.Code)
			assert.Equal(t, resp.Header.Get(RequestIDHeader), body.RequestID)
		})
	}
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(dcerrors.New(dcerrors.ErrCodeInvalidLayout, "x")))
	assert.Equal(t, http.StatusNotFound, statusFor(dcerrors.New(dcerrors.ErrCodeFileNotFound, "x")))
	assert.Equal(t, http.StatusTooManyRequests, statusFor(dcerrors.New(dcerrors.ErrCodeRateLimited, "x")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(dcerrors.New(dcerrors.ErrCodeRender, "x")))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("plain")))
}

type fakeLimiter struct {
	allow bool
	err   error
}

func (f fakeLimiter) Allow(context.Context, string) (bool, error) { return f.allow, f.err }

func TestRateLimit(t *testing.T) {
	denied := newTestServer(t, WithLimiter(fakeLimiter{allow: false}))
	resp := get(t, denied.URL+"/healthz", nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(dcerrors.ErrCodeRateLimited), body.Code)
	assert.Equal(t, resp.Header.Get(RequestIDHeader), body.RequestID)

	allowed := newTestServer(t, WithLimiter(fakeLimiter{allow: true}))
	assert.Equal(t, http.StatusOK, get(t, allowed.URL+"/healthz", nil).StatusCode)

	broken := newTestServer(t, WithLimiter(fakeLimiter{err: errors.New("redis down")}))
	assert.Equal(t, http.StatusOK, get(t, broken.URL+"/healthz", nil).StatusCode)
}

func TestRedisLimiterFixedWindow(t *testing.T) {
	url := os.Getenv("DIRCHART_TEST_REDIS_URL")
	if url == "" {
		t.Skip("DIRCHART_TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	const window = 2 * time.Second
	l, err := NewRedisLimiter(client, 2, window)
	require.NoError(t, err)
	id := "test-" + uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, rateLimitKeyPrefix+id) })

	allow := func() bool {
		t.Helper()
		ok, err := l.Allow(ctx, id)
		require.NoError(t, err)
		return ok
	}

	assert.True(t, allow())
	time.Sleep(window / 2)
	assert.True(t, allow())
	assert.False(t, allow(), "third request in the window")

	// Later hits must not push the reset back.
	ttl, err := client.PTTL(ctx, rateLimitKeyPrefix+id).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, window/2+100*time.Millisecond)

	time.Sleep(ttl + 100*time.Millisecond)
	assert.True(t, allow(), "new window after expiry")
}

func TestNewRedisLimiterValidation(t *testing.T) {
	_, err := NewRedisLimiter(nil, 10, 0)
	assert.True(t, dcerrors.Is(err, dcerrors.ErrCodeInvalidInput))
}

func TestSetLayout(t *testing.T) {
	d, err := diagram.Default()
	require.NoError(t, err)
	s, err := New(pipeline.NewRunner(nil, nil, nil), d)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	before := get(t, ts.URL+"/diagram.svg", nil).Header.Get("ETag")

	next, err := diagram.Default()
	require.NoError(t, err)
	next.Name = "reloaded"
	next.Boxes = next.Boxes[:1]
	next.Connectors = nil
	require.NoError(t, s.SetLayout(next))

	resp := get(t, ts.URL+"/layout", nil)
	got, err := diagram.Decode(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "reloaded", got.Name)
	assert.Len(t, got.Boxes, 1)

	after := get(t, ts.URL+"/diagram.svg", nil).Header.Get("ETag")
	assert.NotEqual(t, before, after, "artifact should change with the layout")
}
