package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	red := color.RGBA{255, 0, 0, 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, red)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestIsDataURI(t *testing.T) {
	assert.True(t, IsDataURI("data:image/png;base64,abc"))
	assert.False(t, IsDataURI("/path/to/file.png"))
	assert.False(t, IsDataURI(""))
}

func TestDataURIBytes(t *testing.T) {
	raw := createTestPNG(t, 2, 2)
	data, err := DataURIBytes("data:image/png;base64," + base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, data)

	data, err = DataURIBytes("data:text/plain,a%20b")
	require.NoError(t, err)
	assert.Equal(t, "a b", string(data))
}

func TestDataURIBytes_Invalid(t *testing.T) {
	for _, uri := range []string{
		"not-a-data-uri",
		"data:image/png;base64",
		"data:image/png;base64,!!!invalid-base64!!!",
	} {
		_, err := DataURIBytes(uri)
		assert.Error(t, err, uri)
	}
}

func TestDecode(t *testing.T) {
	img, err := Decode(createTestPNG(t, 2, 2), DefaultBaseWidth)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
}

func TestDecodeScalesWideImages(t *testing.T) {
	img, err := Decode(createTestPNG(t, 500, 100), 250)
	require.NoError(t, err)
	assert.Equal(t, 250, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("hello"), DefaultBaseWidth)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestCache(t *testing.T) {
	c := NewCache()
	_, ok := c.Get("a.png")
	assert.False(t, ok)

	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	c.Put("a.png", img)
	got, ok := c.Get("a.png")
	assert.True(t, ok)
	assert.Same(t, img, got)
	assert.Equal(t, 1, c.Len())
}

func TestPlaceholderIsShared(t *testing.T) {
	p := Placeholder()
	require.NotNil(t, p)
	assert.Equal(t, 24, p.Bounds().Dx())
	assert.Same(t, p, Placeholder())
}

func drainUntil(t *testing.T, f *Fetcher, n int) []Result {
	t.Helper()
	var out []Result
	require.Eventually(t, func() bool {
		out = append(out, f.Drain()...)
		return len(out) >= n
	}, 2*time.Second, 5*time.Millisecond)
	return out
}

func TestFetcherDeduplicatesInFlight(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	f := NewFetcher(func(ctx context.Context, src string) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte(src), nil
	}, 4, nil)
	defer f.Close()

	assert.True(t, f.Request("a.png"))
	assert.False(t, f.Request("a.png"))
	assert.True(t, f.Request("b.png"))
	assert.Equal(t, 2, f.Pending())
	close(release)

	results := drainUntil(t, f, 2)
	assert.Len(t, results, 2)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 0, f.Pending())

	// once delivered the same source can be fetched again
	assert.True(t, f.Request("a.png"))
	drainUntil(t, f, 1)
}

func TestFetcherReportsErrors(t *testing.T) {
	boom := errors.New("boom")
	f := NewFetcher(func(ctx context.Context, src string) ([]byte, error) {
		return nil, boom
	}, 1, nil)
	defer f.Close()

	f.Request("x.png")
	results := drainUntil(t, f, 1)
	assert.ErrorIs(t, results[0].Err, boom)
	assert.Equal(t, "x.png", results[0].Source)
}

func TestFetcherCloseRefusesNewRequests(t *testing.T) {
	f := NewFetcher(func(ctx context.Context, src string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, 1, nil)
	f.Request("slow.png")
	f.Close()
	assert.False(t, f.Request("other.png"))
}
