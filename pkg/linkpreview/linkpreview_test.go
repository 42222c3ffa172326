package linkpreview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 測試 FirstURL：取文字中第一個 http(s) 連結
func TestFirstURL(t *testing.T) {
	assert.Equal(t, "https://example.com/a", FirstURL("see https://example.com/a and http://other.io"))
	assert.Equal(t, "", FirstURL("no links here"))
	assert.Equal(t, "http://a.io/x", FirstURL("<http://a.io/x>"))
}

// 測試 Fetch：解析 og: metadata
func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head>
			<title>fallback title</title>
			<meta property="og:title" content="OG Title">
			<meta property="og:description" content="OG Desc">
			<meta property="og:image" content="https://cdn.example.com/img.png">
			<meta property="og:site_name" content="Example">
		</head><body></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(2 * time.Second)
	p, err := f.Fetch(context.Background(), srv.URL)

	assert.NoError(t, err)
	assert.Equal(t, "OG Title", p.Title)
	assert.Equal(t, "OG Desc", p.Description)
	assert.Equal(t, "https://cdn.example.com/img.png", p.Image)
	assert.Equal(t, "Example", p.Site)
}

// 測試 Fetch：無 og: 時退回 <title>，site 用 host
func TestFetcher_FetchFallbackTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Plain Page</title></head><body></body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(2 * time.Second)
	p, err := f.Fetch(context.Background(), srv.URL)

	assert.NoError(t, err)
	assert.Equal(t, "Plain Page", p.Title)
	assert.NotEmpty(t, p.Site)
}

// 測試 Fetch：非 200 與無 metadata 回錯誤
func TestFetcher_FetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`<html><head></head><body>nothing</body></html>`))
	}))
	defer srv.Close()

	f := NewFetcher(2 * time.Second)

	_, err := f.Fetch(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)

	_, err = f.Fetch(context.Background(), srv.URL+"/empty")
	assert.Error(t, err)
}
