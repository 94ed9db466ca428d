package scrapbook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newPhotoServer(t *testing.T, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/photo/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/photo/broken":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/photo/slow":
			time.Sleep(50 * time.Millisecond)
			_, _ = w.Write([]byte("slow-bytes"))
		default:
			_, _ = w.Write([]byte("bytes-" + r.URL.Path[len("/photo/"):]))
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPFetcher_CapsAtTwoImages(t *testing.T) {
	var hits atomic.Int32
	srv := newPhotoServer(t, &hits)
	f := NewHTTPFetcher(zerolog.Nop())

	urls := []string{
		srv.URL + "/photo/a",
		srv.URL + "/photo/b",
		srv.URL + "/photo/c",
		srv.URL + "/photo/d",
		srv.URL + "/photo/e",
	}
	imgs := f.Fetch(context.Background(), urls)

	if len(imgs) != 2 {
		t.Fatalf("want exactly 2 images, got %d", len(imgs))
	}
	if hits.Load() != 2 {
		t.Fatalf("want exactly 2 downloads, got %d", hits.Load())
	}
	if string(imgs[0].Data) != "bytes-a" || string(imgs[1].Data) != "bytes-b" {
		t.Fatalf("order not preserved: %q, %q", imgs[0].Data, imgs[1].Data)
	}
}

func TestHTTPFetcher_SingleFailureDoesNotAbort(t *testing.T) {
	var hits atomic.Int32
	srv := newPhotoServer(t, &hits)
	f := NewHTTPFetcher(zerolog.Nop())

	imgs := f.Fetch(context.Background(), []string{
		srv.URL + "/photo/broken",
		srv.URL + "/photo/ok",
	})
	if len(imgs) != 1 {
		t.Fatalf("want the surviving image only, got %d", len(imgs))
	}
	if string(imgs[0].Data) != "bytes-ok" {
		t.Fatalf("wrong image survived: %q", imgs[0].Data)
	}
	if imgs[0].MIMEType != "image/jpeg" {
		t.Fatalf("unexpected mime type: %s", imgs[0].MIMEType)
	}
}

func TestHTTPFetcher_OrderRestoredAfterConcurrentCompletion(t *testing.T) {
	var hits atomic.Int32
	srv := newPhotoServer(t, &hits)
	f := NewHTTPFetcher(zerolog.Nop())

	imgs := f.Fetch(context.Background(), []string{
		srv.URL + "/photo/slow",
		srv.URL + "/photo/fast",
	})
	if len(imgs) != 2 {
		t.Fatalf("want 2 images, got %d", len(imgs))
	}
	if string(imgs[0].Data) != "slow-bytes" || string(imgs[1].Data) != "bytes-fast" {
		t.Fatalf("input order not restored: %q, %q", imgs[0].Data, imgs[1].Data)
	}
}

func TestHTTPFetcher_EmptyInput(t *testing.T) {
	f := NewHTTPFetcher(zerolog.Nop())
	if imgs := f.Fetch(context.Background(), nil); len(imgs) != 0 {
		t.Fatalf("want no images for empty input, got %d", len(imgs))
	}
}
