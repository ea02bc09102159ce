package asr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/claimstream/internal/errs"
)

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.wav")
	if err := os.WriteFile(path, []byte("RIFF....WAVE"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribe_DecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcribe" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart upload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"hello world","language":"en","duration":2.5,"processing_time":0.7,"segments":[{"start":0,"end":2.5,"text":"hello world"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, 1)
	got, err := c.Transcribe(context.Background(), writeTempAudio(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Text != "hello world" {
		t.Errorf("text = %q, want %q", got.Text, "hello world")
	}
	if got.Language != "en" || len(got.Segments) != 1 {
		t.Errorf("unexpected metadata: %+v", got)
	}
}

func TestTranscribe_ServerErrorIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model crashed", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second, 1)
	_, err := c.Transcribe(context.Background(), writeTempAudio(t))
	if !errors.Is(err, errs.ErrTransport) {
		t.Errorf("expected transport error, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"healthy","model_loaded":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 1)
	if err := c.Health(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHealth_ModelNotLoaded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"starting","model_loaded":false}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, 1)
	if err := c.Health(context.Background()); err == nil {
		t.Error("expected error for unloaded model")
	}
}
