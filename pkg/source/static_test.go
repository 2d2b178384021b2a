package source

import (
	"context"
	"testing"

	"github.com/psanford/memfs"
)

func TestStaticSourceGet(t *testing.T) {
	fsys := memfs.New()
	if err := fsys.MkdirAll("css", 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := fsys.WriteFile("css/app.css", []byte("body{}"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := fsys.WriteFile("logo.bin", []byte{0x1}, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	src := NewStaticSourceFS(fsys, "static")
	ctx := context.Background()

	res, err := src.Get(ctx, "static/css/app.css")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if res.IsNotFound() {
		t.Fatal("existing file returned not-found")
	}
	if string(res.Body) != "body{}" {
		t.Errorf("body = %q, want %q", res.Body, "body{}")
	}
	if res.ContentType == "" {
		t.Error("content type is empty")
	}

	res, err = src.Get(ctx, "static/logo.bin")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if res.ContentType != "application/octet-stream" {
		t.Errorf("unknown extension content type = %q, want application/octet-stream", res.ContentType)
	}

	for _, p := range []string{"css/app.css", "static/missing.css", "static/css", "other/app.css"} {
		res, err = src.Get(ctx, p)
		if err != nil {
			t.Fatalf("Get(%q): %v", p, err)
		}
		if !res.IsNotFound() {
			t.Errorf("Get(%q) served content, want not-found", p)
		}
	}
}

func TestStaticSourceRelPath(t *testing.T) {
	src := NewStaticSourceFS(memfs.New(), "static")

	tests := []struct {
		reqPath string
		want    string
		ok      bool
	}{
		{"static/app.css", "app.css", true},
		{"static/css/app.css", "css/app.css", true},
		{"static", "", false},
		{"app.css", "", false},
		{"static/../secret.txt", "", false},
		{"static/./app.css", "", false},
		{"static//etc/passwd", "", false},
		{"static/a\\b.css", "", false},
		{"static/a\x00b.css", "", false},
		{"static/css/../app.css", "", false},
	}

	for _, tt := range tests {
		got, ok := src.relPath(tt.reqPath)
		if got != tt.want || ok != tt.ok {
			t.Errorf("relPath(%q) = (%q, %v), want (%q, %v)", tt.reqPath, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStaticSourceNoPrefix(t *testing.T) {
	fsys := memfs.New()
	if err := fsys.WriteFile("robots.txt", []byte("User-agent: *"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	src := NewStaticSourceFS(fsys, "")
	res, err := src.Get(context.Background(), "robots.txt")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if res.IsNotFound() {
		t.Error("file at root prefix returned not-found")
	}
}
