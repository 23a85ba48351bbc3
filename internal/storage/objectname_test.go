package storage

import (
	"strings"
	"testing"
	"time"
)

func TestObjectName(t *testing.T) {
	at := time.Date(2026, 8, 29, 13, 4, 5, 0, time.UTC)
	got := ObjectName(UploadsFolder, "My Photo.JPG", at)
	want := "uploads/260829130405-my-photo.jpg"
	if got != want {
		t.Errorf("ObjectName: got %q, want %q", got, want)
	}
}

func TestObjectNameTempFolder(t *testing.T) {
	got := ObjectName(TempFolder, "clip.mp4", time.Now())
	if !strings.HasPrefix(got, "tmp/") {
		t.Errorf("expected tmp/ prefix, got %q", got)
	}
	if !strings.HasSuffix(got, "-clip.mp4") {
		t.Errorf("expected sanitized suffix, got %q", got)
	}
}

func TestArticleFolder(t *testing.T) {
	if got := ArticleFolder("abc"); got != "articles/abc" {
		t.Errorf("ArticleFolder: got %q", got)
	}
}

func TestNewReturnsNilWithoutCredentials(t *testing.T) {
	c, err := New("", "us-east-1", "", "", "bucket", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c != nil {
		t.Error("expected nil client when storage is unconfigured")
	}
}

func TestFileURLAndExtractKey(t *testing.T) {
	c, err := New("http://minio:9000", "us-east-1", "ak", "sk", "uploads", "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	url := c.FileURL("tmp/a.png")
	if url != "http://minio:9000/uploads/tmp/a.png" {
		t.Errorf("FileURL: got %q", url)
	}

	key, ok := c.ExtractKey(url)
	if !ok || key != "tmp/a.png" {
		t.Errorf("ExtractKey: got %q, %v", key, ok)
	}

	if _, ok := c.ExtractKey("http://elsewhere/img.png"); ok {
		t.Error("expected foreign URL to be rejected")
	}
}

func TestFileURLWithPublicURL(t *testing.T) {
	c, err := New("http://minio:9000", "us-east-1", "ak", "sk", "uploads", "https://cdn.example.com/")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	url := c.FileURL("blog-images/b.webp")
	if url != "https://cdn.example.com/blog-images/b.webp" {
		t.Errorf("FileURL: got %q", url)
	}

	key, ok := c.ExtractKey(url)
	if !ok || key != "blog-images/b.webp" {
		t.Errorf("ExtractKey: got %q, %v", key, ok)
	}
}
