package attach

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mfigueira/echochat/internal/state"
)

// Minimal valid 1x1 PNG.
var pngBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a,
	0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41,
	0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00,
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func TestDataURIFromPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixel.png")
	if err := os.WriteFile(path, pngBytes, 0600); err != nil {
		t.Fatal(err)
	}

	uri, err := DataURI(path)
	if err != nil {
		t.Fatalf("DataURI() error = %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Errorf("uri prefix = %q, want data:image/png;base64,", uri[:min(len(uri), 30)])
	}
}

func TestDataURIRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("just some text"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := DataURI(path)
	if err != ErrNotImage {
		t.Errorf("error = %v, want ErrNotImage", err)
	}
}

func TestDataURIMissingFile(t *testing.T) {
	_, err := DataURI(filepath.Join(t.TempDir(), "absent.png"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDataURIRejectsOversized(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huge.png")
	big := make([]byte, MaxFileSize+1)
	copy(big, pngBytes)
	if err := os.WriteFile(path, big, 0600); err != nil {
		t.Fatal(err)
	}

	_, err := DataURI(path)
	if err == nil {
		t.Error("expected error for oversized file")
	}
}

func TestMessage(t *testing.T) {
	ts := time.Now()
	m := Message(7, "data:image/png;base64,xxxx", ts)

	if m.Kind() != state.TypeImage {
		t.Errorf("kind = %v, want image", m.Kind())
	}
	if m.Sender != state.SenderUser {
		t.Errorf("sender = %v, want user", m.Sender)
	}
	if m.ID != 7 || !m.Timestamp.Equal(ts) {
		t.Errorf("identity fields not carried through: %+v", m)
	}
}
