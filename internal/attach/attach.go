// Package attach turns local image files into ready-to-store data URI
// messages. The state store just appends what this package produces.
package attach

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mfigueira/echochat/internal/state"
)

// ErrNotImage rejects files whose content is not an image.
var ErrNotImage = errors.New("file is not an image")

// MaxFileSize caps attachments; data URIs live inside the persisted
// message log, so huge files would bloat every save.
const MaxFileSize = 2 << 20 // 2 MiB

// DataURI reads an image file and encodes it as a data URI. The MIME
// type is sniffed from content, not trusted from the extension.
func DataURI(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat attachment: %w", err)
	}
	if info.Size() > MaxFileSize {
		return "", fmt.Errorf("attachment too large: %d bytes (limit %d)", info.Size(), MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read attachment: %w", err)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", ErrNotImage
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Message synthesizes an image message from an encoded data URI.
func Message(id int64, uri string, ts time.Time) state.Message {
	return state.Message{
		ID:        id,
		Content:   uri,
		Sender:    state.SenderUser,
		Timestamp: ts,
		Type:      state.TypeImage,
	}
}
