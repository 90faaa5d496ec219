package httpclient

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/torosent/pulsefire/internal/config"
)

// BodySource hands out a fresh reader per request so bodies can be replayed
// across iterations and redirects. The open closure owns how bytes are
// produced; the source itself only tracks the declared length.
type BodySource struct {
	length int64
	open   func() (io.ReadCloser, error)
}

// NewReader returns a reader positioned at the start of the body.
func (s *BodySource) NewReader() (io.ReadCloser, error) {
	return s.open()
}

// ContentLength reports the body size when it is known up front.
func (s *BodySource) ContentLength() (int64, bool) {
	return s.length, true
}

// NewBodySource picks the body for a run: inline string, file on disk, or
// empty. Inline and file bodies are mutually exclusive.
func NewBodySource(cfg *config.Config) (*BodySource, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	path := strings.TrimSpace(cfg.BodyFile)
	switch {
	case cfg.Body != "" && path != "":
		return nil, errors.New("body and body file cannot both be provided")
	case cfg.Body != "":
		return staticBody([]byte(cfg.Body)), nil
	case path != "":
		return fileBody(path)
	default:
		return emptyBody(), nil
	}
}

func staticBody(data []byte) *BodySource {
	return &BodySource{
		length: int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func fileBody(path string) (*BodySource, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("body file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("body file %q is a directory", path)
	}
	return &BodySource{
		length: info.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

func emptyBody() *BodySource {
	return staticBody(nil)
}
