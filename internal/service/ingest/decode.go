// Package ingest turns uploaded files into transcript text.
package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/zhouzirui/chat-vibes/backend/internal/observability"
)

var (
	ErrUnsupportedType = errors.New("invalid file type, only .txt and .zip files are supported")
	ErrNoTextInArchive = errors.New("no .txt file found in ZIP")
	ErrEmptyContent    = errors.New("file is empty")
	ErrArchiveTooLarge = errors.New("archived transcript exceeds the size limit")
	ErrInvalidArchive  = errors.New("file is not a valid ZIP archive")
)

// Decoder extracts transcript text from uploads.
type Decoder struct {
	// MaxTextBytes caps the uncompressed size read from an archive member;
	// zero means no cap.
	MaxTextBytes int64
	tracer       *observability.Tracer
}

// NewDecoder returns a Decoder capping archive members at maxTextBytes.
func NewDecoder(maxTextBytes int64) *Decoder {
	return &Decoder{MaxTextBytes: maxTextBytes, tracer: observability.NewTracer()}
}

// Supported reports whether fileName has an accepted extension.
func Supported(fileName string) bool {
	switch strings.ToLower(path.Ext(fileName)) {
	case ".txt", ".zip":
		return true
	default:
		return false
	}
}

// Decode returns the transcript text held in data. A .zip upload yields its
// first .txt member. Text is returned as UTF-8: a UTF-8 or UTF-16 byte order
// mark selects the encoding, otherwise invalid UTF-8 is read as Windows-1252.
func (d *Decoder) Decode(ctx context.Context, fileName string, data []byte) (string, error) {
	_, span := d.tracer.StartDecodeSpan(ctx, fileName, len(data))
	spanHelper := observability.NewSpanHelper(span)
	defer span.End()

	text, err := d.decode(fileName, data)
	if err != nil {
		spanHelper.SetError(err)
		return "", err
	}
	spanHelper.SetSuccess()
	return text, nil
}

func (d *Decoder) decode(fileName string, data []byte) (string, error) {
	if !Supported(fileName) {
		return "", ErrUnsupportedType
	}
	if len(data) == 0 {
		return "", ErrEmptyContent
	}

	raw := data
	if strings.EqualFold(path.Ext(fileName), ".zip") {
		member, err := d.firstTextMember(data)
		if err != nil {
			return "", err
		}
		raw = member
	}

	text, err := toUTF8(raw)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyContent
	}
	return text, nil
}

func (d *Decoder) firstTextMember(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(f.Name), ".txt") {
			continue
		}
		// macOS resource forks also end in .txt
		if strings.HasPrefix(f.Name, "__MACOSX/") || strings.HasPrefix(path.Base(f.Name), "._") {
			continue
		}
		return d.readMember(f)
	}
	return nil, ErrNoTextInArchive
}

func (d *Decoder) readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	var r io.Reader = rc
	if d.MaxTextBytes > 0 {
		r = io.LimitReader(rc, d.MaxTextBytes+1)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	if d.MaxTextBytes > 0 && int64(len(out)) > d.MaxTextBytes {
		return nil, ErrArchiveTooLarge
	}
	return out, nil
}

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

func toUTF8(raw []byte) (string, error) {
	var decoder transform.Transformer
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return string(raw[len(bomUTF8):]), nil
	case bytes.HasPrefix(raw, bomUTF16LE), bytes.HasPrefix(raw, bomUTF16BE):
		decoder = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	case utf8.Valid(raw):
		return string(raw), nil
	default:
		decoder = charmap.Windows1252.NewDecoder()
	}

	out, _, err := transform.Bytes(decoder, raw)
	if err != nil {
		return "", fmt.Errorf("decode transcript: %w", err)
	}
	return string(out), nil
}
