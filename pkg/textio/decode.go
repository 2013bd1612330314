package textio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultFallback is the permissive single-byte encoding tried when UTF-8 fails
const DefaultFallback = "iso-8859-1"

// EncodingUTF8 is reported when content decoded as UTF-8
const EncodingUTF8 = "utf-8"

// ErrUndecodable is returned when neither UTF-8 nor the fallback encoding
// produced valid text
var ErrUndecodable = errors.New("content could not be decoded")

// Decoder turns raw bytes into text: UTF-8 first, then exactly one
// fallback attempt with a single-byte encoding
type Decoder struct {
	fallback     encoding.Encoding
	fallbackName string
}

// NewDecoder creates a decoder with the given WHATWG encoding label as fallback.
// An empty label selects DefaultFallback.
func NewDecoder(fallbackLabel string) (*Decoder, error) {
	if fallbackLabel == "" {
		fallbackLabel = DefaultFallback
	}

	enc, err := htmlindex.Get(fallbackLabel)
	if err != nil {
		return nil, fmt.Errorf("unknown fallback encoding %q: %w", fallbackLabel, err)
	}

	name, err := htmlindex.Name(enc)
	if err != nil {
		name = fallbackLabel
	}

	return &Decoder{fallback: enc, fallbackName: name}, nil
}

// FallbackName returns the canonical name of the fallback encoding
func (d *Decoder) FallbackName() string {
	return d.fallbackName
}

// Decode converts data to text and reports which encoding was used.
// A leading UTF-8 byte order mark is dropped.
func (d *Decoder) Decode(data []byte) (string, string, error) {
	if utf8.Valid(data) {
		out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
		if err == nil {
			return string(out), EncodingUTF8, nil
		}
	}

	out, err := d.fallback.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", ErrUndecodable, d.fallbackName, err)
	}
	if !utf8.Valid(out) {
		return "", "", fmt.Errorf("%w: %s produced invalid text", ErrUndecodable, d.fallbackName)
	}

	return string(out), d.fallbackName, nil
}

// ReadAll reads r to the end and decodes it
func (d *Decoder) ReadAll(r io.Reader) (string, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", "", fmt.Errorf("failed to read content: %w", err)
	}
	return d.Decode(data)
}

// ReadFile reads and decodes the file at path
func (d *Decoder) ReadFile(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return d.Decode(data)
}
