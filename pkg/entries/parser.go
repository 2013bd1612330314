package entries

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sdejongh/docrecon/pkg/models"
	"github.com/sdejongh/docrecon/pkg/textio"
)

// DefaultHeaderLabel is the label written on the first line of upload logs
const DefaultHeaderLabel = "Yüklenenler"

// lineEndings maps CRLF and bare CR line ends to LF
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// ErrLogNotFound is returned when the log file does not exist
var ErrLogNotFound = errors.New("log file not found")

// Parser reads the line-oriented upload log
type Parser struct {
	headerLabel string
	decoder     *textio.Decoder
}

// NewParser creates a parser. A first line starting with headerLabel is
// discarded; an empty label disables header detection.
func NewParser(headerLabel string, decoder *textio.Decoder) *Parser {
	return &Parser{
		headerLabel: headerLabel,
		decoder:     decoder,
	}
}

// Parse splits text into entries. LF, CRLF and bare CR all end a line.
// Lines are trimmed and blank lines dropped.
// Duplicates are kept: each occurrence is resolved on its own.
func (p *Parser) Parse(text string) []models.LogEntry {
	var entries []models.LogEntry
	first := true

	for i, line := range strings.Split(lineEndings.Replace(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if first {
			first = false
			if p.isHeader(line) {
				continue
			}
		}

		entries = append(entries, models.LogEntry{Line: i + 1, Raw: line})
	}

	return entries
}

// ParseFile reads, decodes and parses the log at path.
// It also returns the encoding that decoded the file.
func (p *Parser) ParseFile(path string) ([]models.LogEntry, string, error) {
	text, enc, err := p.decoder.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: %s", ErrLogNotFound, path)
		}
		return nil, "", fmt.Errorf("failed to read log file: %w", err)
	}

	return p.Parse(text), enc, nil
}

func (p *Parser) isHeader(line string) bool {
	return p.headerLabel != "" && strings.HasPrefix(line, p.headerLabel)
}
