// Package sections measures how large markdown documents are once split
// at their headings, as a chunking aid for embedding pipelines.
package sections

import (
	"bytes"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// Splitter cuts a markdown document into sections. Each heading that sits
// directly under the document root starts a new section which includes the
// heading line; text before the first heading forms its own section.
// Headings inside lists, quotes or code blocks do not split.
type Splitter struct {
	md goldmark.Markdown
}

// NewSplitter creates a splitter with a plain CommonMark parser
func NewSplitter() *Splitter {
	return &Splitter{md: goldmark.New()}
}

// StripFrontMatter returns the document body without a leading YAML or
// TOML front matter block. Content with unreadable front matter is
// returned unchanged.
func StripFrontMatter(source []byte) []byte {
	var meta map[string]any
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return source
	}
	return body
}

// Split returns the trimmed, non-empty sections of source in document order
func (s *Splitter) Split(source []byte) []string {
	body := StripFrontMatter(source)
	doc := s.md.Parser().Parse(gmtext.NewReader(body))

	bounds := []int{0}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if n.Kind() != ast.KindHeading {
			continue
		}
		lines := n.Lines()
		if lines.Len() == 0 {
			continue
		}
		start := lineStart(body, lines.At(0).Start)
		if start > bounds[len(bounds)-1] {
			bounds = append(bounds, start)
		}
	}
	bounds = append(bounds, len(body))

	var out []string
	for i := 0; i < len(bounds)-1; i++ {
		section := strings.TrimSpace(string(body[bounds[i]:bounds[i+1]]))
		if section != "" {
			out = append(out, section)
		}
	}
	return out
}

// lineStart walks back from offset to the first byte of its line
func lineStart(source []byte, offset int) int {
	if offset > len(source) {
		offset = len(source)
	}
	i := bytes.LastIndexByte(source[:offset], '\n')
	return i + 1
}
