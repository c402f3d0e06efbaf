// Package parser reads batch text sources: one record per line, fields split
// by "|" or ":", with an optional YAML frontmatter block carrying defaults.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Defaults are the batch options a frontmatter block may set.
type Defaults struct {
	Kind      string   `yaml:"kind"`
	Worldview string   `yaml:"worldview"`
	Layer     string   `yaml:"layer"`
	Scope     string   `yaml:"scope"`
	Targets   []string `yaml:"targets"`
}

type Document struct {
	Defaults   Defaults
	Lines      []Line
	SourceFile string
}

// Line is one record line after list markers are stripped.
type Line struct {
	Number int
	Fields []string
}

// Field returns the i-th trimmed field or "".
func (l Line) Field(i int) string {
	if i < 0 || i >= len(l.Fields) {
		return ""
	}
	return l.Fields[i]
}

var (
	ErrEmptyLine          = errors.New("empty line")
	ErrInvalidYAML        = errors.New("invalid YAML in frontmatter")
	ErrUnterminatedHeader = errors.New("frontmatter missing closing marker")
)

var (
	listMarker  = regexp.MustCompile(`^[\d\-.、)(]+\s*`)
	trailingTag = regexp.MustCompile(`(\[([^\]]+)\]|\(([^)]+)\))$`)
)

func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	doc.SourceFile = path
	return doc, nil
}

// Parse reads an optional frontmatter block followed by record lines. Blank
// lines are skipped and do not count as records.
func Parse(content []byte) (*Document, error) {
	trimmed := bytes.TrimLeft(content, "\ufeff\n\r\t ")
	trimmed = bytes.ReplaceAll(trimmed, []byte("\r\n"), []byte("\n"))

	doc := &Document{}
	body := trimmed
	offset := 0
	if bytes.HasPrefix(trimmed, []byte("---\n")) {
		rest := trimmed[len("---\n"):]
		end := bytes.Index(rest, []byte("---\n"))
		if end == -1 {
			if !bytes.HasSuffix(rest, []byte("---")) {
				return nil, ErrUnterminatedHeader
			}
			end = len(rest) - len("---")
		}
		if err := yaml.Unmarshal(rest[:end], &doc.Defaults); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
		offset = bytes.Count(trimmed[:len("---\n")+end], []byte("\n")) + 1
		body = rest[min(end+len("---\n"), len(rest)):]
	}

	for i, raw := range strings.Split(string(body), "\n") {
		line, err := ParseLine(raw)
		if errors.Is(err, ErrEmptyLine) {
			continue
		}
		line.Number = offset + i + 1
		doc.Lines = append(doc.Lines, line)
	}
	return doc, nil
}

// ParseLine strips a leading list marker such as "1." or "-" and splits the
// rest on "|" (ASCII or full-width), falling back to ":" (ASCII or
// full-width).
func ParseLine(raw string) (Line, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return Line{}, ErrEmptyLine
	}
	content = listMarker.ReplaceAllString(content, "")
	if content == "" {
		return Line{}, ErrEmptyLine
	}

	var parts []string
	switch {
	case strings.ContainsAny(content, "|｜"):
		parts = splitAny(content, "|｜")
	case strings.ContainsAny(content, ":："):
		parts = splitAny(content, ":：")
	default:
		parts = []string{content}
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return Line{Fields: parts}, nil
}

// splitAny splits on any rune of seps and keeps empty fields so positional
// columns stay aligned.
func splitAny(s, seps string) []string {
	var parts []string
	start := 0
	for i, r := range s {
		if strings.ContainsRune(seps, r) {
			parts = append(parts, s[start:i])
			start = i + utf8.RuneLen(r)
		}
	}
	return append(parts, s[start:])
}

// ParseTags splits a tag list on ASCII or full-width commas.
func ParseTags(s string) []string {
	var tags []string
	for _, tag := range splitAny(s, ",，") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// TrailingTags extracts a "[a,b]" or "(a,b)" suffix from a description and
// returns the description without it.
func TrailingTags(desc string) (string, []string) {
	m := trailingTag.FindStringSubmatch(desc)
	if m == nil {
		return desc, nil
	}
	inner := m[2]
	if inner == "" {
		inner = m[3]
	}
	return strings.TrimSpace(strings.TrimSuffix(desc, m[0])), ParseTags(inner)
}
