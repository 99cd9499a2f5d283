// Package steering persists assessment summaries as Markdown context files
// with YAML front matter so later sessions can pick them up.
package steering

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ErrDisabled is returned by a Writer that is not enabled.
var ErrDisabled = eris.New("steering: disabled")

const (
	frontMatterDelim = "---"
	maxSlugLength    = 60
	fallbackSlug     = "steering"
)

// Meta is the YAML front matter of a steering file.
type Meta struct {
	ID                string    `yaml:"id"`
	Title             string    `yaml:"title"`
	Kind              string    `yaml:"kind"`
	OverallConfidence float64   `yaml:"overall_confidence"`
	ReliabilityLevel  string    `yaml:"reliability_level"`
	CreatedAt         time.Time `yaml:"created_at"`
	Tags              []string  `yaml:"tags,omitempty"`
}

// Doc is a steering file: front matter plus a Markdown body.
type Doc struct {
	Meta Meta
	Body string
}

// Writer writes steering files into a directory.
type Writer struct {
	dir     string
	enabled bool
	now     func() time.Time
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string, enabled bool) *Writer {
	return &Writer{dir: dir, enabled: enabled, now: time.Now}
}

// Enabled reports whether the writer persists files.
func (w *Writer) Enabled() bool { return w != nil && w.enabled }

// Write stores doc as <dir>/<slug>.md and returns the path. Missing ID and
// CreatedAt are filled in. An existing file with the same slug is replaced.
func (w *Writer) Write(doc Doc) (string, error) {
	if !w.Enabled() {
		return "", ErrDisabled
	}
	if doc.Meta.ID == "" {
		doc.Meta.ID = uuid.NewString()
	}
	if doc.Meta.CreatedAt.IsZero() {
		doc.Meta.CreatedAt = w.now().UTC()
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", eris.Wrapf(err, "steering: create dir %s", w.dir)
	}

	data, err := Marshal(doc)
	if err != nil {
		return "", err
	}

	path := filepath.Join(w.dir, Slug(doc.Meta.Title)+".md")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrapf(err, "steering: write %s", path)
	}
	zap.L().Info("steering: file written",
		zap.String("path", path),
		zap.String("id", doc.Meta.ID),
	)
	return path, nil
}

// Marshal renders doc as front matter followed by the body.
func Marshal(doc Doc) ([]byte, error) {
	meta, err := yaml.Marshal(doc.Meta)
	if err != nil {
		return nil, eris.Wrap(err, "steering: marshal front matter")
	}
	var b bytes.Buffer
	b.WriteString(frontMatterDelim + "\n")
	b.Write(meta)
	b.WriteString(frontMatterDelim + "\n\n")
	b.WriteString(strings.TrimLeft(doc.Body, "\n"))
	if !strings.HasSuffix(doc.Body, "\n") {
		b.WriteString("\n")
	}
	return b.Bytes(), nil
}

// Read parses a steering file from disk.
func Read(path string) (Doc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Doc{}, eris.Wrapf(err, "steering: read %s", path)
	}
	return Parse(data)
}

// Parse splits front matter from body and decodes the front matter.
func Parse(data []byte) (Doc, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	if !strings.HasPrefix(text, frontMatterDelim+"\n") {
		return Doc{}, eris.New("steering: missing front matter")
	}
	rest := text[len(frontMatterDelim)+1:]
	end := strings.Index(rest, "\n"+frontMatterDelim+"\n")
	if end < 0 {
		return Doc{}, eris.New("steering: unterminated front matter")
	}

	var doc Doc
	if err := yaml.Unmarshal([]byte(rest[:end+1]), &doc.Meta); err != nil {
		return Doc{}, eris.Wrap(err, "steering: decode front matter")
	}
	doc.Body = strings.TrimLeft(rest[end+len(frontMatterDelim)+2:], "\n")
	return doc, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug derives a file name from a title: lowercase, runs of other
// characters collapsed to "-", at most 60 characters.
func Slug(title string) string {
	s := nonSlug.ReplaceAllString(strings.ToLower(title), "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLength {
		s = strings.TrimRight(s[:maxSlugLength], "-")
	}
	if s == "" {
		return fallbackSlug
	}
	return s
}
