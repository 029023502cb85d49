package resume

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"

	"github.com/vijay-prabhu/jobmatch/internal/database"
)

// ErrEmpty is returned when no usable resume text was found
var ErrEmpty = errors.New("please upload a resume or enter text")

// Metadata describes a PDF resume
type Metadata struct {
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	Subject   string `json:"subject,omitempty"`
	Creator   string `json:"creator,omitempty"`
	PageCount int    `json:"page_count"`
}

// Document is resume text ready to be stored
type Document struct {
	Name     string
	Source   database.ResumeSource
	Text     string
	Metadata Metadata
}

// Resume converts the document into a database record
func (d *Document) Resume() *database.Resume {
	r := &database.Resume{
		Name:      d.Name,
		Source:    d.Source,
		Content:   d.Text,
		PageCount: d.Metadata.PageCount,
	}
	if d.Metadata.Title != "" {
		title := d.Metadata.Title
		r.Title = &title
	}
	if d.Metadata.Author != "" {
		author := d.Metadata.Author
		r.Author = &author
	}
	return r
}

// Load reads a resume from disk. PDF files are converted to text; anything
// else must be UTF-8 text.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume: %w", err)
	}

	name := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return FromPDF(name, data)
	}
	return FromText(name, data)
}

// FromPDF extracts text and metadata from PDF bytes
func FromPDF(name string, data []byte) (*Document, error) {
	text, err := ExtractPDFText(data)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, fmt.Errorf("no text found in %s: %w", name, ErrEmpty)
	}

	return &Document{
		Name:     name,
		Source:   database.SourcePDF,
		Text:     text,
		Metadata: ExtractPDFMetadata(data),
	}, nil
}

// FromText accepts pasted or plain-file resume text
func FromText(name string, data []byte) (*Document, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%s is not UTF-8 text", name)
	}

	text := NormalizeWhitespace(string(data))
	if text == "" {
		return nil, ErrEmpty
	}

	return &Document{
		Name:   name,
		Source: database.SourceText,
		Text:   text,
	}, nil
}

// ExtractPDFText returns the plain text of every page
func ExtractPDFText(data []byte) (text string, err error) {
	// The PDF parser panics on some malformed content streams
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("failed to extract PDF text: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	rs, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rs); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	return NormalizeWhitespace(buf.String()), nil
}

// ExtractPDFMetadata reads the document info dictionary. Unreadable
// documents yield empty metadata.
func ExtractPDFMetadata(data []byte) Metadata {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Metadata{}
	}

	info := r.Trailer().Key("Info")
	return Metadata{
		Title:     strings.TrimSpace(info.Key("Title").Text()),
		Author:    strings.TrimSpace(info.Key("Author").Text()),
		Subject:   strings.TrimSpace(info.Key("Subject").Text()),
		Creator:   strings.TrimSpace(info.Key("Creator").Text()),
		PageCount: r.NumPage(),
	}
}

var (
	horizontalSpace = regexp.MustCompile(`[ \t\r\f\v]+`)
	lineEdges       = regexp.MustCompile(` *\n *`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
)

// NormalizeWhitespace collapses runs of spaces and blank lines
func NormalizeWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = horizontalSpace.ReplaceAllString(s, " ")
	s = lineEdges.ReplaceAllString(s, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
