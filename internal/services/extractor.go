package services

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

const (
	MimeTypePDF  = "application/pdf"
	MimeTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyDocument     = errors.New("no text content found in document")
)

var (
	xmlTagPattern      = regexp.MustCompile(`<[^>]+>`)
	docxTabPattern     = regexp.MustCompile(`<w:tab\b[^>]*/>`)
	docxBreakPattern   = regexp.MustCompile(`<w:(?:br|cr)\b[^>]*/>`)
	inlineSpacePattern = regexp.MustCompile(`[ \t\r\f\v]+`)
)

type DocumentExtractor interface {
	ExtractText(data []byte, mimeType string) (string, error)
}

type documentExtractor struct{}

func NewDocumentExtractor() DocumentExtractor {
	return &documentExtractor{}
}

// IsSupportedMimeType reports whether a CV of this declared type can be
// extracted. Parameters such as "; charset=" are ignored.
func IsSupportedMimeType(mimeType string) bool {
	switch normalizeMimeType(mimeType) {
	case MimeTypePDF, MimeTypeDOCX:
		return true
	default:
		return false
	}
}

// ExtractText implements DocumentExtractor. The declared type is trusted;
// content that does not match it fails in the underlying parser.
func (e *documentExtractor) ExtractText(data []byte, mimeType string) (string, error) {
	var (
		text string
		err  error
	)

	switch normalizeMimeType(mimeType) {
	case MimeTypePDF:
		text, err = extractPDFText(data)
	case MimeTypeDOCX:
		text, err = extractDocxText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, mimeType)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}

	return text, nil
}

func extractPDFText(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := r.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip unreadable pages; the rest of the CV is still useful.
			continue
		}

		textBuilder.WriteString(text)
		textBuilder.WriteString("\n\n")
	}

	return CleanText(textBuilder.String()), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return docxXMLToText(doc.Editable().GetContent()), nil
}

// docxXMLToText turns WordprocessingML into plain text, one paragraph per line.
func docxXMLToText(content string) string {
	content = strings.ReplaceAll(content, "</w:p>", "\n")
	content = docxTabPattern.ReplaceAllString(content, "\t")
	content = docxBreakPattern.ReplaceAllString(content, "\n")
	content = xmlTagPattern.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	return CleanText(content)
}

// CleanText collapses runs of inline whitespace and blank lines.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\u00A0", " ")

	lines := strings.Split(text, "\n")
	var cleanedLines []string

	for _, line := range lines {
		line = strings.TrimSpace(inlineSpacePattern.ReplaceAllString(line, " "))
		if line != "" {
			cleanedLines = append(cleanedLines, line)
		}
	}

	return strings.Join(cleanedLines, "\n")
}

func normalizeMimeType(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.ToLower(strings.TrimSpace(mimeType))
}
