package services

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

type TextExtractor interface {
	ExtractFile(path string) (string, error)
	ExtractBytes(filename string, data []byte) (string, error)
}

type textExtractor struct{}

func NewTextExtractor() TextExtractor {
	return &textExtractor{}
}

// SupportedExtension reports whether filename has a .pdf or .docx extension.
func SupportedExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf", ".docx":
		return true
	}
	return false
}

// ExtractFile implements TextExtractor.
func (t *textExtractor) ExtractFile(path string) (string, error) {
	if !SupportedExtension(path) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read file: %v", ErrExtractionFailed, err)
	}

	return t.ExtractBytes(path, data)
}

// ExtractBytes implements TextExtractor.
func (t *textExtractor) ExtractBytes(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		text string
		err  error
	)
	switch ext {
	case ".pdf":
		text, err = extractPDFText(data)
	case ".docx":
		text, err = extractDocxText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: no text content found in %s", ErrExtractionFailed, strings.TrimPrefix(ext, "."))
	}

	return text, nil
}

type pageStrategy struct {
	name    string
	extract func(p pdf.Page) (string, error)
}

// PDF strategies in order of preference. The second one reads raw text runs
// and tolerates pages whose font tables break plain-text decoding.
var pdfStrategies = []pageStrategy{
	{name: "plain_text", extract: plainTextPage},
	{name: "text_runs", extract: textRunsPage},
}

func extractPDFText(data []byte) (string, error) {
	r, pages, err := openPDF(data)
	if err != nil {
		return "", fmt.Errorf("%w: failed to open PDF: %v", ErrExtractionFailed, err)
	}

	for _, strategy := range pdfStrategies {
		text := extractPages(r, pages, strategy)
		if strings.TrimSpace(text) != "" {
			return text, nil
		}
		slog.Debug("PDF strategy recovered no text", slog.String("strategy", strategy.name))
	}

	return "", fmt.Errorf("%w: no text content found in PDF", ErrExtractionFailed)
}

func openPDF(data []byte) (r *pdf.Reader, pages int, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed PDF: %v", rec)
		}
	}()

	r, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, 0, err
	}
	return r, r.NumPage(), nil
}

// extractPages joins the pages that strategy could read. Failing pages are
// skipped.
func extractPages(r *pdf.Reader, pages int, strategy pageStrategy) string {
	var texts []string
	for i := 1; i <= pages; i++ {
		text, err := readPage(r, i, strategy)
		if err != nil {
			slog.Debug("Skipping unreadable PDF page",
				slog.Int("page", i),
				slog.String("strategy", strategy.name),
				slog.Any("error", err),
			)
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		texts = append(texts, text)
	}
	return strings.Join(texts, "\n")
}

func readPage(r *pdf.Reader, index int, strategy pageStrategy) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("page %d: %v", index, rec)
		}
	}()

	page := r.Page(index)
	if page.V.IsNull() {
		return "", nil
	}
	return strategy.extract(page)
}

func plainTextPage(p pdf.Page) (string, error) {
	return p.GetPlainText(nil)
}

func textRunsPage(p pdf.Page) (string, error) {
	var b strings.Builder
	var lastY float64
	for i, t := range p.Content().Text {
		if i > 0 && t.Y != lastY {
			b.WriteString("\n")
		}
		b.WriteString(t.S)
		lastY = t.Y
	}
	return b.String(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse docx: %v", ErrExtractionFailed, err)
	}
	defer doc.Close()

	text, err := docxParagraphs(doc.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("%w: failed to read docx body: %v", ErrExtractionFailed, err)
	}
	return text, nil
}

// docxParagraphs returns the text of every w:p element of a WordprocessingML
// body, one paragraph per line.
func docxParagraphs(body string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(body))

	var (
		paragraphs []string
		current    strings.Builder
		inPara     bool
		inText     bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				inPara = true
				current.Reset()
			case "t":
				inText = true
			case "tab":
				if inPara {
					current.WriteString("\t")
				}
			case "br", "cr":
				if inPara {
					current.WriteString("\n")
				}
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "p":
				if inPara {
					paragraphs = append(paragraphs, current.String())
				}
				inPara = false
			case "t":
				inText = false
			}
		case xml.CharData:
			if inPara && inText {
				current.Write(el)
			}
		}
	}

	return strings.Join(paragraphs, "\n"), nil
}
