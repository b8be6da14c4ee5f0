package grading

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog"
)

// A PDF whose text layer yields fewer trimmed characters than this is treated
// as a scanned document and rasterized for vision transcription.
const minTextLayerChars = 10

// Document is one open PDF. It abstracts the underlying renderer so the
// cascade can be exercised in tests without real PDF bytes.
type Document interface {
	NumPages() int
	Text(page int) (string, error)
	Image(page int) (image.Image, error)
	Close() error
}

// DocumentOpener turns raw bytes into a Document.
type DocumentOpener func(data []byte) (Document, error)

type fitzDocument struct {
	doc *fitz.Document
}

func (d fitzDocument) NumPages() int                       { return d.doc.NumPage() }
func (d fitzDocument) Text(page int) (string, error)       { return d.doc.Text(page) }
func (d fitzDocument) Image(page int) (image.Image, error) { return d.doc.Image(page) }
func (d fitzDocument) Close() error                        { return d.doc.Close() }

// OpenPDF opens a PDF from memory using go-fitz.
func OpenPDF(data []byte) (Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, err
	}
	return fitzDocument{doc: doc}, nil
}

// Transcriber converts one image into its visible text.
type Transcriber interface {
	Transcribe(ctx context.Context, mimeType string, image []byte) (string, error)
}

// Extractor produces a best-effort plain-text transcript from an uploaded
// file. Extraction never fails: every internal error degrades to the empty
// string at the boundary, which downstream scoring recognizes as "nothing
// readable".
type Extractor struct {
	vision Transcriber
	open   DocumentOpener
	logger zerolog.Logger
}

// NewExtractor constructs an Extractor backed by go-fitz for PDF handling.
func NewExtractor(vision Transcriber, logger zerolog.Logger) *Extractor {
	return &Extractor{
		vision: vision,
		open:   OpenPDF,
		logger: logger.With().Str("component", "extractor").Logger(),
	}
}

// outcome is the internal tagged result of one extraction attempt. Reason is
// non-empty when the attempt degraded; it is collapsed to the empty string at
// the public boundary.
type outcome struct {
	Text   string
	Reason string
}

func degraded(format string, args ...interface{}) outcome {
	return outcome{Reason: fmt.Sprintf(format, args...)}
}

// Extract dispatches on the declared filename extension and returns the best
// available transcript. The input is a byte slice, so fallback attempts can
// re-read it freely.
func (e *Extractor) Extract(ctx context.Context, data []byte, filename string) string {
	out := e.extract(ctx, data, filename)
	if out.Reason != "" {
		e.logger.Warn().Str("filename", filename).Str("reason", out.Reason).Msg("extraction degraded to empty transcript")
		return ""
	}
	return strings.TrimSpace(out.Text)
}

func (e *Extractor) extract(ctx context.Context, data []byte, filename string) outcome {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".pdf":
		return e.extractPDF(ctx, data)
	case ".png", ".jpg", ".jpeg":
		mimeType := "image/png"
		if ext != ".png" {
			mimeType = "image/jpeg"
		}
		text, err := e.vision.Transcribe(ctx, mimeType, data)
		if err != nil {
			return degraded("image transcription: %v", err)
		}
		return outcome{Text: text}
	default:
		return outcome{Text: strings.ToValidUTF8(string(data), "�")}
	}
}

// extractPDF tries the text layer first and falls back to rasterizing every
// page through the vision transcriber when the document looks scanned.
func (e *Extractor) extractPDF(ctx context.Context, data []byte) outcome {
	doc, err := e.open(data)
	if err != nil {
		return degraded("open pdf: %v", err)
	}
	defer doc.Close()

	var textLayer strings.Builder
	for page := 0; page < doc.NumPages(); page++ {
		text, err := doc.Text(page)
		if err != nil {
			return degraded("pdf text layer page %d: %v", page+1, err)
		}
		textLayer.WriteString(text)
		textLayer.WriteString("\n")
	}

	if len(strings.TrimSpace(textLayer.String())) >= minTextLayerChars {
		return outcome{Text: textLayer.String()}
	}

	// Scanned PDF: the text layer is discarded and every page goes through
	// the vision transcriber. A failed page contributes an empty transcript
	// instead of aborting the remaining pages.
	var transcript strings.Builder
	for page := 0; page < doc.NumPages(); page++ {
		pageText := e.transcribePage(ctx, doc, page)
		transcript.WriteString(pageText)
		transcript.WriteString("\n")
	}

	return outcome{Text: transcript.String()}
}

func (e *Extractor) transcribePage(ctx context.Context, doc Document, page int) string {
	img, err := doc.Image(page)
	if err != nil {
		e.logger.Warn().Int("page", page+1).Err(err).Msg("page rasterization failed")
		return ""
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		e.logger.Warn().Int("page", page+1).Err(err).Msg("page encoding failed")
		return ""
	}

	text, err := e.vision.Transcribe(ctx, "image/png", buf.Bytes())
	if err != nil {
		e.logger.Warn().Int("page", page+1).Err(err).Msg("page transcription failed")
		return ""
	}
	return text
}
