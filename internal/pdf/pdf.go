package pdf

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"rsc.io/pdf"

	"github.com/katakuxiko/paperrelay/internal/model"
)

var ErrNoText = errors.New("no text extracted from pdf")

var doiRe = regexp.MustCompile(`(?i)10\.\d{4,9}/[-._;()/:A-Z0-9]+`)

// Extract reads an uploaded PDF and returns its text, page count, first DOI
// and SHA-256 digest.
func Extract(data []byte) (doc model.Document, err error) {
	sum := sha256.Sum256(data)
	doc.SHA256 = hex.EncodeToString(sum[:])

	// rsc.io/pdf panics on some malformed content streams
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("read pdf: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return doc, fmt.Errorf("open pdf: %w", err)
	}

	doc.Pages = r.NumPage()
	var sb strings.Builder
	for i := 1; i <= doc.Pages; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		var page strings.Builder
		for _, t := range p.Content().Text {
			page.WriteString(strings.ReplaceAll(t.S, "\x00", ""))
		}
		sb.WriteString(Sanitize(page.String()))
		sb.WriteString("\n")
	}

	doc.Text = sb.String()
	if strings.TrimSpace(doc.Text) == "" {
		return doc, ErrNoText
	}
	doc.DOI = FindDOI(doc.Text)
	return doc, nil
}

// FindDOI returns the first DOI in s, or "".
func FindDOI(s string) string {
	return doiRe.FindString(s)
}

func Sanitize(s string) string {
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.Join(strings.Fields(s), " ")
	return s
}
