package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFText extracts the plain text of the PDF at path.
func PDFText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	return plainText(reader)
}

// PDFTextBytes extracts the plain text of an in-memory PDF. Used by the
// HTTP parse endpoint, which receives uploads rather than stored files.
func PDFTextBytes(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	return plainText(reader)
}

func plainText(reader *pdf.Reader) (string, error) {
	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	raw, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}
