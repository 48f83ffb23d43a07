package protocol

import "fmt"

// Part types for multimodal message content.
const (
	PartText  = "text"
	PartImage = "image_url"
)

// Part is one segment of a multimodal message. Text parts carry Text;
// image parts carry an inline data URL in ImageURL.
type Part struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL wraps an image reference. URL is either a remote URL or a
// base64 data URL.
type ImageURL struct {
	URL string `json:"url"`
}

// TextPart creates a text content part.
func TextPart(text string) Part {
	return Part{Type: PartText, Text: text}
}

// ImagePart creates an image content part from base64 data and its mime
// type, encoded as a data URL.
func ImagePart(mimeType, base64Data string) Part {
	return Part{
		Type:     PartImage,
		ImageURL: &ImageURL{URL: fmt.Sprintf("data:%s;base64,%s", mimeType, base64Data)},
	}
}
