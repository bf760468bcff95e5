package model

// MessageRequest is the body of POST /api/message. Missing fields stay empty.
type MessageRequest struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Variant is a prompt/model pair selected by a request label.
type Variant struct {
	Label       string `json:"label"`
	Model       string `json:"model"`
	Instruction string `json:"-"`
}

// Document is the text extracted from an uploaded PDF.
type Document struct {
	Pages  int    `json:"pages"`
	Text   string `json:"text"`
	DOI    string `json:"doi"`
	SHA256 string `json:"sha256"`
}
