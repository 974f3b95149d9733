// File: api/schemas/conversation.go
package schemas

// Role tags one entry in a conversation history.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// PartKind discriminates the content variants inside a Turn.
type PartKind string

const (
	PartText  PartKind = "text"
	PartImage PartKind = "image"
)

// Part is one piece of multimodal turn content. Text parts carry Text; image
// parts carry the already-encoded JPEG bytes in Image. A Part is exactly one
// of the two.
type Part struct {
	Kind  PartKind
	Text  string
	Image []byte
}

// TextPart builds a text content part.
func TextPart(text string) Part {
	return Part{Kind: PartText, Text: text}
}

// ImagePart builds an image content part from encoded image bytes.
func ImagePart(data []byte) Part {
	return Part{Kind: PartImage, Image: data}
}

// Turn is one role-tagged entry in a conversation history. Content ordering
// is significant and preserved end to end.
type Turn struct {
	Role  Role
	Parts []Part
}

// HasImage reports whether any part of the turn is an image.
func (t Turn) HasImage() bool {
	for _, p := range t.Parts {
		if p.Kind == PartImage {
			return true
		}
	}
	return false
}
