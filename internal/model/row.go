package model

// Style tags a rendered row; the ui package maps tags to lipgloss styles.
type Style int

const (
	StyleText   Style = iota // plain content
	StyleHeader              // bold topic/path header
	StyleError               // undecodable payload placeholder
	StyleMeta                // summary and metadata rows
)

// Origin ties a rendered row back to what produced it, for selection.
// Exactly one of Msg or Node is set; dispatch on whichever is non-nil.
type Origin struct {
	Msg  *Message
	Node *Node
}

// Row is one renderable line plus the reference needed to drill into it.
type Row struct {
	Indent int
	Text   string
	Style  Style
	Origin Origin
}
