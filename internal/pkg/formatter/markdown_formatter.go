package formatter

import (
	"bytes"
	"fmt"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", doc.Title)

	for _, m := range doc.Meta {
		fmt.Fprintf(&buf, "- %s\n", m)
	}
	if len(doc.Meta) > 0 {
		buf.WriteString("\n")
	}

	if doc.Summary != "" {
		fmt.Fprintf(&buf, "## Summary\n\n%s\n\n", doc.Summary)
	}

	buf.WriteString("## Conversation\n\n")
	for _, l := range doc.Lines {
		fmt.Fprintf(&buf, "**%s** _(%s)_: %s\n\n", l.Speaker, l.At, l.Text)
	}

	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
