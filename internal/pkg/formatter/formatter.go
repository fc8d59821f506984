package formatter

import (
	"fmt"

	"github.com/futig/convai-admin/internal/entity"
)

// Line is one transcript turn.
type Line struct {
	Speaker string
	Text    string
	// At is the offset into the call, already rendered ("1:05").
	At string
}

// Document is a conversation transcript ready to be rendered.
type Document struct {
	Title   string
	Meta    []string
	Summary string
	Lines   []Line
}

type Formatter interface {
	Format(doc *Document) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ResultFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", entity.ErrInvalidParameter, format)
	}
}
