package formatter

import (
	"bytes"

	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(doc *Document) ([]byte, error) {
	d := document.New()
	defer d.Close()

	heading(d, "Heading1", doc.Title)

	for _, m := range doc.Meta {
		d.AddParagraph().AddRun().AddText(m)
	}

	if doc.Summary != "" {
		heading(d, "Heading2", "Summary")
		d.AddParagraph().AddRun().AddText(doc.Summary)
	}

	heading(d, "Heading2", "Conversation")
	for _, l := range doc.Lines {
		par := d.AddParagraph()

		speaker := par.AddRun()
		speaker.Properties().SetBold(true)
		speaker.AddText(l.Speaker + " (" + l.At + "): ")

		par.AddRun().AddText(l.Text)
	}

	var buf bytes.Buffer
	if err := d.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func heading(d *document.Document, style, text string) {
	par := d.AddParagraph()
	par.SetStyle(style)
	par.AddRun().AddText(text)
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
