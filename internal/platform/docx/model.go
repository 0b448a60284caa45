// Package docx serializes a small structured document model to a
// WordprocessingML (.docx) package: styled paragraphs, page breaks,
// borderless tables with inline images, and an optional page header.
package docx

// Paragraph styles defined in the embedded stylesheet.
const (
	StyleNormal   = ""
	StyleTitle    = "Title"
	StyleHeading1 = "Heading1"
	StyleHeading2 = "Heading2"
)

// Alignment values.
const (
	AlignLeft   = ""
	AlignCenter = "center"
	AlignRight  = "right"
)

// Image is a raster payload ready for embedding. Format must be png, jpeg or
// gif. Width and Height are the rendered size in pixels.
type Image struct {
	Bytes  []byte
	Format string
	Width  int
	Height int
}

// Run is a span of text, an inline image, or a page break.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	PageBreak bool
	Image     *Image
}

// Paragraph is a styled sequence of runs.
type Paragraph struct {
	Style string
	Align string
	Runs  []Run
}

// Cell holds the paragraphs of one table cell. Empty cells render as
// borderless padding.
type Cell struct {
	Paragraphs []Paragraph
}

// Table is a borderless grid, used for image plates.
type Table struct {
	Rows [][]Cell
}

// Block is either a paragraph or a table.
type Block struct {
	Paragraph *Paragraph
	Table     *Table
}

// Document is the export model. When HeaderImage is set it renders as the
// page header; otherwise HeaderLines render as centered text, one per line,
// and an empty slice means no header at all.
type Document struct {
	HeaderImage *Image
	HeaderLines []string
	Blocks      []Block
}

// AddParagraph appends a paragraph block.
func (d *Document) AddParagraph(p Paragraph) {
	d.Blocks = append(d.Blocks, Block{Paragraph: &p})
}

// AddTable appends a table block.
func (d *Document) AddTable(t Table) {
	d.Blocks = append(d.Blocks, Block{Table: &t})
}

// AddText appends a plain paragraph with one text run.
func (d *Document) AddText(style, text string) {
	d.AddParagraph(Paragraph{Style: style, Runs: []Run{{Text: text}}})
}

// AddPageBreak appends a paragraph holding only a page break.
func (d *Document) AddPageBreak() {
	d.AddParagraph(Paragraph{Runs: []Run{{PageBreak: true}}})
}
