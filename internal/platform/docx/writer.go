package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
)

// A4 geometry in twips.
const (
	pageWidth    = 11906
	pageHeight   = 16838
	pageMargin   = 1134
	headerMargin = 708
	contentWidth = pageWidth - 2*pageMargin
)

// Write serializes doc as a .docx package to w.
func Write(w io.Writer, doc *Document) error {
	zw := zip.NewWriter(w)
	b := &builder{doc: doc, drawingID: 1}

	documentXML, err := b.buildDocument()
	if err != nil {
		return err
	}
	headerXML, err := b.buildHeader()
	if err != nil {
		return err
	}

	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", b.contentTypes()},
		{"_rels/.rels", b.packageRels()},
		{"word/document.xml", documentXML},
		{"word/_rels/document.xml.rels", b.documentRels()},
		{"word/styles.xml", stylesXML()},
	}
	if headerXML != nil {
		parts = append(parts,
			struct {
				name string
				data []byte
			}{"word/header1.xml", headerXML})
		if b.headerImageName != "" {
			parts = append(parts, struct {
				name string
				data []byte
			}{"word/_rels/header1.xml.rels", b.headerRels()})
		}
	}
	for _, part := range parts {
		if err := writePart(zw, part.name, part.data); err != nil {
			return err
		}
	}
	for _, m := range b.media {
		if err := writePart(zw, "word/media/"+m.name, m.data); err != nil {
			return err
		}
	}
	return zw.Close()
}

func writePart(zw *zip.Writer, name string, data []byte) error {
	f, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

type mediaPart struct {
	name string
	data []byte
}

type builder struct {
	doc             *Document
	media           []mediaPart
	bodyImageRels   []xmlRelationship
	headerImageName string
	drawingID       int
}

func (b *builder) hasHeader() bool {
	return b.doc.HeaderImage != nil || len(b.doc.HeaderLines) > 0
}

// addMedia registers an image part and returns its file name.
func (b *builder) addMedia(img *Image) string {
	name := fmt.Sprintf("image%d.%s", len(b.media)+1, img.Format)
	b.media = append(b.media, mediaPart{name: name, data: img.Bytes})
	return name
}

func (b *builder) buildDocument() ([]byte, error) {
	body := xmlBody{
		SectPr: &xmlSectPr{
			PageSize: xmlPageSize{W: pageWidth, H: pageHeight},
			Margins: xmlPageMar{
				Top: pageMargin, Right: pageMargin, Bottom: pageMargin, Left: pageMargin,
				Header: headerMargin, Footer: headerMargin,
			},
		},
	}
	if b.hasHeader() {
		body.SectPr.HeaderRef = &xmlHeaderRef{Type: "default", ID: "rId2"}
	}
	for _, block := range b.doc.Blocks {
		switch {
		case block.Paragraph != nil:
			body.Content = append(body.Content, b.paragraph(*block.Paragraph))
		case block.Table != nil:
			body.Content = append(body.Content, b.table(*block.Table))
		}
	}

	return marshalPart(xmlDocument{
		NsW: nsW, NsR: nsR, NsWP: nsWP, NsA: nsA, NsPic: nsPic,
		Body: body,
	})
}

func (b *builder) buildHeader() ([]byte, error) {
	if !b.hasHeader() {
		return nil, nil
	}
	hdr := xmlHeader{NsW: nsW, NsR: nsR, NsWP: nsWP, NsA: nsA, NsPic: nsPic}
	if b.doc.HeaderImage != nil {
		b.headerImageName = b.addMedia(b.doc.HeaderImage)
		hdr.Paras = append(hdr.Paras, xmlP{
			Props: &xmlPProps{Jc: &xmlVal{Val: "center"}},
			Runs:  []xmlRun{{Drawing: b.drawing(b.doc.HeaderImage, "rId1")}},
		})
	} else {
		for _, line := range b.doc.HeaderLines {
			hdr.Paras = append(hdr.Paras, xmlP{
				Props: &xmlPProps{Jc: &xmlVal{Val: "center"}},
				Runs:  []xmlRun{{Text: &xmlText{Space: "preserve", Value: line}}},
			})
		}
	}
	return marshalPart(hdr)
}

func (b *builder) paragraph(p Paragraph) xmlP {
	out := xmlP{}
	if p.Style != StyleNormal || p.Align != AlignLeft {
		out.Props = &xmlPProps{}
		if p.Style != StyleNormal {
			out.Props.Style = &xmlVal{Val: p.Style}
		}
		if p.Align != AlignLeft {
			out.Props.Jc = &xmlVal{Val: p.Align}
		}
	}
	for _, r := range p.Runs {
		out.Runs = append(out.Runs, b.run(r))
	}
	return out
}

func (b *builder) run(r Run) xmlRun {
	out := xmlRun{}
	if r.Bold || r.Italic {
		out.Props = &xmlRunProps{}
		if r.Bold {
			out.Props.Bold = &xmlEmpty{}
		}
		if r.Italic {
			out.Props.Italic = &xmlEmpty{}
		}
	}
	switch {
	case r.PageBreak:
		out.Break = &xmlBreak{Type: "page"}
	case r.Image != nil:
		name := b.addMedia(r.Image)
		relID := fmt.Sprintf("rId%d", 2+len(b.bodyImageRels)+1)
		b.bodyImageRels = append(b.bodyImageRels, xmlRelationship{
			ID: relID, Type: relTypeImage, Target: "media/" + name,
		})
		out.Drawing = b.drawing(r.Image, relID)
	default:
		out.Text = &xmlText{Space: "preserve", Value: r.Text}
	}
	return out
}

func (b *builder) drawing(img *Image, relID string) *xmlDrawing {
	cx := int64(img.Width) * emuPerPixel
	cy := int64(img.Height) * emuPerPixel
	id := b.drawingID
	b.drawingID++
	name := fmt.Sprintf("Imagem %d", id)
	return &xmlDrawing{
		Inline: xmlInline{
			Extent: xmlExtent{CX: cx, CY: cy},
			DocPr:  xmlDocPr{ID: id, Name: name},
			Graphic: xmlGraphic{
				Data: xmlGraphicData{
					URI: nsPic,
					Pic: xmlPic{
						NvPicPr: xmlNvPicPr{CNvPr: xmlDocPr{ID: id, Name: name}},
						BlipFill: xmlBlipFill{
							Blip: xmlBlip{Embed: relID},
						},
						SpPr: xmlSpPr{
							Xfrm:     xmlXfrm{Ext: xmlExtent{CX: cx, CY: cy}},
							PrstGeom: xmlPrstGeom{Prst: "rect"},
						},
					},
				},
			},
		},
	}
}

func (b *builder) table(t Table) xmlTbl {
	cols := 0
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		cols = 1
	}
	colWidth := contentWidth / cols

	none := xmlBorder{Val: "none"}
	out := xmlTbl{
		Props: xmlTblProps{
			Width: xmlTblWidth{W: contentWidth, Type: "dxa"},
			Borders: xmlTblBorders{
				Top: none, Left: none, Bottom: none, Right: none,
				InsideH: none, InsideV: none,
			},
		},
	}
	for i := 0; i < cols; i++ {
		out.Grid.Cols = append(out.Grid.Cols, xmlGridCol{W: colWidth})
	}
	for _, row := range t.Rows {
		tr := xmlTr{}
		for _, cell := range row {
			tc := xmlTc{Props: xmlTcProps{Width: xmlTblWidth{W: colWidth, Type: "dxa"}}}
			for _, p := range cell.Paragraphs {
				tc.Paras = append(tc.Paras, b.paragraph(p))
			}
			// a table cell must hold at least one paragraph
			if len(tc.Paras) == 0 {
				tc.Paras = []xmlP{{}}
			}
			tr.Cells = append(tr.Cells, tc)
		}
		for len(tr.Cells) < cols {
			tr.Cells = append(tr.Cells, xmlTc{
				Props: xmlTcProps{Width: xmlTblWidth{W: colWidth, Type: "dxa"}},
				Paras: []xmlP{{}},
			})
		}
		out.Rows = append(out.Rows, tr)
	}
	return out
}

func (b *builder) contentTypes() []byte {
	ct := xmlContentTypes{
		Namespace: nsContentTypes,
		Defaults: []xmlTypeDefault{
			{Extension: "rels", ContentType: "application/vnd.openxmlformats-package.relationships+xml"},
			{Extension: "xml", ContentType: "application/xml"},
			{Extension: "png", ContentType: "image/png"},
			{Extension: "jpeg", ContentType: "image/jpeg"},
			{Extension: "gif", ContentType: "image/gif"},
		},
		Overrides: []xmlTypeOverride{
			{PartName: "/word/document.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"},
			{PartName: "/word/styles.xml", ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"},
		},
	}
	if b.hasHeader() {
		ct.Overrides = append(ct.Overrides, xmlTypeOverride{
			PartName:    "/word/header1.xml",
			ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml",
		})
	}
	data, _ := marshalPart(ct)
	return data
}

func (b *builder) packageRels() []byte {
	data, _ := marshalPart(xmlRelationships{
		Namespace: nsRelationships,
		Items: []xmlRelationship{
			{ID: "rId1", Type: relTypeDocument, Target: "word/document.xml"},
		},
	})
	return data
}

func (b *builder) documentRels() []byte {
	rels := []xmlRelationship{
		{ID: "rId1", Type: relTypeStyles, Target: "styles.xml"},
	}
	if b.hasHeader() {
		rels = append(rels, xmlRelationship{ID: "rId2", Type: relTypeHeader, Target: "header1.xml"})
	}
	rels = append(rels, b.bodyImageRels...)
	data, _ := marshalPart(xmlRelationships{Namespace: nsRelationships, Items: rels})
	return data
}

func (b *builder) headerRels() []byte {
	data, _ := marshalPart(xmlRelationships{
		Namespace: nsRelationships,
		Items: []xmlRelationship{
			{ID: "rId1", Type: relTypeImage, Target: "media/" + b.headerImageName},
		},
	})
	return data
}

func stylesXML() []byte {
	calibri := &xmlFonts{ASCII: "Calibri", HANSI: "Calibri"}
	styles := xmlStyles{
		NsW: nsW,
		DocDefaults: xmlDocDefaults{
			RPrDefault: xmlRPrDefault{RPr: xmlStyleRPr{Fonts: calibri, Size: &xmlVal{Val: "22"}}},
		},
		Styles: []xmlStyle{
			{
				Type: "paragraph", StyleID: "Title",
				Name: xmlVal{Val: "Title"},
				PPr:  &xmlStylePPr{SpacingBefore: &xmlSpacing{Before: 0, After: 240}, Jc: &xmlVal{Val: "center"}},
				RPr:  &xmlStyleRPr{Fonts: calibri, Bold: &xmlEmpty{}, Size: &xmlVal{Val: "32"}},
			},
			{
				Type: "paragraph", StyleID: "Heading1",
				Name: xmlVal{Val: "heading 1"},
				PPr:  &xmlStylePPr{SpacingBefore: &xmlSpacing{Before: 240, After: 120}},
				RPr:  &xmlStyleRPr{Fonts: calibri, Bold: &xmlEmpty{}, Size: &xmlVal{Val: "28"}},
			},
			{
				Type: "paragraph", StyleID: "Heading2",
				Name: xmlVal{Val: "heading 2"},
				PPr:  &xmlStylePPr{SpacingBefore: &xmlSpacing{Before: 200, After: 100}},
				RPr:  &xmlStyleRPr{Fonts: calibri, Bold: &xmlEmpty{}, Size: &xmlVal{Val: "24"}},
			},
		},
	}
	data, _ := marshalPart(styles)
	return data
}

func marshalPart(v any) ([]byte, error) {
	body, err := xml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal part: %w", err)
	}
	out := make([]byte, 0, len(xml.Header)+len(body))
	out = append(out, xml.Header...)
	out = append(out, body...)
	return out, nil
}
