package docx

import "encoding/xml"

// WordprocessingML namespaces.
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"

	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"

	relTypeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeStyles   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeHeader   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relTypeImage    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// One pixel at 96 dpi in English Metric Units.
const emuPerPixel = 9525

// -- package parts --

type xmlContentTypes struct {
	XMLName   xml.Name          `xml:"Types"`
	Namespace string            `xml:"xmlns,attr"`
	Defaults  []xmlTypeDefault  `xml:"Default"`
	Overrides []xmlTypeOverride `xml:"Override"`
}

type xmlTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type xmlRelationships struct {
	XMLName   xml.Name          `xml:"Relationships"`
	Namespace string            `xml:"xmlns,attr"`
	Items     []xmlRelationship `xml:"Relationship"`
}

type xmlRelationship struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// -- document body --

type xmlDocument struct {
	XMLName xml.Name `xml:"w:document"`
	NsW     string   `xml:"xmlns:w,attr"`
	NsR     string   `xml:"xmlns:r,attr"`
	NsWP    string   `xml:"xmlns:wp,attr"`
	NsA     string   `xml:"xmlns:a,attr"`
	NsPic   string   `xml:"xmlns:pic,attr"`
	Body    xmlBody  `xml:"w:body"`
}

// Content holds xmlP and xmlTbl values in document order; each carries its
// own XMLName so the marshaler emits the right element.
type xmlBody struct {
	Content []any
	SectPr  *xmlSectPr `xml:"w:sectPr"`
}

type xmlSectPr struct {
	HeaderRef *xmlHeaderRef `xml:"w:headerReference"`
	PageSize  xmlPageSize   `xml:"w:pgSz"`
	Margins   xmlPageMar    `xml:"w:pgMar"`
}

type xmlHeaderRef struct {
	Type string `xml:"w:type,attr"`
	ID   string `xml:"r:id,attr"`
}

type xmlPageSize struct {
	W int `xml:"w:w,attr"`
	H int `xml:"w:h,attr"`
}

type xmlPageMar struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
	Header int `xml:"w:header,attr"`
	Footer int `xml:"w:footer,attr"`
	Gutter int `xml:"w:gutter,attr"`
}

// -- paragraphs and runs --

type xmlP struct {
	XMLName xml.Name   `xml:"w:p"`
	Props   *xmlPProps `xml:"w:pPr"`
	Runs    []xmlRun   `xml:"w:r"`
}

type xmlPProps struct {
	Style *xmlVal `xml:"w:pStyle"`
	Jc    *xmlVal `xml:"w:jc"`
}

type xmlVal struct {
	Val string `xml:"w:val,attr"`
}

type xmlRun struct {
	XMLName xml.Name     `xml:"w:r"`
	Props   *xmlRunProps `xml:"w:rPr"`
	Break   *xmlBreak    `xml:"w:br"`
	Text    *xmlText     `xml:"w:t"`
	Drawing *xmlDrawing  `xml:"w:drawing"`
}

type xmlRunProps struct {
	Bold   *xmlEmpty `xml:"w:b"`
	Italic *xmlEmpty `xml:"w:i"`
}

type xmlEmpty struct{}

type xmlBreak struct {
	Type string `xml:"w:type,attr,omitempty"`
}

type xmlText struct {
	Space string `xml:"xml:space,attr"`
	Value string `xml:",chardata"`
}

// -- tables --

type xmlTbl struct {
	XMLName xml.Name    `xml:"w:tbl"`
	Props   xmlTblProps `xml:"w:tblPr"`
	Grid    xmlTblGrid  `xml:"w:tblGrid"`
	Rows    []xmlTr     `xml:"w:tr"`
}

type xmlTblProps struct {
	Width   xmlTblWidth   `xml:"w:tblW"`
	Borders xmlTblBorders `xml:"w:tblBorders"`
}

type xmlTblWidth struct {
	W    int    `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

// All edges explicitly none: plates must print borderless.
type xmlTblBorders struct {
	Top     xmlBorder `xml:"w:top"`
	Left    xmlBorder `xml:"w:left"`
	Bottom  xmlBorder `xml:"w:bottom"`
	Right   xmlBorder `xml:"w:right"`
	InsideH xmlBorder `xml:"w:insideH"`
	InsideV xmlBorder `xml:"w:insideV"`
}

type xmlBorder struct {
	Val string `xml:"w:val,attr"`
}

type xmlTblGrid struct {
	Cols []xmlGridCol `xml:"w:gridCol"`
}

type xmlGridCol struct {
	W int `xml:"w:w,attr"`
}

type xmlTr struct {
	Cells []xmlTc `xml:"w:tc"`
}

type xmlTc struct {
	Props xmlTcProps `xml:"w:tcPr"`
	Paras []xmlP     `xml:"w:p"`
}

type xmlTcProps struct {
	Width xmlTblWidth `xml:"w:tcW"`
}

// -- inline images --

type xmlDrawing struct {
	Inline xmlInline `xml:"wp:inline"`
}

type xmlInline struct {
	DistT   int        `xml:"distT,attr"`
	DistB   int        `xml:"distB,attr"`
	DistL   int        `xml:"distL,attr"`
	DistR   int        `xml:"distR,attr"`
	Extent  xmlExtent  `xml:"wp:extent"`
	DocPr   xmlDocPr   `xml:"wp:docPr"`
	Graphic xmlGraphic `xml:"a:graphic"`
}

type xmlExtent struct {
	CX int64 `xml:"cx,attr"`
	CY int64 `xml:"cy,attr"`
}

type xmlDocPr struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type xmlGraphic struct {
	Data xmlGraphicData `xml:"a:graphicData"`
}

type xmlGraphicData struct {
	URI string `xml:"uri,attr"`
	Pic xmlPic `xml:"pic:pic"`
}

type xmlPic struct {
	NvPicPr  xmlNvPicPr  `xml:"pic:nvPicPr"`
	BlipFill xmlBlipFill `xml:"pic:blipFill"`
	SpPr     xmlSpPr     `xml:"pic:spPr"`
}

type xmlNvPicPr struct {
	CNvPr    xmlDocPr `xml:"pic:cNvPr"`
	CNvPicPr xmlEmpty `xml:"pic:cNvPicPr"`
}

type xmlBlipFill struct {
	Blip    xmlBlip    `xml:"a:blip"`
	Stretch xmlStretch `xml:"a:stretch"`
}

type xmlBlip struct {
	Embed string `xml:"r:embed,attr"`
}

type xmlStretch struct {
	FillRect xmlEmpty `xml:"a:fillRect"`
}

type xmlSpPr struct {
	Xfrm     xmlXfrm     `xml:"a:xfrm"`
	PrstGeom xmlPrstGeom `xml:"a:prstGeom"`
}

type xmlXfrm struct {
	Off xmlOff    `xml:"a:off"`
	Ext xmlExtent `xml:"a:ext"`
}

type xmlOff struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type xmlPrstGeom struct {
	Prst string   `xml:"prst,attr"`
	AV   xmlEmpty `xml:"a:avLst"`
}

// -- header part --

type xmlHeader struct {
	XMLName xml.Name `xml:"w:hdr"`
	NsW     string   `xml:"xmlns:w,attr"`
	NsR     string   `xml:"xmlns:r,attr"`
	NsWP    string   `xml:"xmlns:wp,attr"`
	NsA     string   `xml:"xmlns:a,attr"`
	NsPic   string   `xml:"xmlns:pic,attr"`
	Paras   []xmlP   `xml:"w:p"`
}

// -- styles part --

type xmlStyles struct {
	XMLName     xml.Name       `xml:"w:styles"`
	NsW         string         `xml:"xmlns:w,attr"`
	DocDefaults xmlDocDefaults `xml:"w:docDefaults"`
	Styles      []xmlStyle     `xml:"w:style"`
}

type xmlDocDefaults struct {
	RPrDefault xmlRPrDefault `xml:"w:rPrDefault"`
}

type xmlRPrDefault struct {
	RPr xmlStyleRPr `xml:"w:rPr"`
}

type xmlStyle struct {
	Type    string       `xml:"w:type,attr"`
	StyleID string       `xml:"w:styleId,attr"`
	Name    xmlVal       `xml:"w:name"`
	PPr     *xmlStylePPr `xml:"w:pPr"`
	RPr     *xmlStyleRPr `xml:"w:rPr"`
}

type xmlStylePPr struct {
	SpacingBefore *xmlSpacing `xml:"w:spacing"`
	Jc            *xmlVal     `xml:"w:jc"`
}

type xmlSpacing struct {
	Before int `xml:"w:before,attr"`
	After  int `xml:"w:after,attr"`
}

type xmlStyleRPr struct {
	Fonts *xmlFonts `xml:"w:rFonts"`
	Bold  *xmlEmpty `xml:"w:b"`
	Size  *xmlVal   `xml:"w:sz"`
}

type xmlFonts struct {
	ASCII string `xml:"w:ascii,attr"`
	HANSI string `xml:"w:hAnsi,attr"`
}
