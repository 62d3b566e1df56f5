// Package pptx assembles PPTX (Office Open XML Presentation) documents. The
// writer produces one slide per reconstructed page: an optional background
// picture, discrete picture overlays, and editable text boxes, on top of a
// minimal blank master/layout/theme scaffold.
package pptx

import "encoding/xml"

// XML namespaces used in PPTX files.
const (
	nsPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsRelationships  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPackageRels    = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// Relationship types.
const (
	relTypeOfficeDocument = nsRelationships + "/officeDocument"
	relTypeSlideMaster    = nsRelationships + "/slideMaster"
	relTypeSlideLayout    = nsRelationships + "/slideLayout"
	relTypeSlide          = nsRelationships + "/slide"
	relTypeTheme          = nsRelationships + "/theme"
	relTypeImage          = nsRelationships + "/image"
	relTypeCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeExtProps       = nsRelationships + "/extended-properties"
)

// Content types.
const (
	ctRelationships = "application/vnd.openxmlformats-package.relationships+xml"
	ctXML           = "application/xml"
	ctPresentation  = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	ctSlideMaster   = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	ctSlideLayout   = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	ctSlide         = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
	ctTheme         = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctCoreProps     = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtProps      = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

// The marshal structs below carry literal prefixed element names ("p:sld",
// "a:off") with the namespaces declared as plain attributes on the roots.
// encoding/xml has no native prefix support on output; writing the prefixes
// verbatim produces the exact markup PowerPoint expects.

type emptyXML struct{}

// ----------------------------------------------------------------------------
// [Content_Types].xml
// ----------------------------------------------------------------------------

type contentTypesXML struct {
	XMLName   xml.Name        `xml:"Types"`
	Xmlns     string          `xml:"xmlns,attr"`
	Defaults  []ctDefaultXML  `xml:"Default"`
	Overrides []ctOverrideXML `xml:"Override"`
}

type ctDefaultXML struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverrideXML struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ----------------------------------------------------------------------------
// Relationship parts (*.rels)
// ----------------------------------------------------------------------------

type relationshipsXML struct {
	XMLName xml.Name          `xml:"Relationships"`
	Xmlns   string            `xml:"xmlns,attr"`
	Rels    []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// ----------------------------------------------------------------------------
// ppt/presentation.xml
// ----------------------------------------------------------------------------

type presentationXML struct {
	XMLName        xml.Name           `xml:"p:presentation"`
	NSA            string             `xml:"xmlns:a,attr"`
	NSR            string             `xml:"xmlns:r,attr"`
	NSP            string             `xml:"xmlns:p,attr"`
	SldMasterIdLst sldMasterIdListXML `xml:"p:sldMasterIdLst"`
	SldIdLst       sldIdListXML       `xml:"p:sldIdLst"`
	SldSz          sldSzXML           `xml:"p:sldSz"`
	NotesSz        sldSzXML           `xml:"p:notesSz"`
}

type sldMasterIdListXML struct {
	IDs []sldMasterIdXML `xml:"p:sldMasterId"`
}

type sldMasterIdXML struct {
	ID  string `xml:"id,attr"`
	RID string `xml:"r:id,attr"`
}

type sldIdListXML struct {
	IDs []sldIdXML `xml:"p:sldId"`
}

type sldIdXML struct {
	ID  int    `xml:"id,attr"`
	RID string `xml:"r:id,attr"`
}

type sldSzXML struct {
	Cx int64 `xml:"cx,attr"`
	Cy int64 `xml:"cy,attr"`
}

// ----------------------------------------------------------------------------
// ppt/slides/slideN.xml
// ----------------------------------------------------------------------------

type slideXML struct {
	XMLName   xml.Name     `xml:"p:sld"`
	NSA       string       `xml:"xmlns:a,attr"`
	NSR       string       `xml:"xmlns:r,attr"`
	NSP       string       `xml:"xmlns:p,attr"`
	CSld      cSldXML      `xml:"p:cSld"`
	ClrMapOvr clrMapOvrXML `xml:"p:clrMapOvr"`
}

type cSldXML struct {
	SpTree spTreeXML `xml:"p:spTree"`
}

type clrMapOvrXML struct {
	MasterClrMapping emptyXML `xml:"a:masterClrMapping"`
}

// spTreeXML orders pictures before text shapes; the marshal order is the
// z-order, background lowest.
type spTreeXML struct {
	NvGrpSpPr nvGrpSpPrXML `xml:"p:nvGrpSpPr"`
	GrpSpPr   grpSpPrXML   `xml:"p:grpSpPr"`
	Pics      []picXML     `xml:"p:pic"`
	Shapes    []spXML      `xml:"p:sp"`
}

type nvGrpSpPrXML struct {
	CNvPr      cNvPrXML `xml:"p:cNvPr"`
	CNvGrpSpPr emptyXML `xml:"p:cNvGrpSpPr"`
	NvPr       emptyXML `xml:"p:nvPr"`
}

type cNvPrXML struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type grpSpPrXML struct {
	Xfrm groupXfrmXML `xml:"a:xfrm"`
}

type groupXfrmXML struct {
	Off   offXML `xml:"a:off"`
	Ext   extXML `xml:"a:ext"`
	ChOff offXML `xml:"a:chOff"`
	ChExt extXML `xml:"a:chExt"`
}

type offXML struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type extXML struct {
	Cx int64 `xml:"cx,attr"`
	Cy int64 `xml:"cy,attr"`
}

type xfrmXML struct {
	Off offXML `xml:"a:off"`
	Ext extXML `xml:"a:ext"`
}

// ----------------------------------------------------------------------------
// Pictures
// ----------------------------------------------------------------------------

type picXML struct {
	NvPicPr  nvPicPrXML  `xml:"p:nvPicPr"`
	BlipFill blipFillXML `xml:"p:blipFill"`
	SpPr     spPrXML     `xml:"p:spPr"`
}

type nvPicPrXML struct {
	CNvPr    cNvPrXML    `xml:"p:cNvPr"`
	CNvPicPr cNvPicPrXML `xml:"p:cNvPicPr"`
	NvPr     emptyXML    `xml:"p:nvPr"`
}

type cNvPicPrXML struct {
	PicLocks picLocksXML `xml:"a:picLocks"`
}

type picLocksXML struct {
	NoChangeAspect int `xml:"noChangeAspect,attr"`
}

type blipFillXML struct {
	Blip    blipXML    `xml:"a:blip"`
	Stretch stretchXML `xml:"a:stretch"`
}

type blipXML struct {
	Embed string `xml:"r:embed,attr"`
}

type stretchXML struct {
	FillRect emptyXML `xml:"a:fillRect"`
}

// ----------------------------------------------------------------------------
// Text shapes
// ----------------------------------------------------------------------------

type spXML struct {
	NvSpPr nvSpPrXML `xml:"p:nvSpPr"`
	SpPr   spPrXML   `xml:"p:spPr"`
	TxBody txBodyXML `xml:"p:txBody"`
}

type nvSpPrXML struct {
	CNvPr   cNvPrXML   `xml:"p:cNvPr"`
	CNvSpPr cNvSpPrXML `xml:"p:cNvSpPr"`
	NvPr    emptyXML   `xml:"p:nvPr"`
}

type cNvSpPrXML struct {
	TxBox int `xml:"txBox,attr"`
}

type spPrXML struct {
	Xfrm      xfrmXML       `xml:"a:xfrm"`
	PrstGeom  prstGeomXML   `xml:"a:prstGeom"`
	SolidFill *solidFillXML `xml:"a:solidFill"`
	NoFill    *emptyXML     `xml:"a:noFill"`
	Ln        *lnXML        `xml:"a:ln"`
}

type prstGeomXML struct {
	Prst  string   `xml:"prst,attr"`
	AvLst emptyXML `xml:"a:avLst"`
}

type solidFillXML struct {
	Color srgbClrXML `xml:"a:srgbClr"`
}

type srgbClrXML struct {
	Val string `xml:"val,attr"`
}

type lnXML struct {
	NoFill emptyXML `xml:"a:noFill"`
}

type txBodyXML struct {
	BodyPr     bodyPrXML      `xml:"a:bodyPr"`
	LstStyle   emptyXML       `xml:"a:lstStyle"`
	Paragraphs []paragraphXML `xml:"a:p"`
}

// bodyPrXML always writes the insets: the OOXML default is a non-zero
// margin, and overlay boxes need their text flush with the box edge.
type bodyPrXML struct {
	Wrap string `xml:"wrap,attr"`
	LIns int    `xml:"lIns,attr"`
	TIns int    `xml:"tIns,attr"`
	RIns int    `xml:"rIns,attr"`
	BIns int    `xml:"bIns,attr"`
}

type paragraphXML struct {
	Runs []runXML `xml:"a:r"`
}

type runXML struct {
	RPr rPrXML `xml:"a:rPr"`
	T   string `xml:"a:t"`
}

// rPrXML writes bold and italic explicitly; absence would inherit from the
// layout instead of meaning "off".
type rPrXML struct {
	Sz    int          `xml:"sz,attr"` // hundredths of a point
	B     int          `xml:"b,attr"`
	I     int          `xml:"i,attr"`
	Fill  solidFillXML `xml:"a:solidFill"`
	Latin latinXML     `xml:"a:latin"`
}

type latinXML struct {
	Typeface string `xml:"typeface,attr"`
}

// ----------------------------------------------------------------------------
// docProps
// ----------------------------------------------------------------------------

type corePropertiesXML struct {
	XMLName        xml.Name  `xml:"cp:coreProperties"`
	NSCP           string    `xml:"xmlns:cp,attr"`
	NSDC           string    `xml:"xmlns:dc,attr"`
	NSDCTerms      string    `xml:"xmlns:dcterms,attr"`
	NSXSI          string    `xml:"xmlns:xsi,attr"`
	Title          string    `xml:"dc:title"`
	Creator        string    `xml:"dc:creator"`
	LastModifiedBy string    `xml:"cp:lastModifiedBy"`
	Revision       int       `xml:"cp:revision"`
	Created        w3cdtfXML `xml:"dcterms:created"`
	Modified       w3cdtfXML `xml:"dcterms:modified"`
}

type w3cdtfXML struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

type appPropertiesXML struct {
	XMLName     xml.Name `xml:"Properties"`
	Xmlns       string   `xml:"xmlns,attr"`
	Application string   `xml:"Application"`
	Company     string   `xml:"Company"`
	Slides      int      `xml:"Slides"`
	Notes       int      `xml:"Notes"`
}
