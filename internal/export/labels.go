package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/gridstash/internal/grid"
)

// TagInfo holds the data encoded into each item tag's QR code.
type TagInfo struct {
	Name    string `json:"name"`
	ItemID  string `json:"item"`
	GridID  string `json:"grid"`
	Width   int    `json:"w"`
	Height  int    `json:"h"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Rotated bool   `json:"rotated"`
}

// Tag layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
const (
	tagMarginTop  = 12.7 // mm
	tagMarginLeft = 4.8  // mm
	tagWidth      = 66.7 // mm per tag
	tagHeight     = 25.4 // mm per tag
	tagCols       = 3
	tagRows       = 10
	tagsPerPage   = tagCols * tagRows
	qrSize        = 20.0 // mm
	tagPadding    = 2.0  // mm
)

// ExportTags generates a PDF of QR-coded tags, one per item placed on g, in
// row-major anchor order. Each tag shows the item name, footprint and
// anchor next to a QR code encoding the TagInfo as JSON.
func ExportTags(path string, g *grid.Grid) error {
	if g == nil {
		return fmt.Errorf("no grid to generate tags for")
	}
	tags := CollectTagInfos(g)
	if len(tags) == 0 {
		return fmt.Errorf("no items placed to generate tags for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, tag := range tags {
		if i%tagsPerPage == 0 {
			pdf.AddPage()
		}

		pos := i % tagsPerPage
		x := tagMarginLeft + float64(pos%tagCols)*tagWidth
		y := tagMarginTop + float64(pos/tagCols)*tagHeight

		if err := renderTag(pdf, x, y, tag); err != nil {
			return fmt.Errorf("failed to render tag for %q: %w", tag.Name, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderTag draws a single tag at the given position.
func renderTag(pdf *fpdf.Fpdf, x, y float64, info TagInfo) error {
	// Cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, tagWidth, tagHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal tag info: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	// Item IDs are unique, so they make unique image names.
	imgName := "qr_" + info.ItemID
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + tagWidth - qrSize - tagPadding
	qrY := y + (tagHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + tagPadding
	textW := tagWidth - qrSize - 3*tagPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+tagPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, info.Name, textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+tagPadding+5)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%d x %d cells", info.Width, info.Height), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+tagPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Grid %s @ (%d, %d)", info.GridID, info.X, info.Y), "", 1, "L", false, 0, "")

	if info.Rotated {
		pdf.SetXY(textX, y+tagPadding+12.5)
		pdf.SetFont("Helvetica", "I", 6)
		pdf.SetTextColor(150, 100, 0)
		pdf.CellFormat(textW, 3, "Rotated 90\xb0", "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits in width.
func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	s = string(r)
	return s + "..."
}

// CollectTagInfos extracts tag information for every item placed on g.
func CollectTagInfos(g *grid.Grid) []TagInfo {
	placements := g.Placements()
	tags := make([]TagInfo, 0, len(placements))
	for _, p := range placements {
		tags = append(tags, TagInfo{
			Name:    p.Item.Name(),
			ItemID:  p.Item.ID(),
			GridID:  g.ID(),
			Width:   p.Width,
			Height:  p.Height,
			X:       p.X,
			Y:       p.Y,
			Rotated: p.Item.Rotated(),
		})
	}
	return tags
}
