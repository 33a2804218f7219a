// Package export renders grid contents to printable files: a PDF layout
// sheet of a grid and sheets of QR-coded item tags.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/gridstash/internal/grid"
)

// itemColor represents an RGB color for a placed item.
type itemColor struct {
	R, G, B int
}

var itemColors = []itemColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF writes a PDF for g: a scaled layout diagram with a legend,
// followed by a summary of occupancy and any unplaced items.
func ExportPDF(path string, g *grid.Grid, unplaced []*grid.Item) error {
	if g == nil {
		return fmt.Errorf("no grid to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	placements := g.Placements()

	pdf.AddPage()
	renderLayoutPage(pdf, g, placements)

	pdf.AddPage()
	renderSummaryPage(pdf, g, placements, unplaced)

	return pdf.OutputFileAndClose(path)
}

// renderLayoutPage draws the grid lattice and every placement on the current page.
func renderLayoutPage(pdf *fpdf.Fpdf, g *grid.Grid, placements []grid.Placement) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Grid %s (%d x %d cells)", g.ID(), g.Width(), g.Height())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Items: %d | Occupied cells: %d of %d | Fill: %.1f%%",
		len(placements), g.OccupiedCells(), g.Width()*g.Height(), g.FillRatio()*100)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	cell := math.Min(drawWidth/float64(g.Width()), drawHeight/float64(g.Height()))

	canvasW := float64(g.Width()) * cell
	canvasH := float64(g.Height()) * cell
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(245, 245, 245)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	drawLattice(pdf, g.Width(), g.Height(), cell, offsetX, offsetY)

	for i, p := range placements {
		col := itemColors[i%len(itemColors)]
		pw := float64(p.Width) * cell
		ph := float64(p.Height) * cell
		px := offsetX + float64(p.X)*cell
		py := offsetY + float64(p.Y)*cell

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			name := p.Item.Name()
			dims := fmt.Sprintf("%dx%d", p.Width, p.Height)
			nameW := pdf.GetStringWidth(name)
			dimsW := pdf.GetStringWidth(dims)

			if nameW < pw-2 {
				pdf.SetXY(px+(pw-nameW)/2, py+ph/2-4)
				pdf.CellFormat(nameW, 4, name, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawLegend(pdf, placements, offsetY+canvasH+5)
}

// drawLattice draws the cell boundaries inside the grid rectangle.
func drawLattice(pdf *fpdf.Fpdf, cols, rows int, cell, offsetX, offsetY float64) {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	for x := 1; x < cols; x++ {
		lx := offsetX + float64(x)*cell
		pdf.Line(lx, offsetY, lx, offsetY+float64(rows)*cell)
	}
	for y := 1; y < rows; y++ {
		ly := offsetY + float64(y)*cell
		pdf.Line(offsetX, ly, offsetX+float64(cols)*cell, ly)
	}
}

// drawLegend renders a compact legend of placed items below the diagram.
func drawLegend(pdf *fpdf.Fpdf, placements []grid.Placement, startY float64) {
	if len(placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Items placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for i, p := range placements {
		col := itemColors[i%len(itemColors)]
		label := fmt.Sprintf("%s (%dx%d @ %d,%d)", p.Item.Name(), p.Width, p.Height, p.X, p.Y)
		if p.Item.Rotated() {
			label += " R"
		}
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the occupancy statistics and item table.
func renderSummaryPage(pdf *fpdf.Fpdf, g *grid.Grid, placements []grid.Placement, unplaced []*grid.Item) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Inventory Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Grid Size", fmt.Sprintf("%d x %d cells", g.Width(), g.Height())},
		{"Items Placed", fmt.Sprintf("%d", len(placements))},
		{"Occupied Cells", fmt.Sprintf("%d", g.OccupiedCells())},
		{"Fill", fmt.Sprintf("%.1f%%", g.FillRatio()*100)},
		{"Unplaced Items", fmt.Sprintf("%d", len(unplaced))},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Placements", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 70, 30, 40, 40, 30}
	headers := []string{"#", "Item", "ID", "Footprint", "Anchor", "Rotated"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	maxY := pageHeight - marginBottom - 6
	for i, p := range placements {
		if y > maxY {
			pdf.AddPage()
			y = marginTop
		}
		rotated := "no"
		if p.Item.Rotated() {
			rotated = "yes"
		}
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			p.Item.Name(),
			p.Item.ID(),
			fmt.Sprintf("%d x %d", p.Width, p.Height),
			fmt.Sprintf("(%d, %d)", p.X, p.Y),
			rotated,
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if len(unplaced) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Unplaced Items", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, it := range unplaced {
			if y > maxY {
				pdf.AddPage()
				y = marginTop
			}
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s: %d x %d cells", it.Name(), it.Width(), it.Height())
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by gridstash", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
