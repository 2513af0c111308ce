package skips

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"
)

// QuoteReference is the barcode value printed on a skip quote.
func QuoteReference(skipID int64) string {
	return fmt.Sprintf("S%08d", skipID)
}

func renderQuotePDF(skip SkipViewModel, loc string, printedAt time.Time) ([]byte, string, error) {
	ref := QuoteReference(skip.ID)
	barcodePNG, err := renderCode128PNG(ref, 1200, 260)
	if err != nil {
		return nil, "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Skip Quote "+ref, false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 28)
	pdf.CellFormat(0, 16, tr(skip.SizeLabel+" Skip"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.CellFormat(0, 8, tr(skip.Period), "", 1, "C", false, 0, "")
	if loc != "" {
		pdf.CellFormat(0, 8, tr("Location: "+loc), "", 1, "C", false, 0, "")
	}
	pdf.Ln(6)

	rows := [][2]string{}
	if skip.HasTransportPricing {
		rows = append(rows,
			[2]string{"Transport", skip.TransportLabel()},
			[2]string{"Disposal", "+ " + skip.PerTonneLabel()},
		)
	} else {
		rows = append(rows,
			[2]string{"Price before VAT", skip.PriceBeforeVAT},
			[2]string{fmt.Sprintf("VAT (%s%%)", skip.VATRate.String()), skip.VATAmount},
			[2]string{"Total", skip.Price},
		)
	}
	rows = append(rows,
		[2]string{"Capacity", "approx. " + skip.Capacity.BinBags + " bin bags"},
		[2]string{"Suitable for", skip.Capacity.Description},
		[2]string{"Road legal", yesNo(skip.RoadLegal)},
		[2]string{"Heavy waste", yesNo(skip.HeavyWasteSuitable)},
	)

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	labelW := 70.0
	valueW := pageW - left - right - labelW
	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(labelW, 10, tr(row[0]), "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 13)
		pdf.CellFormat(valueW, 10, tr(row[1]), "1", 1, "R", false, 0, "")
	}

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	imageName := "quote-barcode-" + ref
	pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
	imgW := 140.0
	imgH := 32.0
	y := pdf.GetY() + 12
	pdf.ImageOptions(imageName, (pageW-imgW)/2, y, imgW, imgH, false, opt, 0, "")

	pdf.SetY(y + imgH + 4)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, ref, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Printed: "+printedAt.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Next step: "+nextStepLabel(), "", 1, "C", false, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, "", err
	}
	return out.Bytes(), ref, nil
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	normalized := toNRGBA(scaled)
	var barcodePNG bytes.Buffer
	if err := png.Encode(&barcodePNG, normalized); err != nil {
		return nil, err
	}
	return barcodePNG.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
