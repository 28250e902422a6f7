package printimage

import (
	"bytes"
	"fmt"
	"image"
	"time"

	"codeberg.org/go-pdf/fpdf"
)

// pdfDate is stamped as creation and modification date so output is
// reproducible.
var pdfDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

const producer = "go-mdexport"

// Page is one assembled PDF page: a JPEG frame and the page height it sits on.
type Page struct {
	JPEG     []byte
	HeightMM float64 // image height on the page
	PageMM   float64 // page height
}

// buildPages encodes every frame of img. In single-page mode each page is
// exactly as tall as its frame; otherwise pages are A4 and frames sit at the
// top of the page.
func buildPages(img image.Image, frames []Frame, singlePage bool) ([]Page, error) {
	width := img.Bounds().Dx()
	pages := make([]Page, 0, len(frames))
	for i, f := range frames {
		data, err := encodeFrame(img, f)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i+1, err)
		}
		h := pxToMM(f.Height(), width)
		pageH := PageHeightMM
		if singlePage {
			pageH = h
		}
		pages = append(pages, Page{JPEG: data, HeightMM: h, PageMM: pageH})
	}
	return pages, nil
}

// Assemble writes pages into a PDF with zero margins.
func Assemble(pages []Page, title string) ([]byte, error) {
	if len(pages) == 0 {
		return nil, ErrNoContent
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: PageWidthMM, Ht: PageHeightMM},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(true)
	pdf.SetProducer(producer, true)
	pdf.SetCreationDate(pdfDate)
	pdf.SetModificationDate(pdfDate)
	pdf.SetCatalogSort(true)
	if title != "" {
		pdf.SetTitle(title, true)
	}

	opts := fpdf.ImageOptions{ImageType: "JPG"}
	for i, p := range pages {
		name := fmt.Sprintf("frame-%d", i+1)
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: PageWidthMM, Ht: p.PageMM})
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(p.JPEG))
		pdf.ImageOptions(name, 0, 0, PageWidthMM, p.HeightMM, false, opts, 0, "")
		if pdf.Err() {
			return nil, fmt.Errorf("%w: page %d: %w", ErrAssemble, i+1, pdf.Error())
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssemble, err)
	}
	return buf.Bytes(), nil
}
