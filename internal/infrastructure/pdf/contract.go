// Package pdf renders contract farming agreements as PDF documents.
package pdf

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/ayam04/Contract-Farming/internal/core/domain"
)

const (
	fontFamily = "Helvetica"
	lineHeight = 6.0
	dateLayout = "January 2, 2006"
	signLine   = "__________________________"
)

var (
	purpose = "This agreement is entered into by the aforementioned parties for the purpose of " +
		"purchasing agricultural produce as described below."

	terms = []string{
		"1. The buyer agrees to purchase the crop as per the details mentioned above.",
		"2. The farmer guarantees that the crop will meet the agreed-upon quality standards and will be delivered at the specified location.",
		"3. Payment will be made upon delivery and verification of the crop.",
		"4. Any disputes arising from this agreement shall be resolved as per the applicable agricultural laws of the region.",
	}

	legalPreamble = "This agreement complies with the legal framework established for contract farming under " +
		"the applicable agricultural and trade laws. Both parties are advised to read and understand the terms before signing."

	legal = []string{
		"1. The buyer and farmer must adhere to all government regulations regarding the sale and purchase of agricultural produce.",
		"2. This document is a legally binding contract, and any violation of its terms may result in legal action.",
		"3. The farmer must ensure that the crop is free from pests, diseases, and harmful substances.",
		"4. The buyer must ensure timely payment as per the agreed terms.",
	}

	footer = "This agreement is generated electronically and does not require a physical seal."
)

// ContractRenderer lays out a single-document agreement with fpdf.
type ContractRenderer struct {
	// Compress deflates page content streams.
	Compress bool
}

func NewContractRenderer(compress bool) *ContractRenderer {
	return &ContractRenderer{Compress: compress}
}

func (r *ContractRenderer) ContentType() string { return "application/pdf" }

func (r *ContractRenderer) Extension() string { return ".pdf" }

// Render writes the agreement to w. Nothing is written when layout fails.
func (r *ContractRenderer) Render(w io.Writer, c domain.Contract) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(r.Compress)
	doc.SetTitle("Contract Farming Agreement", false)
	doc.SetCreator("contract-farming", false)
	if !c.GeneratedAt.IsZero() {
		doc.SetCreationDate(c.GeneratedAt)
	}
	doc.SetMargins(20, 20, 20)
	doc.SetAutoPageBreak(true, 20)
	doc.AddPage()

	tr := doc.UnicodeTranslatorFromDescriptor("")
	text := func(s string) {
		doc.MultiCell(0, lineHeight, tr(s), "", "L", false)
	}
	heading := func(s string) {
		doc.SetFont(fontFamily, "U", 14)
		doc.CellFormat(0, 8, tr(s), "", 1, "L", false, 0, "")
		doc.Ln(lineHeight)
		doc.SetFont(fontFamily, "", 12)
	}

	doc.SetFont(fontFamily, "U", 18)
	doc.CellFormat(0, 10, tr("Contract Farming Agreement"), "", 1, "C", false, 0, "")
	doc.Ln(2 * lineHeight)

	doc.SetFont(fontFamily, "", 12)
	doc.CellFormat(0, lineHeight, tr("Date: "+c.GeneratedAt.Format(dateLayout)), "", 1, "R", false, 0, "")
	doc.Ln(lineHeight)

	heading("PARTIES INVOLVED")
	text("Buyer: " + c.Buyer)
	text("Farmer: " + c.Farmer())
	text(purpose)
	doc.Ln(2 * lineHeight)

	heading("CROP DETAILS")
	for _, line := range cropLines(c.Crop) {
		text(line)
	}
	doc.Ln(2 * lineHeight)

	heading("TERMS AND CONDITIONS")
	for _, t := range terms {
		text(t)
	}
	doc.Ln(lineHeight)

	heading("LEGAL REQUIREMENTS")
	text(legalPreamble)
	for _, l := range legal {
		text(l)
	}
	doc.Ln(lineHeight)

	heading("SIGNATURES")
	signature := func(label string) {
		doc.CellFormat(60, lineHeight, tr(label), "", 0, "L", false, 0, "")
		doc.CellFormat(0, lineHeight, signLine, "", 1, "R", false, 0, "")
	}
	signature("Farmer Signature:")
	doc.Ln(3 * lineHeight)
	signature("Buyer Signature:")
	doc.Ln(2 * lineHeight)

	doc.SetFont(fontFamily, "", 10)
	doc.MultiCell(0, 5, tr(footer), "", "C", false)

	if doc.Err() {
		return fmt.Errorf("layout contract: %w", doc.Error())
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("write contract: %w", err)
	}
	return nil
}

func cropLines(crop domain.Crop) []string {
	lines := []string{
		"Crop Name: " + crop.Name,
		"Description: " + crop.Description,
		"Location: " + crop.Location,
		"Price: " + formatNumber(crop.Price) + " per kg",
	}
	if total, ok := crop.TotalPrice(); ok {
		return append(lines,
			"Total Quantity: "+formatNumber(crop.Quantity)+" kg",
			"Total Price: "+formatNumber(total)+" USD",
		)
	}
	return append(lines,
		"Total Quantity: not specified",
		"Total Price: not available",
	)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
