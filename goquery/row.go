// Package goquery provides HTML parsing for listing rows.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ficha"
)

// Ensure RowParser implements ficha.RowParser at compile time.
var _ ficha.RowParser = (*RowParser)(nil)

// RowParser extracts listing metadata from a row's outer HTML. The
// cell-to-field mapping is positional; rows with fewer cells than
// known fields leave the trailing fields empty.
type RowParser struct{}

// NewRowParser creates a new RowParser.
func NewRowParser() *RowParser {
	return &RowParser{}
}

// Parse extracts the cell texts of a <tr> fragment into Metadata.
func (p *RowParser) Parse(html string) (*ficha.Metadata, error) {
	// The HTML5 parser foster-parents a bare <tr> out of existence, so
	// the fragment needs a table scaffold before parsing.
	wrapped := "<table><tbody>" + html + "</tbody></table>"
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(wrapped))
	if err != nil {
		return nil, ficha.Errorf(ficha.EINVALID, "failed to parse row HTML: %v", err)
	}

	meta := &ficha.Metadata{}
	doc.Find("td").Each(func(i int, sel *goquery.Selection) {
		meta.SetField(i, strings.TrimSpace(sel.Text()))
	})
	return meta, nil
}
