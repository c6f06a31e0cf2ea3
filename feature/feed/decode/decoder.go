package decode

import (
	"encoding/xml"
	"fmt"
	"io"

	"catalog-sync/core/utils"

	"golang.org/x/net/html/charset"
)

// Element names of the feed layout: <root><Groups><Group><Articles><Article>.
const (
	elemGroups   = "Groups"
	elemGroup    = "Group"
	elemArticles = "Articles"
	elemArticle  = "Article"
	elemBarcodes = "Barcodes"
	elemBarcode  = "Barcode"
)

// Decoder turns a feed document into a lazy sequence of records.
//
// Only one Article subtree is materialized at a time. A group's code and
// description must precede its Articles; the header is sealed when Articles
// opens, so no record ever waits for data further down the document.
type Decoder struct {
	xd    *xml.Decoder
	path  []string
	group *groupState
	ready []Record

	sawGroups bool
	done      bool
	decoded   int
}

type groupState struct {
	code        string
	description string
	sealed      bool
}

// NewDecoder creates a decoder reading from r. Non UTF-8 encodings declared in
// the XML prolog are converted.
func NewDecoder(r io.Reader) *Decoder {
	xd := xml.NewDecoder(r)
	xd.CharsetReader = charset.NewReaderLabel
	return &Decoder{xd: xd}
}

// Decoded returns how many records have been handed out by Next.
func (d *Decoder) Decoded() int {
	return d.decoded
}

// Next returns the next record, io.EOF after the last one, or a *DecodeError.
func (d *Decoder) Next() (Record, error) {
	for len(d.ready) == 0 {
		if d.done {
			return Record{}, io.EOF
		}
		if err := d.step(); err != nil {
			d.done = true
			return Record{}, err
		}
	}

	rec := d.ready[0]
	d.ready = d.ready[1:]
	if len(d.ready) == 0 {
		d.ready = nil
	}
	d.decoded++
	return rec, nil
}

func (d *Decoder) step() error {
	tok, err := d.xd.Token()
	if err == io.EOF {
		if !d.sawGroups {
			return d.fail("missing Groups element", nil)
		}
		d.done = true
		return nil
	}
	if err != nil {
		return d.fail("malformed xml", err)
	}

	switch t := tok.(type) {
	case xml.StartElement:
		d.path = append(d.path, t.Name.Local)
		return d.start(t)
	case xml.EndElement:
		if d.atGroup() {
			d.group = nil
		}
		d.path = d.path[:len(d.path)-1]
	}
	return nil
}

func (d *Decoder) start(t xml.StartElement) error {
	depth := len(d.path)
	name := t.Name.Local

	switch {
	case depth == 2 && name == elemGroups:
		d.sawGroups = true

	case d.atGroup():
		d.group = &groupState{}
		for _, a := range t.Attr {
			d.setHeader(a.Name.Local, a.Value)
		}

	case d.group != nil && depth == 4 && name == elemArticles:
		d.group.sealed = true

	case d.group != nil && depth == 4 && (name == "code" || name == "description"):
		if d.group.sealed {
			return d.fail("group "+name+" after Articles", nil)
		}
		var text string
		if err := d.xd.DecodeElement(&text, &t); err != nil {
			return d.fail("malformed group header", err)
		}
		d.path = d.path[:depth-1]
		d.setHeader(name, text)

	case d.group != nil && depth == 5 && d.path[3] == elemArticles && name == elemArticle:
		var n node
		if err := d.xd.DecodeElement(&n, &t); err != nil {
			return d.fail("malformed article", err)
		}
		d.path = d.path[:depth-1]

		rec, err := toRecord(&n)
		if err != nil {
			return d.fail("invalid article", err)
		}
		rec.GroupCode = d.group.code
		rec.GroupDescription = d.group.description
		d.ready = append(d.ready, rec)
	}
	return nil
}

func (d *Decoder) atGroup() bool {
	return len(d.path) == 3 && d.path[1] == elemGroups && d.path[2] == elemGroup
}

func (d *Decoder) setHeader(name, value string) {
	switch name {
	case "code":
		d.group.code = utils.CollapseSpace(value)
	case "description":
		d.group.description = utils.CollapseSpace(value)
	}
}

func (d *Decoder) fail(msg string, err error) *DecodeError {
	line, _ := d.xd.InputPos()
	return &DecodeError{Line: line, Msg: msg, Err: err}
}

func toRecord(n *node) (Record, error) {
	rec := Record{
		Code:        n.field("code"),
		OldCode:     n.field("oldCode"),
		Description: n.field("description"),
		Disbarred:   n.field("disbarred"),
		Barcodes:    []Barcode{},
	}

	price, err := ParsePrice(n.field("price"))
	if err != nil {
		return Record{}, fmt.Errorf("article %s: %w", rec.Code, err)
	}
	rec.Price = price

	if list := n.child(elemBarcodes); list != nil {
		for _, b := range list.children(elemBarcode) {
			value := b.field("value")
			if value == "" {
				value = utils.CollapseSpace(b.Text)
			}
			if value == "" {
				continue
			}

			quantity := 1
			if raw := b.field("quantity"); raw != "" {
				q, err := utils.ToInt(raw)
				if err != nil {
					return Record{}, fmt.Errorf("article %s: invalid barcode quantity %q: %w", rec.Code, raw, err)
				}
				quantity = q
			}
			rec.Barcodes = append(rec.Barcodes, Barcode{Value: value, Quantity: quantity})
		}
	}

	return rec, nil
}
