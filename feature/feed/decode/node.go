package decode

import (
	"encoding/xml"

	"catalog-sync/core/utils"
)

// node is a generic element subtree. Feed fields may arrive either as attributes
// or as child elements, so lookups check both.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

func (n *node) field(name string) string {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return utils.CollapseSpace(a.Value)
		}
	}
	if c := n.child(name); c != nil {
		return utils.CollapseSpace(c.Text)
	}
	return ""
}

func (n *node) child(name string) *node {
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			return &n.Children[i]
		}
	}
	return nil
}

// children returns every direct child called name, so a single element and a
// repeated one both come back as a list.
func (n *node) children(name string) []*node {
	var out []*node
	for i := range n.Children {
		if n.Children[i].XMLName.Local == name {
			out = append(out, &n.Children[i])
		}
	}
	return out
}
