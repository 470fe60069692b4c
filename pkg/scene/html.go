package scene

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WriteHTML serializes the subtree rooted at n as HTML.
func WriteHTML(w io.Writer, n *Node) error {
	return html.Render(w, toHTML(n, ""))
}

// WriteDocument serializes the whole document with a doctype.
func WriteDocument(w io.Writer, d *Document) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(toHTML(d.root, ""))
	return html.Render(w, doc)
}

// writeForeign renders an HTML subtree inside an SVG foreignObject.
func writeForeign(w io.Writer, n *Node) error {
	h := toHTML(n, "")
	h.Attr = append([]html.Attribute{{Key: "xmlns", Val: "http://www.w3.org/1999/xhtml"}}, h.Attr...)
	return html.Render(w, h)
}

func toHTML(n *Node, ns string) *html.Node {
	if n.Tag == TextTag {
		return &html.Node{Type: html.TextNode, Data: n.text}
	}
	if n.Tag == "svg" {
		ns = "svg"
	}
	h := &html.Node{
		Type:      html.ElementNode,
		Data:      n.Tag,
		DataAtom:  atom.Lookup([]byte(n.Tag)),
		Namespace: ns,
	}
	for _, a := range n.attrs {
		h.Attr = append(h.Attr, html.Attribute{Key: a.Name, Val: a.Value})
	}
	if s := styleString(n); s != "" {
		h.Attr = append(h.Attr, html.Attribute{Key: "style", Val: s})
	}

	if n.text != "" {
		if n.html {
			ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
			nodes, err := html.ParseFragment(strings.NewReader(n.text), ctx)
			if err != nil {
				h.AppendChild(&html.Node{Type: html.TextNode, Data: n.text})
			}
			for _, c := range nodes {
				h.AppendChild(c)
			}
		} else {
			h.AppendChild(&html.Node{Type: html.TextNode, Data: n.text})
		}
	}
	for _, c := range n.children {
		if c.Removed() {
			continue
		}
		h.AppendChild(toHTML(c, ns))
	}
	return h
}

// ParseHTML reads an HTML page into a new Document. Whitespace-only text is
// dropped, text of elements without element children becomes the node text,
// and mixed content keeps text nodes.
func ParseHTML(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	var htmlNode *html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Html {
			htmlNode = c
			break
		}
	}
	if htmlNode == nil {
		return nil, fmt.Errorf("parse html: no html element")
	}

	d := &Document{}
	d.root = d.newNode("html")
	copyAttrs(d.root, htmlNode)
	fromHTML(d.root, htmlNode)
	d.stats = Stats{}
	return d, nil
}

func fromHTML(dst *Node, src *html.Node) {
	hasElements := false
	for c := src.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			hasElements = true
			break
		}
	}

	for c := src.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			child := dst.Append(c.Data)
			copyAttrs(child, c)
			fromHTML(child, c)
		case html.TextNode:
			if strings.TrimSpace(c.Data) == "" {
				continue
			}
			if hasElements {
				dst.AppendText(c.Data)
			} else {
				dst.text += c.Data
			}
		}
	}
}

func copyAttrs(dst *Node, src *html.Node) {
	for _, a := range src.Attr {
		if a.Key == "style" {
			for _, decl := range strings.Split(a.Val, ";") {
				name, value, ok := strings.Cut(decl, ":")
				if !ok {
					continue
				}
				dst.SetStyle(strings.TrimSpace(name), strings.TrimSpace(value))
			}
			continue
		}
		dst.attrs = append(dst.attrs, Attr{Name: a.Key, Value: a.Val})
	}
}
