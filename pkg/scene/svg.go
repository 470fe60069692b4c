package scene

import (
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
)

const tooltipCSS = `
    .simpledatavis-tip { pointer-events: none; font: 12px sans-serif; }
    .simpledatavis-tip rect { fill: #fff; stroke: #264a60; stroke-width: 1; opacity: 0.9; }
    .simpledatavis-tip text { fill: #264a60; }`

const tooltipJS = `
    (function () {
      var svg = document.currentScript.ownerSVGElement || document.querySelector('svg');
      var ns = 'http://www.w3.org/2000/svg';
      var tip = document.createElementNS(ns, 'g');
      tip.setAttribute('class', 'simpledatavis-tip');
      tip.style.display = 'none';
      var box = document.createElementNS(ns, 'rect');
      var label = document.createElementNS(ns, 'text');
      tip.appendChild(box); tip.appendChild(label); svg.appendChild(tip);
      svg.querySelectorAll('[data-tooltip]').forEach(function (el) {
        el.addEventListener('mousemove', function (e) {
          var pt = svg.createSVGPoint(); pt.x = e.clientX; pt.y = e.clientY;
          var p = pt.matrixTransform(svg.getScreenCTM().inverse());
          label.textContent = el.getAttribute('data-tooltip');
          label.setAttribute('x', p.x + 14); label.setAttribute('y', p.y - 6);
          var b = label.getBBox();
          box.setAttribute('x', b.x - 4); box.setAttribute('y', b.y - 2);
          box.setAttribute('width', b.width + 8); box.setAttribute('height', b.height + 4);
          tip.style.display = null;
        });
        el.addEventListener('mouseout', function () { tip.style.display = 'none'; });
      });
    })();`

// SVGOption configures WriteSVG.
type SVGOption func(*svgWriter)

type svgWriter struct {
	width, height float64
	title         string
	background    string
	tooltips      bool
	css           string
}

// WithSize overrides the canvas size of the outer svg element.
func WithSize(width, height float64) SVGOption {
	return func(w *svgWriter) { w.width, w.height = width, height }
}

// WithTitle adds a title element.
func WithTitle(title string) SVGOption { return func(w *svgWriter) { w.title = title } }

// WithBackground paints a full-size background rectangle.
func WithBackground(color string) SVGOption { return func(w *svgWriter) { w.background = color } }

// WithTooltips embeds a script that shows data-tooltip attributes on hover.
func WithTooltips() SVGOption { return func(w *svgWriter) { w.tooltips = true } }

// WithCSS embeds a style sheet.
func WithCSS(css string) SVGOption { return func(w *svgWriter) { w.css = css } }

// WriteSVG serializes the tree rooted at root as a standalone SVG document.
// A root that is not an svg element is wrapped in a foreignObject.
func WriteSVG(out io.Writer, root *Node, opts ...SVGOption) error {
	if root == nil {
		return fmt.Errorf("scene: nil root")
	}
	w := &svgWriter{}
	w.width, w.height = root.Box()
	for _, opt := range opts {
		opt(w)
	}
	if w.width <= 0 {
		w.width = 600
	}
	if w.height <= 0 {
		w.height = 400
	}

	ew := &errWriter{w: out}
	canvas := svg.New(ew)

	var extra []string
	if root.Tag == "svg" {
		extra = attrStrings(root, "width", "height")
	}
	canvas.Start(round(w.width), round(w.height), extra...)
	if w.title != "" {
		canvas.Title(w.title)
	}
	if w.css != "" || w.tooltips {
		fmt.Fprintf(ew, "<style>%s%s\n</style>\n", w.css, condCSS(w.tooltips))
	}
	if w.background != "" {
		canvas.Rect(0, 0, round(w.width), round(w.height), "fill:"+w.background)
	}

	if root.Tag == "svg" {
		for _, c := range root.children {
			writeSVGNode(canvas, c)
		}
	} else {
		fmt.Fprintf(ew, `<foreignObject x="0" y="0" width="%d" height="%d">`, round(w.width), round(w.height))
		if err := writeForeign(ew, root); err != nil {
			return err
		}
		fmt.Fprintln(ew, "</foreignObject>")
	}

	if w.tooltips {
		fmt.Fprintf(ew, "<script><![CDATA[%s\n]]></script>\n", tooltipJS)
	}
	canvas.End()
	return ew.err
}

func condCSS(on bool) string {
	if on {
		return tooltipCSS
	}
	return ""
}

func writeSVGNode(canvas *svg.SVG, n *Node) {
	if n.Removed() {
		return
	}
	leaf := len(n.children) == 0

	switch {
	case n.Tag == "g":
		canvas.Group(attrStrings(n)...)
		for _, c := range n.children {
			writeSVGNode(canvas, c)
		}
		canvas.Gend()
	case n.Tag == "rect" && leaf:
		canvas.Rect(coord(n, "x"), coord(n, "y"), coord(n, "width"), coord(n, "height"),
			attrStrings(n, "x", "y", "width", "height")...)
	case n.Tag == "circle" && leaf:
		canvas.Circle(coord(n, "cx"), coord(n, "cy"), coord(n, "r"), attrStrings(n, "cx", "cy", "r")...)
	case n.Tag == "line" && leaf:
		canvas.Line(coord(n, "x1"), coord(n, "y1"), coord(n, "x2"), coord(n, "y2"),
			attrStrings(n, "x1", "y1", "x2", "y2")...)
	case n.Tag == "path" && leaf:
		canvas.Path(n.Attr("d"), attrStrings(n, "d")...)
	case n.Tag == "text" && leaf:
		canvas.Text(coord(n, "x"), coord(n, "y"), n.text, attrStrings(n, "x", "y")...)
	default:
		writeRaw(canvas.Writer, n)
	}
}

// writeRaw writes any element verbatim with escaped attributes and text.
func writeRaw(w io.Writer, n *Node) {
	if n.Tag == TextTag {
		_ = xml.EscapeText(w, []byte(n.text))
		return
	}
	fmt.Fprintf(w, "<%s", n.Tag)
	for _, a := range n.attrs {
		fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeAttr(a.Value))
	}
	if s := styleString(n); s != "" {
		fmt.Fprintf(w, ` style="%s"`, escapeAttr(s))
	}
	if len(n.children) == 0 && n.text == "" {
		fmt.Fprint(w, "/>\n")
		return
	}
	fmt.Fprint(w, ">")
	if n.html {
		fmt.Fprint(w, n.text)
	} else {
		_ = xml.EscapeText(w, []byte(n.text))
	}
	for _, c := range n.children {
		if c.Removed() {
			continue
		}
		if c.Tag == "svg" || c.Tag == "g" || c.Tag == "rect" || c.Tag == "circle" ||
			c.Tag == "path" || c.Tag == "line" || c.Tag == "text" {
			writeSVGNode(svg.New(w), c)
			continue
		}
		writeRaw(w, c)
	}
	fmt.Fprintf(w, "</%s>\n", n.Tag)
}

// attrStrings renders attributes in svgo's name="value" form, skipping the
// named geometry attributes, followed by the style declaration.
func attrStrings(n *Node, skip ...string) []string {
	var out []string
outer:
	for _, a := range n.attrs {
		for _, s := range skip {
			if a.Name == s {
				continue outer
			}
		}
		out = append(out, fmt.Sprintf(`%s="%s"`, a.Name, escapeAttr(a.Value)))
	}
	if s := styleString(n); s != "" {
		out = append(out, fmt.Sprintf(`style="%s"`, escapeAttr(s)))
	}
	return out
}

func styleString(n *Node) string {
	parts := make([]string, 0, len(n.styles))
	for _, s := range n.styles {
		parts = append(parts, s.Name+":"+s.Value)
	}
	return strings.Join(parts, ";")
}

func coord(n *Node, name string) int {
	return round(n.AttrFloat(name))
}

func round(f float64) int {
	return int(math.Round(f))
}

var attrEscaper = strings.NewReplacer(`&`, "&amp;", `"`, "&quot;", `<`, "&lt;", `>`, "&gt;")

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// errWriter keeps the first write error so serialization can report it
// after svgo, which ignores errors, has finished.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, nil
}
