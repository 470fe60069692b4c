package scene

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(keys ...string) []Item {
	out := make([]Item, len(keys))
	for i, k := range keys {
		out[i] = Item{Key: k, Datum: k}
	}
	return out
}

func TestJoinEnterUpdateExit(t *testing.T) {
	c := NewContainer(100, 100)
	svg := c.Append("svg")

	first := Join(svg, "rect.bar", items("a", "b", "c"))
	assert.Len(t, first.Enter, 3)
	assert.Empty(t, first.Update)
	assert.Empty(t, first.Exit)
	for _, n := range first.Nodes() {
		assert.True(t, n.Classed("bar"))
		assert.Equal(t, "rect", n.Tag)
	}

	second := Join(svg, "rect.bar", items("b", "c", "d"))
	assert.Len(t, second.Enter, 1)
	assert.Len(t, second.Update, 2)
	require.Len(t, second.Exit, 1)
	assert.Equal(t, "a", second.Exit[0].Key())
	assert.True(t, second.Exit[0].Exiting())

	// Exiting nodes are ignored by later joins.
	third := Join(svg, "rect.bar", items("b", "c", "d"))
	assert.Empty(t, third.Enter)
	assert.Empty(t, third.Exit)
	assert.Len(t, third.Update, 3)
}

func TestJoinDocumentOrderFollowsData(t *testing.T) {
	c := NewContainer(0, 0)
	Join(c, "p", items("b", "d"))
	Join(c, "p", items("a", "b", "c", "d"))

	var keys []string
	for _, n := range c.Children() {
		keys = append(keys, n.Key())
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, keys)
}

func TestJoinIdenticalDataIsUpdateOnly(t *testing.T) {
	c := NewContainer(0, 0)
	Join(c, "rect", items("x", "y"))
	c.Document().ResetStats()

	Join(c, "rect", items("x", "y"))
	stats := c.Document().Stats()
	assert.Equal(t, 0, stats.Entered)
	assert.Equal(t, 0, stats.Exited)
	assert.Equal(t, 2, stats.Updated)
}

func TestJoinByIndexWhenUnkeyed(t *testing.T) {
	c := NewContainer(0, 0)
	Join(c, "li", []Item{{Datum: 1}, {Datum: 2}})
	s := Join(c, "li", []Item{{Datum: 3}})
	assert.Len(t, s.Update, 1)
	assert.Len(t, s.Exit, 1)
	assert.Equal(t, 3, s.Update[0].Datum())
}

func TestJoinOne(t *testing.T) {
	c := NewContainer(0, 0)
	n, entered := JoinOne(c, "svg", "root", nil)
	assert.True(t, entered)
	m, entered := JoinOne(c, "svg", "root", nil)
	assert.False(t, entered)
	assert.Same(t, n, m)
}

func TestTransitionAppliesOnFlush(t *testing.T) {
	c := NewContainer(0, 0)
	r := c.Append("rect").SetAttr("width", 0)

	ended := 0
	r.Transition().Attr("width", 40.5).Style("opacity", 1).OnEnd(func(*Node) { ended++ })
	assert.Equal(t, "0", r.Attr("width"))
	assert.Equal(t, 1, c.Document().Pending())

	ran := c.Document().Flush()
	assert.Equal(t, 1, ran)
	assert.Equal(t, "40.5", r.Attr("width"))
	assert.Equal(t, "1", r.Style("opacity"))
	assert.Equal(t, 1, ended)
}

func TestTransitionInterruptDropsOldChanges(t *testing.T) {
	c := NewContainer(0, 0)
	r := c.Append("circle")

	oldEnded := false
	old := r.Transition().Attr("r", 10).OnEnd(func(*Node) { oldEnded = true })
	r.Transition().Attr("opacity", 0.5)
	c.Document().Flush()

	assert.True(t, old.Interrupted())
	assert.False(t, oldEnded)
	assert.Equal(t, "", r.Attr("r"))
	assert.Equal(t, "0.5", r.Attr("opacity"))
}

func TestFlushRunsCascadedTransitions(t *testing.T) {
	c := NewContainer(0, 0)
	a := c.Append("g")
	b := c.Append("g")

	a.Transition().Remove().OnEnd(func(*Node) {
		b.Transition().Attr("done", "yes")
	})
	assert.Equal(t, 2, c.Document().Flush())
	assert.True(t, a.Removed())
	assert.Equal(t, "yes", b.Attr("done"))
}

func TestDispatchBubbles(t *testing.T) {
	c := NewContainer(0, 0)
	g := c.Append("g")
	r := g.Append("rect")

	var seen []string
	c.On("click", func(n *Node, e *Event) { seen = append(seen, "container") })
	g.On("click", func(n *Node, e *Event) { seen = append(seen, "group") })
	r.On("click", func(n *Node, e *Event) {
		seen = append(seen, "rect")
		assert.Same(t, r, e.Target)
	})

	r.Dispatch("click", 1, 2)
	assert.Equal(t, []string{"rect", "group", "container"}, seen)

	seen = nil
	r.On("click", func(n *Node, e *Event) { e.StopPropagation() })
	ev := r.Dispatch("click", 0, 0)
	assert.True(t, ev.Stopped())
	assert.Empty(t, seen)
}

func TestSelectors(t *testing.T) {
	c := NewContainer(0, 0)
	svg := c.Append("svg").SetClassed("simpledatavis bar-chart", true)
	g := svg.Append("g").SetAttr("id", "axis")
	g.Append("text").SetClassed("barkey", true)
	svg.Append("rect").SetClassed("bar", true).SetAttr("data-key", "a")

	assert.Same(t, svg, c.Select(".simpledatavis"))
	assert.Same(t, svg, c.Select("svg.bar-chart"))
	assert.Nil(t, c.Select("svg.pie-chart"))
	assert.Len(t, c.SelectAll("svg text"), 1)
	assert.Len(t, c.SelectAll("#axis text.barkey"), 1)
	assert.Len(t, c.SelectAll("[data-key=a]"), 1)
	assert.Len(t, c.SelectAll("[data-key^=b]"), 0)
	assert.Len(t, c.SelectAll("*"), 4)
}

func TestClassedAndStyles(t *testing.T) {
	n := NewContainer(0, 0).Append("rect")
	n.SetClassed("a b", true)
	n.SetClassed("a", false)
	assert.Equal(t, []string{"b"}, n.Classes())

	n.SetStyle("fill", "#fff")
	n.SetStyle("fill", nil)
	assert.Empty(t, n.Styles())

	n.SetAttr("x", -0.0001)
	assert.Equal(t, "0", n.Attr("x"))
}

func TestBox(t *testing.T) {
	c := NewContainer(320, 240)
	w, h := c.Box()
	assert.Equal(t, 320.0, w)
	assert.Equal(t, 240.0, h)

	svg := c.Append("svg").SetAttr("width", 50).SetAttr("height", "60px")
	w, h = svg.Box()
	assert.Equal(t, 50.0, w)
	assert.Equal(t, 60.0, h)
}

func TestWriteSVG(t *testing.T) {
	c := NewContainer(0, 0)
	svg := c.Append("svg").SetAttr("width", 200).SetAttr("height", 100)
	g := svg.Append("g").SetAttr("transform", "translate(10,0)")
	g.Append("rect").SetAttr("x", 1).SetAttr("y", 2).SetAttr("width", 30.4).SetAttr("height", 10).
		SetStyle("fill", "#1f77b4").SetAttr("data-tooltip", `a "b" & c`)
	g.Append("text").SetAttr("x", 5).SetAttr("y", 6).SetText("<label>")
	removed := g.Append("circle")
	removed.Remove()

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, svg, WithTitle("chart"), WithTooltips()))
	out := buf.String()

	assert.Contains(t, out, `width="200"`)
	assert.Contains(t, out, `<rect x="1" y="2" width="30" height="10"`)
	assert.Contains(t, out, `style="fill:#1f77b4"`)
	assert.Contains(t, out, `data-tooltip="a &quot;b&quot; &amp; c"`)
	assert.Contains(t, out, "&lt;label&gt;")
	assert.Contains(t, out, "<title>chart</title>")
	assert.Contains(t, out, "<script>")
	assert.NotContains(t, out, "<circle")
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</svg>"))
}

func TestWriteSVGWrapsHTML(t *testing.T) {
	c := NewContainer(300, 200)
	table := c.Append("table")
	table.Append("tr").Append("td").SetText("cell")

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, c))
	out := buf.String()
	assert.Contains(t, out, "<foreignObject")
	assert.Contains(t, out, `xmlns="http://www.w3.org/1999/xhtml"`)
	assert.Contains(t, out, "<td>cell</td>")
}

func TestParseAndWriteHTML(t *testing.T) {
	page := `<!DOCTYPE html><html><head><title>t</title></head><body>
<div id="chart" data-vis="data.json" data-vis-type="bar-chart" style="width: 400px; height: 300px"></div>
<p>Some <b>bold</b> text</p>
</body></html>`
	doc, err := ParseHTML(strings.NewReader(page))
	require.NoError(t, err)

	chart := doc.ElementByID("chart")
	require.NotNil(t, chart)
	assert.Equal(t, "data.json", chart.Attr("data-vis"))
	w, h := chart.Box()
	assert.Equal(t, 400.0, w)
	assert.Equal(t, 300.0, h)

	chart.Append("svg").Append("rect").SetAttr("width", 5)

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, doc))
	out := buf.String()
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, `data-vis-type="bar-chart"`)
	assert.Contains(t, out, `<rect width="5">`)
	assert.Contains(t, out, "<p>Some <b>bold</b> text</p>")
	assert.Equal(t, "t", doc.Head().Select("title").Text())
}

func TestSetHTMLRendersMarkup(t *testing.T) {
	c := NewContainer(0, 0)
	c.Append("td").SetHTML(`<a href="x">link</a>`)

	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, c))
	assert.Contains(t, buf.String(), `<td><a href="x">link</a></td>`)
}

func TestSequenceNumbersOrderOperations(t *testing.T) {
	c := NewContainer(0, 0)
	a := c.Append("g")
	a.Remove()
	b := c.Append("g")
	assert.Less(t, a.Seq(), a.RemovedSeq())
	assert.Less(t, a.RemovedSeq(), b.Seq())
}
