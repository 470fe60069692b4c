package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vabarbosa/simple-data-vis/pkg/vis"
)

func testDescriptors() []*vis.Descriptor {
	return []*vis.Descriptor{
		{Type: "timeline-chart", Description: "Events over time", Priority: 30},
		{Type: "bar-chart", Description: "Bars", Priority: 0},
		{Type: "table-vis", Description: "Plain table", Priority: -1},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestChartListModelStartsOnChosen(t *testing.T) {
	m := NewChartListModel(testDescriptors(), "bar-chart", 3)
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want the automatic choice at 1", m.Cursor)
	}
}

func TestChartListModelNavigation(t *testing.T) {
	var model tea.Model = NewChartListModel(testDescriptors(), "timeline-chart", 3)

	for _, k := range []string{"down", "down", "down", "up"} {
		model, _ = model.Update(key(k))
	}
	m := model.(ChartListModel)
	if m.Cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.Cursor)
	}

	model, cmd := m.Update(key("enter"))
	m = model.(ChartListModel)
	if m.Selected == nil || m.Selected.Type != "bar-chart" {
		t.Errorf("selected = %v, want bar-chart", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit the program")
	}
}

func TestChartListModelQuit(t *testing.T) {
	model, cmd := NewChartListModel(testDescriptors(), "", 3).Update(key("q"))
	if model.(ChartListModel).Selected != nil {
		t.Error("quitting should not select a type")
	}
	if cmd == nil {
		t.Error("q should quit the program")
	}
}

func TestChartListModelView(t *testing.T) {
	view := NewChartListModel(testDescriptors(), "bar-chart", 42).View()
	for _, want := range []string{"Select Chart Type", "42 records", "timeline-chart", "table-vis", "auto", "[2/3]"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestTypesTableListsAll(t *testing.T) {
	out := typesTable(vis.Default().All(), "", -1, 0, 0)
	for _, d := range vis.Default().All() {
		if !strings.Contains(out, d.Type) {
			t.Errorf("types table missing %s", d.Type)
		}
	}
	if strings.Contains(out, "▸") {
		t.Error("types table should not show a cursor")
	}
}
