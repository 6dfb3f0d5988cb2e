package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/astroplot/pkg/colormap"
	"github.com/matzehuels/astroplot/pkg/nodal"
	"github.com/matzehuels/astroplot/pkg/render"
	"github.com/matzehuels/astroplot/pkg/sphere"
)

func testModel(t *testing.T, showNodal bool) SphereModel {
	t.Helper()
	cmap, err := colormap.New(colormap.Diverging, -1, 1)
	if err != nil {
		t.Fatal(err)
	}
	anim := render.Animation{
		Mesh:   sphere.NewMesh(2, 0, 21, 21),
		Camera: sphere.DefaultCamera(),
		Colour: cmap,
		Frames: 4,
		Period: time.Second,
	}
	return newSphereModel(anim, nodal.Find(2, 0), showNodal)
}

func TestSphereModelTick(t *testing.T) {
	m := testModel(t, false)
	if m.Interval != 250*time.Millisecond {
		t.Errorf("Interval = %v, want 250ms", m.Interval)
	}

	for want := 1; want <= 4; want++ {
		next, cmd := m.Update(tickMsg(time.Now()))
		m = next.(SphereModel)
		if cmd == nil {
			t.Fatal("tick should schedule the next tick")
		}
		if m.Frame != want%4 {
			t.Errorf("after %d ticks Frame = %d, want %d", want, m.Frame, want%4)
		}
	}
}

func TestSphereModelPause(t *testing.T) {
	m := testModel(t, false)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(SphereModel)
	if !m.Paused {
		t.Fatal("space should pause")
	}
	next, _ = m.Update(tickMsg(time.Now()))
	if next.(SphereModel).Frame != 0 {
		t.Error("paused model should not advance")
	}
	if !strings.Contains(m.View(), "paused") {
		t.Error("view should show the paused state")
	}
}

func TestSphereModelKeys(t *testing.T) {
	m := testModel(t, false)
	az, el := m.Grid.Camera.Azimuth, m.Grid.Camera.Elevation

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(SphereModel)
	if m.Grid.Camera.Azimuth != az+azimuthStep {
		t.Errorf("azimuth = %v, want %v", m.Grid.Camera.Azimuth, az+azimuthStep)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(SphereModel)
	if m.Grid.Camera.Elevation != el-elevationStep {
		t.Errorf("elevation = %v, want %v", m.Grid.Camera.Elevation, el-elevationStep)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}

func TestSphereModelWindowSize(t *testing.T) {
	m := testModel(t, false)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 34})
	m = next.(SphereModel)
	if m.Grid.Rows != 30 || m.Grid.Cols != 60 {
		t.Errorf("grid = %dx%d, want 60x30", m.Grid.Cols, m.Grid.Rows)
	}
}

func TestSphereModelView(t *testing.T) {
	m := testModel(t, true)
	view := m.View()
	if !strings.Contains(view, "Y_2^0") {
		t.Error("view should name the mode")
	}
	if !strings.Contains(render.ASCII(render.Cells(m.Grid)), "o") {
		t.Error("grid should mark nodal lines")
	}
	if !strings.Contains(view, "frame 1/4") {
		t.Errorf("view should show the frame counter:\n%s", view)
	}
}

func TestSphereModelHidesNodalLines(t *testing.T) {
	m := testModel(t, false)
	if len(m.Grid.Lines.Latitudes) != 0 || len(m.Grid.Lines.Meridians) != 0 {
		t.Error("nodal lines should be dropped when not shown")
	}
}

func TestSphereModelHelp(t *testing.T) {
	m := testModel(t, false)
	view := m.View()
	for _, want := range []string{"azimuth", "elevation", "pause", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing help entry %q", want)
		}
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should return tea.Quit")
	}
}
