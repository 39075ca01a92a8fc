package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/projectile/internal/config"
	"github.com/san-kum/projectile/internal/sim"
	"github.com/san-kum/projectile/internal/tick"
	"github.com/san-kum/projectile/internal/world"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Frames: []sim.Frame{
			{Step: 1, Time: 0.1, Position: world.Vec{X: 200, Y: 400}, Launches: 1},
			{Step: 2, Time: 0.2, Position: world.Vec{X: 260, Y: 350}, Wind: world.Vec{X: 0.01}},
			{Step: 3, Time: 0.3, Position: world.Vec{X: 900, Y: 300}, Reset: true},
			{Step: 4, Time: 0.4, Position: world.Vec{X: 200, Y: 400}},
			{Step: 5, Time: 0.5, Position: world.Vec{X: 201, Y: 401}},
		},
		Metrics:    map[string]float64{"resets": 1},
		Errors:     []error{errors.New("step 2: bad input")},
		StepsTaken: 5,
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleResult().Frames); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if len(records) != 6 {
		t.Fatalf("expected header + 5 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != "step,time,x,y,vx,vy,wind,reset,launches" {
		t.Errorf("unexpected header %v", records[0])
	}
	if records[3][2] != "900.000000" || records[3][7] != "true" {
		t.Errorf("unexpected reset row %v", records[3])
	}
	if records[2][6] != "0.010000" {
		t.Errorf("unexpected wind column %v", records[2])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	meta := Meta{Preset: "lob", Config: config.DefaultConfig()}
	if err := WriteJSON(&buf, meta, sampleResult()); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Preset != "lob" || data.Width != 800 || data.Steps != 5 {
		t.Errorf("unexpected metadata %+v", data)
	}
	if len(data.Frames) != 5 || !data.Frames[2].Reset {
		t.Errorf("unexpected frames %+v", data.Frames)
	}
	if data.Params.Gravity != "earth" {
		t.Errorf("expected earth, got %s", data.Params.Gravity)
	}
	if len(data.Errors) != 1 {
		t.Errorf("expected 1 error, got %v", data.Errors)
	}
}

func TestTrajectorySVG(t *testing.T) {
	svg := TrajectorySVG(sampleResult().Frames, tick.Bounds{Width: 800, Height: 600}, "#00ff00")

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatal("not an svg document")
	}
	// the reset splits the path in two
	if n := strings.Count(svg, "<path"); n != 2 {
		t.Errorf("expected 2 paths, got %d", n)
	}
	if !strings.Contains(svg, `width="800" height="600"`) {
		t.Error("viewport size missing")
	}
	if !strings.Contains(svg, "M200.0,400.0 L260.0,350.0 L900.0,300.0") {
		t.Error("first segment missing")
	}
	if !strings.Contains(svg, `<rect x="0" y="520.0" width="800" height="80.0"`) {
		t.Error("ground slab should start at the ground top")
	}
}

func TestTrajectorySVGEmpty(t *testing.T) {
	svg := TrajectorySVG(nil, tick.Bounds{Width: 800, Height: 600}, "#fff")
	if strings.Contains(svg, "<path") {
		t.Error("expected no path for empty trajectory")
	}
}
