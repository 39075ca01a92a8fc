package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/projectile/internal/config"
	"github.com/san-kum/projectile/internal/sim"
)

// Meta describes the run a report belongs to.
type Meta struct {
	Preset string
	Config *config.Config
}

type ExportData struct {
	Preset  string             `json:"preset,omitempty"`
	Width   float64            `json:"width"`
	Height  float64            `json:"height"`
	Dt      float64            `json:"dt"`
	Params  config.Params      `json:"params"`
	Steps   int                `json:"steps"`
	Frames  []FrameData        `json:"frames"`
	Metrics map[string]float64 `json:"metrics"`
	Errors  []string           `json:"errors,omitempty"`
}

type FrameData struct {
	Step     int        `json:"step"`
	Time     float64    `json:"time"`
	Position [2]float64 `json:"position"`
	Velocity [2]float64 `json:"velocity"`
	Wind     float64    `json:"wind"`
	Reset    bool       `json:"reset,omitempty"`
	Launches int        `json:"launches,omitempty"`
}

func WriteJSON(w io.Writer, meta Meta, result *sim.Result) error {
	data := ExportData{
		Preset:  meta.Preset,
		Width:   meta.Config.World.Width,
		Height:  meta.Config.World.Height,
		Dt:      meta.Config.Engine.Dt,
		Params:  meta.Config.Params,
		Steps:   result.StepsTaken,
		Frames:  make([]FrameData, len(result.Frames)),
		Metrics: result.Metrics,
	}

	for i, f := range result.Frames {
		data.Frames[i] = FrameData{
			Step:     f.Step,
			Time:     f.Time,
			Position: [2]float64{f.Position.X, f.Position.Y},
			Velocity: [2]float64{f.Velocity.X, f.Velocity.Y},
			Wind:     f.Wind.X,
			Reset:    f.Reset,
			Launches: f.Launches,
		}
	}
	for _, err := range result.Errors {
		data.Errors = append(data.Errors, err.Error())
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
