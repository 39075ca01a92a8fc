package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/san-kum/projectile/internal/sim"
)

var csvHeader = []string{"step", "time", "x", "y", "vx", "vy", "wind", "reset", "launches"}

// WriteCSV writes one row per frame.
func WriteCSV(w io.Writer, frames []sim.Frame) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Step),
			formatFloat(f.Time),
			formatFloat(f.Position.X),
			formatFloat(f.Position.Y),
			formatFloat(f.Velocity.X),
			formatFloat(f.Velocity.Y),
			formatFloat(f.Wind.X),
			strconv.FormatBool(f.Reset),
			strconv.Itoa(f.Launches),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
