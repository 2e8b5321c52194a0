package statsservice

import (
	"bytes"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	matchtypes "github.com/duelyard/fightcore/app/modules/match/domain/types"
	statstypes "github.com/duelyard/fightcore/app/modules/stats/domain/types"
)

// TimelinePNG renders the latest match's health-over-time chart into w. With
// no usable timeline it renders a placeholder frame instead of failing.
func (s *StatsService) TimelinePNG(w io.Writer) error {
	s.mu.Lock()
	var match *statstypes.MatchLog
	for i := len(s.log.Matches) - 1; i >= 0; i-- {
		if len(s.log.Matches[i].Timeline) > 0 {
			snapshot := s.log.Matches[i]
			snapshot.Timeline = append([]statstypes.HealthSample(nil), snapshot.Timeline...)
			match = &snapshot
			break
		}
	}
	s.mu.Unlock()

	png, err := renderTimeline(match)
	if err != nil {
		return err
	}
	_, err = w.Write(png)
	return err
}

// renderTimeline produces a PNG line chart with one series per slot.
func renderTimeline(match *statstypes.MatchLog) ([]byte, error) {
	series := timelineSeries(match)
	if len(series) == 0 {
		return renderNoDataPlaceholder()
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		XAxis: chart.XAxis{
			Name: "Seconds",
		},
		YAxis: chart.YAxis{
			Name: "Health",
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// timelineSeries builds per-slot line series. Slots with fewer than two
// samples cannot draw a line and are left out.
func timelineSeries(match *statstypes.MatchLog) []chart.Series {
	if match == nil {
		return nil
	}

	colors := map[matchtypes.SlotID]chart.Style{
		matchtypes.SlotPlayer1: {StrokeColor: chart.ColorBlue, StrokeWidth: 2},
		matchtypes.SlotPlayer2: {StrokeColor: chart.ColorRed, StrokeWidth: 2},
	}
	labels := map[matchtypes.SlotID]string{
		matchtypes.SlotPlayer1: "Player 1",
		matchtypes.SlotPlayer2: "Player 2",
	}

	var out []chart.Series
	for _, slot := range matchtypes.Slots() {
		var xs, ys []float64
		for _, sample := range match.Timeline {
			if sample.Slot != slot {
				continue
			}
			xs = append(xs, sample.Seconds)
			ys = append(ys, sample.Health)
		}
		if len(xs) < 2 {
			continue
		}
		out = append(out, chart.ContinuousSeries{
			Name:    labels[slot],
			XValues: xs,
			YValues: ys,
			Style:   colors[slot],
		})
	}
	return out
}

func renderNoDataPlaceholder() ([]byte, error) {
	const (
		width  = 400
		height = 200
		msg    = "No health timeline yet"
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		// Render refuses a chart with no series at all.
		Series: []chart.Series{chart.ContinuousSeries{
			XValues: []float64{0, 1},
			YValues: []float64{0, 1},
			Style:   chart.Hidden(),
		}},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
