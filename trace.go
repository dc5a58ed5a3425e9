package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"

	"tidewater/internal/actors"
	"tidewater/internal/engine"
	"tidewater/internal/tide"
)

var (
	traceTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	traceInfoStyle  = lipgloss.NewStyle().Faint(true)
	traceTimeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	traceErrStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	stateStyles     = map[tide.State]lipgloss.Style{
		tide.Dry:     lipgloss.NewStyle().Foreground(lipgloss.Color("180")),
		tide.Rising:  lipgloss.NewStyle().Foreground(lipgloss.Color("51")).Bold(true),
		tide.Flooded: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		tide.Falling: lipgloss.NewStyle().Foreground(lipgloss.Color("111")),
	}
)

// traceTimeScale stretches simulated seconds for the chart, whose time axis
// has one second resolution.
const traceTimeScale = time.Minute

type traceSample struct {
	At       float64
	Height   float64
	State    tide.State
	Progress float64
	Bodies   castStep
}

// trace is the record of a headless run.
type trace struct {
	Probe    mgl64.Vec2
	Deformer string
	Samples  []traceSample
	Events   []tide.Event
	Rounds   []actors.Round
	Drops    []float64 // times the rider let go
	Failures int
	Waves    int
}

func probePoint(x, z float64) mgl64.Vec2 { return mgl64.Vec2{x, z} }

// runTrace ticks e at tickRate for d of simulated time, sampling the height
// at probe and running the actors after every tick.
func runTrace(e *engine.Engine, d time.Duration, probe mgl64.Vec2, tickRate int) trace {
	tr := trace{Probe: probe, Deformer: e.Surface().Deformer().Name()}
	bodies := newCast(e, probe)
	if tickRate < 1 {
		tickRate = traceTickRate
	}
	dt := 1 / float64(tickRate)
	ticks := int(d.Seconds()*float64(tickRate) + 0.5)
	tr.Samples = make([]traceSample, 0, ticks)
	for i := 0; i < ticks; i++ {
		events, err := e.Tick(dt)
		if err != nil {
			tr.Failures++
		}
		tr.Events = append(tr.Events, events...)
		step := bodies.step(e, dt, events)
		tr.Rounds = append(tr.Rounds, step.Rounds...)
		if step.Dropped {
			tr.Drops = append(tr.Drops, e.Time())
		}
		tr.Samples = append(tr.Samples, traceSample{
			At:       e.Time(),
			Height:   e.HeightAt(probe),
			State:    e.State(),
			Progress: e.Progress(),
			Bodies:   step,
		})
	}
	tr.Waves = e.Waves()
	return tr
}

// renderTrace writes the transition log and a height chart.
func renderTrace(w io.Writer, tr trace) error {
	parts := []string{
		traceTitleStyle.Render("Tidewater trace"),
		traceInfoStyle.Render(fmt.Sprintf("probe (%.1f, %.1f)  deformer %s  %d ticks  %d waves",
			tr.Probe.X(), tr.Probe.Y(), tr.Deformer, len(tr.Samples), tr.Waves)),
		"",
	}
	if len(tr.Events) == 0 {
		parts = append(parts, traceInfoStyle.Render("No tide transitions"))
	}
	for _, ev := range tr.Events {
		line := traceTimeStyle.Render(fmt.Sprintf("%7.2fs ", ev.At)) +
			stateStyles[ev.From].Render(ev.From.String()) + " -> " +
			stateStyles[ev.To].Render(ev.To.String())
		if ev.NewWave() {
			line += traceInfoStyle.Render(fmt.Sprintf("  wave %d", ev.Cycle))
		}
		parts = append(parts, line)
	}
	if len(tr.Rounds) > 0 {
		parts = append(parts, "", traceTitleStyle.Render("Spawn rounds"))
	}
	for _, r := range tr.Rounds {
		parts = append(parts, traceTimeStyle.Render(fmt.Sprintf("%7.2fs ", r.At))+
			fmt.Sprintf("wave %d  %s  spawned %d  deferred %d", r.Wave, r.ID, len(r.Spawned), r.Deferred))
	}
	for _, at := range tr.Drops {
		parts = append(parts, traceTimeStyle.Render(fmt.Sprintf("%7.2fs ", at))+"rider dropped at probe")
	}
	if body := bodyLog(tr.Samples); len(body) > 0 {
		parts = append(parts, "", traceTitleStyle.Render("Bodies at probe"))
		parts = append(parts, body...)
	}
	if tr.Failures > 0 {
		parts = append(parts, traceErrStyle.Render(fmt.Sprintf("%d dispatches failed", tr.Failures)))
	}
	if chart := heightChart(tr.Samples); chart != "" {
		parts = append(parts, "", traceTitleStyle.Render("Height at probe"), chart)
	}
	_, err := fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, parts...))
	return err
}

// bodyLog lists the actor state every traceLogInterval seconds.
func bodyLog(samples []traceSample) []string {
	var lines []string
	next := traceLogInterval
	for _, s := range samples {
		if s.At+1e-9 < next {
			continue
		}
		next += traceLogInterval
		b := s.Bodies
		rider := "dropped"
		if b.Riding {
			rider = "riding"
		}
		lines = append(lines, traceTimeStyle.Render(fmt.Sprintf("%7.2fs ", s.At))+
			stateStyles[s.State].Render(fmt.Sprintf("%-8s", s.State))+
			fmt.Sprintf(" buoyancy %7.1fN at %.2f  rider (%.2f, %.2f) %s  sweep %.2f  turn %+.2f",
				b.Buoyancy.Force, b.Buoyancy.Point.Y(), b.Rider.X(), b.Rider.Y(), rider, b.Push.Len(), b.Steering.Turn))
	}
	return lines
}

func chartTime(at float64) time.Time {
	return time.Unix(0, 0).Add(time.Duration(at * float64(traceTimeScale)))
}

func heightChart(samples []traceSample) string {
	if len(samples) < 2 {
		return ""
	}
	minV, maxV := samples[0].Height, samples[0].Height
	for _, s := range samples[1:] {
		minV = min(minV, s.Height)
		maxV = max(maxV, s.Height)
	}
	if minV == maxV {
		maxV += 0.1
		minV -= 0.1
	}
	minT := chartTime(samples[0].At)
	maxT := chartTime(samples[len(samples)-1].At)

	lc := timeserieslinechart.New(traceChartWidth, traceChartHeight)
	lc.SetTimeRange(minT, maxT)
	lc.SetViewTimeAndYRange(minT, maxT, minV, maxV)
	lc.Model.XLabelFormatter = func(i int, v float64) string {
		return fmt.Sprintf("%.0fs", v/traceTimeScale.Seconds())
	}
	for _, s := range samples {
		lc.Push(timeserieslinechart.TimePoint{Time: chartTime(s.At), Value: s.Height})
	}
	lc.DrawBraille()
	return strings.TrimRight(lc.View(), "\n")
}
