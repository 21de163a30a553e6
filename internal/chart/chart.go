// Package chart provides sparkline rendering of the illuminance signal
// with jump markers, minute tick marks, timeline labels, and a rate scale.
package chart

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/luki/lightlock/internal/history"
)

var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RateColor returns the color for a smoothed rate given the jump threshold.
func RateColor(rate, threshold float64) lipgloss.Color {
	switch {
	case math.Abs(rate) >= threshold:
		return lipgloss.Color("196") // red: jump territory
	case math.Abs(rate) >= threshold*0.85:
		return lipgloss.Color("220") // yellow: close
	default:
		return lipgloss.Color("78") // soft green
	}
}

// RenderSparkline renders the lux signal as color-coded blocks. Jump
// points are drawn as a bold dot; a subtle pipe marks minute boundaries.
func RenderSparkline(points []history.Point, width int, rangeMin, rangeMax, threshold float64) string {
	if width <= 0 {
		return ""
	}

	if len(points) == 0 {
		dim := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
		return dim.Render(strings.Repeat("╌", width))
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}

	padLen := width - len(points)
	span := rangeMax - rangeMin
	if span <= 0 {
		span = 1
	}

	var sb strings.Builder

	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	for i := 0; i < padLen; i++ {
		sb.WriteString(dim.Render("╌"))
	}

	tickStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
	jumpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)

	for i, p := range points {
		if p.Jump {
			sb.WriteString(jumpStyle.Render("●"))
			continue
		}

		if isMinuteTick(points, i) {
			sb.WriteString(tickStyle.Render("│"))
			continue
		}

		norm := (p.Lux - rangeMin) / span
		norm = math.Max(0, math.Min(1, norm))

		idx := int(norm * 7)
		if idx > 7 {
			idx = 7
		}

		ch := string(sparkBlocks[idx])
		style := lipgloss.NewStyle().Foreground(RateColor(p.Rate, threshold))
		sb.WriteString(style.Render(ch))
	}

	return sb.String()
}

func isMinuteTick(points []history.Point, i int) bool {
	p := points[i]
	if p.Time.IsZero() {
		return false
	}
	if p.Time.Second() == 0 {
		return true
	}
	if i > 0 && !points[i-1].Time.IsZero() {
		return p.Time.Minute() != points[i-1].Time.Minute()
	}
	return false
}

// RenderTimeline renders the time labels under the sparkline, showing
// HH:MM at each minute tick position.
func RenderTimeline(points []history.Point, width int) string {
	if len(points) == 0 || width <= 0 {
		return ""
	}

	if len(points) > width {
		points = points[len(points)-width:]
	}

	padLen := width - len(points)

	line := make([]rune, width)
	for i := range line {
		line[i] = ' '
	}

	tickStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("239"))

	type tick struct {
		pos   int
		label string
	}
	var ticks []tick

	for i, p := range points {
		if p.Time.IsZero() {
			continue
		}
		if isMinuteTick(points, i) {
			pos := padLen + i
			label := p.Time.Format("15:04")
			ticks = append(ticks, tick{pos: pos, label: label})
		}
	}

	lastEnd := -1
	for _, t := range ticks {
		start := t.pos - 2
		if start < 0 {
			start = 0
		}
		end := start + len(t.label)
		if end > width {
			continue
		}
		if start <= lastEnd+1 {
			continue
		}
		for j, ch := range t.label {
			line[start+j] = ch
		}
		lastEnd = end
	}

	return tickStyle.Render(string(line))
}

// RenderRateScale renders a scale bar showing the current smoothed rate
// between -threshold and +threshold, with the thresholds marked.
func RenderRateScale(rate, threshold float64, width int) string {
	if width <= 0 || threshold <= 0 {
		return ""
	}

	// Span covers a bit beyond the thresholds so a firing rate is visible
	// at the edges rather than clipped onto the marker.
	span := 2.4 * threshold
	rangeMin := -1.2 * threshold

	bar := make([]rune, width)
	for i := range bar {
		bar[i] = '·'
	}

	lowPos := int(float64(width-1) * (-threshold - rangeMin) / span)
	highPos := int(float64(width-1) * (threshold - rangeMin) / span)
	curPos := int(float64(width-1) * (rate - rangeMin) / span)
	if curPos < 0 {
		curPos = 0
	}
	if curPos >= width {
		curPos = width - 1
	}

	threshStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("236"))

	var sb strings.Builder
	for i, ch := range bar {
		switch {
		case i == curPos:
			style := lipgloss.NewStyle().Foreground(RateColor(rate, threshold)).Bold(true)
			sb.WriteString(style.Render("◆"))
		case i == lowPos || i == highPos:
			sb.WriteString(threshStyle.Render("▪"))
		default:
			sb.WriteString(dimStyle.Render(string(ch)))
		}
	}

	return sb.String()
}

// RenderLuxValue renders the current illuminance with rate-based coloring.
func RenderLuxValue(lux, rate, threshold float64) string {
	s := fmt.Sprintf("%7.1f lx", lux)
	style := lipgloss.NewStyle().Foreground(RateColor(rate, threshold))
	if math.Abs(rate) >= threshold {
		style = style.Bold(true)
	}
	return style.Render(s)
}
