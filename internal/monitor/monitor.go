// Package monitor implements the live illuminance monitoring TUI using
// BubbleTea, with a real-time sparkline of the signal and marked jumps.
//
// The monitor is presentation only: it consumes the same event stream the
// headless path produces and never talks to the sensor itself.
package monitor

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/luki/lightlock/internal/chart"
	"github.com/luki/lightlock/internal/history"
	"github.com/luki/lightlock/internal/sampler"
)

const recentJumps = 5

// Config carries the display parameters of the monitor.
type Config struct {
	SensorName string
	RateHz     float64
	JumpRate   float64 // threshold for coloring, lux/s
	MaxSeconds float64 // width of the rolling window
	DataDir    string  // non-empty when jump recording is on
}

// ── Messages ─────────────────────────────────────────────────────────

type eventMsg sampler.Event

// streamClosedMsg means the sampling loop ended and closed the event
// stream; the monitor quits and main reports the outcome.
type streamClosedMsg struct{}

// ── Model ────────────────────────────────────────────────────────────

// Model is the BubbleTea model for the live monitor.
type Model struct {
	cfg    Config
	events <-chan sampler.Event

	hist      *history.Buffer
	last      sampler.Event
	haveEvent bool
	jumps     []sampler.Event

	width     int
	height    int
	startTime time.Time
	paused    bool
}

// New creates the initial model. The events channel carries every tick
// and is closed when the sampling loop terminates.
func New(cfg Config, events <-chan sampler.Event) Model {
	// Capacity holds a full window at the sampling rate, one point per tick.
	capacity := int(cfg.MaxSeconds*cfg.RateHz) + 1
	return Model{
		cfg:       cfg,
		events:    events,
		hist:      history.NewWindowBuffer(capacity, time.Duration(cfg.MaxSeconds*float64(time.Second))),
		startTime: time.Now(),
	}
}

// ── Commands ─────────────────────────────────────────────────────────

func (m Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return streamClosedMsg{}
		}
		return eventMsg(ev)
	}
}

// ── Init / Update ────────────────────────────────────────────────────

func (m Model) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ", "p":
			m.paused = !m.paused
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case eventMsg:
		ev := sampler.Event(msg)
		// While paused the stream is still drained so the sampler never
		// stalls; the points are simply not kept.
		if !m.paused {
			m.last = ev
			m.haveEvent = true
			m.hist.Push(history.Point{
				Lux:  ev.Lux,
				Rate: ev.Rate,
				Jump: ev.Jump,
				Time: ev.Time,
			})
			if ev.Jump {
				m.jumps = append(m.jumps, ev)
				if len(m.jumps) > recentJumps {
					m.jumps = m.jumps[1:]
				}
			}
		}
		return m, m.waitForEvent()

	case streamClosedMsg:
		return m, tea.Quit
	}

	return m, nil
}

// ── Color palette ────────────────────────────────────────────────────

var (
	colorTitleBg  = lipgloss.Color("17")
	colorTitleFg  = lipgloss.Color("51")
	colorBorder   = lipgloss.Color("62")
	colorLabel    = lipgloss.Color("252")
	colorDim      = lipgloss.Color("240")
	colorFooterBg = lipgloss.Color("235")
	colorJump     = lipgloss.Color("196")
	colorPaused   = lipgloss.Color("196")
)

// ── View ─────────────────────────────────────────────────────────────

func (m Model) View() string {
	if m.width == 0 {
		return "  Initializing..."
	}

	contentWidth := m.width - 2
	if contentWidth < 40 {
		contentWidth = 40
	}

	var sections []string

	sections = append(sections, m.renderTitleBar(contentWidth))

	if !m.haveEvent {
		waiting := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(contentWidth).
			Align(lipgloss.Center).
			Padding(2, 0).
			Render("Waiting for sensor data...")
		sections = append(sections, waiting)
	} else {
		sections = append(sections, m.renderSignalPanel(contentWidth))
		if len(m.jumps) > 0 {
			sections = append(sections, m.renderJumpPanel(contentWidth))
		}
	}

	sections = append(sections, m.renderFooter(contentWidth))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitleBar(width int) string {
	logo := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorTitleFg).
		Render("LIGHTLOCK MONITOR")

	var statusParts []string

	sensor := lipgloss.NewStyle().
		Foreground(colorLabel).
		Render(m.cfg.SensorName)
	statusParts = append(statusParts, sensor)

	uptime := lipgloss.NewStyle().
		Foreground(colorDim).
		Render(fmt.Sprintf("up %s", fmtDuration(time.Since(m.startTime))))
	statusParts = append(statusParts, uptime)

	if m.paused {
		p := lipgloss.NewStyle().
			Foreground(colorPaused).
			Bold(true).
			Render("PAUSED")
		statusParts = append(statusParts, p)
	}

	if m.cfg.DataDir != "" {
		rec := lipgloss.NewStyle().
			Foreground(colorJump).
			Render("REC") +
			lipgloss.NewStyle().
				Foreground(colorDim).
				Render(" "+m.cfg.DataDir)
		statusParts = append(statusParts, rec)
	}

	sep := lipgloss.NewStyle().Foreground(colorDim).Render(" │ ")
	right := strings.Join(statusParts, sep)

	gap := width - lipgloss.Width(logo) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	filler := strings.Repeat(" ", gap)

	return lipgloss.NewStyle().
		Background(colorTitleBg).
		Width(width).
		Padding(0, 1).
		Render(logo + filler + right)
}

func (m Model) renderSignalPanel(totalWidth int) string {
	innerWidth := totalWidth - 4
	if innerWidth < 30 {
		innerWidth = 30
	}

	chartWidth := innerWidth - 2
	if chartWidth > 160 {
		chartWidth = 160
	}

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	valS := lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	frameL := lipgloss.NewStyle().Foreground(colorBorder).Render("▕")
	frameR := lipgloss.NewStyle().Foreground(colorBorder).Render("▏")

	var rows []string

	lux := chart.RenderLuxValue(m.last.Lux, m.last.Rate, m.cfg.JumpRate)
	rateText := "rate      --"
	if m.last.HasRate {
		rateText = fmt.Sprintf("rate %7.2f lx/s", m.last.Rate)
	}
	rate := lipgloss.NewStyle().
		Foreground(chart.RateColor(m.last.Rate, m.cfg.JumpRate)).
		Render(rateText)
	rows = append(rows, lux+"  "+rate+"  "+chart.RenderRateScale(m.last.Rate, m.cfg.JumpRate, 24))

	rangeMin := math.Max(0, m.hist.Min-5)
	rangeMax := m.hist.Peak + 5

	pts := m.hist.LastNPoints(chartWidth)
	spark := chart.RenderSparkline(pts, chartWidth, rangeMin, rangeMax, m.cfg.JumpRate)
	rows = append(rows, frameL+spark+frameR)

	timeline := chart.RenderTimeline(pts, chartWidth)
	if strings.TrimSpace(timeline) != "" {
		rows = append(rows, " "+timeline)
	}

	stats := dimS.Render(" avg") + valS.Render(fmt.Sprintf("%7.1f", m.hist.Avg())) +
		dimS.Render(" lo") + valS.Render(fmt.Sprintf("%7.1f", m.hist.Min)) +
		dimS.Render(" pk") + valS.Render(fmt.Sprintf("%7.1f", m.hist.Peak)) +
		dimS.Render(" jumps") + lipgloss.NewStyle().Foreground(colorJump).Render(fmt.Sprintf("%4d", m.hist.Jumps))
	rows = append(rows, stats)

	panelContent := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(totalWidth).
		Render(panelContent)
}

func (m Model) renderJumpPanel(totalWidth int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorJump).
		Render("Recent jumps")

	rows := []string{title}
	for i := len(m.jumps) - 1; i >= 0; i-- {
		ev := m.jumps[i]
		rows = append(rows, fmt.Sprintf("  %s  %7.1f lx  %8.2f lx/s",
			ev.Time.Format("15:04:05.000"), ev.Lux, ev.Rate))
	}

	panelContent := lipgloss.NewStyle().
		Foreground(colorLabel).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(totalWidth).
		Render(panelContent)
}

func (m Model) renderFooter(width int) string {
	jumpS := lipgloss.NewStyle().Foreground(colorJump).Render("●")
	tickS := lipgloss.NewStyle().Foreground(lipgloss.Color("239")).Render("│")

	dimS := lipgloss.NewStyle().Foreground(colorDim)
	legend := jumpS + dimS.Render(" jump ") +
		tickS + dimS.Render(" 1min ") +
		dimS.Render(fmt.Sprintf("window %.0fs @ %.0fHz", m.cfg.MaxSeconds, m.cfg.RateHz))

	keys := dimS.Render("q") + lipgloss.NewStyle().Foreground(colorLabel).Render(":quit") +
		dimS.Render("  p") + lipgloss.NewStyle().Foreground(colorLabel).Render(":pause")

	gap := width - lipgloss.Width(legend) - lipgloss.Width(keys) - 4
	if gap < 1 {
		gap = 1
	}
	filler := strings.Repeat(" ", gap)

	return lipgloss.NewStyle().
		Background(colorFooterBg).
		Width(width).
		Padding(0, 1).
		Render(legend + filler + keys)
}

func fmtDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
