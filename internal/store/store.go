// Package store handles persistent CSV storage of detected jump events
// with daily file rotation. Data is stored in ~/.lightlock/ by default.
package store

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	dirName    = ".lightlock"
	timeLayout = "2006-01-02T15:04:05.000"
	fileLayout = "2006-01-02"
)

// DiskStore appends jump events to daily CSV files with the format:
//
//	time,lux,rate
type DiskStore struct {
	dir     string
	current *os.File
	writer  *csv.Writer
	curDate string
}

// Event is a single row from a jump log file.
type Event struct {
	Time time.Time
	Lux  float64
	Rate float64
}

// New creates a disk store under dir, creating it if needed. An empty dir
// means ~/.lightlock.
func New(dir string) (*DiskStore, error) {
	dir = DefaultDir(dir)
	if dir == "" {
		return nil, fmt.Errorf("cannot find home dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create data dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// DefaultDir returns dir unchanged, or the default data directory under
// the user's home when dir is empty.
func DefaultDir(dir string) string {
	if dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, dirName)
}

// Dir returns the directory events are written to.
func (d *DiskStore) Dir() string { return d.dir }

// Write appends one jump event to the day's CSV file.
func (d *DiskStore) Write(ev Event) error {
	dateStr := ev.Time.Format(fileLayout)

	if d.curDate != dateStr || d.current == nil {
		d.Close()
		path := filepath.Join(d.dir, dateStr+".csv")
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		d.current = f
		d.writer = csv.NewWriter(f)
		d.curDate = dateStr

		info, _ := f.Stat()
		if info.Size() == 0 {
			d.writer.Write([]string{"time", "lux", "rate"})
		}
	}

	d.writer.Write([]string{
		ev.Time.Format(timeLayout),
		fmt.Sprintf("%.2f", ev.Lux),
		fmt.Sprintf("%.2f", ev.Rate),
	})
	d.writer.Flush()
	return d.writer.Error()
}

// Close flushes and closes the current file.
func (d *DiskStore) Close() {
	if d.writer != nil {
		d.writer.Flush()
	}
	if d.current != nil {
		d.current.Close()
		d.current = nil
	}
}

// ListDays returns available log dates (newest first). An empty dir means
// the default data directory.
func ListDays(dir string) ([]string, error) {
	dir = DefaultDir(dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var days []string
	for i := len(entries) - 1; i >= 0; i-- {
		name := entries[i].Name()
		if strings.HasSuffix(name, ".csv") {
			days = append(days, strings.TrimSuffix(name, ".csv"))
		}
	}
	return days, nil
}

// LoadFile reads all jump events from a CSV file.
func LoadFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var events []Event
	for i, row := range records {
		if i == 0 && len(row) > 0 && row[0] == "time" {
			continue
		}
		if len(row) < 3 {
			continue
		}

		t, err := time.ParseInLocation(timeLayout, row[0], time.Local)
		if err != nil {
			continue
		}
		lux, _ := strconv.ParseFloat(row[1], 64)
		rate, _ := strconv.ParseFloat(row[2], 64)

		events = append(events, Event{Time: t, Lux: lux, Rate: rate})
	}

	return events, nil
}
