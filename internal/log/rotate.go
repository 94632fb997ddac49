package log

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const rotateTimeLayout = "2006010215"

// RotateFileWriter writes to <dir>/<name>.<YYYYMMDDHH>, switching files on
// the hour. With hours > 0, files older than that are removed on rotation.
type RotateFileWriter struct {
	mu       sync.Mutex
	file     *os.File
	currHour int64
	hours    int
	dir      string
	name     string
}

// NewRotateFileWriter create a rotate file writer
func NewRotateFileWriter(dir string, name string, hours int) *RotateFileWriter {
	if dir == "" {
		dir = "."
	}

	return &RotateFileWriter{
		hours: hours,
		dir:   dir,
		name:  name,
	}
}

// Write writes data
func (w *RotateFileWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.rotateByHour(time.Now().Local()); err != nil {
		return 0, err
	}
	return w.file.Write(p)
}

// Close closes the current file.
func (w *RotateFileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *RotateFileWriter) rotateByHour(now time.Time) error {
	currHour := now.Unix() / 3600
	if currHour == w.currHour && w.file != nil {
		return nil
	}

	path := filepath.Join(w.dir, w.name+"."+now.Format(rotateTimeLayout))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	if w.file != nil {
		w.file.Close()
	}
	w.file = file
	w.currHour = currHour
	if w.hours > 0 {
		w.clearExpiredFiles(now)
	}
	return nil
}

func (w *RotateFileWriter) clearExpiredFiles(now time.Time) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return
	}

	oldest := now.Add(time.Duration(w.hours) * -time.Hour)
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, w.name+".") {
			continue
		}
		t, err := time.ParseInLocation(rotateTimeLayout, name[len(w.name)+1:], time.Local)
		if err != nil {
			continue
		}
		if t.Before(oldest) {
			os.Remove(filepath.Join(w.dir, name))
		}
	}
}
