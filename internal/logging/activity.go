package logging

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/nibzard/todolist/internal/todo"
)

// ActivityFileName is the name of the live journal file in a log dir.
const ActivityFileName = "activity.jsonl"

// Journal rotation limits.
const (
	activityMaxSizeMB  = 5
	activityMaxBackups = 3
	activityMaxAgeDays = 90
)

// ActivityLog appends one JSON line per task mutation to a rotated file.
// It implements todo.Journal.
type ActivityLog struct {
	Dir    string
	Path   string
	writer *lumberjack.Logger
	logger *log.Logger
}

var _ todo.Journal = (*ActivityLog)(nil)

// OpenActivityLog opens the journal for the tasks file dataFile under baseDir.
// Each tasks file gets its own directory so journals never mix.
func OpenActivityLog(baseDir, dataFile string) (*ActivityLog, error) {
	logDir, err := FindLogDir(baseDir, dataFile)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(logDir, ActivityFileName)
	writer := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    activityMaxSizeMB,
		MaxBackups: activityMaxBackups,
		MaxAge:     activityMaxAgeDays,
	}
	logger := log.NewWithOptions(writer, log.Options{
		Level:           log.InfoLevel,
		Formatter:       log.JSONFormatter,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})

	return &ActivityLog{
		Dir:    logDir,
		Path:   path,
		writer: writer,
		logger: logger,
	}, nil
}

// Record writes a journal entry. Positions are written 1-based, the way
// users see them.
func (a *ActivityLog) Record(action string, index int, task todo.Task) {
	if a == nil {
		return
	}
	a.logger.Info(action,
		"position", index+1,
		"title", task.Title,
		"category", task.Category,
		"completed", task.Completed,
		"created_at", task.CreatedAt,
	)
}

// Close closes the journal file.
func (a *ActivityLog) Close() error {
	if a == nil || a.writer == nil {
		return nil
	}
	return a.writer.Close()
}

// FindLogDir returns the journal directory for dataFile under baseDir.
func FindLogDir(baseDir, dataFile string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("log base dir is empty")
	}
	if dataFile == "" {
		return "", fmt.Errorf("data file is empty")
	}

	absData, err := filepath.Abs(dataFile)
	if err != nil {
		return "", fmt.Errorf("resolve data file: %w", err)
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("resolve log dir: %w", err)
	}

	return filepath.Join(absBase, dataSlug(absData)), nil
}

// ActivityLogPath returns the live journal path for dataFile under baseDir.
func ActivityLogPath(baseDir, dataFile string) (string, error) {
	dir, err := FindLogDir(baseDir, dataFile)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ActivityFileName), nil
}

// dataSlug names a journal directory after the tasks file it belongs to,
// e.g. "tasks-1a2b3c4d".
func dataSlug(absData string) string {
	name := strings.TrimSuffix(filepath.Base(absData), filepath.Ext(absData))
	return fmt.Sprintf("%s-%s", slugify(name), hashPath(absData))
}

func slugify(input string) string {
	if strings.TrimSpace(input) == "" {
		return "tasks"
	}

	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return "tasks"
	}
	return slug
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}

// FindLatestLog returns the most recently written journal in logDir.
// The live file normally wins; rotated backups are considered when it
// is missing. It returns "" when the directory holds no journal.
func FindLatestLog(logDir string) (string, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read log dir: %w", err)
	}

	var latest string
	var latestTime time.Time

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".jsonl") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if name == ActivityFileName {
			return filepath.Join(logDir, name), nil
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latest = filepath.Join(logDir, name)
		}
	}

	return latest, nil
}
