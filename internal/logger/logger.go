// Package logger owns the process-wide structured logger. Log events go to
// the console and, once the logger service is started, to a rotating file
// under the configured folder. Old files are zipped and removed past the
// retention window.
package logger

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// fileSink forwards serialized events to the running logger service. Logger
// copies captured before the service starts still write through it, since the
// sink pointer is baked into every logger this package hands out. Events
// arriving while no service is attached are dropped.
type fileSink struct {
	mu     sync.Mutex
	target io.Writer
}

func (s *fileSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.target == nil {
		return len(p), nil
	}
	return s.target.Write(p)
}

func (s *fileSink) set(w io.Writer) {
	s.mu.Lock()
	s.target = w
	s.mu.Unlock()
}

var (
	sink   = &fileSink{}
	level  = zerolog.InfoLevel
	global = newLogger()
)

func console() zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.MultiLevelWriter(console(), sink)).Level(level).With().Timestamp().Logger()
}

// L returns the shared logger.
func L() zerolog.Logger {
	return global
}

// Init sets the global log level. Unknown level names fall back to info.
func Init(lvl string) {
	parsed, err := zerolog.ParseLevel(lvl)
	if err != nil || parsed == zerolog.NoLevel {
		parsed = zerolog.InfoLevel
	}
	level = parsed
	global = newLogger()
}

// Audit emits an operator-facing audit-trail event.
func Audit(msg string) {
	global.Info().Str("channel", "audit").Msg(msg)
}

// LoggerService attaches a rotating file to the shared sink. It implements
// io.Writer so zerolog events can be fanned into the current file while
// rotation swaps it underneath.
type LoggerService struct {
	Config map[string]interface{}

	mu           sync.Mutex
	file         *os.File
	currentLog   string
	maxFileBytes int64
	retainDays   int
	folderPath   string
	stopCh       chan struct{}
	wg           sync.WaitGroup
}

func NewLoggerService(config map[string]interface{}) *LoggerService {
	maxMB := intOption(config, "max_file_mb")
	retain := intOption(config, "retention_days")
	folder, _ := config["folder_path"].(string)
	if folder == "" {
		folder = "./logs"
	}
	return &LoggerService{
		Config:       config,
		stopCh:       make(chan struct{}),
		maxFileBytes: int64(maxMB) * 1024 * 1024,
		retainDays:   retain,
		folderPath:   folder,
	}
}

// intOption reads an int service option, tolerating the float64 that YAML
// decoding can produce.
func intOption(config map[string]interface{}, key string) int {
	if n, ok := config[key].(int); ok {
		return n
	}
	if f, ok := config[key].(float64); ok {
		return int(f)
	}
	return 0
}

func (l *LoggerService) Name() string {
	return "logger"
}

func (l *LoggerService) Start() error {
	if lvl, ok := l.Config["level"].(string); ok && lvl != "" {
		Init(lvl)
	}

	l.mu.Lock()
	if err := os.MkdirAll(l.folderPath, 0755); err != nil {
		l.mu.Unlock()
		return err
	}
	logFile := l.nextLogFileName()
	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		l.mu.Unlock()
		return err
	}
	l.file = file
	l.currentLog = logFile
	l.mu.Unlock()

	sink.set(l)
	Audit("logger started, writing to " + logFile)

	l.wg.Add(1)
	go l.backgroundWorker()
	return nil
}

func (l *LoggerService) Stop() error {
	Audit("logger stopping")
	sink.set(nil)
	close(l.stopCh)
	l.wg.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

// Write forwards one serialized log event to the current file. Events that
// arrive before Start or after Stop are dropped.
func (l *LoggerService) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return len(p), nil
	}
	return l.file.Write(p)
}

func (l *LoggerService) nextLogFileName() string {
	timestamp := time.Now().Format("20060102_150405")
	return filepath.Join(l.folderPath, fmt.Sprintf("audit_%s.log", timestamp))
}

func (l *LoggerService) backgroundWorker() {
	defer l.wg.Done()
	rotate := time.NewTicker(10 * time.Second)
	retention := time.NewTicker(24 * time.Hour)
	defer rotate.Stop()
	defer retention.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-rotate.C:
			l.rotateIfNeeded()
		case <-retention.C:
			l.zipAndCleanOldLogs()
		}
	}
}

func (l *LoggerService) rotateIfNeeded() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil || l.maxFileBytes <= 0 {
		return
	}
	info, err := l.file.Stat()
	if err != nil || info.Size() < l.maxFileBytes {
		return
	}
	l.file.Close()
	newLog := l.nextLogFileName()
	file, err := os.OpenFile(newLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		l.file = nil
		return
	}
	l.file = file
	l.currentLog = newLog
}

// zipAndCleanOldLogs archives log files older than the retention window into
// a dated zip and deletes the originals.
func (l *LoggerService) zipAndCleanOldLogs() {
	if l.retainDays <= 0 {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -l.retainDays)
	files, err := os.ReadDir(l.folderPath)
	if err != nil {
		return
	}
	zipName := filepath.Join(l.folderPath, fmt.Sprintf("logs_%s.zip", time.Now().Format("20060102")))
	zipFile, err := os.Create(zipName)
	if err != nil {
		return
	}
	defer zipFile.Close()
	zw := zip.NewWriter(zipFile)
	defer zw.Close()

	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".log" {
			continue
		}
		fullPath := filepath.Join(l.folderPath, f.Name())
		info, err := os.Stat(fullPath)
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		w, err := zw.Create(f.Name())
		if err != nil {
			continue
		}
		src, err := os.Open(fullPath)
		if err != nil {
			continue
		}
		io.Copy(w, src)
		src.Close()
		os.Remove(fullPath)
	}
}
