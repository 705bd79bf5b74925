package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	Enabled    bool   // Включено ли логирование
	Level      string // DEBUG, INFO, WARN, ERROR
	LogsDir    string // Директория для логов
	SavingDays uint   // Сколько дней хранить логи
}

type level int

const (
	levelError level = iota + 1
	levelWarn
	levelInfo
	levelDebug
)

func parseLevel(s string) level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return levelDebug
	case "WARN":
		return levelWarn
	case "ERROR":
		return levelError
	default:
		return levelInfo
	}
}

type Logger struct {
	config   *Config
	maxLevel level
	logger   *log.Logger
	file     *os.File
	prefix   string
}

func NewLogger(cfg *Config, prefix string) *Logger {
	l := &Logger{
		config:   cfg,
		maxLevel: parseLevel(cfg.Level),
		prefix:   "[" + prefix + "]",
	}

	var output io.Writer = os.Stdout
	if cfg.Enabled && cfg.LogsDir != "" {
		if err := os.MkdirAll(cfg.LogsDir, 0755); err == nil {
			logFile := filepath.Join(cfg.LogsDir, time.Now().Format("2006-01-02")+".log")
			if file, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
				l.file = file
				output = io.MultiWriter(os.Stdout, file)
			}
		}
	}

	l.logger = log.New(output, "", log.LstdFlags)

	if cfg.SavingDays > 0 {
		go l.cleanOldLogs()
	}

	return l
}

// WithPrefix возвращает логгер с дополнительным префиксом компонента
func (l *Logger) WithPrefix(prefix string) *Logger {
	return &Logger{
		config:   l.config,
		maxLevel: l.maxLevel,
		logger:   l.logger,
		file:     l.file,
		prefix:   l.prefix + " [" + prefix + "]",
	}
}

func (l *Logger) cleanOldLogs() {
	for range time.Tick(24 * time.Hour) {
		files, err := os.ReadDir(l.config.LogsDir)
		if err != nil {
			l.Error("Failed to read logs directory", "error", err)
			continue
		}

		cutoff := time.Now().AddDate(0, 0, -int(l.config.SavingDays))
		for _, file := range files {
			if info, err := file.Info(); err == nil && !file.IsDir() && info.ModTime().Before(cutoff) {
				if err := os.Remove(filepath.Join(l.config.LogsDir, file.Name())); err != nil {
					l.Error("Failed to delete old log file", "file", file.Name(), "error", err)
				}
			}
		}
	}
}

func (l *Logger) log(lv level, tag, msg string, fields ...interface{}) {
	if !l.config.Enabled || lv > l.maxLevel {
		return
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("[%s] %s %s", tag, l.prefix, msg))
	for i := 0; i < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		val := "?"
		if i+1 < len(fields) {
			val = fmt.Sprint(fields[i+1])
		}
		builder.WriteString(fmt.Sprintf(" %s=%s", key, val))
	}

	l.logger.Println(builder.String())
}

func (l *Logger) Debug(msg string, fields ...interface{}) { l.log(levelDebug, "DEBUG", msg, fields...) }
func (l *Logger) Info(msg string, fields ...interface{})  { l.log(levelInfo, "INFO", msg, fields...) }
func (l *Logger) Warn(msg string, fields ...interface{})  { l.log(levelWarn, "WARN", msg, fields...) }
func (l *Logger) Error(msg string, fields ...interface{}) { l.log(levelError, "ERROR", msg, fields...) }

func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
