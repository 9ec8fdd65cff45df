package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	Log      *slog.Logger
	auditLog *slog.Logger
)

// Init opens the rotating application log (JSON) and the audit log (text)
// under dir.
func Init(dir string, debug bool) {
	_ = os.MkdirAll(dir, 0755)

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	Log = slog.New(slog.NewJSONHandler(rotating(filepath.Join(dir, "app.log")), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(Log)

	auditLog = slog.New(slog.NewTextHandler(rotating(filepath.Join(dir, "audit.log")), nil))
}

// InitWriter routes both logs to w.
func InitWriter(w io.Writer) {
	opts := &slog.HandlerOptions{Level: slog.LevelDebug}
	Log = slog.New(slog.NewJSONHandler(w, opts))
	auditLog = slog.New(slog.NewTextHandler(w, opts))
}

func rotating(filename string) io.Writer {
	return &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
}

func Info(msg string, args ...any) {
	if Log != nil {
		Log.Info(msg, args...)
	}
}

func Error(msg string, args ...any) {
	if Log != nil {
		Log.Error(msg, args...)
	}
}

func Warn(msg string, args ...any) {
	if Log != nil {
		Log.Warn(msg, args...)
	}
}

func Debug(msg string, args ...any) {
	if Log != nil {
		Log.Debug(msg, args...)
	}
}

// Audit appends one line to the audit log
func Audit(msg string, args ...any) {
	if auditLog != nil {
		auditLog.Info(msg, args...)
	}
}
