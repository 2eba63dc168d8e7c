// Package logger builds the zap logger shared by the mesh engine and the
// command line tool. Output goes to an optional writer and is always kept in
// an in-memory buffer, so a report can embed the log of a run.
package logger

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.Logger
	buf *bytes.Buffer
}

// New returns a logger writing entries at or above level to w (if non-nil) and
// to the internal buffer.
func New(level zapcore.Level, w io.Writer) *Logger {
	buf := &bytes.Buffer{}

	config := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    colorLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	encoder := zapcore.NewConsoleEncoder(config)

	cores := []zapcore.Core{zapcore.NewCore(encoder, zapcore.AddSync(buf), level)}
	if w != nil {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(w), level))
	}

	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return &Logger{Logger: log, buf: buf}
}

// Nop discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop(), buf: &bytes.Buffer{}}
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("[2006-01-02 | 15:04:05]"))
}

func colorLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var colorCode string
	switch level {
	case zapcore.DebugLevel:
		colorCode = "\033[36m" // Cyan
	case zapcore.InfoLevel:
		colorCode = "\033[32m" // Green
	case zapcore.WarnLevel:
		colorCode = "\033[33m" // Yellow
	case zapcore.ErrorLevel:
		colorCode = "\033[31m" // Red
	default:
		colorCode = "\033[0m"
	}
	enc.AppendString(colorCode + level.String() + "\033[0m")
}

// Text returns the buffered log with color codes intact.
func (l *Logger) Text() string {
	return l.buf.String()
}

// HTML returns the buffered log as a <pre> block, with the level colors
// turned into styled spans.
func (l *Logger) HTML() string {
	return ansiToHTML(l.buf.String())
}

func (l *Logger) Reset() {
	l.buf.Reset()
}

var ansiCode = regexp.MustCompile(`\033\[(\d+)m`)

var colorMap = map[string]string{
	"31": "red",
	"32": "green",
	"33": "goldenrod",
	"36": "darkcyan",
}

func ansiToHTML(input string) string {
	var result strings.Builder
	result.WriteString("<pre>")

	open := false
	last := 0
	for _, match := range ansiCode.FindAllStringSubmatchIndex(input, -1) {
		result.WriteString(escape(input[last:match[0]]))
		code := input[match[2]:match[3]]
		if open {
			result.WriteString("</span>")
			open = false
		}
		if color, ok := colorMap[code]; ok {
			result.WriteString(`<span style="color: ` + color + `;">`)
			open = true
		}
		last = match[1]
	}
	result.WriteString(escape(input[last:]))
	if open {
		result.WriteString("</span>")
	}

	result.WriteString("</pre>")
	return result.String()
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(s string) string {
	return htmlEscaper.Replace(s)
}
