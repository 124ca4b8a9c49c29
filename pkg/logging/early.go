package logging

import (
	"fmt"
	"io"
	"os"
)

// EarlyLog covers the window before the real logger exists: config
// load failures and logger construction failures still need to reach
// the operator.
type EarlyLog struct {
	out io.Writer
	err io.Writer
}

func NewEarlyLog() *EarlyLog {
	return &EarlyLog{out: os.Stdout, err: os.Stderr}
}

func (l *EarlyLog) Info(msg string, args ...interface{}) {
	l.emit(l.out, "INFO", msg, args...)
}

func (l *EarlyLog) Warn(msg string, args ...interface{}) {
	l.emit(l.err, "WARN", msg, args...)
}

func (l *EarlyLog) Error(msg string, args ...interface{}) {
	l.emit(l.err, "ERROR", msg, args...)
}

func (l *EarlyLog) Fatal(msg string, args ...interface{}) {
	l.emit(l.err, "FATAL", msg, args...)
	os.Exit(1)
}

func (l *EarlyLog) emit(w io.Writer, level, msg string, args ...interface{}) {
	fmt.Fprintf(w, level+": "+msg+"\n", args...)
}
