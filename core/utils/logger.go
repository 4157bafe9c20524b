package utils

import (
	"log"
	"os"
)

type Logger struct {
	out *log.Logger
	err *log.Logger
}

func NewLogger() *Logger {
	return &Logger{
		out: log.New(os.Stdout, "", log.LstdFlags),
		err: log.New(os.Stderr, "ERROR ", log.LstdFlags),
	}
}

func (l *Logger) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	l.out.Printf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	l.err.Printf(format, args...)
}
