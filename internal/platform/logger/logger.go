package logger

import (
	"log"
	"os"
)

// service tags every line so aggregated output stays attributable when
// the binary runs next to other services.
const service = "pos-inventory"

var (
	InfoLogger  = newLogger(os.Stdout, "INFO")
	WarnLogger  = newLogger(os.Stdout, "WARN")
	ErrorLogger = newLogger(os.Stderr, "ERROR")
)

func newLogger(out *os.File, level string) *log.Logger {
	return log.New(out, service+" "+level+": ", log.Ldate|log.Ltime|log.Lshortfile)
}

func Info(msg string, v ...interface{}) {
	InfoLogger.Printf(msg, v...)
}

func Warn(msg string, v ...interface{}) {
	WarnLogger.Printf(msg, v...)
}

func Error(msg string, err error, v ...interface{}) {
	if err != nil {
		ErrorLogger.Printf(msg+": %v", append(v, err)...)
	} else {
		ErrorLogger.Printf(msg, v...)
	}
}
