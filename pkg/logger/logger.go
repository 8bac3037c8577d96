// Package logger ilova bo'ylab ishlatiladigan prefiksli loggerlar.
package logger

import (
	"io"
	"log"
	"os"
	"sync"
)

var (
	InfoLogger  = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime)
	WarnLogger  = log.New(os.Stdout, "WARN: ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)

	initOnce sync.Once
)

// Init loggerlarni stdout/stderr ga sozlaydi. Bir necha marta chaqirish xavfsiz.
func Init() {
	initOnce.Do(func() {
		SetOutput(os.Stdout, os.Stderr)
	})
}

// SetOutput redirects the loggers; tests pass io.Discard.
func SetOutput(out, errOut io.Writer) {
	InfoLogger.SetOutput(out)
	WarnLogger.SetOutput(out)
	ErrorLogger.SetOutput(errOut)
}
