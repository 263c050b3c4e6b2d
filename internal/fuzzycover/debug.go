package fuzzycover

import (
	"fmt"
	"log/slog"
	"sync"
)

func DebugLog(format string, args ...interface{}) {
	if !Debug {
		return
	}
	slog.Debug(fmt.Sprintf(format, args...))
}

var once sync.Once

func DebugLogOnce(format string, args ...interface{}) {
	if !Debug {
		return
	}
	once.Do(func() {
		slog.Debug(fmt.Sprintf(format, args...))
	})
}
