package debug

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// enabled is set once at startup from the DEBUG environment variable or
// by SetEnabled from a CLI flag.
var enabled = func() bool {
	v, _ := strconv.ParseBool(os.Getenv("DEBUG"))
	return v
}()

// SetEnabled turns diagnostic output on or off. Call before processing
// starts; it is not safe against concurrent Printf calls.
func SetEnabled(on bool) {
	enabled = on
}

// Enabled reports whether diagnostic output is on.
func Enabled() bool {
	return enabled
}

// Printf prints diagnostic output if debugging is enabled
func Printf(format string, args ...interface{}) {
	if enabled {
		timestamp := time.Now().Format("15:04:05.000")
		message := fmt.Sprintf(format, args...)
		log.Printf("[%s] %s", timestamp, message)
	}
}

// Timing measures and logs execution time if debugging is enabled
func Timing(operation string) func() {
	if !enabled {
		return func() {}
	}

	start := time.Now()
	Printf("Starting: %s", operation)

	return func() {
		duration := time.Since(start)
		Printf("Completed: %s (took %v)", operation, duration)
	}
}
