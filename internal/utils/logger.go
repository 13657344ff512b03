package utils

import (
	"log"
	"strings"
)

// LogEvent writes one line per domain event as key=value pairs. Messages
// carry identifiers and counts only; payload contents stay out of the log.
func LogEvent(requestID, module, action, message string) {
	rid := strings.TrimSpace(requestID)
	if rid == "" {
		rid = "-"
	}
	log.Printf("event=%s.%s request_id=%s %s", strings.ToLower(module), action, rid, message)
}
