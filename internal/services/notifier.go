package services

import "log"

// Notifier receives start/completion events for user-facing toasts. The
// delivery channel itself lives outside this engine.
type Notifier interface {
	BatchStarted(count int)
	BatchCompleted(processed, failed int)
}

type logNotifier struct{}

func NewLogNotifier() Notifier {
	return &logNotifier{}
}

func (n *logNotifier) BatchStarted(count int) {
	log.Printf("🔔 Extraction started for %d applicant(s)", count)
}

func (n *logNotifier) BatchCompleted(processed, failed int) {
	if failed > 0 {
		log.Printf("🔔 Extraction finished: %d processed, %d failed", processed, failed)
		return
	}
	log.Printf("🔔 Extraction finished: %d processed", processed)
}
