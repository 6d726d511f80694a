package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"
)

type suggestionCreatedEvent struct {
	Type      string `json:"type"`
	SkillName string `json:"skill_name"`
	Source    string `json:"source"`
	Timestamp string `json:"timestamp"`
}

type batchResolvedEvent struct {
	Type      string `json:"type"`
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
	Timestamp string `json:"timestamp"`
}

type scanCompletedEvent struct {
	Type      string `json:"type"`
	Created   int    `json:"created"`
	Stale     int    `json:"stale"`
	Timestamp string `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

// SetDefaultHub wires the process-wide hub used by the Notify helpers.
// All helpers are no-ops until it is set.
func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

func NotifySuggestionCreated(skillName, source string) {
	publish(suggestionCreatedEvent{
		Type:      "suggestion_created",
		SkillName: skillName,
		Source:    source,
		Timestamp: timestamp(),
	})
}

func NotifyBatchResolved(processed, failed int) {
	publish(batchResolvedEvent{
		Type:      "batch_resolved",
		Processed: processed,
		Failed:    failed,
		Timestamp: timestamp(),
	})
}

func NotifyScanCompleted(created, stale int) {
	publish(scanCompletedEvent{
		Type:      "scan_completed",
		Created:   created,
		Stale:     stale,
		Timestamp: timestamp(),
	})
}

func publish(evt any) {
	h := defaultHub.Load()
	if h == nil {
		return
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(b)
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
