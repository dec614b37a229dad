package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Thread keys identify a conversation scope for the live update bridge:
// either one event (shared among its participants) or one DM pair.

// EventThreadKey returns the live-update key for an event thread
func EventThreadKey(eventID int64) string {
	return fmt.Sprintf("event:%d", eventID)
}

// DMThreadKey returns the live-update key for a DM thread
func DMThreadKey(threadID int64) string {
	return fmt.Sprintf("dm:%d", threadID)
}

// ParseThreadKey splits a thread key into its kind ("event" or "dm") and
// numeric id. Returns an error for any other shape.
func ParseThreadKey(key string) (kind string, id int64, err error) {
	kind, idStr, ok := strings.Cut(key, ":")
	if !ok || (kind != MessageKindEvent && kind != MessageKindDM) {
		return "", 0, fmt.Errorf("invalid thread key %q", key)
	}
	id, err = strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("invalid thread key %q", key)
	}
	return kind, id, nil
}
