package service

import (
	"testing"
	"time"
)

func TestTokenRecordExpired(t *testing.T) {
	// Whole seconds, matching the unix-timestamp precision of the stored
	// record.
	now := time.Unix(time.Now().Unix(), 0)
	window := 30 * time.Minute

	fresh := tokenRecord{UserID: 1, LastUsed: now.Add(-5 * time.Minute).Unix()}
	if fresh.expired(now, window) {
		t.Error("a token used 5m ago must survive a 30m window")
	}

	edge := tokenRecord{UserID: 1, LastUsed: now.Add(-window).Unix()}
	if edge.expired(now, window) {
		t.Error("a token used exactly at the window edge is still valid")
	}

	stale := tokenRecord{UserID: 1, LastUsed: now.Add(-window - time.Second).Unix()}
	if !stale.expired(now, window) {
		t.Error("a token idle past the window must expire")
	}
}
