package utils

import (
	"testing"
	"time"
)

func TestPKTOffset(t *testing.T) {
	ts := time.Date(2024, 6, 12, 7, 0, 0, 0, time.UTC).In(PKT)
	_, offset := ts.Zone()
	if offset != 5*60*60 {
		t.Errorf("PKT offset = %d, want %d", offset, 5*60*60)
	}
}

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name string
		want *time.Location
	}{
		{"", time.Local},
		{"Local", time.Local},
		{"PKT", PKT},
		{"Asia/Karachi", PKT},
	}
	for _, tt := range tests {
		got, err := LoadLocation(tt.name)
		if err != nil {
			t.Fatalf("LoadLocation(%q) error: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("LoadLocation(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if _, err := LoadLocation("Not/AZone"); err == nil {
		t.Error("LoadLocation(Not/AZone) should fail")
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 6, 12, 4, 5, 6, 0, time.UTC)
	if got := FormatTimestamp(ts, time.UTC); got != "2024-06-12 04:05:06" {
		t.Errorf("FormatTimestamp UTC = %q", got)
	}
	if got := FormatTimestamp(ts, PKT); got != "2024-06-12 09:05:06" {
		t.Errorf("FormatTimestamp PKT = %q", got)
	}
}

func TestNow(t *testing.T) {
	got := Now(time.UTC)
	if _, err := time.Parse(TimestampLayout, got); err != nil {
		t.Errorf("Now() = %q does not match layout: %v", got, err)
	}
}
