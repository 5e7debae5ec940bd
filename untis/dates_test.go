package untis

import (
	"testing"
	"time"
)

func TestParseDateTime_CompactAndISOAgree(t *testing.T) {
	want := time.Date(2025, time.January, 8, 8, 5, 0, 0, time.Local)

	compact, err := ParseDateTime("20250108", "0805")
	if err != nil {
		t.Fatalf("ParseDateTime compact returned error: %v", err)
	}
	if !compact.Equal(want) {
		t.Fatalf("compact = %v, want %v", compact, want)
	}

	iso, err := ParseStamp("2025-01-08T08:05:00")
	if err != nil {
		t.Fatalf("ParseStamp iso returned error: %v", err)
	}
	if !iso.Equal(want) {
		t.Fatalf("iso = %v, want %v", iso, want)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{"compact", "20250108", time.Date(2025, 1, 8, 0, 0, 0, 0, time.Local), false},
		{"iso", "2025-01-08", time.Date(2025, 1, 8, 0, 0, 0, 0, time.Local), false},
		{"padded", "  20250108  ", time.Date(2025, 1, 8, 0, 0, 0, 0, time.Local), false},
		{"empty", "", time.Time{}, true},
		{"garbage", "not-a-date", time.Time{}, true},
		{"wrong length", "202501", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q) = %v, want error", tt.value, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q) returned error: %v", tt.value, err)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("ParseDate(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestParseTime_AcceptsLegacyShortForm(t *testing.T) {
	tests := []struct {
		value     string
		hour, min int
		wantErr   bool
	}{
		{"0805", 8, 5, false},
		{"805", 8, 5, false},
		{"1330", 13, 30, false},
		{"13:30", 13, 30, false},
		{"13:30:15", 13, 30, false},
		{"", 0, 0, true},
		{"9", 0, 0, true},
	}
	for _, tt := range tests {
		got, err := ParseTime(tt.value)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseTime(%q) = %v, want error", tt.value, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseTime(%q) returned error: %v", tt.value, err)
		}
		if got.Hour() != tt.hour || got.Minute() != tt.min {
			t.Fatalf("ParseTime(%q) = %02d:%02d, want %02d:%02d",
				tt.value, got.Hour(), got.Minute(), tt.hour, tt.min)
		}
	}
}

func TestParseStamp_CompactDateTime(t *testing.T) {
	got, err := ParseStamp("202501080805")
	if err != nil {
		t.Fatalf("ParseStamp returned error: %v", err)
	}
	want := time.Date(2025, 1, 8, 8, 5, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Fatalf("ParseStamp = %v, want %v", got, want)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	stamp := time.Date(2025, time.January, 8, 8, 5, 0, 0, time.Local)

	if got := FormatDate(stamp); got != "20250108" {
		t.Fatalf("FormatDate = %q, want %q", got, "20250108")
	}
	if got := FormatTime(stamp); got != "0805" {
		t.Fatalf("FormatTime = %q, want %q", got, "0805")
	}

	back, err := ParseDateTime(FormatDate(stamp), FormatTime(stamp))
	if err != nil {
		t.Fatalf("ParseDateTime round trip returned error: %v", err)
	}
	if !back.Equal(stamp) {
		t.Fatalf("round trip = %v, want %v", back, stamp)
	}
}

func TestDateRangeContains(t *testing.T) {
	r := DateRange{
		Start: time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local),
		End:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.Local),
	}
	if !r.Contains(time.Date(2025, 1, 8, 12, 0, 0, 0, time.Local)) {
		t.Fatalf("Contains(mid) = false, want true")
	}
	if !r.Contains(r.Start) || !r.Contains(r.End) {
		t.Fatalf("range bounds should be inclusive")
	}
	if r.Contains(time.Date(2025, 1, 11, 0, 0, 0, 0, time.Local)) {
		t.Fatalf("Contains(after) = true, want false")
	}
}
