package history

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func boolPtr(b bool) *bool { return &b }

func TestDeriveFeatures_temporal(t *testing.T) {
	// 2024-08-17 is a Saturday.
	ds := &Dataset{
		Events: []Event{
			{Timestamp: time.Date(2024, 8, 17, 22, 15, 0, 0, time.UTC)},
			{Timestamp: time.Date(2024, 8, 12, 9, 0, 0, 0, time.UTC)}, // Monday
		},
	}

	if err := DeriveFeatures(ds, zap.NewNop()); err != nil {
		t.Fatalf("DeriveFeatures() error: %v", err)
	}

	sat := ds.Events[0]
	if sat.Hour != 22 || sat.DayOfWeek != 5 || sat.IsWeekend != 1 {
		t.Errorf("Saturday event: hour=%d dow=%d weekend=%d", sat.Hour, sat.DayOfWeek, sat.IsWeekend)
	}

	mon := ds.Events[1]
	if mon.Hour != 9 || mon.DayOfWeek != 0 || mon.IsWeekend != 0 {
		t.Errorf("Monday event: hour=%d dow=%d weekend=%d", mon.Hour, mon.DayOfWeek, mon.IsWeekend)
	}

	if !ds.HasHour {
		t.Error("Expected HasHour after derivation")
	}
}

func TestDeriveFeatures_skipLabelPriority(t *testing.T) {
	ts := time.Date(2024, 8, 12, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ds   *Dataset
		want []int
	}{
		{
			name: "authoritative flag wins over duration",
			ds: &Dataset{
				HasSkipped:  true,
				HasMsPlayed: true,
				Events: []Event{
					// Long play but flagged skipped.
					{Timestamp: ts, MsPlayed: 200000, Skipped: boolPtr(true)},
					// Short play but flagged not-skipped.
					{Timestamp: ts, MsPlayed: 1000, Skipped: boolPtr(false)},
					// Missing flag maps to 0.
					{Timestamp: ts, MsPlayed: 1000},
				},
			},
			want: []int{1, 0, 0},
		},
		{
			name: "proxy from duration",
			ds: &Dataset{
				HasMsPlayed: true,
				Events: []Event{
					{Timestamp: ts, MsPlayed: 29999},
					{Timestamp: ts, MsPlayed: 30000},
				},
			},
			want: []int{1, 0},
		},
		{
			name: "constant zero without duration",
			ds: &Dataset{
				Events: []Event{
					{Timestamp: ts},
					{Timestamp: ts},
				},
			},
			want: []int{0, 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := DeriveFeatures(tc.ds, zap.NewNop()); err != nil {
				t.Fatalf("DeriveFeatures() error: %v", err)
			}
			if !tc.ds.HasSkipLabel {
				t.Error("Expected HasSkipLabel after derivation")
			}
			for i, want := range tc.want {
				got := tc.ds.Events[i].IsSkipped
				if got != want {
					t.Errorf("Event %d: IsSkipped = %d, want %d", i, got, want)
				}
				if got != 0 && got != 1 {
					t.Errorf("Event %d: IsSkipped = %d, outside {0,1}", i, got)
				}
			}
		})
	}
}

func TestDeriveFeatures_reasonEncoding(t *testing.T) {
	ts := time.Date(2024, 8, 12, 9, 0, 0, 0, time.UTC)
	ds := &Dataset{
		HasReason: true,
		Events: []Event{
			{Timestamp: ts, ReasonStart: "trackdone"},
			{Timestamp: ts, ReasonStart: "clickrow"},
			{Timestamp: ts, ReasonStart: "trackdone"},
			{Timestamp: ts, ReasonStart: "fwdbtn"},
		},
	}

	if err := DeriveFeatures(ds, zap.NewNop()); err != nil {
		t.Fatalf("DeriveFeatures() error: %v", err)
	}

	// Codes are dense over the sorted distinct labels:
	// clickrow=0, fwdbtn=1, trackdone=2.
	want := []int{2, 0, 2, 1}
	for i, w := range want {
		if ds.Events[i].ReasonCode != w {
			t.Errorf("Event %d: ReasonCode = %d, want %d", i, ds.Events[i].ReasonCode, w)
		}
	}
}

func TestDeriveFeatures_shuffleAndPlatform(t *testing.T) {
	ts := time.Date(2024, 8, 12, 9, 0, 0, 0, time.UTC)
	ds := &Dataset{
		HasShuffle:  true,
		HasPlatform: true,
		Events: []Event{
			{Timestamp: ts, Shuffle: boolPtr(true), Platform: "Android OS 13"},
			{Timestamp: ts, Shuffle: boolPtr(false), Platform: "iOS 17.1"},
			{Timestamp: ts, Platform: "Windows 10"},
		},
	}

	if err := DeriveFeatures(ds, zap.NewNop()); err != nil {
		t.Fatalf("DeriveFeatures() error: %v", err)
	}

	if ds.Events[0].ShuffleFeature != 1 || ds.Events[0].IsMobile != 1 {
		t.Errorf("Android+shuffle event: %+v", ds.Events[0])
	}
	if ds.Events[1].ShuffleFeature != 0 || ds.Events[1].IsMobile != 1 {
		t.Errorf("iOS event: %+v", ds.Events[1])
	}
	// Missing shuffle value maps to 0; desktop platform is not mobile.
	if ds.Events[2].ShuffleFeature != 0 || ds.Events[2].IsMobile != 0 {
		t.Errorf("Windows event: %+v", ds.Events[2])
	}
}

func TestDeriveFeatures_emptyDataset(t *testing.T) {
	if err := DeriveFeatures(&Dataset{}, zap.NewNop()); err == nil {
		t.Fatal("Expected error for empty dataset")
	}
}
