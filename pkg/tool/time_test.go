package tool

import (
	"testing"
	"time"
)

func TestRoundToDate(t *testing.T) {
	msk := time.FixedZone("MSK", 3*60*60)
	tests := []struct {
		name string
		t    time.Time
		want time.Time
	}{
		{
			name: "середина дня",
			t:    time.Date(1980, 11, 20, 15, 30, 12, 500, time.UTC),
			want: time.Date(1980, 11, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "уже округлена",
			t:    time.Date(1995, 3, 15, 0, 0, 0, 0, time.UTC),
			want: time.Date(1995, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "сохраняет зону",
			t:    time.Date(2001, 1, 1, 23, 59, 59, 0, msk),
			want: time.Date(2001, 1, 1, 0, 0, 0, 0, msk),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundToDate(tt.t); !got.Equal(tt.want) || got.Location() != tt.want.Location() {
				t.Errorf("RoundToDate() = %v, want %v", got, tt.want)
			}
		})
	}
}
