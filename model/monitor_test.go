package model

import (
	"testing"
	"time"

	"github.com/k0kubun/pp"
	"github.com/shopspring/decimal"
)

func TestMonitorMessage_Observation(t *testing.T) {
	now := time.Date(2020, 12, 1, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		msg     MonitorMessage
		want    Observation
		wantErr bool
	}{
		{
			name: "давление",
			msg:  MonitorMessage{PatientID: "p1", Type: "pressure", Systolic: 120, Diastolic: 80},
			want: Observation{CreateAt: now, PatientID: "p1", Kind: ObservationPressure, BloodPressure: NewBloodPressure(120, 80), MonitorID: 3},
		},
		{
			name: "температура со временем",
			msg:  MonitorMessage{PatientID: "p2", Type: "temperature", Temperature: "35.2", Timestamp: "2020-11-27T12:37:54Z"},
			want: Observation{
				CreateAt:    time.Date(2020, 11, 27, 12, 37, 54, 0, time.UTC),
				PatientID:   "p2",
				Kind:        ObservationTemperature,
				Temperature: decimal.RequireFromString("35.2"),
				MonitorID:   3,
			},
		},
		{name: "без пациента", msg: MonitorMessage{Type: "pressure", Systolic: 120, Diastolic: 80}, wantErr: true},
		{name: "неизвестный тип", msg: MonitorMessage{PatientID: "p1", Type: "pulse"}, wantErr: true},
		{name: "нулевое давление", msg: MonitorMessage{PatientID: "p1", Type: "pressure", Systolic: 120}, wantErr: true},
		{name: "кривая температура", msg: MonitorMessage{PatientID: "p1", Type: "temperature", Temperature: "36,6"}, wantErr: true},
		{name: "кривое время", msg: MonitorMessage{PatientID: "p1", Type: "temperature", Temperature: "36.6", Timestamp: "вчера"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.msg.Observation(3, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Observation() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !got.CreateAt.Equal(tt.want.CreateAt) || got.PatientID != tt.want.PatientID || got.Kind != tt.want.Kind ||
				!got.BloodPressure.Equal(tt.want.BloodPressure) || !got.Temperature.Equal(tt.want.Temperature) ||
				got.MonitorID != tt.want.MonitorID {
				t.Errorf("Observation() = %s, want %s", pp.Sprint(got), pp.Sprint(tt.want))
			}
		})
	}
}

func TestBloodPressure(t *testing.T) {
	p := NewBloodPressure(120, 80)
	if !p.Equal(BloodPressure{High: 120, Low: 80}) {
		t.Error("одинаковое давление не совпало")
	}
	if p.Equal(NewBloodPressure(120, 81)) || p.Equal(NewBloodPressure(121, 80)) {
		t.Error("разное давление совпало")
	}
	if p.String() != "120/80" {
		t.Errorf("String() = %s", p.String())
	}
}
