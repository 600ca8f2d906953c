package session

import (
	"reflect"
	"testing"
)

func TestReadoutLines(t *testing.T) {
	tests := []struct {
		name string
		in   Readout
		want []string
	}{
		{
			name: "waiting without detector",
			in:   Readout{Status: "Waiting...", Shape: "flower"},
			want: []string{"Open: 0%", "Close: 0%", "Status: Waiting...", "Move: OFF", "Shape: flower"},
		},
		{
			name: "pointing",
			in:   Readout{Openness: 0.25, Closedness: 0.5, Status: "Moving", Pointing: true, MoveX: 0.3, MoveY: 0.75, Shape: "heart", Tracker: "ready"},
			want: []string{"Open: 25%", "Close: 50%", "Status: Moving", "Move: 0.30, 0.75", "Shape: heart", "Tracker: ready"},
		},
		{
			name: "hand lost",
			in:   Readout{Status: "Neutral", Shape: "saturn", Tracker: "ready", Received: true, NoHand: true},
			want: []string{"Open: 0%", "Close: 0%", "Status: Neutral", "Move: OFF", "Hands: none", "Shape: saturn", "Tracker: ready"},
		},
		{
			name: "two hands",
			in:   Readout{Closedness: 1, Status: "Closed", Shape: "heart", Tracker: "ready", Received: true, Hands: 2},
			want: []string{"Open: 0%", "Close: 100%", "Status: Closed", "Move: OFF", "Hands: 2", "Shape: heart", "Tracker: ready"},
		},
		{
			name: "failed tracker",
			in:   Readout{Status: "Waiting...", Shape: "random", Tracker: "failed", TrackerErr: "no camera"},
			want: []string{"Open: 0%", "Close: 0%", "Status: Waiting...", "Move: OFF", "Shape: random", "Tracker: failed (no camera)"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Lines(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Lines() = %q, want %q", got, tt.want)
			}
		})
	}
}
