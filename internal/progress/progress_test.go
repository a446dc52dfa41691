package progress

import "testing"

func TestCompute(t *testing.T) {
	tests := []struct {
		name      string
		solved    bool
		testScore int
		want      int
	}{
		{"no progress", false, 0, 0},
		{"solved only", true, 0, 49},
		{"solved and pass threshold", true, 60, 79},
		{"solved and perfect", true, 100, 99},
		{"test only is half", false, 100, 50},
		{"solved and thirty", true, 30, 64},
		{"half rounds up", true, 1, 50},
		{"negative score clamps", true, -20, 49},
		{"oversized score clamps", false, 250, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(tt.solved, tt.testScore); got != tt.want {
				t.Errorf("Compute(%v, %d) = %d, want %d", tt.solved, tt.testScore, got, tt.want)
			}
		})
	}
}

func TestComputeRange(t *testing.T) {
	for _, solved := range []bool{false, true} {
		for score := 0; score <= 100; score++ {
			got := Compute(solved, score)
			if got < 0 || got > 99 {
				t.Fatalf("Compute(%v, %d) = %d, outside [0,99]", solved, score, got)
			}
		}
	}
}

func TestPassed(t *testing.T) {
	if Passed(59) {
		t.Error("59 should not pass")
	}
	if !Passed(60) {
		t.Error("60 should pass")
	}
	if !Passed(140) {
		t.Error("scores above 100 clamp to 100 and pass")
	}
}
