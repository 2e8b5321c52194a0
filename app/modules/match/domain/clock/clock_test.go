package matchclock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name        string
		raw         float64
		wantKind    Kind
		wantSeconds float64
	}{
		{name: "zero is a countdown at zero", raw: 0, wantKind: KindCountdown, wantSeconds: 0},
		{name: "positive is a countdown", raw: 99, wantKind: KindCountdown, wantSeconds: 99},
		{name: "fractional countdown keeps its fraction", raw: 125.7, wantKind: KindCountdown, wantSeconds: 125.7},
		{name: "minus one is hidden", raw: -1, wantKind: KindHidden, wantSeconds: 0},
		{name: "below minus one is a stopwatch", raw: -60.1, wantKind: KindElapsed, wantSeconds: 60},
		{name: "fresh stopwatch reads zero elapsed", raw: -0.1, wantKind: KindElapsed, wantSeconds: 0},
		{name: "stopwatch keeps fractions", raw: -90.6, wantKind: KindElapsed, wantSeconds: 90.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.raw)
			require.Equal(t, tt.wantKind, got.Kind)
			require.InDelta(t, tt.wantSeconds, got.Seconds, 0.001)
		})
	}
}

func TestElapsedRoundTrip(t *testing.T) {
	for _, elapsed := range []float64{0, 0.5, 12.34, 59.99, 61.02, 90.5, 125.7, 3601.5} {
		got := Decode(EncodeElapsed(elapsed))
		require.Equal(t, KindElapsed, got.Kind, "elapsed %v", elapsed)
		require.InDelta(t, elapsed, got.Seconds, 0.01, "elapsed %v", elapsed)
	}
}

func TestEncode(t *testing.T) {
	require.InDelta(t, float64(-1), Encode(KindHidden, 42), 0.0001)
	require.InDelta(t, 0, Encode(KindCountdown, -5), 0.0001)
	require.InDelta(t, 87.3, Encode(KindCountdown, 87.3), 0.0001)
	require.InDelta(t, -30.1, Encode(KindElapsed, 30), 0.0001)
	require.Less(t, Encode(KindElapsed, 30), float64(-1))
}

func TestDisplay(t *testing.T) {
	tests := []struct {
		name    string
		reading Reading
		want    string
	}{
		{name: "countdown over a minute", reading: Reading{Kind: KindCountdown, Seconds: 125.7}, want: "2:05"},
		{name: "countdown at exactly a minute", reading: Reading{Kind: KindCountdown, Seconds: 60}, want: "1:00"},
		{name: "countdown under a minute floors", reading: Reading{Kind: KindCountdown, Seconds: 59.9}, want: "59"},
		{name: "countdown at 99", reading: Reading{Kind: KindCountdown, Seconds: 99}, want: "1:39"},
		{name: "countdown at zero", reading: Reading{Kind: KindCountdown, Seconds: 0}, want: "0"},
		{name: "countdown past ten minutes", reading: Reading{Kind: KindCountdown, Seconds: 605}, want: "10:05"},
		{name: "stopwatch under a minute shows centiseconds", reading: Reading{Kind: KindElapsed, Seconds: 9.5}, want: "9.50"},
		{name: "stopwatch over a minute splits minutes", reading: Reading{Kind: KindElapsed, Seconds: 75.25}, want: "1:15.25"},
		{name: "stopwatch at exactly a minute", reading: Reading{Kind: KindElapsed, Seconds: 60}, want: "1:00.00"},
		{name: "stopwatch at zero", reading: Reading{Kind: KindElapsed, Seconds: 0}, want: "0.00"},
		{name: "hidden renders empty", reading: Reading{Kind: KindHidden}, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.reading.Display())
		})
	}
}

func TestParseKind(t *testing.T) {
	for _, valid := range []string{"countdown", "hidden", "elapsed"} {
		kind, err := ParseKind(valid)
		require.NoError(t, err)
		require.Equal(t, Kind(valid), kind)
	}
	_, err := ParseKind("sudden_death")
	require.Error(t, err)
}
