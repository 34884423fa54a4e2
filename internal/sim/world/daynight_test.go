package world

import "testing"

func TestDayNightStartsAtSunrise(t *testing.T) {
	d := NewDayNight(1200)
	if d.Time != 0.25 {
		t.Fatalf("initial time = %v, want 0.25", d.Time)
	}
	if got := d.Hour(); got != 6 {
		t.Fatalf("initial hour = %v, want 6", got)
	}
}

func TestDayNightAdvanceWraps(t *testing.T) {
	d := NewDayNight(1200)
	d.Time = 0.9
	d.Advance(240) // 0.2 of a day
	if d.Time < 0.09 || d.Time > 0.11 {
		t.Fatalf("time after wrap = %v, want ~0.1", d.Time)
	}
}

func TestDayNightPaused(t *testing.T) {
	d := NewDayNight(1200)
	d.Paused = true
	d.Advance(600)
	if d.Time != 0.25 {
		t.Fatalf("paused clock advanced to %v", d.Time)
	}
}

func TestDayNightSpeed(t *testing.T) {
	d := NewDayNight(1200)
	d.Speed = 2
	d.Advance(150) // 2x speed: a quarter day
	if d.Time < 0.49 || d.Time > 0.51 {
		t.Fatalf("time at double speed = %v, want ~0.5", d.Time)
	}
}

func TestDayNightSkyLight(t *testing.T) {
	cases := []struct {
		hour float64
		want uint8
	}{
		{0, 4},    // midnight
		{4.9, 4},  // late night
		{6, 9},    // mid dawn ramp
		{7, 15},   // full daylight begins
		{12, 15},  // noon
		{16.9, 15},
		{18, 9},   // mid dusk ramp
		{19, 4},   // night begins
		{23, 4},
	}
	d := NewDayNight(1200)
	for _, tc := range cases {
		d.Time = tc.hour / 24
		if got := d.SkyLight(); got != tc.want {
			t.Fatalf("sky light at hour %v = %d, want %d", tc.hour, got, tc.want)
		}
	}
}

func TestDayNightRampMonotone(t *testing.T) {
	d := NewDayNight(1200)
	var prev uint8 = 4
	for h := 5.0; h < 7.0; h += 0.05 {
		d.Time = h / 24
		cur := d.SkyLight()
		if cur < prev {
			t.Fatalf("dawn ramp fell from %d to %d at hour %v", prev, cur, h)
		}
		prev = cur
	}
	if prev != 15 {
		d.Time = 7.0 / 24
		if got := d.SkyLight(); got != 15 {
			t.Fatalf("ramp did not reach full daylight, got %d", got)
		}
	}
}
