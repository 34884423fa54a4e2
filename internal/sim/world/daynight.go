package world

import "math"

// DayNight tracks the time of day as a fraction of a full day and derives
// the global sky-light scalar from it. Stored per-voxel light is never
// rescaled when the scalar moves; consumers clamp at read time.
type DayNight struct {
	Time      float64 // 0..1, 0 = midnight
	Speed     float64
	Paused    bool
	DayLength float64 // seconds per full day at speed 1
}

func NewDayNight(dayLength float64) *DayNight {
	return &DayNight{
		Time:      0.25, // sunrise
		Speed:     1,
		DayLength: dayLength,
	}
}

func (d *DayNight) Advance(dt float64) {
	if d.Paused {
		return
	}
	d.Time = math.Mod(d.Time+dt*d.Speed/d.DayLength, 1)
}

// Hour returns the time of day on a 24h clock.
func (d *DayNight) Hour() float64 {
	return d.Time * 24
}

func smoothstep(t float64) float64 {
	return t * t * (3 - 2*t)
}

// SkyLight maps the hour to the global sky-light scalar: full light
// 7:00-17:00, moonlight 4 at night, smoothstep ramps over 5:00-7:00 and
// 17:00-19:00.
func (d *DayNight) SkyLight() uint8 {
	hour := d.Hour()
	switch {
	case hour >= 7 && hour < 17:
		return MaxLight
	case hour >= 19 || hour < 5:
		return 4
	case hour >= 5 && hour < 7:
		t := smoothstep((hour - 5) / 2)
		return uint8(4 + t*11)
	default:
		t := smoothstep((hour - 17) / 2)
		return uint8(15 - t*11)
	}
}
