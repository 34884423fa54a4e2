package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	Seed       int64 `yaml:"seed"`
	TickRateHz int   `yaml:"tick_rate_hz"`

	ViewRadius         int `yaml:"view_radius"`
	ViewRadiusVertical int `yaml:"view_radius_vertical"`
	UnloadSlack        int `yaml:"unload_slack"`

	RelightBatchMax int `yaml:"relight_batch_max"`
	StaleRemeshMax  int `yaml:"stale_remesh_max"`
	SkyRemeshRadius int `yaml:"sky_remesh_radius"`

	DayLengthSeconds float64 `yaml:"day_length_seconds"`
	TimeSpeed        float64 `yaml:"time_speed"`

	TraceDir    string `yaml:"trace_dir"`
	TraceChunks bool   `yaml:"trace_chunks"`
}

// Default returns the tuning used when no tuning.yaml is supplied.
func Default() Tuning {
	var t Tuning
	t.applyDefaults()
	return t
}

func Load(path string) (Tuning, error) {
	var t Tuning
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	t.applyDefaults()
	return t, nil
}

func (t *Tuning) applyDefaults() {
	if t.TickRateHz <= 0 {
		t.TickRateHz = 20
	}
	if t.ViewRadius <= 0 {
		t.ViewRadius = 10
	}
	if t.ViewRadiusVertical <= 0 {
		t.ViewRadiusVertical = 5
	}
	if t.UnloadSlack <= 0 {
		t.UnloadSlack = 2
	}
	if t.RelightBatchMax <= 0 {
		t.RelightBatchMax = 32
	}
	if t.StaleRemeshMax <= 0 {
		t.StaleRemeshMax = 4
	}
	if t.SkyRemeshRadius <= 0 {
		t.SkyRemeshRadius = 4
	}
	if t.DayLengthSeconds <= 0 {
		t.DayLengthSeconds = 1200
	}
	if t.TimeSpeed <= 0 {
		t.TimeSpeed = 1
	}
}
