package vitals

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"vitals-service/internal/models"
)

// TimestampLayout is the ISO-8601 form used for snapshot timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000000Z07:00"

var ErrUnknownCondition = errors.New("unknown patient condition")

// Per-vital weights applied to the combined waveform.
const (
	waveHeartRate     = 1.2
	waveBloodPressure = 0.8
	waveOxygen        = 0.5
	waveTemperature   = 0.3
	waveRespiratory   = 1.0
)

// NoiseFunc returns a sample from Uniform(-amplitude, amplitude).
type NoiseFunc func(amplitude float64) float64

func uniformNoise(amplitude float64) float64 {
	if amplitude <= 0 {
		return 0
	}
	return distuv.Uniform{Min: -amplitude, Max: amplitude}.Rand()
}

// Generator fabricates snapshots from a room pattern and wall-clock time.
type Generator struct {
	noise NoiseFunc
}

type Option func(*Generator)

// WithNoise replaces the noise source, mainly for tests.
func WithNoise(fn NoiseFunc) Option {
	return func(g *Generator) {
		g.noise = fn
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{noise: uniformNoise}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate produces one snapshot for the pattern at time now. Noise is drawn
// fresh on every call, so repeated calls with the same inputs differ. The
// pattern is not modified; callers advance its LastUpdate themselves.
func (g *Generator) Generate(p models.RoomPattern, now time.Time) (models.VitalSigns, error) {
	profile, ok := ProfileFor(p.Condition)
	if !ok {
		return models.VitalSigns{}, fmt.Errorf("room %s: %w: %q", p.RoomNumber, ErrUnknownCondition, p.Condition)
	}

	t := unixSeconds(now)
	sine := math.Sin(0.1*t + p.PhaseOffset)
	cosine := math.Cos(0.05*t + p.PhaseOffset)
	trend := p.TrendFactor * (t - unixSeconds(p.LastUpdate)) / 3600

	vital := func(r Range, waveFactor float64) float64 {
		variation := (0.6*sine + 0.4*cosine) * waveFactor
		value := r.Base + variation*(r.Max-r.Min)*0.1 + g.noise(p.NoiseFactor) + trend
		return round1(r.Clamp(value))
	}

	v := models.VitalSigns{
		HeartRate: vital(profile.HeartRate, waveHeartRate),
		BloodPressure: models.BloodPressure{
			Systolic:  vital(profile.Systolic, waveBloodPressure),
			Diastolic: vital(profile.Diastolic, waveBloodPressure),
		},
		OxygenSaturation: vital(profile.OxygenSaturation, waveOxygen),
		Temperature:      vital(profile.Temperature, waveTemperature),
		RespiratoryRate:  vital(profile.RespiratoryRate, waveRespiratory),
		Timestamp:        now.Format(TimestampLayout),
		RoomNumber:       p.RoomNumber,
	}
	v.Status = Classify(v)
	return v, nil
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
