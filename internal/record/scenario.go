package record

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted pointer session.
type Scenario struct {
	Viewport Viewport `yaml:"viewport"`
	FPS      int      `yaml:"fps"`
	Steps    []Step   `yaml:"steps"`
}

// Viewport is the client size the session runs at.
type Viewport struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	PixelRatio float64 `yaml:"pixel_ratio"`
}

// Point is a client-space position.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Click optionally moves before clicking.
type Click struct {
	X *float64 `yaml:"x"`
	Y *float64 `yaml:"y"`
}

// Delta is a drag offset in client pixels.
type Delta struct {
	DX float64 `yaml:"dx"`
	DY float64 `yaml:"dy"`
}

// Size is a new viewport size.
type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Duration parses Go duration strings ("1.5s", "250ms").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	if v < 0 {
		return fmt.Errorf("line %d: negative wait %s", value.Line, s)
	}
	*d = Duration(v)
	return nil
}

// Step is one scripted action. Exactly one field is set.
type Step struct {
	Move   *Point    `yaml:"move"`
	Click  *Click    `yaml:"click"`
	Drag   *Delta    `yaml:"drag"`
	Wait   *Duration `yaml:"wait"`
	Resize *Size     `yaml:"resize"`
}

func (s Step) actions() int {
	n := 0
	for _, set := range []bool{s.Move != nil, s.Click != nil, s.Drag != nil, s.Wait != nil, s.Resize != nil} {
		if set {
			n++
		}
	}
	return n
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("record: read scenario: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates YAML scenario data.
func ParseScenario(data []byte) (Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return Scenario{}, fmt.Errorf("record: parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// Validate checks that every step names exactly one action.
func (sc Scenario) Validate() error {
	if sc.FPS < 0 {
		return errors.New("record: negative fps")
	}
	for i, s := range sc.Steps {
		if n := s.actions(); n != 1 {
			return fmt.Errorf("record: step %d: want exactly one action, got %d", i, n)
		}
		if s.Resize != nil && (s.Resize.Width <= 0 || s.Resize.Height <= 0) {
			return fmt.Errorf("record: step %d: resize to %gx%g", i, s.Resize.Width, s.Resize.Height)
		}
	}
	return nil
}

// Frames returns how many frames the waits produce at fps.
func (sc Scenario) Frames(fps int) int {
	n := 0
	for _, s := range sc.Steps {
		if s.Wait != nil {
			n += framesFor(time.Duration(*s.Wait), fps)
		}
	}
	return n
}

func framesFor(d time.Duration, fps int) int {
	return int(math.Round(d.Seconds() * float64(fps)))
}
