package landmark

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/teslashibe/go-mannequin/pkg/rig"
)

func TestPoseValidate(t *testing.T) {
	tests := []struct {
		name    string
		pose    Pose
		wantErr bool
	}{
		{"complete", make(Pose, Count), false},
		{"short", make(Pose, Count-1), true},
		{"nan", func() Pose { p := make(Pose, Count); p[3].Y = math.NaN(); return p }(), true},
		{"inf", func() Pose { p := make(Pose, Count); p[30].Z = math.Inf(1); return p }(), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.pose.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}

	if err := make(Pose, 2).Validate(); !errors.Is(err, ErrShortPose) {
		t.Errorf("short pose error = %v, want ErrShortPose", err)
	}
}

func TestFrameGate(t *testing.T) {
	var g FrameGate
	steps := []struct {
		ts   int64
		want bool
	}{
		{0, true},
		{0, false},
		{33, true},
		{33, false},
		{33, false},
		{66, true},
		{33, true}, // a rewound video still counts as a new frame
	}
	for i, s := range steps {
		if got := g.Admit(s.ts); got != s.want {
			t.Errorf("step %d: Admit(%d) = %v, want %v", i, s.ts, got, s.want)
		}
	}

	g.Reset()
	if !g.Admit(33) {
		t.Error("Admit after Reset should pass")
	}
}

func TestFrameGateConcurrent(t *testing.T) {
	var g FrameGate
	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Admit(100) {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if admitted != 1 {
		t.Errorf("admitted %d times, want 1", admitted)
	}
}

func TestElevation(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"horizontal", Point{X: 0}, Point{X: 1}, 0},
		{"straight down the image", Point{Y: 0}, Point{Y: 1}, math.Pi / 2},
		{"straight up the image", Point{Y: 1}, Point{Y: 0}, -math.Pi / 2},
		{"diagonal with depth", Point{}, Point{X: 3, Y: 5, Z: 4}, math.Pi / 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Elevation(tc.a, tc.b); math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("Elevation = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestRetarget(t *testing.T) {
	p := make(Pose, Count)
	// Left arm held out level, forearm hanging; right side untouched.
	p[LeftShoulder] = Point{X: 0.6, Y: 0.3}
	p[LeftElbow] = Point{X: 0.7, Y: 0.3}
	p[LeftWrist] = Point{X: 0.7, Y: 0.4}
	p[LeftHip] = Point{X: 0.55, Y: 0.6}
	p[LeftKnee] = Point{X: 0.55, Y: 0.6, Z: 0.1}
	p[LeftAnkle] = Point{X: 0.55, Y: 0.7, Z: 0.1}

	r := rig.New(rig.Male)
	if err := Retarget(r, p); err != nil {
		t.Fatalf("Retarget: %v", err)
	}

	check := func(joint, motion string, want float64) {
		t.Helper()
		got, err := r.Get(joint).Motion(motion)
		if err != nil {
			t.Fatalf("%s.%s: %v", joint, motion, err)
		}
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("%s.%s = %v, want %v", joint, motion, got, want)
		}
	}
	check("l_arm", "raise", 0)
	check("l_elbow", "bend", 90)
	check("l_leg", "raise", 0)
	check("l_knee", "bend", 90)

	// Coincident landmarks give a zero elevation.
	check("r_arm", "raise", 0)
	check("r_knee", "bend", 0)
}

func TestRetargetRejectsShortPose(t *testing.T) {
	r := rig.New(rig.Female)
	before := r.Snapshot()
	if err := Retarget(r, make(Pose, 10)); !errors.Is(err, ErrShortPose) {
		t.Fatalf("err = %v, want ErrShortPose", err)
	}
	if !r.Snapshot().Equal(before, 0) {
		t.Error("rejected pose changed the rig")
	}
}

func TestDecodePose(t *testing.T) {
	data := make([]float32, 39*valuesPerLandmark)
	data[0], data[1], data[2], data[3] = 128, 64, 32, 0
	data[5*LeftWrist] = 256

	pose, err := decodePose(data, 256, 256)
	if err != nil {
		t.Fatalf("decodePose: %v", err)
	}
	if len(pose) != Count {
		t.Fatalf("len = %d, want %d", len(pose), Count)
	}
	nose := pose[Nose]
	if nose.X != 0.5 || nose.Y != 0.25 || nose.Z != 0.125 || nose.Visibility != 0.5 {
		t.Errorf("nose = %+v", nose)
	}
	if pose[LeftWrist].X != 1 {
		t.Errorf("left wrist x = %v, want 1", pose[LeftWrist].X)
	}

	if _, err := decodePose(data[:10], 256, 256); !errors.Is(err, ErrShortPose) {
		t.Errorf("short tensor error = %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ModelPath == "" || cfg.InputWidth <= 0 || cfg.InputHeight <= 0 {
		t.Errorf("DefaultConfig = %+v", cfg)
	}
	if cfg.MaxPoses != 1 {
		t.Errorf("MaxPoses = %d, want 1", cfg.MaxPoses)
	}
	if LiteConfig().ModelPath == cfg.ModelPath {
		t.Error("lite config should use the lite model")
	}
	if _, err := NewDetector(Config{ModelPath: "does/not/exist.onnx"}); err == nil {
		t.Error("NewDetector with missing model should fail")
	}
}
