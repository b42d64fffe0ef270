package analysis

import (
	"testing"
)

// standingBody returns a full landmark set for an upright figure with
// straight arms and legs, every point at the given visibility.
func standingBody(visibility float64) map[string]Point {
	points := map[string]Point{
		"left_shoulder":  {X: -0.2, Y: 1.4},
		"right_shoulder": {X: 0.2, Y: 1.4},
		"left_elbow":     {X: -0.45, Y: 1.4},
		"right_elbow":    {X: 0.45, Y: 1.4},
		"left_wrist":     {X: -0.7, Y: 1.4},
		"right_wrist":    {X: 0.7, Y: 1.4},
		"left_hip":       {X: -0.15, Y: 0.9},
		"right_hip":      {X: 0.15, Y: 0.9},
		"left_knee":      {X: -0.15, Y: 0.5},
		"right_knee":     {X: 0.15, Y: 0.5},
		"left_ankle":     {X: -0.15, Y: 0.1},
		"right_ankle":    {X: 0.15, Y: 0.1},
	}
	for name, p := range points {
		p.Visibility = visibility
		points[name] = p
	}
	return points
}

func standingSequence(frames int, visibility float64) *LandmarkSequence {
	seq := &LandmarkSequence{
		TotalFrames:     frames,
		DurationSeconds: float64(frames) / 24.0,
		FPS:             24,
	}
	for i := 0; i < frames; i++ {
		seq.Frames = append(seq.Frames, FrameLandmarks{
			Index:     i,
			Timestamp: float64(i) / 24.0,
			Points:    standingBody(visibility),
		})
	}
	return seq
}

func TestVertexAngle(t *testing.T) {
	tests := []struct {
		name   string
		first  Point
		vertex Point
		second Point
		want   float64
		wantOK bool
	}{
		{
			name:   "right angle",
			first:  Point{X: 1},
			vertex: Point{},
			second: Point{Y: 1},
			want:   90,
			wantOK: true,
		},
		{
			name:   "straight line",
			first:  Point{X: -1},
			vertex: Point{},
			second: Point{X: 1},
			want:   180,
			wantOK: true,
		},
		{
			name:   "coincident points",
			first:  Point{X: 2, Y: 3},
			vertex: Point{X: 2, Y: 3},
			second: Point{X: 5},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := vertexAngle(tt.first, tt.vertex, tt.second)
			if ok != tt.wantOK {
				t.Fatalf("Expected ok=%v, got %v", tt.wantOK, ok)
			}
			if ok && got != tt.want {
				t.Errorf("Expected %v degrees, got %v", tt.want, got)
			}
		})
	}
}

func TestCalculator_Compute_StandingBody(t *testing.T) {
	calc := NewCalculator(DefaultCalculatorParams())
	seq := standingSequence(20, 0.9)

	series, missing, err := calc.Compute(seq)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("Expected no missing angles, got %v", missing)
	}
	if len(series) != seq.TotalFrames {
		t.Fatalf("Expected %d samples, got %d", seq.TotalFrames, len(series))
	}

	for i, sample := range series {
		for _, name := range AngleNames {
			v, ok := sample[name]
			if !ok || v == nil {
				t.Fatalf("Frame %d: angle %s should be present", i, name)
			}
			if *v < 0 || *v > 180 {
				t.Errorf("Frame %d: angle %s out of range: %v", i, name, *v)
			}
		}
		if *sample[AngleLeftArm] != 180 {
			t.Errorf("Frame %d: expected straight left arm 180, got %v", i, *sample[AngleLeftArm])
		}
		if *sample[AngleRightKnee] != 180 {
			t.Errorf("Frame %d: expected straight right knee 180, got %v", i, *sample[AngleRightKnee])
		}
		if *sample[AngleHipShoulder] != 0 {
			t.Errorf("Frame %d: expected zero hip shoulder separation, got %v", i, *sample[AngleHipShoulder])
		}
	}
}

func TestCalculator_Compute_OneAngleBelowConfidence(t *testing.T) {
	calc := NewCalculator(DefaultCalculatorParams())
	seq := standingSequence(20, 0.9)

	// The right elbow is unreliable in every frame, so the right arm
	// angle must be absent everywhere while the other five survive.
	for i := range seq.Frames {
		p := seq.Frames[i].Points["right_elbow"]
		p.Visibility = 0.2
		seq.Frames[i].Points["right_elbow"] = p
	}

	series, missing, err := calc.Compute(seq)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(missing) != 1 || missing[0] != AngleRightArm {
		t.Fatalf("Expected missing [%s], got %v", AngleRightArm, missing)
	}

	for i, sample := range series {
		if sample[AngleRightArm] != nil {
			t.Errorf("Frame %d: right arm angle should be absent", i)
		}
		for _, name := range []string{AngleLeftArm, AngleSpine, AngleHipShoulder, AngleLeftKnee, AngleRightKnee} {
			if sample[name] == nil {
				t.Errorf("Frame %d: angle %s should be present", i, name)
			}
		}
	}
}

func TestCalculator_Compute_AllLandmarksUnusable(t *testing.T) {
	calc := NewCalculator(DefaultCalculatorParams())
	seq := standingSequence(20, 0.1)

	_, _, err := calc.Compute(seq)
	if err == nil {
		t.Fatal("Expected error for fully unusable sequence")
	}
	typed, ok := AsError(err)
	if !ok {
		t.Fatalf("Expected typed error, got %T", err)
	}
	if typed.Code != CodeNoLandmarks {
		t.Errorf("Expected code %s, got %s", CodeNoLandmarks, typed.Code)
	}
	if typed.Retryable {
		t.Error("Domain errors must not be retryable")
	}
}

func TestCalculator_Compute_MissingLandmarkInSingleFrame(t *testing.T) {
	calc := NewCalculator(DefaultCalculatorParams())
	seq := standingSequence(20, 0.9)
	delete(seq.Frames[7].Points, "left_wrist")

	series, missing, err := calc.Compute(seq)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("Expected no fully missing angles, got %v", missing)
	}
	if series[7][AngleLeftArm] != nil {
		t.Error("Frame 7 left arm angle should be absent without the wrist")
	}
	if series[6][AngleLeftArm] == nil || series[8][AngleLeftArm] == nil {
		t.Error("Neighboring frames should keep their left arm angle")
	}
}
