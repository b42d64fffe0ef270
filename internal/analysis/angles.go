package analysis

import (
	"math"
	"strings"
)

// angleDef names the landmark triplet of a vertex angle: the angle is
// measured at vertex between the vectors toward first and second.
type angleDef struct {
	first  string
	vertex string
	second string
}

// vertexAngles covers every angle except hip_shoulder_separation, which
// is planar and computed from two landmark pairs instead of a triplet.
var vertexAngles = map[string]angleDef{
	AngleLeftArm:   {"left_shoulder", "left_elbow", "left_wrist"},
	AngleRightArm:  {"right_shoulder", "right_elbow", "right_wrist"},
	AngleSpine:     {"left_shoulder", "left_hip", "left_knee"},
	AngleLeftKnee:  {"left_hip", "left_knee", "left_ankle"},
	AngleRightKnee: {"right_hip", "right_knee", "right_ankle"},
}

// CalculatorParams holds the angle computation tunables
type CalculatorParams struct {
	SmoothWindow        int
	ConfidenceThreshold float64
}

// DefaultCalculatorParams returns the standard tunables
func DefaultCalculatorParams() CalculatorParams {
	return CalculatorParams{
		SmoothWindow:        5,
		ConfidenceThreshold: 0.5,
	}
}

// Calculator derives named joint angles per frame from 3D landmarks
type Calculator struct {
	params CalculatorParams
}

// NewCalculator creates an angle calculator
func NewCalculator(params CalculatorParams) *Calculator {
	return &Calculator{params: params}
}

// Compute produces one AngleSample per frame. Angles that could not be
// computed in any frame are returned by name; if that covers every angle
// the whole stage fails with AN_NO_LANDMARKS.
func (c *Calculator) Compute(seq *LandmarkSequence) (AngleTimeSeries, []string, error) {
	frames := smoothLandmarks(seq.Frames, c.params.SmoothWindow, c.params.ConfidenceThreshold)
	series := make(AngleTimeSeries, len(frames))
	present := make(map[string]int, len(AngleNames))

	for i, frame := range frames {
		sample := make(AngleSample, len(AngleNames))
		for name, def := range vertexAngles {
			first, ok1 := c.pointAt(frame, def.first)
			vertex, ok2 := c.pointAt(frame, def.vertex)
			second, ok3 := c.pointAt(frame, def.second)
			if !ok1 || !ok2 || !ok3 {
				sample[name] = nil
				continue
			}
			value, ok := vertexAngle(first, vertex, second)
			if !ok {
				sample[name] = nil
				continue
			}
			sample[name] = &value
			present[name]++
		}
		if value, ok := c.separation(frame); ok {
			sample[AngleHipShoulder] = &value
			present[AngleHipShoulder]++
		} else {
			sample[AngleHipShoulder] = nil
		}
		series[i] = sample
	}

	missing := make([]string, 0)
	for _, name := range AngleNames {
		if present[name] == 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) == len(AngleNames) {
		return nil, missing, NewNoLandmarks("no angle could be computed from the landmark sequence")
	}
	return series, missing, nil
}

func (c *Calculator) pointAt(frame FrameLandmarks, name string) (Point, bool) {
	p, ok := frame.Points[name]
	if !ok || p.Visibility < c.params.ConfidenceThreshold {
		return Point{}, false
	}
	return p, true
}

// separation computes hip_shoulder_separation: the absolute difference
// between the shoulder-line and hip-line orientations in the XY plane,
// normalized to [0,180].
func (c *Calculator) separation(frame FrameLandmarks) (float64, bool) {
	ls, ok1 := c.pointAt(frame, "left_shoulder")
	rs, ok2 := c.pointAt(frame, "right_shoulder")
	lh, ok3 := c.pointAt(frame, "left_hip")
	rh, ok4 := c.pointAt(frame, "right_hip")
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0, false
	}
	shoulderLine := math.Atan2(rs.Y-ls.Y, rs.X-ls.X)
	hipLine := math.Atan2(rh.Y-lh.Y, rh.X-lh.X)
	degrees := math.Abs(shoulderLine-hipLine) * 180 / math.Pi
	if degrees > 180 {
		degrees = 360 - degrees
	}
	return round1(degrees), true
}

// vertexAngle computes the angle at vertex in degrees, clamped to [0,180].
// A zero-length vector makes the angle undefined.
func vertexAngle(first, vertex, second Point) (float64, bool) {
	ux, uy, uz := first.X-vertex.X, first.Y-vertex.Y, first.Z-vertex.Z
	wx, wy, wz := second.X-vertex.X, second.Y-vertex.Y, second.Z-vertex.Z
	normU := math.Sqrt(ux*ux + uy*uy + uz*uz)
	normW := math.Sqrt(wx*wx + wy*wy + wz*wz)
	if normU == 0 || normW == 0 {
		return 0, false
	}
	cos := (ux*wx + uy*wy + uz*wz) / (normU * normW)
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	degrees := math.Acos(cos) * 180 / math.Pi
	if degrees < 0 {
		degrees = 0
	} else if degrees > 180 {
		degrees = 180
	}
	return round1(degrees), true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// angleWords turns an angle name into readable words for messages
func angleWords(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}
