package analysis

import "fmt"

// Angle names computed for every motion. The order is canonical and used
// wherever deterministic iteration matters.
const (
	AngleLeftArm     = "left_arm_angle"
	AngleRightArm    = "right_arm_angle"
	AngleSpine       = "spine_angle"
	AngleHipShoulder = "hip_shoulder_separation"
	AngleLeftKnee    = "left_knee_angle"
	AngleRightKnee   = "right_knee_angle"
)

// AngleNames lists all computed angles in canonical order.
var AngleNames = []string{
	AngleLeftArm,
	AngleRightArm,
	AngleSpine,
	AngleHipShoulder,
	AngleLeftKnee,
	AngleRightKnee,
}

// Phase names in canonical motion order.
const (
	PhaseAddress       = "address"
	PhaseBackswing     = "backswing"
	PhaseTop           = "top"
	PhaseDownswing     = "downswing"
	PhaseFollowThrough = "follow_through"
)

// PhaseOrder lists the motion phases in canonical order.
var PhaseOrder = []string{
	PhaseAddress,
	PhaseBackswing,
	PhaseTop,
	PhaseDownswing,
	PhaseFollowThrough,
}

// Pipeline stage names used for timing and logging.
const (
	StageAcquisition = "acquisition"
	StageAngles      = "angle_calculation"
	StagePhases      = "phase_detection"
	StageEvaluation  = "config_evaluation"
	StageFeedback    = "feedback_generation"
)

// Point is a 3D landmark position with a detection confidence in [0,1]
type Point struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// FrameLandmarks holds the labeled landmarks of one video frame
type FrameLandmarks struct {
	Index     int              `json:"index"`
	Timestamp float64          `json:"timestamp"`
	Points    map[string]Point `json:"points"`
}

// LandmarkSequence is the complete landmark extraction of one motion video
type LandmarkSequence struct {
	Frames          []FrameLandmarks `json:"frames"`
	TotalFrames     int              `json:"total_frames"`
	DurationSeconds float64          `json:"duration_seconds"`
	FPS             float64          `json:"fps"`
}

// Validate checks the sequence invariants: frame indices contiguous from 0
// and the frame count consistent with TotalFrames.
func (s *LandmarkSequence) Validate() error {
	if len(s.Frames) == 0 {
		return NewInvalidRequest("landmark sequence has no frames")
	}
	if s.TotalFrames != len(s.Frames) {
		return NewInvalidRequest(fmt.Sprintf("total_frames %d does not match %d frames", s.TotalFrames, len(s.Frames)))
	}
	for i, frame := range s.Frames {
		if frame.Index != i {
			return NewInvalidRequest(fmt.Sprintf("frame index %d at position %d, indices must be contiguous from 0", frame.Index, i))
		}
	}
	return nil
}

// AngleSample maps angle name to degrees in [0,180], nil when the frame
// had insufficient landmark data for that angle.
type AngleSample map[string]*float64

// AngleTimeSeries holds one AngleSample per frame
type AngleTimeSeries []AngleSample

// Phase is one named, contiguous sub-interval of the motion
type Phase struct {
	Name       string `json:"name"`
	StartFrame int    `json:"start_frame"`
	EndFrame   int    `json:"end_frame"`
	DurationMS int    `json:"duration_ms"`
}

// PhaseSegmentation covers [0, total_frames-1] exactly once in canonical
// phase order.
type PhaseSegmentation []Phase

// AngleRange is the ideal range and scoring weight for one angle
type AngleRange struct {
	Min         float64
	Max         float64
	Weight      float64
	Phase       string
	Description string
}

// SportProfile holds the evaluation profile for one (sport, sub-category)
type SportProfile struct {
	SportType   string
	SubCategory string
	Description string
	Angles      map[string]AngleRange
}

// Deviation describes how one angle relates to its ideal range
type Deviation struct {
	Angle      string     `json:"angle"`
	Current    float64    `json:"current"`
	IdealRange [2]float64 `json:"ideal_range"`
	Magnitude  float64    `json:"-"`
	Direction  string     `json:"-"`
	Suggestion string     `json:"suggestion"`
}

// Result is the complete analysis report for one motion
type Result struct {
	TotalFrames      int                `json:"total_frames"`
	DurationSeconds  float64            `json:"duration_seconds"`
	Angles           map[string]float64 `json:"angles"`
	Phases           PhaseSegmentation  `json:"phases"`
	OverallScore     float64            `json:"overall_score"`
	Improvements     []Deviation        `json:"improvements"`
	Feedback         string             `json:"feedback"`
	DegradedFeedback bool               `json:"degraded_feedback"`
	PromptVersion    string             `json:"prompt_version"`
	Timings          map[string]float64 `json:"timings"`
}

// FeedbackSubject carries the computed analysis values handed to the
// feedback generator.
type FeedbackSubject struct {
	MotionID        string
	SportType       string
	SubCategory     string
	TotalFrames     int
	DurationSeconds float64
	OverallScore    float64
	Angles          map[string]float64
	Phases          PhaseSegmentation
	Improvements    []Deviation
}
