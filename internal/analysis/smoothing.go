package analysis

// movingAverage applies a centered moving average with the given window.
// At the boundaries the window shrinks symmetrically so values near the
// edges average over fewer neighbors instead of padded zeros.
func movingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	half := window / 2
	for i := range values {
		reach := half
		if i < reach {
			reach = i
		}
		if len(values)-1-i < reach {
			reach = len(values) - 1 - i
		}
		sum := 0.0
		for j := i - reach; j <= i+reach; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(2*reach+1)
	}
	return out
}

// smoothLandmarks returns a copy of the frames with each landmark's
// coordinates averaged over a centered window. Only neighbors at or above
// the confidence threshold contribute. Each smoothed point keeps the
// center frame's own visibility so presence decisions stay per-frame.
func smoothLandmarks(frames []FrameLandmarks, window int, confidence float64) []FrameLandmarks {
	if window <= 1 {
		return frames
	}
	half := window / 2
	out := make([]FrameLandmarks, len(frames))
	for i, frame := range frames {
		points := make(map[string]Point, len(frame.Points))
		reach := half
		if i < reach {
			reach = i
		}
		if len(frames)-1-i < reach {
			reach = len(frames) - 1 - i
		}
		for name, raw := range frame.Points {
			var sumX, sumY, sumZ float64
			count := 0
			for j := i - reach; j <= i+reach; j++ {
				neighbor, ok := frames[j].Points[name]
				if !ok || neighbor.Visibility < confidence {
					continue
				}
				sumX += neighbor.X
				sumY += neighbor.Y
				sumZ += neighbor.Z
				count++
			}
			if count == 0 {
				points[name] = raw
				continue
			}
			points[name] = Point{
				X:          sumX / float64(count),
				Y:          sumY / float64(count),
				Z:          sumZ / float64(count),
				Visibility: raw.Visibility,
			}
		}
		out[i] = FrameLandmarks{
			Index:     frame.Index,
			Timestamp: frame.Timestamp,
			Points:    points,
		}
	}
	return out
}
