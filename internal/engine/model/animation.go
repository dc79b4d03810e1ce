package model

import "github.com/Faultbox/meshpart/pkg/math"

// ClusterKey is one keyframe of a cluster track.
type ClusterKey struct {
	TimeMs float32
	Pose   math.Transform
}

// ClusterTrack is the keyframed pose of one cluster, sorted by time.
type ClusterTrack []ClusterKey

// Sample interpolates the track at timeMs, clamping outside the key range.
// An empty track samples as identity.
func (tr ClusterTrack) Sample(timeMs float32) math.Transform {
	if len(tr) == 0 {
		return math.IdentityTransform()
	}
	if len(tr) == 1 || timeMs <= tr[0].TimeMs {
		return tr[0].Pose
	}

	// Find surrounding keyframes
	var prev, next int
	for i := range tr {
		if tr[i].TimeMs > timeMs {
			next = i
			break
		}
		prev = i
		next = i
	}

	// At or past last frame
	if prev == next {
		return tr[prev].Pose
	}

	k0, k1 := tr[prev], tr[next]
	t := float32(0)
	if k1.TimeMs != k0.TimeMs {
		t = (timeMs - k0.TimeMs) / (k1.TimeMs - k0.TimeMs)
	}
	return k0.Pose.Lerp(k1.Pose, t)
}

// Duration returns the time of the last key.
func (tr ClusterTrack) Duration() float32 {
	if len(tr) == 0 {
		return 0
	}
	return tr[len(tr)-1].TimeMs
}

// SamplePose samples every track at timeMs into dst, reusing its storage.
func SamplePose(dst []math.Transform, tracks []ClusterTrack, timeMs float32) []math.Transform {
	dst = dst[:0]
	for _, tr := range tracks {
		dst = append(dst, tr.Sample(timeMs))
	}
	return dst
}

// HasAnimation reports whether any track has more than one key.
// Single-key tracks are static poses, not animations.
func HasAnimation(tracks []ClusterTrack) bool {
	for _, tr := range tracks {
		if len(tr) > 1 {
			return true
		}
	}
	return false
}
