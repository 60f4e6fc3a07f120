package asset

import (
	"fmt"
	"sort"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-asset/pkg/math"
)

// Field widths of the animation section.
const (
	AnimationNameSize = 56
	sampleSize        = 3 * 16
)

// Sample is the local transform of one bone at one keyframe.
// Rotation is a quaternion stored x, y, z, w; the format does not
// normalize it.
type Sample struct {
	Position [4]float32
	Rotation [4]float32
	Scale    [4]float32
}

// RestSample is the identity transform: no translation or rotation, unit
// scale.
var RestSample = Sample{
	Rotation: [4]float32{0, 0, 0, 1},
	Scale:    [4]float32{1, 1, 1, 1},
}

// Matrix composes the sample into a translation * rotation * scale matrix.
func (s Sample) Matrix() math.Mat4 {
	return math.TRS(
		math.Vec3FromArray(s.Position),
		math.QuatFromArray(s.Rotation),
		math.Vec3FromArray(s.Scale),
	)
}

// Animation is a keyframed track over every bone of a skeleton. Samples is
// a key-major table: the sample for key k and bone b is Samples[k*BoneCount+b].
type Animation struct {
	Name           string
	Duration       float32 // in ticks
	TicksPerSecond float32
	BoneCount      int
	Times          []float32 // one timestamp per key, non-decreasing
	Samples        []Sample
}

// KeyCount returns the number of keyframes.
func (a *Animation) KeyCount() int {
	return len(a.Times)
}

// Sample returns the sample for key k and bone b.
func (a *Animation) Sample(k, b int) Sample {
	return a.Samples[k*a.BoneCount+b]
}

// Key returns the samples of every bone at key k.
func (a *Animation) Key(k int) []Sample {
	return a.Samples[k*a.BoneCount : (k+1)*a.BoneCount]
}

// Ticks converts seconds to animation ticks. Animations that do not declare
// a tick rate are taken to tick once per second.
func (a *Animation) Ticks(seconds float32) float32 {
	if a.TicksPerSecond <= 0 {
		return seconds
	}
	return seconds * a.TicksPerSecond
}

// Validate checks the table shape and that timestamps never decrease.
func (a *Animation) Validate() error {
	if a.BoneCount < 0 {
		return &DecodeError{Section: SectionAnimation, Index: -1, Err: ErrInvalidAnimation,
			Detail: fmt.Sprintf("negative bone count %d", a.BoneCount)}
	}
	if want := len(a.Times) * a.BoneCount; len(a.Samples) != want {
		return &DecodeError{Section: SectionAnimation, Index: -1, Err: ErrInvalidAnimation,
			Detail: fmt.Sprintf("have %d samples, want %d keys x %d bones", len(a.Samples), len(a.Times), a.BoneCount)}
	}
	return validateTimes(a.Times)
}

func validateTimes(times []float32) error {
	for k, t := range times {
		if math32.IsNaN(t) {
			return &DecodeError{Section: SectionAnimation, Index: -1, Err: ErrInvalidAnimation,
				Detail: fmt.Sprintf("timestamp %d is NaN", k)}
		}
		if k > 0 && t < times[k-1] {
			return &DecodeError{Section: SectionAnimation, Index: -1, Err: ErrInvalidAnimation,
				Detail: fmt.Sprintf("timestamp %d (%g) is before timestamp %d (%g)", k, t, k-1, times[k-1])}
		}
	}
	return nil
}

// SampleAt returns one interpolated transform per bone at time t (in
// ticks). Positions and scales are interpolated linearly, rotations
// spherically. Times outside the keyed range clamp to the first or last key.
// An animation without keys returns nil; its bone count is not backed by any
// sample data and is never used to size the result.
func (a *Animation) SampleAt(t float32) []Sample {
	keys := len(a.Times)
	if keys == 0 || a.BoneCount <= 0 {
		return nil
	}
	out := make([]Sample, a.BoneCount)
	switch {
	case math32.IsNaN(t) || t <= a.Times[0]:
		copy(out, a.Key(0))
		return out
	case t >= a.Times[keys-1]:
		copy(out, a.Key(keys-1))
		return out
	}

	// First key strictly after t; t >= Times[0] guarantees next >= 1.
	next := sort.Search(keys, func(i int) bool { return a.Times[i] > t })
	prev := next - 1
	frac := (t - a.Times[prev]) / (a.Times[next] - a.Times[prev])

	k0, k1 := a.Key(prev), a.Key(next)
	for b := range out {
		s0, s1 := k0[b], k1[b]
		rot := math.QuatFromArray(s0.Rotation).Slerp(math.QuatFromArray(s1.Rotation), frac)
		out[b] = Sample{
			Position: math.Lerp4(s0.Position, s1.Position, frac),
			Rotation: rot.Array(),
			Scale:    math.Lerp4(s0.Scale, s1.Scale, frac),
		}
	}
	return out
}

// ReadAnimation decodes one animation. The bone count is not checked
// against any skeleton; Decode does that for whole assets.
func ReadAnimation(r *Reader) (Animation, error) {
	var a Animation
	var err error
	if a.Name, err = r.Name(AnimationNameSize); err != nil {
		return a, err
	}
	if a.Duration, err = r.F32(); err != nil {
		return a, err
	}
	if a.TicksPerSecond, err = r.F32(); err != nil {
		return a, err
	}
	keyCount, err := r.U32()
	if err != nil {
		return a, err
	}
	boneCount, err := r.U32()
	if err != nil {
		return a, err
	}

	timesAt := r.Offset()
	if a.Times, err = r.Float32s(uint64(keyCount)); err != nil {
		return a, err
	}
	if err := validateTimes(a.Times); err != nil {
		err.(*DecodeError).Offset = timesAt
		return a, err
	}

	// Both counts are 32-bit, so the product cannot overflow; the byte
	// size is checked by span.
	total := uint64(keyCount) * uint64(boneCount)
	if _, err := r.span(total, sampleSize); err != nil {
		return a, err
	}
	a.BoneCount = int(boneCount)
	if total > 0 {
		a.Samples = make([]Sample, total)
	}
	for i := range a.Samples {
		s := &a.Samples[i]
		s.Position, _ = r.Vec4()
		s.Rotation, _ = r.Vec4()
		s.Scale, _ = r.Vec4()
	}
	return a, nil
}

// WriteAnimation encodes a without validating it.
func WriteAnimation(w *Writer, a *Animation) {
	w.Name(a.Name, AnimationNameSize)
	w.F32(a.Duration)
	w.F32(a.TicksPerSecond)
	w.U32(uint32(len(a.Times)))
	w.U32(uint32(a.BoneCount))
	w.Float32s(a.Times)
	for _, s := range a.Samples {
		w.Vec4(s.Position)
		w.Vec4(s.Rotation)
		w.Vec4(s.Scale)
	}
}
