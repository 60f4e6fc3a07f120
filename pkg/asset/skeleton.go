package asset

import (
	"fmt"

	"github.com/Faultbox/midgard-asset/pkg/math"
)

// Field widths of the skeleton section.
const (
	BoneNameSize = 64
	boneSize     = BoneNameSize + 4 + 16*4
)

// NoParent is the parent id of a root bone.
const NoParent int32 = -1

// Bone is one joint of a skeleton. Bones reference their parent by index
// into the same bone slice.
type Bone struct {
	Name      string
	ParentID  int32
	Transform math.Mat4 // bind pose, relative to the parent
}

// IsRoot reports whether the bone has no parent.
func (b Bone) IsRoot() bool {
	return b.ParentID == NoParent
}

// Skeleton is a bone hierarchy stored parent-before-child.
type Skeleton struct {
	Bones []Bone
}

// BoneCount returns the number of bones.
func (s *Skeleton) BoneCount() int {
	if s == nil {
		return 0
	}
	return len(s.Bones)
}

// Validate checks that every bone is either a root or refers to a bone
// earlier in the slice. Ordering parents first rules out cycles.
func (s *Skeleton) Validate() error {
	for i, b := range s.Bones {
		if b.IsRoot() {
			continue
		}
		var detail string
		switch {
		case int(b.ParentID) == i:
			detail = "bone is its own parent"
		case b.ParentID < 0:
			detail = fmt.Sprintf("parent id %d is out of range", b.ParentID)
		case int(b.ParentID) >= len(s.Bones):
			detail = fmt.Sprintf("parent id %d is out of range for %d bones", b.ParentID, len(s.Bones))
		case int(b.ParentID) > i:
			detail = fmt.Sprintf("parent id %d is a forward reference", b.ParentID)
		default:
			continue
		}
		return &DecodeError{Section: SectionSkeleton, Index: i, Err: ErrInvalidSkeleton, Detail: detail}
	}
	return nil
}

// Roots returns the indices of all root bones.
func (s *Skeleton) Roots() []int {
	var roots []int
	for i, b := range s.Bones {
		if b.IsRoot() {
			roots = append(roots, i)
		}
	}
	return roots
}

// Children returns the indices of the direct children of bone i.
func (s *Skeleton) Children(i int) []int {
	var children []int
	for j := i + 1; j < len(s.Bones); j++ {
		if int(s.Bones[j].ParentID) == i {
			children = append(children, j)
		}
	}
	return children
}

// BoneByName returns the index of the first bone with the given name.
func (s *Skeleton) BoneByName(name string) (int, bool) {
	for i, b := range s.Bones {
		if b.Name == name {
			return i, true
		}
	}
	return -1, false
}

// WorldTransforms accumulates bind poses from the roots down. The skeleton
// must be valid.
func (s *Skeleton) WorldTransforms() []math.Mat4 {
	world := make([]math.Mat4, len(s.Bones))
	for i, b := range s.Bones {
		if b.IsRoot() {
			world[i] = b.Transform
			continue
		}
		world[i] = world[b.ParentID].Mul(b.Transform)
	}
	return world
}

// ReadSkeleton decodes a skeleton section and checks its topology.
func ReadSkeleton(r *Reader) (*Skeleton, error) {
	count, err := r.U32()
	if err != nil {
		return nil, locate(err, SectionSkeleton, -1)
	}
	// Size the whole bone array up front so a huge count fails before allocating.
	if _, err := r.span(uint64(count), boneSize); err != nil {
		return nil, locate(err, SectionSkeleton, -1)
	}

	start := r.Offset()
	s := &Skeleton{}
	if count > 0 {
		s.Bones = make([]Bone, count)
	}
	for i := range s.Bones {
		if err := decodeBone(r, &s.Bones[i]); err != nil {
			return nil, locate(err, SectionSkeleton, i)
		}
	}
	if err := s.Validate(); err != nil {
		de := err.(*DecodeError)
		de.Offset = start + de.Index*boneSize
		return nil, de
	}
	return s, nil
}

func decodeBone(r *Reader, b *Bone) error {
	var err error
	if b.Name, err = r.Name(BoneNameSize); err != nil {
		return err
	}
	if b.ParentID, err = r.I32(); err != nil {
		return err
	}
	for i := range b.Transform {
		if b.Transform[i], err = r.F32(); err != nil {
			return err
		}
	}
	return nil
}

// WriteSkeleton encodes s without validating it.
func WriteSkeleton(w *Writer, s *Skeleton) {
	w.U32(uint32(len(s.Bones)))
	for _, b := range s.Bones {
		w.Name(b.Name, BoneNameSize)
		w.I32(b.ParentID)
		w.Float32s(b.Transform[:])
	}
}
