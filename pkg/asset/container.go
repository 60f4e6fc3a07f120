package asset

import (
	"fmt"
	"os"
	"strings"
)

// Smallest encoded size of each repeated section, used to reject counts the
// buffer cannot possibly hold before allocating for them.
const (
	headerSize       = 4 + 4 + 1 + 4
	minMeshSize      = 4 + 4 + 4
	minMaterialSize  = MaterialNameSize + 4 + 4 + 8
	minAnimationSize = AnimationNameSize + 4 + 4 + 4 + 4
)

// Asset is a decoded model file: meshes, an optional skeleton, materials
// and animations bound to the skeleton.
type Asset struct {
	Meshes     []Mesh
	Skeleton   *Skeleton // nil when the model is not skinned
	Materials  []Material
	Animations []Animation
}

// Options tunes Decode.
type Options struct {
	// AllowTrailingData accepts bytes after the last section instead of
	// failing with ErrTrailingData.
	AllowTrailingData bool
}

// Decode parses a complete asset buffer. On failure it returns no partial
// asset, only an error wrapping one of the Err* sentinels.
func Decode(data []byte) (*Asset, error) {
	return DecodeWith(data, Options{})
}

// DecodeWith is Decode with explicit options.
func DecodeWith(data []byte, opts Options) (*Asset, error) {
	r := NewReader(data)

	meshCount, err := r.U32()
	if err != nil {
		return nil, locate(err, SectionHeader, -1)
	}
	materialCount, err := r.U32()
	if err != nil {
		return nil, locate(err, SectionHeader, -1)
	}
	flagAt := r.Offset()
	hasSkeleton, err := r.U8()
	if err != nil {
		return nil, locate(err, SectionHeader, -1)
	}
	animCount, err := r.U32()
	if err != nil {
		return nil, locate(err, SectionHeader, -1)
	}
	if hasSkeleton > 1 {
		return nil, &DecodeError{Section: SectionHeader, Index: -1, Offset: flagAt, Err: ErrInvalidHeader,
			Detail: fmt.Sprintf("skeleton flag is %d", hasSkeleton)}
	}
	if meshCount == 0 {
		return nil, &DecodeError{Section: SectionHeader, Index: -1, Err: ErrInvalidHeader, Detail: "asset has no meshes"}
	}

	a := &Asset{}
	if hasSkeleton == 1 {
		if a.Skeleton, err = ReadSkeleton(r); err != nil {
			return nil, err
		}
	}

	if _, err := r.span(uint64(meshCount), minMeshSize); err != nil {
		return nil, locate(err, SectionMesh, -1)
	}
	a.Meshes = make([]Mesh, meshCount)
	for i := range a.Meshes {
		if a.Meshes[i], err = ReadMesh(r); err != nil {
			return nil, locate(err, SectionMesh, i)
		}
	}

	if _, err := r.span(uint64(materialCount), minMaterialSize); err != nil {
		return nil, locate(err, SectionMaterial, -1)
	}
	if materialCount > 0 {
		a.Materials = make([]Material, materialCount)
	}
	for i := range a.Materials {
		if a.Materials[i], err = ReadMaterial(r); err != nil {
			return nil, locate(err, SectionMaterial, i)
		}
	}

	if _, err := r.span(uint64(animCount), minAnimationSize); err != nil {
		return nil, locate(err, SectionAnimation, -1)
	}
	if animCount > 0 {
		a.Animations = make([]Animation, animCount)
	}
	animAt := make([]int, animCount)
	for i := range a.Animations {
		animAt[i] = r.Offset()
		if a.Animations[i], err = ReadAnimation(r); err != nil {
			return nil, locate(err, SectionAnimation, i)
		}
	}

	if r.Len() > 0 && !opts.AllowTrailingData {
		return nil, &DecodeError{Section: SectionTrailer, Index: -1, Offset: r.Offset(), Err: ErrTrailingData,
			Detail: fmt.Sprintf("%d bytes", r.Len())}
	}

	if err := a.checkBinding(); err != nil {
		de := err.(*DecodeError)
		de.Offset = animAt[de.Index]
		return nil, de
	}
	return a, nil
}

// checkBinding requires every animation to drive exactly the skeleton's
// bones, or no bones when there is no skeleton.
func (a *Asset) checkBinding() error {
	bones := a.Skeleton.BoneCount()
	for i := range a.Animations {
		if got := a.Animations[i].BoneCount; got != bones {
			return &DecodeError{
				Section: SectionAnimation,
				Index:   i,
				Err:     ErrSkeletonAnimationMismatch,
				Detail:  fmt.Sprintf("animation %q has %d bones, skeleton has %d", a.Animations[i].Name, got, bones),
			}
		}
	}
	return nil
}

// Validate runs the checks Decode performs on an in-memory asset, plus the
// name-width checks Encode relies on. Encode itself does not validate.
func (a *Asset) Validate() error {
	if len(a.Meshes) == 0 {
		return &DecodeError{Section: SectionHeader, Index: -1, Err: ErrInvalidHeader, Detail: "asset has no meshes"}
	}
	if a.Skeleton != nil {
		for i, b := range a.Skeleton.Bones {
			if err := checkName(b.Name, BoneNameSize, SectionSkeleton, i); err != nil {
				return err
			}
		}
		if err := a.Skeleton.Validate(); err != nil {
			return err
		}
	}
	for i := range a.Meshes {
		if err := a.Meshes[i].Validate(); err != nil {
			return locate(err, SectionMesh, i)
		}
	}
	for i := range a.Materials {
		m := &a.Materials[i]
		if err := checkName(m.Name, MaterialNameSize, SectionMaterial, i); err != nil {
			return err
		}
		if err := m.Validate(); err != nil {
			return locate(err, SectionMaterial, i)
		}
	}
	for i := range a.Animations {
		an := &a.Animations[i]
		if err := checkName(an.Name, AnimationNameSize, SectionAnimation, i); err != nil {
			return err
		}
		if err := an.Validate(); err != nil {
			return locate(err, SectionAnimation, i)
		}
	}
	return a.checkBinding()
}

// checkName rejects names the fixed-width field cannot carry back: ones
// longer than the field, and ones with a NUL that decode would cut short.
func checkName(name string, width int, section string, index int) error {
	if i := strings.IndexByte(name, 0); i >= 0 {
		return &DecodeError{Section: section, Index: index, Err: ErrInvalidName,
			Detail: fmt.Sprintf("%q has a NUL at byte %d", name, i)}
	}
	if len(name) > width {
		return &DecodeError{Section: section, Index: index, Err: ErrNameTooLong,
			Detail: fmt.Sprintf("%q is %d bytes, field holds %d", name, len(name), width)}
	}
	return nil
}

// EncodedSize returns the exact length Encode will produce.
func (a *Asset) EncodedSize() int {
	n := headerSize
	if a.Skeleton != nil {
		n += 4 + len(a.Skeleton.Bones)*boneSize
	}
	for i := range a.Meshes {
		n += minMeshSize + len(a.Meshes[i].Vertices) + 4*len(a.Meshes[i].Indices)
	}
	for i := range a.Materials {
		n += minMaterialSize + paramIndexSize*len(a.Materials[i].Params) + len(a.Materials[i].Data)
	}
	for i := range a.Animations {
		n += minAnimationSize + 4*len(a.Animations[i].Times) + sampleSize*len(a.Animations[i].Samples)
	}
	return n
}

// Encode serializes a in the order Decode reads it. The asset is assumed
// valid; call Validate first for data that did not come from Decode.
func Encode(a *Asset) []byte {
	w := NewWriter(a.EncodedSize())
	w.U32(uint32(len(a.Meshes)))
	w.U32(uint32(len(a.Materials)))
	if a.Skeleton != nil {
		w.U8(1)
	} else {
		w.U8(0)
	}
	w.U32(uint32(len(a.Animations)))

	if a.Skeleton != nil {
		WriteSkeleton(w, a.Skeleton)
	}
	for i := range a.Meshes {
		WriteMesh(w, &a.Meshes[i])
	}
	for i := range a.Materials {
		WriteMaterial(w, &a.Materials[i])
	}
	for i := range a.Animations {
		WriteAnimation(w, &a.Animations[i])
	}
	return w.Bytes()
}

// ReadFile decodes an asset file from disk.
func ReadFile(path string) (*Asset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading asset file: %w", err)
	}
	return Decode(data)
}

// WriteFile validates a and writes its encoding to path.
func WriteFile(path string, a *Asset) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if err := os.WriteFile(path, Encode(a), 0644); err != nil {
		return fmt.Errorf("writing asset file: %w", err)
	}
	return nil
}
