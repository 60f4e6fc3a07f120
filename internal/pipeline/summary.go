package pipeline

import (
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/midgard-asset/pkg/asset"
)

// Summary is a human-readable view of a decoded asset.
type Summary struct {
	Meshes     []MeshSummary      `yaml:"meshes"`
	Skeleton   *SkeletonSummary   `yaml:"skeleton,omitempty"`
	Materials  []MaterialSummary  `yaml:"materials,omitempty"`
	Animations []AnimationSummary `yaml:"animations,omitempty"`
}

// MeshSummary describes one mesh.
type MeshSummary struct {
	Layout    string `yaml:"layout"`
	Stride    int    `yaml:"stride"`
	Vertices  int    `yaml:"vertices"`
	Triangles int    `yaml:"triangles"`
}

// SkeletonSummary describes the bone hierarchy.
type SkeletonSummary struct {
	Roots []string      `yaml:"roots"`
	Bones []BoneSummary `yaml:"bones"`
}

// BoneSummary describes one bone and its bind-pose position in model space.
type BoneSummary struct {
	Name     string     `yaml:"name"`
	Parent   string     `yaml:"parent,omitempty"`
	Position [3]float32 `yaml:"position,flow"`
}

// MaterialSummary describes one material and its effective parameters.
type MaterialSummary struct {
	Name   string             `yaml:"name"`
	Type   uint32             `yaml:"type"`
	Params []asset.ParamValue `yaml:"params,omitempty"`
}

// AnimationSummary describes one animation.
type AnimationSummary struct {
	Name           string  `yaml:"name"`
	Duration       float32 `yaml:"duration"`
	TicksPerSecond float32 `yaml:"ticks_per_second"`
	Keys           int     `yaml:"keys"`
	Bones          int     `yaml:"bones"`
}

// Summarize builds a Summary, rendering material parameters with reg.
func Summarize(a *asset.Asset, reg asset.ParamRegistry) Summary {
	var s Summary

	for i := range a.Meshes {
		m := &a.Meshes[i]
		ms := MeshSummary{Layout: m.Type.String(), Vertices: m.VertexCount(), Triangles: m.TriangleCount()}
		if l, err := m.Layout(); err == nil {
			ms.Stride = l.Stride
		}
		s.Meshes = append(s.Meshes, ms)
	}

	if sk := a.Skeleton; sk != nil {
		ss := &SkeletonSummary{}
		world := sk.WorldTransforms()
		for _, r := range sk.Roots() {
			ss.Roots = append(ss.Roots, sk.Bones[r].Name)
		}
		for i, b := range sk.Bones {
			bs := BoneSummary{Name: b.Name}
			if !b.IsRoot() {
				bs.Parent = sk.Bones[b.ParentID].Name
			}
			p := world[i].Translation()
			bs.Position = [3]float32{p.X, p.Y, p.Z}
			ss.Bones = append(ss.Bones, bs)
		}
		s.Skeleton = ss
	}

	for i := range a.Materials {
		m := &a.Materials[i]
		s.Materials = append(s.Materials, MaterialSummary{Name: m.Name, Type: m.Type, Params: reg.Describe(m)})
	}

	for i := range a.Animations {
		an := &a.Animations[i]
		s.Animations = append(s.Animations, AnimationSummary{
			Name:           an.Name,
			Duration:       an.Duration,
			TicksPerSecond: an.TicksPerSecond,
			Keys:           an.KeyCount(),
			Bones:          an.BoneCount,
		})
	}
	return s
}

// YAML renders the summary as a YAML document.
func (s Summary) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}
