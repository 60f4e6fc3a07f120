package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-asset/internal/config"
	"github.com/Faultbox/midgard-asset/pkg/asset"
	"github.com/Faultbox/midgard-asset/pkg/math"
)

func testAsset() *asset.Asset {
	rest := asset.RestSample
	moved := asset.RestSample
	moved.Position = [4]float32{2, 0, 0, 0}

	return &asset.Asset{
		Skeleton: &asset.Skeleton{Bones: []asset.Bone{
			{Name: "root", ParentID: asset.NoParent, Transform: math.Identity()},
		}},
		Meshes: []asset.Mesh{
			{Type: asset.VertexPosColor, Vertices: make([]byte, 3*24), Indices: []uint32{0, 1, 2}},
		},
		Animations: []asset.Animation{
			{Name: "walk", Duration: 1, TicksPerSecond: 24, BoneCount: 1, Times: []float32{0, 1}, Samples: []asset.Sample{rest, moved}},
			{Name: "pose", BoneCount: 1},
		},
	}
}

func writeFixture(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.mga")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func newTestApp(cfg *config.Config) (*app, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return newApp(cfg, nil, &out, &errOut), &out, &errOut
}

func TestCmdRoundTrip(t *testing.T) {
	data := asset.Encode(testAsset())

	t.Run("identical", func(t *testing.T) {
		a, out, _ := newTestApp(config.Default())
		path := writeFixture(t, data)
		assert.Equal(t, 0, a.cmdRoundTrip([]string{path}))
		assert.Contains(t, out.String(), "ok "+path)
	})

	t.Run("name padding differs", func(t *testing.T) {
		dirty := append([]byte(nil), data...)
		// Header, bone count, then bytes after "root" in the name field.
		dirty[13+4+10] = 'x'
		a, out, _ := newTestApp(config.Default())
		assert.Equal(t, 1, a.cmdRoundTrip([]string{writeFixture(t, dirty)}))
		assert.Contains(t, out.String(), "first difference at offset 27")
	})

	t.Run("trailing data", func(t *testing.T) {
		path := writeFixture(t, append(append([]byte(nil), data...), 1, 2, 3))

		a, _, errOut := newTestApp(config.Default())
		assert.Equal(t, 1, a.cmdRoundTrip([]string{path}))
		assert.Contains(t, errOut.String(), "trailing data")

		cfg := config.Default()
		cfg.Decode.AllowTrailingData = true
		a, out, _ := newTestApp(cfg)
		assert.Equal(t, 0, a.cmdRoundTrip([]string{path}))
		assert.Contains(t, out.String(), "ok ")
	})

	t.Run("usage", func(t *testing.T) {
		a, _, errOut := newTestApp(config.Default())
		assert.Equal(t, 1, a.cmdRoundTrip(nil))
		assert.Contains(t, errOut.String(), "Usage")
	})
}

func TestCmdSample(t *testing.T) {
	path := writeFixture(t, asset.Encode(testAsset()))

	tests := []struct {
		name    string
		args    []string
		code    int
		out     string
		errText string
	}{
		{"midpoint by name", []string{path, "walk", "0.5"}, 0, "pos [1 0 0]", ""},
		{"clamped by index", []string{path, "0", "9"}, 0, "pos [2 0 0]", ""},
		{"no keys", []string{path, "pose", "0"}, 0, "pose has no keyframes", ""},
		{"unknown animation", []string{path, "run", "0"}, 1, "", "Animation not found: run"},
		{"bad time", []string{path, "walk", "soon"}, 1, "", "Invalid time"},
		{"missing file", []string{filepath.Join(t.TempDir(), "none.mga"), "walk", "0"}, 1, "", "Error:"},
		{"usage", []string{path}, 1, "", "Usage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, out, errOut := newTestApp(config.Default())
			assert.Equal(t, tt.code, a.cmdSample(tt.args))
			if tt.out != "" {
				assert.Contains(t, out.String(), tt.out)
			}
			if tt.errText != "" {
				assert.Contains(t, errOut.String(), tt.errText)
			}
		})
	}

	a, out, _ := newTestApp(config.Default())
	require.Equal(t, 0, a.cmdSample([]string{path, "walk", "0.5"}))
	assert.Contains(t, out.String(), "root")
}

func TestCmdValidate(t *testing.T) {
	dir := t.TempDir()
	good := asset.Encode(testAsset())
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.mga"), good, 0644))

	a, out, _ := newTestApp(config.Default())
	assert.Equal(t, 0, a.cmdValidate([]string{dir}))
	assert.Contains(t, out.String(), "1 files, 0 failed")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.mga"), good[:20], 0644))
	a, out, _ = newTestApp(config.Default())
	assert.Equal(t, 1, a.cmdValidate([]string{dir}))
	assert.Contains(t, out.String(), "FAIL "+filepath.Join(dir, "b.mga"))
	assert.Contains(t, out.String(), "2 files, 1 failed")
}

func TestCmdInfoAndDump(t *testing.T) {
	path := writeFixture(t, asset.Encode(testAsset()))

	a, out, _ := newTestApp(config.Default())
	require.Equal(t, 0, a.cmdInfo([]string{path}))
	assert.Contains(t, out.String(), "Skeleton: 1 bones")
	assert.Contains(t, out.String(), "Animations: 2")

	a, out, _ = newTestApp(config.Default())
	require.Equal(t, 0, a.cmdDump([]string{path}))
	assert.Contains(t, out.String(), "layout: PosColor")
	assert.Contains(t, out.String(), "name: walk")
}

func TestFindAnimation(t *testing.T) {
	as := &asset.Asset{Animations: []asset.Animation{{Name: "idle"}, {Name: "walk"}, {Name: "1"}}}

	tests := []struct {
		key  string
		want string
	}{
		{"walk", "walk"},
		{"1", "1"}, // names win over indices
		{"0", "idle"},
		{"3", ""},
		{"-1", ""},
		{"run", ""},
	}
	for _, tt := range tests {
		got := findAnimation(as, tt.key)
		if tt.want == "" {
			assert.Nil(t, got, tt.key)
			continue
		}
		if assert.NotNil(t, got, tt.key) {
			assert.Equal(t, tt.want, got.Name)
		}
	}
}

func TestFirstDiff(t *testing.T) {
	assert.Equal(t, 2, firstDiff([]byte{1, 2, 3}, []byte{1, 2, 4}))
	assert.Equal(t, 2, firstDiff([]byte{1, 2}, []byte{1, 2, 3}))
	assert.Equal(t, 3, firstDiff([]byte{1, 2, 3}, []byte{1, 2, 3}))
}
