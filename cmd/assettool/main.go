// assettool is a CLI utility for inspecting and checking Midgard asset files.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-asset/internal/config"
	"github.com/Faultbox/midgard-asset/internal/logger"
	"github.com/Faultbox/midgard-asset/internal/pipeline"
	"github.com/Faultbox/midgard-asset/pkg/asset"
)

type app struct {
	cfg    *config.Config
	loader *pipeline.Loader
	out    io.Writer
	errOut io.Writer
}

func newApp(cfg *config.Config, log *zap.Logger, out, errOut io.Writer) *app {
	return &app{cfg: cfg, loader: pipeline.NewLoader(cfg.Decode, log), out: out, errOut: errOut}
}

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := initLogger(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	a := newApp(cfg, logger.Named("pipeline"), os.Stdout, os.Stderr)

	command, rest := args[0], args[1:]
	var code int
	switch command {
	case "info":
		code = a.cmdInfo(rest)
	case "validate", "check":
		code = a.cmdValidate(rest)
	case "dump":
		code = a.cmdDump(rest)
	case "sample":
		code = a.cmdSample(rest)
	case "roundtrip":
		code = a.cmdRoundTrip(rest)
	case "config":
		code = a.cmdConfig(rest)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		code = 1
	}
	logger.Sync()
	os.Exit(code)
}

func initLogger(c config.LoggingConfig) error {
	var file logger.FileConfig
	if c.LogFile != "" {
		file = logger.FileConfig{
			Path:       c.LogFile,
			MaxSizeMB:  c.MaxSizeMB,
			MaxBackups: c.MaxBackups,
			MaxAgeDays: c.MaxAgeDays,
			Compress:   c.Compress,
			JSON:       c.JSON,
		}
	}
	return logger.InitWithFileConfig(c.Level, file, true)
}

func printUsage() {
	fmt.Println(`assettool - Midgard asset container utility

Usage:
  assettool [flags] <command> [options]

Commands:
  info <file>                        Show section counts and layouts
  validate <file|dir>...             Decode every asset, report failures
  dump <file>                        Print a YAML summary
  sample <file> <anim> <time>        Print interpolated bone transforms
  roundtrip <file>                   Decode, re-encode and compare bytes
  config [path]                      Write the effective configuration

Flags:
  -config <path>        Config file (default ./assettool.yaml or user config dir)
  -debug                Enable debug logging
  -log-file <path>      Also log to a rotating file
  -workers <n>          Concurrent decodes for validate
  -max-file-bytes <n>   Refuse larger files
  -allow-trailing       Accept bytes after the last section

Examples:
  assettool info models/hero.mga
  assettool -workers 8 validate models/
  assettool sample models/hero.mga walk 0.5`)
}

func (a *app) load(path string) (*asset.Asset, bool) {
	as, err := a.loader.Load(path)
	if err != nil {
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
		return nil, false
	}
	return as, true
}

func (a *app) cmdInfo(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(a.errOut, "Usage: assettool info <file>")
		return 1
	}
	as, ok := a.load(args[0])
	if !ok {
		return 1
	}

	fmt.Fprintf(a.out, "File: %s\n", args[0])
	fmt.Fprintf(a.out, "Encoded size: %d bytes\n", as.EncodedSize())

	fmt.Fprintf(a.out, "\nMeshes: %d\n", len(as.Meshes))
	for i := range as.Meshes {
		m := &as.Meshes[i]
		fmt.Fprintf(a.out, "  [%d] %-22s %6d vertices %6d triangles\n", i, m.Type, m.VertexCount(), m.TriangleCount())
	}

	if sk := as.Skeleton; sk != nil {
		fmt.Fprintf(a.out, "\nSkeleton: %d bones\n", sk.BoneCount())
		world := sk.WorldTransforms()
		for i, b := range sk.Bones {
			p := world[i].Translation()
			fmt.Fprintf(a.out, "  [%d] %-24s parent %3d  at (%.3f, %.3f, %.3f)\n", i, b.Name, b.ParentID, p.X, p.Y, p.Z)
		}
	} else {
		fmt.Fprintln(a.out, "\nSkeleton: none")
	}

	fmt.Fprintf(a.out, "\nMaterials: %d\n", len(as.Materials))
	for i := range as.Materials {
		m := &as.Materials[i]
		tex := "-"
		if l := m.Legacy(); l.DiffuseTexture != "" {
			tex = l.DiffuseTexture
		}
		fmt.Fprintf(a.out, "  [%d] %-24s type %d  %d params  diffuse %s\n", i, m.Name, m.Type, len(m.Params), tex)
	}

	fmt.Fprintf(a.out, "\nAnimations: %d\n", len(as.Animations))
	for i := range as.Animations {
		an := &as.Animations[i]
		fmt.Fprintf(a.out, "  [%d] %-24s %4d keys  duration %g  %g ticks/s\n", i, an.Name, an.KeyCount(), an.Duration, an.TicksPerSecond)
	}
	return 0
}

func (a *app) cmdValidate(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(a.errOut, "Usage: assettool validate <file|dir>...")
		return 1
	}

	var paths []string
	for _, root := range args {
		found, err := pipeline.FindAssets(root, a.cfg.Pipeline.Extension)
		if err != nil {
			fmt.Fprintf(a.errOut, "Error: %v\n", err)
			return 1
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		fmt.Fprintf(a.errOut, "No %s files found\n", a.cfg.Pipeline.Extension)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results := a.loader.LoadAll(ctx, paths, a.cfg.Pipeline.Workers)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(a.out, "FAIL %s: %v\n", r.Path, r.Err)
			continue
		}
		fmt.Fprintf(a.out, "ok   %s\n", r.Path)
	}
	fmt.Fprintf(a.out, "\n%d files, %d failed\n", len(results), failed)
	if failed > 0 {
		return 1
	}
	return 0
}

func (a *app) cmdDump(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(a.errOut, "Usage: assettool dump <file>")
		return 1
	}
	as, ok := a.load(args[0])
	if !ok {
		return 1
	}
	out, err := pipeline.Summarize(as, asset.DefaultRegistry).YAML()
	if err != nil {
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
		return 1
	}
	a.out.Write(out)
	return 0
}

func (a *app) cmdSample(args []string) int {
	if len(args) < 3 {
		fmt.Fprintln(a.errOut, "Usage: assettool sample <file> <anim> <time>")
		return 1
	}
	as, ok := a.load(args[0])
	if !ok {
		return 1
	}
	t, err := strconv.ParseFloat(args[2], 32)
	if err != nil {
		fmt.Fprintf(a.errOut, "Invalid time %q: %v\n", args[2], err)
		return 1
	}

	anim := findAnimation(as, args[1])
	if anim == nil {
		fmt.Fprintf(a.errOut, "Animation not found: %s\n", args[1])
		return 1
	}

	samples := anim.SampleAt(float32(t))
	logger.Debug("sampled animation", zap.String("animation", anim.Name), zap.Float64("time", t), zap.Int("bones", len(samples)))
	if samples == nil {
		fmt.Fprintf(a.out, "%s has no keyframes\n", anim.Name)
		return 0
	}
	fmt.Fprintf(a.out, "%s at t=%g\n", anim.Name, t)
	for b, s := range samples {
		name := strconv.Itoa(b)
		if as.Skeleton != nil {
			name = as.Skeleton.Bones[b].Name
		}
		fmt.Fprintf(a.out, "  %-24s pos %v rot %v scale %v\n", name, s.Position[:3], s.Rotation, s.Scale[:3])
	}
	return 0
}

// findAnimation matches by name first, then by index.
func findAnimation(as *asset.Asset, key string) *asset.Animation {
	for i := range as.Animations {
		if as.Animations[i].Name == key {
			return &as.Animations[i]
		}
	}
	if i, err := strconv.Atoi(key); err == nil && i >= 0 && i < len(as.Animations) {
		return &as.Animations[i]
	}
	return nil
}

func (a *app) cmdRoundTrip(args []string) int {
	if len(args) < 1 {
		fmt.Fprintln(a.errOut, "Usage: assettool roundtrip <file>")
		return 1
	}
	data, err := a.loader.ReadBytes(args[0])
	if err != nil {
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
		return 1
	}
	as, err := a.loader.Decode(data)
	if err != nil {
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
		return 1
	}

	out := asset.Encode(as)
	// Trailing data is dropped on re-encode, so compare against the
	// decoded prefix only.
	if len(data) > len(out) && a.cfg.Decode.AllowTrailingData {
		logger.Warn("ignoring trailing data", zap.String("path", args[0]), zap.Int("bytes", len(data)-len(out)))
		data = data[:len(out)]
	}
	if !bytes.Equal(data, out) {
		at := firstDiff(data, out)
		fmt.Fprintf(a.out, "MISMATCH %s: %d bytes in, %d bytes out, first difference at offset %d\n", args[0], len(data), len(out), at)
		return 1
	}
	fmt.Fprintf(a.out, "ok %s: %d bytes\n", args[0], len(out))
	return 0
}

func firstDiff(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func (a *app) cmdConfig(args []string) int {
	var path string
	var err error
	if len(args) > 0 {
		path = args[0]
		err = a.cfg.SaveTo(path)
	} else {
		path, err = a.cfg.Save()
	}
	if err != nil {
		fmt.Fprintf(a.errOut, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(a.out, "Configuration written to %s\n", path)
	return 0
}
