// Package optimize runs an external lossless PNG optimizer over generated
// icons. The optimizer is optional: callers probe it once and skip
// optimization when it is not available.
package optimize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"manifestify/internal/errs"
	"manifestify/internal/raster"
)

// Capability is the result of probing for the optimizer binary.
type Capability int

const (
	Unknown Capability = iota
	Available
	Unavailable
)

func (c Capability) String() string {
	switch c {
	case Available:
		return "available"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

type tool struct {
	versionArgs []string
	args        []string
}

var knownTools = map[string]tool{
	"optipng": {versionArgs: []string{"-v"}, args: []string{"-quiet", "-o2"}},
	"oxipng":  {versionArgs: []string{"--version"}, args: []string{"-q", "-o", "2"}},
}

// Optimizer invokes one optimizer binary in place on PNG files.
type Optimizer struct {
	Binary      string
	Args        []string
	VersionArgs []string
}

// New returns an Optimizer for binary, using the known argument set for
// optipng and oxipng and a bare "FILE" invocation otherwise.
func New(binary string) *Optimizer {
	t, ok := knownTools[filepath.Base(binary)]
	if !ok {
		t = tool{versionArgs: []string{"--version"}}
	}
	return &Optimizer{Binary: binary, Args: t.args, VersionArgs: t.versionArgs}
}

// Probe checks whether the binary can be run. A missing binary or a
// non-zero version probe is Unavailable; any other failure is Unknown.
func (o *Optimizer) Probe(ctx context.Context) (Capability, error) {
	path, err := exec.LookPath(o.Binary)
	if err != nil {
		return Unavailable, fmt.Errorf("%s not found on PATH: %w", o.Binary, err)
	}

	cmd := exec.CommandContext(ctx, path, o.VersionArgs...)
	if out, err := cmd.CombinedOutput(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Unavailable, fmt.Errorf("%s version probe: %w\n%s", o.Binary, err, out)
		}
		return Unknown, fmt.Errorf("%s version probe: %w", o.Binary, err)
	}
	return Available, nil
}

// Optimize rewrites the PNG at path with the optimizer's output. The
// optimizer works on a sibling copy; the original stays untouched unless
// the result is a PNG of the same dimensions. Every failure wraps
// errs.ErrOptimization. It returns the number of bytes saved.
func (o *Optimizer) Optimize(ctx context.Context, path string) (int64, error) {
	fail := func(err error) (int64, error) {
		return 0, fmt.Errorf("%w: %s: %w", errs.ErrOptimization, path, err)
	}

	original, err := os.ReadFile(path)
	if err != nil {
		return fail(err)
	}
	width, height, err := readIHDR(bytes.NewReader(original))
	if err != nil {
		return fail(err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".manifestify-opt-*.png")
	if err != nil {
		return fail(err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(original); err != nil {
		_ = tmpFile.Close()
		return fail(err)
	}
	if err := tmpFile.Close(); err != nil {
		return fail(err)
	}

	args := append(append([]string{}, o.Args...), tmpPath)
	cmd := exec.CommandContext(ctx, o.Binary, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fail(fmt.Errorf("%s: %w\n%s", o.Binary, err, out))
	}

	optimized, err := os.ReadFile(tmpPath)
	if err != nil {
		return fail(err)
	}
	var stripped bytes.Buffer
	if err := stripPNG(bytes.NewReader(optimized), &stripped); err != nil {
		return fail(err)
	}
	gotW, gotH, err := readIHDR(bytes.NewReader(stripped.Bytes()))
	if err != nil {
		return fail(err)
	}
	if gotW != width || gotH != height {
		return fail(fmt.Errorf("optimizer changed dimensions from %dx%d to %dx%d", width, height, gotW, gotH))
	}

	if stripped.Len() >= len(original) {
		return 0, nil
	}
	if err := os.WriteFile(tmpPath, stripped.Bytes(), 0o644); err != nil {
		return fail(err)
	}
	if err := raster.ReplaceFile(tmpPath, path); err != nil {
		return fail(err)
	}
	return int64(len(original) - stripped.Len()), nil
}
