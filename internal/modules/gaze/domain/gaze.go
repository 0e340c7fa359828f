package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
)

var ErrChecksumMismatch = errors.New("estimator checksum mismatch")

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Estimate is one gaze position in screen pixels.
type Estimate struct {
	X float64
	Y float64
}

type Metadata struct {
	Name    string
	Version string
	Model   string
}

// Probe is the outcome of starting an estimator once: its metadata and a
// single sample, which may be absent while the estimator is still warming up.
type Probe struct {
	Metadata    Metadata
	Sample      Estimate
	SampleValid bool
}

// Binary locates an out-of-process estimator. SHA256 is optional; when set,
// the file must match it before it is launched.
type Binary struct {
	Path   string
	SHA256 string
}

func (b Binary) Validate() error {
	if b.Path == "" {
		return fmt.Errorf("estimator binary path is required")
	}
	if b.SHA256 != "" && !sha256Pattern.MatchString(b.SHA256) {
		return fmt.Errorf("estimator sha256 must be lowercase 64-char hex")
	}
	return nil
}

// Sweep traces a Lissajous figure over a width x height screen, staying
// inside a 5% margin. It gives synthetic estimators a smooth, repeatable path.
func Sweep(elapsedMS, width, height float64) Estimate {
	const (
		fx = 0.0011
		fy = 0.0017
	)
	return Estimate{
		X: width/2 + 0.45*width*math.Sin(fx*elapsedMS),
		Y: height/2 + 0.45*height*math.Cos(fy*elapsedMS),
	}
}
