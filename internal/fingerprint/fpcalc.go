package fingerprint

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

var (
	// ErrToolNotFound means the fpcalc binary is not installed or not on PATH.
	ErrToolNotFound = errors.New("fpcalc not found")
	// ErrToolExecution means fpcalc ran but exited non-zero.
	ErrToolExecution = errors.New("fpcalc execution failed")
	// ErrBadOutput means fpcalc produced output missing the expected fields.
	ErrBadOutput = errors.New("unparsable fpcalc output")
)

// Result is one extracted fingerprint plus the clip duration the lookup
// service requires.
type Result struct {
	Fingerprint     string
	DurationSeconds int
}

// Extractor produces fingerprints for local files.
type Extractor interface {
	Extract(ctx context.Context, path string) (Result, error)
}

// Fpcalc invokes the Chromaprint fpcalc binary.
type Fpcalc struct {
	binary string
}

// NewFpcalc creates an extractor using the given binary name or path.
func NewFpcalc(binary string) *Fpcalc {
	if strings.TrimSpace(binary) == "" {
		binary = "fpcalc"
	}
	return &Fpcalc{binary: binary}
}

// Extract runs fpcalc against the file and parses its textual output.
func (f *Fpcalc) Extract(ctx context.Context, path string) (Result, error) {
	if _, err := exec.LookPath(f.binary); err != nil {
		return Result{}, fmt.Errorf("%w: %s", ErrToolNotFound, f.binary)
	}

	cmd := exec.CommandContext(ctx, f.binary, path)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return Result{}, fmt.Errorf("%w: %s", ErrToolExecution, detail)
	}

	return parseOutput(out)
}

// parseOutput extracts the DURATION= and FINGERPRINT= lines fpcalc prints.
func parseOutput(out []byte) (Result, error) {
	var result Result
	haveDuration, haveFingerprint := false, false

	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "DURATION="):
			value := strings.TrimPrefix(line, "DURATION=")
			seconds, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return Result{}, fmt.Errorf("%w: bad duration %q", ErrBadOutput, value)
			}
			result.DurationSeconds = int(seconds)
			haveDuration = true
		case strings.HasPrefix(line, "FINGERPRINT="):
			result.Fingerprint = strings.TrimPrefix(line, "FINGERPRINT=")
			haveFingerprint = true
		}
	}

	if !haveDuration || !haveFingerprint || result.Fingerprint == "" {
		return Result{}, fmt.Errorf("%w: missing DURATION or FINGERPRINT field", ErrBadOutput)
	}
	return result, nil
}
