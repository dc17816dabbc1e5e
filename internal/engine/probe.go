package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// ProbeBinary is the container inspector used to verify transcode output.
const ProbeBinary = "ffprobe"

// ProbeAvailable reports whether ffprobe can be found on PATH.
func ProbeAvailable() bool {
	_, err := exec.LookPath(ProbeBinary)
	return err == nil
}

// ProbeDuration reads the container duration of a media file via ffprobe.
func ProbeDuration(path string) (time.Duration, error) {
	cmd := exec.Command(ProbeBinary, "-v", "quiet", "-print_format", "json", "-show_format", path)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("probe %s: %w", path, err)
	}

	var payload struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &payload); err != nil {
		return 0, fmt.Errorf("decode probe output for %s: %w", path, err)
	}

	seconds, err := strconv.ParseFloat(payload.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse probe duration %q: %w", payload.Format.Duration, err)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}
