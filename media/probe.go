package media

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"shortsmaker/config"
)

// ProbeDuration asks ffprobe for a file's container duration in seconds.
func ProbeDuration(path string) (float64, error) {
	ffprobe := config.GetEnvOrDefault("FFPROBE_PATH", "ffprobe")

	cmd := exec.Command(ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe %s: %v (%s)", path, err, bytes.TrimSpace(stderr.Bytes()))
	}

	var parsed struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &parsed); err != nil {
		return 0, fmt.Errorf("parse ffprobe output for %s: %w", path, err)
	}
	if parsed.Format.Duration == "" {
		return 0, fmt.Errorf("ffprobe reported no duration for %s", path)
	}

	duration, err := strconv.ParseFloat(parsed.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration %q: %w", parsed.Format.Duration, err)
	}
	return duration, nil
}
