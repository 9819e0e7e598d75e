package analyze

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// FFprobe probes container metadata through the ffprobe binary.
type FFprobe struct {
	Bin string
}

// NewFFprobe creates an FFprobe prober. An empty bin defaults to
// "ffprobe" on PATH.
func NewFFprobe(bin string) *FFprobe {
	if bin == "" {
		bin = "ffprobe"
	}
	return &FFprobe{Bin: bin}
}

// Probe runs ffprobe with JSON output and extracts the duration and
// the first audio stream's sample rate.
func (p *FFprobe) Probe(ctx context.Context, path string) (ProbeInfo, error) {
	out, err := runCmd(ctx, p.Bin,
		"-v", "error", "-show_format", "-show_streams", "-of", "json", path)
	if err != nil {
		return ProbeInfo{}, fmt.Errorf("ffprobe: %v: %s", err, firstLine(out))
	}
	return parseProbeOutput(path, []byte(out))
}

func parseProbeOutput(path string, out []byte) (ProbeInfo, error) {
	var ff struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
		Streams []struct {
			CodecType  string `json:"codec_type"`
			SampleRate string `json:"sample_rate"`
		} `json:"streams"`
	}
	if err := json.Unmarshal(out, &ff); err != nil {
		return ProbeInfo{}, fmt.Errorf("ffprobe: parse output: %w", err)
	}

	dur, err := strconv.ParseFloat(strings.TrimSpace(ff.Format.Duration), 64)
	if err != nil || dur < 0 {
		return ProbeInfo{}, fmt.Errorf("ffprobe: no usable duration for %s", path)
	}

	info := ProbeInfo{DurationSeconds: dur}
	for _, s := range ff.Streams {
		if s.CodecType == "audio" {
			if sr, err := strconv.Atoi(strings.TrimSpace(s.SampleRate)); err == nil && sr > 0 {
				info.SampleRate = sr
			}
			break
		}
	}
	return info, nil
}

// runCmd executes an external analysis tool and returns its combined
// output. LC_ALL=C keeps tool output parseable across locales.
func runCmd(ctx context.Context, bin string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Env = append(os.Environ(), "LC_ALL=C")
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
