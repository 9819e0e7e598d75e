package analyze

import (
	"context"
	"fmt"
)

// Theme to showspectrumpic color scheme. "intensity" draws on a black
// background, "moreland" on a light one.
var themeColors = map[string]string{
	"dark":  "intensity",
	"light": "moreland",
}

// FFmpegRenderer renders spectrogram images through ffmpeg's
// showspectrumpic filter.
type FFmpegRenderer struct {
	Bin string
}

// NewFFmpegRenderer creates a renderer. An empty bin defaults to
// "ffmpeg" on PATH.
func NewFFmpegRenderer(bin string) *FFmpegRenderer {
	if bin == "" {
		bin = "ffmpeg"
	}
	return &FFmpegRenderer{Bin: bin}
}

// Render writes a spectrogram PNG for path to outPath, replacing any
// existing file there. Identical input and theme reproduce the same
// image, so overwriting is idempotent.
func (r *FFmpegRenderer) Render(ctx context.Context, path, outPath, theme string) error {
	color, ok := themeColors[theme]
	if !ok {
		color = themeColors["light"]
	}
	filter := fmt.Sprintf("showspectrumpic=s=1024x512:legend=1:color=%s", color)
	out, err := runCmd(ctx, r.Bin,
		"-hide_banner", "-y", "-i", path, "-lavfi", filter, outPath)
	if err != nil {
		return fmt.Errorf("ffmpeg showspectrumpic: %v: %s", err, firstLine(out))
	}
	return nil
}
