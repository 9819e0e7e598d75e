package analyze

import (
	"bufio"
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Aubio estimates tempo and key through the aubio command-line tool.
type Aubio struct {
	Bin string
}

// NewAubio creates an Aubio estimator. An empty bin defaults to "aubio"
// on PATH.
func NewAubio(bin string) *Aubio {
	if bin == "" {
		bin = "aubio"
	}
	return &Aubio{Bin: bin}
}

var bpmRe = regexp.MustCompile(`([0-9]+(\.[0-9]+)?)\s*bpm`)

// Tempo runs `aubio tempo` and returns the rounded median of the
// reported BPM series. The median shrugs off warm-up outliers at the
// start of the track.
func (a *Aubio) Tempo(ctx context.Context, path string) (int, error) {
	out, err := runCmd(ctx, a.Bin, "tempo", "-i", path)
	if err != nil && out == "" {
		return 0, fmt.Errorf("aubio tempo: %v", err)
	}

	var vals []float64
	sc := bufio.NewScanner(strings.NewReader(strings.ToLower(out)))
	for sc.Scan() {
		if m := bpmRe.FindStringSubmatch(sc.Text()); len(m) >= 2 {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > 0 {
				vals = append(vals, v)
			}
		}
	}
	if len(vals) == 0 {
		return 0, fmt.Errorf("aubio tempo: no bpm in output for %s", path)
	}
	sort.Float64s(vals)
	return int(math.Round(vals[len(vals)/2])), nil
}

// pitchClasses is the canonical label set; flat spellings from aubio
// are folded onto their sharp equivalents.
var (
	pitchClasses = map[string]struct{}{
		"C": {}, "C#": {}, "D": {}, "D#": {}, "E": {}, "F": {},
		"F#": {}, "G": {}, "G#": {}, "A": {}, "A#": {}, "B": {},
	}
	flatToSharp = map[string]string{
		"DB": "C#", "EB": "D#", "GB": "F#", "AB": "G#", "BB": "A#",
		"CB": "B", "FB": "E",
	}
	keyLineRe = regexp.MustCompile(`(?i)^([a-g][#b]?)(?:\s+(?:major|minor))?$`)
)

// Key runs `aubio key` and normalizes the detected tonic to one of the
// 12 pitch-class labels. aubio prints one "<tonic> <scale>" line.
func (a *Aubio) Key(ctx context.Context, path string) (string, error) {
	out, err := runCmd(ctx, a.Bin, "key", "-i", path)
	if err != nil && out == "" {
		return "", fmt.Errorf("aubio key: %v", err)
	}

	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if m := keyLineRe.FindStringSubmatch(line); len(m) >= 2 {
			return normalizeKey(m[1])
		}
	}
	return "", fmt.Errorf("aubio key: no key in output for %s", path)
}

func normalizeKey(raw string) (string, error) {
	k := strings.ToUpper(strings.TrimSpace(raw))
	if len(k) == 2 && k[1] == 'B' {
		if sharp, ok := flatToSharp[k]; ok {
			k = sharp
		}
	}
	if _, ok := pitchClasses[k]; !ok {
		return "", fmt.Errorf("unrecognized pitch class %q", raw)
	}
	return k, nil
}
