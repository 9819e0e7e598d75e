package analyze

import "testing"

const probeJSON = `{
  "streams": [
    {"codec_type": "video", "sample_rate": ""},
    {"codec_type": "audio", "sample_rate": "44100"}
  ],
  "format": {"duration": "2.004000"}
}`

func TestParseProbeOutput(t *testing.T) {
	info, err := parseProbeOutput("a.wav", []byte(probeJSON))
	if err != nil {
		t.Fatalf("parseProbeOutput: %v", err)
	}
	if info.DurationSeconds != 2.004 {
		t.Errorf("duration = %v, want 2.004", info.DurationSeconds)
	}
	if info.SampleRate != 44100 {
		t.Errorf("sample rate = %d, want 44100", info.SampleRate)
	}
}

func TestParseProbeOutputNoSampleRate(t *testing.T) {
	info, err := parseProbeOutput("a.ogg", []byte(`{"streams":[{"codec_type":"audio"}],"format":{"duration":"1.5"}}`))
	if err != nil {
		t.Fatalf("parseProbeOutput: %v", err)
	}
	if info.SampleRate != 0 {
		t.Errorf("sample rate = %d, want 0 (absent)", info.SampleRate)
	}
}

func TestParseProbeOutputNoDuration(t *testing.T) {
	if _, err := parseProbeOutput("a.mp3", []byte(`{"format":{}}`)); err == nil {
		t.Fatal("missing duration should fail the probe")
	}
}

func TestParseProbeOutputGarbage(t *testing.T) {
	if _, err := parseProbeOutput("a.mp3", []byte("not json")); err == nil {
		t.Fatal("garbage output should fail the probe")
	}
}
