package ffprobe

import (
	"context"
	"testing"
)

func TestParseContainerDuration(t *testing.T) {
	result, err := Parse([]byte(`{
		"streams": [
			{"index": 0, "codec_type": "video", "codec_name": "h264", "width": 1920, "height": 1080, "duration": "12.000"},
			{"index": 1, "codec_type": "audio", "codec_name": "aac"}
		],
		"format": {"filename": "clip.mp4", "duration": "12.480000", "format_name": "mov,mp4"}
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if result.VideoStreamCount() != 1 {
		t.Fatalf("expected 1 video stream, got %d", result.VideoStreamCount())
	}
	d, err := result.DurationSeconds()
	if err != nil {
		t.Fatalf("DurationSeconds: %v", err)
	}
	if d != 12.48 {
		t.Fatalf("unexpected duration %v", d)
	}
}

func TestDurationFallsBackToVideoStream(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "audio", Duration: "99"},
			{CodecType: "video", Duration: "7.5"},
			{CodecType: "video", Duration: "bad"},
		},
		Format: Format{Duration: "N/A"},
	}

	d, err := result.DurationSeconds()
	if err != nil {
		t.Fatalf("DurationSeconds: %v", err)
	}
	if d != 7.5 {
		t.Fatalf("expected 7.5, got %v", d)
	}
}

func TestDurationMissing(t *testing.T) {
	result := Result{Format: Format{Duration: "-1"}}

	if _, err := result.DurationSeconds(); err == nil {
		t.Fatal("expected error when no duration is available")
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := New("").Inspect(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestInspectMissingBinary(t *testing.T) {
	if _, err := New("/nonexistent/ffprobe").Duration(context.Background(), "clip.mp4"); err == nil {
		t.Fatal("expected error for missing binary")
	}
}
