package audio

import (
	"bytes"
	"errors"
	"testing"
)

func TestWAVHeaderDescribesSamples(t *testing.T) {
	samples := []byte{0x01, 0x02, 0x03, 0x04}

	wav, err := WAV(samples, GetDefaultEncodingInfo())
	if err != nil {
		t.Fatalf("expected wav encoding to succeed, got %v", err)
	}

	if len(wav) != wavHeaderSize+len(samples) {
		t.Fatalf("expected %d bytes, got %d", wavHeaderSize+len(samples), len(wav))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatalf("expected RIFF/WAVE header, got %q", wav[:12])
	}

	decoded, encodingInfo, err := DecodeWAV(wav)
	if err != nil {
		t.Fatalf("expected wav decoding to succeed, got %v", err)
	}
	if !bytes.Equal(decoded, samples) {
		t.Fatalf("expected samples %v, got %v", samples, decoded)
	}
	if encodingInfo != GetDefaultEncodingInfo() {
		t.Fatalf("expected encoding %+v, got %+v", GetDefaultEncodingInfo(), encodingInfo)
	}
}

func TestWAVRejectsUnknownEncoding(t *testing.T) {
	if _, err := WAV([]byte{0}, EncodingInfo{SampleRate: 8000, Format: "opus"}); err == nil {
		t.Fatalf("expected unknown encoding to fail")
	}
}

func TestDecodeWAVRejectsGarbage(t *testing.T) {
	if _, _, err := DecodeWAV([]byte("not a wav file")); !errors.Is(err, ErrInvalidWAV) {
		t.Fatalf("expected ErrInvalidWAV, got %v", err)
	}
}

func TestBytesPerSecond(t *testing.T) {
	testCases := []struct {
		name     string
		info     EncodingInfo
		expected int
	}{
		{name: "linear16", info: GetDefaultEncodingInfo(), expected: 48000},
		{name: "mulaw", info: EncodingInfo{SampleRate: 8000, Format: EncodingMulaw}, expected: 8000},
		{name: "unknown", info: EncodingInfo{SampleRate: 8000, Format: "opus"}, expected: 0},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.info.BytesPerSecond(); got != testCase.expected {
				t.Fatalf("expected %d bytes per second, got %d", testCase.expected, got)
			}
		})
	}
}
