package audio

const (
	// DefaultSampleRate is the rate the realtime API uses for PCM audio in
	// both directions.
	DefaultSampleRate = 24000
	DefaultFormat     = "linear16"
	DefaultChannels   = 1
)

func GetDefaultEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: DefaultSampleRate, Format: encodingFormat(DefaultFormat)}
}

// EncodingInfo describes mono audio passed through the client unchanged.
// The client never resamples; callers must produce audio in the format the
// session was configured with.
type EncodingInfo struct {
	SampleRate int
	Format     encodingFormat
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

func (e EncodingInfo) SilenceValue() byte {
	switch e.Format {
	case EncodingALaw:
		return 0x55
	case EncodingMulaw:
		return 0xFF
	case EncodingLinear16:
		return 0
	}

	return 0
}

// BytesPerSecond returns the byte rate of the stream, or 0 for an unknown
// format.
func (e EncodingInfo) BytesPerSecond() int {
	size := e.Format.ByteSize()
	if size <= 0 {
		return 0
	}
	return e.SampleRate * size * DefaultChannels
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

func (e encodingFormat) ByteSize() int {
	switch e {
	case EncodingMulaw, EncodingALaw:
		return 1
	case EncodingLinear16:
		return 2
	}
	return -1
}

const (
	EncodingMulaw    encodingFormat = "mulaw"
	EncodingALaw     encodingFormat = "alaw"
	EncodingLinear16 encodingFormat = "linear16"
)

// ParseEncodingFormat maps a format name to a known encoding.
func ParseEncodingFormat(name string) (encodingFormat, bool) {
	switch format := encodingFormat(name); format {
	case EncodingMulaw, EncodingALaw, EncodingLinear16:
		return format, true
	}
	return "", false
}
