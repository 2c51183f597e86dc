package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const wavHeaderSize = 44

// WAVE format tags for the encodings this package knows about.
const (
	wavFormatPCM   uint16 = 1
	wavFormatALaw  uint16 = 6
	wavFormatMulaw uint16 = 7
)

var ErrInvalidWAV = errors.New("invalid wav data")

// WAV wraps raw mono audio in a RIFF/WAVE container.
func WAV(samples []byte, encodingInfo EncodingInfo) ([]byte, error) {
	formatTag, err := wavFormatTag(encodingInfo.Format)
	if err != nil {
		return nil, err
	}
	if encodingInfo.SampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", encodingInfo.SampleRate)
	}

	sampleSize := encodingInfo.Format.ByteSize()
	blockAlign := uint16(sampleSize * DefaultChannels)

	buf := bytes.NewBuffer(make([]byte, 0, wavHeaderSize+len(samples)))
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(36+len(samples)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(buf, binary.LittleEndian, formatTag)
	_ = binary.Write(buf, binary.LittleEndian, uint16(DefaultChannels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(encodingInfo.SampleRate))
	_ = binary.Write(buf, binary.LittleEndian, uint32(encodingInfo.SampleRate)*uint32(blockAlign))
	_ = binary.Write(buf, binary.LittleEndian, blockAlign)
	_ = binary.Write(buf, binary.LittleEndian, uint16(sampleSize*8))

	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(len(samples)))
	buf.Write(samples)

	return buf.Bytes(), nil
}

// DecodeWAV extracts the sample data and its encoding from a mono WAVE
// file. Chunks other than "fmt " and "data" are skipped.
func DecodeWAV(data []byte) ([]byte, EncodingInfo, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, EncodingInfo{}, fmt.Errorf("%w: missing RIFF/WAVE header", ErrInvalidWAV)
	}

	var (
		encodingInfo EncodingInfo
		haveFormat   bool
	)
	for offset := 12; offset+8 <= len(data); {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if chunkSize < 0 || body+chunkSize > len(data) {
			return nil, EncodingInfo{}, fmt.Errorf("%w: chunk %q overruns file", ErrInvalidWAV, chunkID)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return nil, EncodingInfo{}, fmt.Errorf("%w: short fmt chunk", ErrInvalidWAV)
			}
			formatTag := binary.LittleEndian.Uint16(data[body : body+2])
			channels := binary.LittleEndian.Uint16(data[body+2 : body+4])
			if channels != DefaultChannels {
				return nil, EncodingInfo{}, fmt.Errorf("%w: %d channels, only mono is supported", ErrInvalidWAV, channels)
			}
			format, err := encodingFromWAVTag(formatTag)
			if err != nil {
				return nil, EncodingInfo{}, err
			}
			encodingInfo = EncodingInfo{
				SampleRate: int(binary.LittleEndian.Uint32(data[body+4 : body+8])),
				Format:     format,
			}
			haveFormat = true
		case "data":
			if !haveFormat {
				return nil, EncodingInfo{}, fmt.Errorf("%w: data chunk before fmt chunk", ErrInvalidWAV)
			}
			return data[body : body+chunkSize], encodingInfo, nil
		}

		// chunks are word aligned
		offset = body + chunkSize + chunkSize%2
	}

	return nil, EncodingInfo{}, fmt.Errorf("%w: no data chunk", ErrInvalidWAV)
}

func wavFormatTag(format encodingFormat) (uint16, error) {
	switch format {
	case EncodingLinear16:
		return wavFormatPCM, nil
	case EncodingALaw:
		return wavFormatALaw, nil
	case EncodingMulaw:
		return wavFormatMulaw, nil
	}
	return 0, fmt.Errorf("unsupported encoding %q", format)
}

func encodingFromWAVTag(tag uint16) (encodingFormat, error) {
	switch tag {
	case wavFormatPCM:
		return EncodingLinear16, nil
	case wavFormatALaw:
		return EncodingALaw, nil
	case wavFormatMulaw:
		return EncodingMulaw, nil
	}
	return "", fmt.Errorf("%w: unsupported format tag %d", ErrInvalidWAV, tag)
}
