package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Format identifies a supported call-recording container
type Format string

const (
	FormatWAV Format = "wav"
	FormatMP3 Format = "mp3"
)

// ErrUnsupportedFormat is returned when an upload is neither WAV nor MP3
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// wavHeaderSize is the number of leading bytes needed to identify a RIFF/WAVE
// container: "RIFF" + chunk size + "WAVE".
const wavHeaderSize = 12

// DetectFormat sniffs the leading bytes of an audio file and reports its
// container format. Only WAV and MP3 recordings are accepted for analysis.
func DetectFormat(r io.Reader) (Format, error) {
	header := make([]byte, wavHeaderSize)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read audio header: %w", err)
	}
	header = header[:n]

	if isWAV(header) {
		return FormatWAV, nil
	}
	if isMP3(header) {
		return FormatMP3, nil
	}
	return "", ErrUnsupportedFormat
}

// isWAV checks the RIFF chunk descriptor: bytes 0-3 "RIFF", bytes 8-11 "WAVE"
func isWAV(header []byte) bool {
	return len(header) >= wavHeaderSize &&
		bytes.Equal(header[0:4], []byte("RIFF")) &&
		bytes.Equal(header[8:12], []byte("WAVE"))
}

// isMP3 accepts either an ID3v2 tag or a bare MPEG frame sync (0xFFEx)
func isMP3(header []byte) bool {
	if len(header) >= 3 && bytes.Equal(header[0:3], []byte("ID3")) {
		return true
	}
	return len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0
}
