// Package audio provides the decoding collaborators the transcription
// pipeline needs: duration probing and millisecond-accurate slicing of an
// uploaded recording into bounded-duration chunks.
package audio

import (
	"fmt"
	"strings"
)

// Format is a supported audio container.
type Format string

const (
	FormatMP3  Format = "mp3"
	FormatWAV  Format = "wav"
	FormatM4A  Format = "m4a"
	FormatFLAC Format = "flac"
	FormatOGG  Format = "ogg"
)

// mimeTypes maps formats to the MIME type sent to the backend.
var mimeTypes = map[Format]string{
	FormatMP3:  "audio/mpeg",
	FormatWAV:  "audio/wav",
	FormatM4A:  "audio/mp4",
	FormatFLAC: "audio/flac",
	FormatOGG:  "audio/ogg",
}

// ParseFormat normalizes an extension or MIME subtype into a Format.
// Browser MIME subtypes that alias a format (mpeg, x-wav, mp4) are mapped
// to their container name.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	switch name {
	case "mp3", "mpeg", "mpga":
		return FormatMP3, nil
	case "wav", "x-wav", "wave":
		return FormatWAV, nil
	case "m4a", "mp4":
		return FormatM4A, nil
	case "flac", "x-flac":
		return FormatFLAC, nil
	case "ogg", "oga":
		return FormatOGG, nil
	default:
		return "", fmt.Errorf("unsupported audio format: %q", s)
	}
}

// MIMEType returns the MIME type for the format.
func (f Format) MIMEType() string {
	if mt, ok := mimeTypes[f]; ok {
		return mt
	}
	return "audio/" + string(f)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string {
	return "." + string(f)
}
