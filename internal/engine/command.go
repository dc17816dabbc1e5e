package engine

import (
	"strconv"

	"crank/internal/config"
)

// Encoder identifiers understood by ffmpeg, keyed by canonical codec name.
var encoderNames = map[string]string{
	"x264": "libx264",
	"x265": "libx265",
	"av1":  "libaom-av1",
}

// Command builds the deterministic ffmpeg argument slice for one transcode.
// All streams are mapped, audio and subtitles pass through untouched, and
// only the video stream is re-encoded at the configured quality.
func Command(cfg *config.Config, source, dest string) []string {
	encoder, ok := encoderNames[cfg.Transcode.Codec]
	if !ok {
		encoder = encoderNames["x264"]
	}

	args := make([]string, 0, 16)
	args = append(args, cfg.EngineBinary())
	args = append(args, "-i", source)
	args = append(args, "-map", "0")
	args = append(args, "-c:v", encoder)
	args = append(args, "-crf", strconv.Itoa(cfg.Transcode.Quality))
	args = append(args, "-c:a", "copy")
	args = append(args, "-c:s", "copy")
	args = append(args, "-y", dest)
	return args
}
