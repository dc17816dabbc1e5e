package classify

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Release-noise tokens commonly embedded in media file names. Once one is
// seen, everything after it is junk too.
var noiseTokens = map[string]bool{
	"480p": true, "576p": true, "720p": true, "1080p": true, "1080i": true,
	"2160p": true, "4k": true, "uhd": true, "hdr": true, "hdr10": true,
	"bluray": true, "blu-ray": true, "bdrip": true, "brrip": true,
	"webrip": true, "web-dl": true, "webdl": true, "hdtv": true,
	"dvdrip": true, "dvd": true, "remux": true, "proper": true,
	"repack": true, "extended": true, "unrated": true, "remastered": true,
	"x264": true, "x265": true, "h264": true, "h265": true, "hevc": true,
	"avc": true, "av1": true, "xvid": true, "divx": true,
	"aac": true, "ac3": true, "dts": true, "truehd": true, "atmos": true,
	"flac": true, "10bit": true, "8bit": true,
}

var (
	yearToken    = regexp.MustCompile(`^\(?(19|20)\d{2}\)?$`)
	bracketGroup = regexp.MustCompile(`\[[^\]]*\]|\([^)]*\)|\{[^}]*\}`)
)

// QueryTitle derives a search query from a media file name: the extension,
// bracketed release groups, and everything from the first noise token onward
// are dropped, separators collapse to spaces.
func QueryTitle(displayName string) string {
	base := strings.TrimSuffix(displayName, filepath.Ext(displayName))
	base = bracketGroup.ReplaceAllString(base, " ")

	var words []string
	for _, word := range splitWords(base) {
		lower := strings.ToLower(word)
		if noiseTokens[lower] {
			break
		}
		if yearToken.MatchString(word) {
			break
		}
		words = append(words, word)
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

// DisplayTitle renders a query title for presentation.
func DisplayTitle(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return cases.Title(language.Und).String(strings.ToLower(title))
}

func splitWords(s string) []string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '\'':
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.' || r == '(' || r == ')' || r == '[' || r == ']':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	return strings.Fields(cleaned.String())
}
