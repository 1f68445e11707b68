package schedule

import (
	"sort"
	"unicode"
)

// KnownChannels are the broadcasters recognised inside listing text.
var KnownChannels = []string{
	"KANAL D", "SHOW TV", "STAR TV", "TRT 1", "TRT TÜRK", "TRT KURDİ", "TRT 2",
	"TRT ÇOCUK", "TRT HABER", "SİNEMA TV", "SİNEMA YERLİ", "SİNEMA YERLİ 2",
	"SİNEMA AİLE", "SİNEMA KOMEDİ", "SİNEMA TV AKSİYON", "SİNEMA 1002",
	"BEYAZ TV", "TEVE2", "FX", "A2", "NOW", "ATV", "TV8", "360", "CARTOON NETWORK",
	"KANAL 7", "FOX", "NTV", "CNN TÜRK", "HABERTÜRK", "A HABER", "TV 8.5", "BLOOMBERG HT",
}

var channelLogos = map[string]string{
	"KANAL D":  "https://upload.wikimedia.org/wikipedia/commons/thumb/6/6e/Kanal_D_logo.svg/200px-Kanal_D_logo.svg.png",
	"SHOW TV":  "https://upload.wikimedia.org/wikipedia/tr/f/f9/Show_TV.png",
	"STAR TV":  "https://upload.wikimedia.org/wikipedia/tr/7/73/Star_TV_logosu.png",
	"TRT 1":    "https://upload.wikimedia.org/wikipedia/commons/thumb/1/12/TRT_1_logo.svg/200px-TRT_1_logo.svg.png",
	"TRT TÜRK": "https://upload.wikimedia.org/wikipedia/commons/thumb/8/8d/TRT_T%C3%BCrk_logo.svg/200px-TRT_T%C3%BCrk_logo.svg.png",
	"ATV":      "https://upload.wikimedia.org/wikipedia/commons/thumb/6/6e/Atv_logo.svg/200px-Atv_logo.svg.png",
	"TV8":      "https://upload.wikimedia.org/wikipedia/tr/6/68/Tv8_Yeni_Logo.png",
	"FOX":      "https://upload.wikimedia.org/wikipedia/commons/thumb/d/d3/Fox_logosu.svg/200px-Fox_logosu.svg.png",
	"KANAL 7":  "https://upload.wikimedia.org/wikipedia/tr/c/c2/Kanal_7.png",
	"A2":       "https://upload.wikimedia.org/wikipedia/tr/e/e8/A2_logosu.png",
	"FX":       "https://upload.wikimedia.org/wikipedia/commons/thumb/4/4d/FX_International_logo.svg/200px-FX_International_logo.svg.png",
	"NOW":      "https://upload.wikimedia.org/wikipedia/commons/thumb/8/8a/Now_TV_logo.svg/200px-Now_TV_logo.svg.png",
	"TEVE2":    "https://upload.wikimedia.org/wikipedia/tr/e/e7/Teve2_yeni_logo.png",
}

// ChannelLogo returns the logo URL for a known channel, or "".
func ChannelLogo(channel string) string {
	return channelLogos[channel]
}

type channelPattern struct {
	name  string
	order int
	runes []rune
}

// channelPatterns holds KnownChannels folded for matching, longest first so
// "SİNEMA YERLİ 2" wins over "SİNEMA YERLİ".
var channelPatterns = buildChannelPatterns()

func buildChannelPatterns() []channelPattern {
	out := make([]channelPattern, len(KnownChannels))
	for i, name := range KnownChannels {
		out[i] = channelPattern{name: name, order: i, runes: fold(name)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].runes) > len(out[j].runes)
	})
	return out
}

// fold upper-cases s with Turkish rules and maps dotted İ onto I, so "Sinema",
// "SİNEMA" and "SINEMA" compare equal. The result has one rune per input rune.
func fold(s string) []rune {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		u := unicode.TurkishCase.ToUpper(r)
		if u == 'İ' {
			u = 'I'
		}
		out = append(out, u)
	}
	return out
}

// occurrences returns every start index of needle in hay that sits on word
// boundaries, so "NOW" does not match inside "KNOWING".
func occurrences(hay, needle []rune) []int {
	var out []int
	n := len(needle)
	for i := 0; i+n <= len(hay); i++ {
		if !equalRunes(hay[i:i+n], needle) {
			continue
		}
		if i > 0 && isWordRune(hay[i-1]) {
			continue
		}
		if i+n < len(hay) && isWordRune(hay[i+n]) {
			continue
		}
		out = append(out, i)
	}
	return out
}

func equalRunes(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
