package schedule

import (
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"hangiplatform/models"

	"github.com/PuerkitoBio/goquery"
)

const minRowLength = 10

var leadingTime = regexp.MustCompile(`^(\d{1,2}):(\d{2})`)

// ParseListings extracts programme rows from a tvyayinakisi listing page. Each
// <li> reads "HH:MM Title CHANNEL"; rows without a time, title or channel are
// dropped.
func ParseListings(r io.Reader, kind models.ScheduleKind) ([]models.ScheduleItem, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return listingsFromDocument(doc, kind), nil
}

// ParseMatches extracts fixtures from the match schedule page. Each <li> reads
// "HH:MM Home - Away CHANNEL [CHANNEL...]" or uses " vs " between the teams.
func ParseMatches(r io.Reader, sport models.Sport) ([]models.Match, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}
	return matchesFromDocument(doc, sport), nil
}

func listingsFromDocument(doc *goquery.Document, kind models.ScheduleKind) []models.ScheduleItem {
	items := make([]models.ScheduleItem, 0)
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		clock, rest, ok := splitRow(s.Text())
		if !ok {
			return
		}
		title, channel := splitChannel(rest)
		if title == "" || channel == "" {
			return
		}
		items = append(items, models.ScheduleItem{
			Time:        clock,
			Title:       title,
			Channel:     channel,
			ChannelLogo: ChannelLogo(channel),
			Type:        kind,
		})
	})
	return items
}

func matchesFromDocument(doc *goquery.Document, sport models.Sport) []models.Match {
	matches := make([]models.Match, 0)
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		clock, rest, ok := splitRow(s.Text())
		if !ok {
			return
		}
		sep := " - "
		if strings.Contains(rest, " vs ") {
			sep = " vs "
		}
		parts := strings.Split(rest, sep)
		if len(parts) < 2 {
			return
		}
		home := strings.TrimSpace(parts[0])
		away, channels := extractChannels(strings.TrimSpace(strings.Join(parts[1:], sep)))
		if home == "" || away == "" || len(channels) == 0 {
			return
		}
		matches = append(matches, models.Match{
			Time:     clock,
			HomeTeam: home,
			AwayTeam: away,
			Channels: channels,
			Sport:    sport,
		})
	})
	return matches
}

// splitRow returns the zero-padded leading time and the remaining text.
func splitRow(raw string) (clock, rest string, ok bool) {
	text := strings.TrimSpace(raw)
	if utf8.RuneCountInString(text) < minRowLength {
		return "", "", false
	}
	m := leadingTime.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	hour := m[1]
	if len(hour) == 1 {
		hour = "0" + hour
	}
	rest = strings.TrimSpace(text[len(m[0]):])
	if rest == "" {
		return "", "", false
	}
	return hour + ":" + m[2], rest, true
}

// splitChannel finds the broadcaster at the end of a listing row: the known
// channel whose last occurrence ends furthest right wins, longer names breaking
// ties, and the title is the text before it. Otherwise a trailing run of
// upper-case words is taken as the channel.
func splitChannel(text string) (title, channel string) {
	runes := []rune(text)
	folded := fold(text)
	bestStart, bestEnd := -1, -1
	for _, p := range channelPatterns {
		idx := occurrences(folded, p.runes)
		if len(idx) == 0 {
			continue
		}
		start := idx[len(idx)-1]
		if end := start + len(p.runes); end > bestEnd {
			bestStart, bestEnd, channel = start, end, p.name
		}
	}
	if channel != "" {
		return strings.TrimSpace(string(runes[:bestStart])), channel
	}
	return trailingUpper(text)
}

// extractChannels removes every known channel from the away-team text and
// returns the cleaned team name with the channels in list order.
func extractChannels(text string) (string, []string) {
	runes := []rune(text)
	var found []channelPattern
	for _, p := range channelPatterns {
		idx := occurrences(fold(string(runes)), p.runes)
		if len(idx) == 0 {
			continue
		}
		found = append(found, p)
		for i := len(idx) - 1; i >= 0; i-- {
			start := idx[i]
			runes = append(runes[:start:start], runes[start+len(p.runes):]...)
		}
	}
	if len(found) == 0 {
		team, channel := trailingUpper(text)
		if channel == "" {
			return "", nil
		}
		return team, []string{channel}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].order < found[j].order })
	channels := make([]string, 0, len(found))
	for _, p := range found {
		channels = append(channels, p.name)
	}
	return strings.Join(strings.Fields(string(runes)), " "), channels
}

// trailingUpper splits off the trailing words written entirely in upper case.
func trailingUpper(text string) (head, tail string) {
	words := strings.Fields(text)
	n := len(words)
	for n > 0 && isChannelWord(words[n-1]) {
		n--
	}
	if n == len(words) {
		return text, ""
	}
	return strings.Join(words[:n], " "), strings.Join(words[n:], " ")
}

func isChannelWord(w string) bool {
	if utf8.RuneCountInString(w) < 2 || w != strings.ToUpper(w) {
		return false
	}
	return strings.IndexFunc(w, unicode.IsUpper) >= 0
}
