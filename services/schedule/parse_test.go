package schedule

import (
	"strings"
	"testing"

	"hangiplatform/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingsHTML = `<html><body><ul>
<li>20:00 Kızılcık Şerbeti SHOW TV</li>
<li>9:30 Gelinim Mutfakta <span>KANAL D</span></li>
<li>21:00 Sinema Yerli Gecesi Özel Film SİNEMA YERLİ 2</li>
<li>22:15 Yalı Çapkını star tv</li>
<li>23:00 Bilinmeyen Program BLOOM TV</li>
<li>Reklam kuşağı burada</li>
<li>12:00 ab</li>
<li>14:00 Knowing the Past</li>
<li>10:00 KANAL D</li>
</ul></body></html>`

func TestParseListings(t *testing.T) {
	items, err := ParseListings(strings.NewReader(listingsHTML), models.ScheduleKindSeries)
	require.NoError(t, err)

	want := []models.ScheduleItem{
		{Time: "20:00", Title: "Kızılcık Şerbeti", Channel: "SHOW TV"},
		{Time: "09:30", Title: "Gelinim Mutfakta", Channel: "KANAL D"},
		{Time: "21:00", Title: "Sinema Yerli Gecesi Özel Film", Channel: "SİNEMA YERLİ 2"},
		{Time: "22:15", Title: "Yalı Çapkını", Channel: "STAR TV"},
		{Time: "23:00", Title: "Bilinmeyen Program", Channel: "BLOOM TV"},
	}
	require.Len(t, items, len(want))
	for i, w := range want {
		assert.Equal(t, w.Time, items[i].Time, "row %d", i)
		assert.Equal(t, w.Title, items[i].Title, "row %d", i)
		assert.Equal(t, w.Channel, items[i].Channel, "row %d", i)
		assert.Equal(t, models.ScheduleKindSeries, items[i].Type)
	}
	assert.NotEmpty(t, items[0].ChannelLogo)
	assert.Empty(t, items[4].ChannelLogo)
}

func TestParseListingsEmptyPage(t *testing.T) {
	items, err := ParseListings(strings.NewReader("<html></html>"), models.ScheduleKindMovie)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

const matchesHTML = `<ul>
<li>19:00 Galatasaray - Fenerbahçe TRT 1</li>
<li>20:45 Real Madrid vs Barcelona - Kupa Finali TV8 A HABER</li>
<li>21:30 Anadolu Efes - Fenerbahçe Beko SPOR SMART</li>
<li>18:00 Sadece bir başlık TRT 1</li>
<li>17:00 Beşiktaş - Trabzonspor</li>
<li>16:00 Ajax - PSV FOX fox</li>
</ul>`

func TestParseMatches(t *testing.T) {
	matches, err := ParseMatches(strings.NewReader(matchesHTML), models.SportFootball)
	require.NoError(t, err)
	require.Len(t, matches, 4)

	assert.Equal(t, models.Match{
		Time: "19:00", HomeTeam: "Galatasaray", AwayTeam: "Fenerbahçe",
		Channels: []string{"TRT 1"}, Sport: models.SportFootball,
	}, matches[0])

	assert.Equal(t, "Real Madrid", matches[1].HomeTeam)
	assert.Equal(t, "Barcelona - Kupa Finali", matches[1].AwayTeam)
	assert.Equal(t, []string{"TV8", "A HABER"}, matches[1].Channels)

	assert.Equal(t, "Anadolu Efes", matches[2].HomeTeam)
	assert.Equal(t, "Fenerbahçe Beko", matches[2].AwayTeam)
	assert.Equal(t, []string{"SPOR SMART"}, matches[2].Channels)

	assert.Equal(t, "PSV", matches[3].AwayTeam)
	assert.Equal(t, []string{"FOX"}, matches[3].Channels)
}

func TestSplitRow(t *testing.T) {
	tests := []struct {
		in    string
		clock string
		rest  string
		ok    bool
	}{
		{"  7:05 Sabah Haberleri NTV  ", "07:05", "Sabah Haberleri NTV", true},
		{"23:59 Gece Kuşağı ATV", "23:59", "Gece Kuşağı ATV", true},
		{"Saat 20:00 Film", "", "", false},
		{"20:00      ", "", "", false},
		{"1:2 short", "", "", false},
	}
	for _, tt := range tests {
		clock, rest, ok := splitRow(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.clock, clock, tt.in)
		assert.Equal(t, tt.rest, rest, tt.in)
	}
}

func TestSplitChannelWordBoundaries(t *testing.T) {
	title, channel := splitChannel("Knowing NOW")
	assert.Equal(t, "Knowing", title)
	assert.Equal(t, "NOW", channel)

	title, channel = splitChannel("Aksiyon Gecesi Sinema TV Aksiyon")
	assert.Equal(t, "Aksiyon Gecesi", title)
	assert.Equal(t, "SİNEMA TV AKSİYON", channel)

	title, channel = splitChannel("Çizgi Film Saati Cartoon Network")
	assert.Equal(t, "Çizgi Film Saati", title)
	assert.Equal(t, "CARTOON NETWORK", channel)
}

func TestTrailingUpper(t *testing.T) {
	head, tail := trailingUpper("Program Adı ÖZEL KANAL")
	assert.Equal(t, "Program Adı", head)
	assert.Equal(t, "ÖZEL KANAL", tail)

	head, tail = trailingUpper("Sadece küçük harf")
	assert.Equal(t, "Sadece küçük harf", head)
	assert.Empty(t, tail)

	_, tail = trailingUpper("Program 2024")
	assert.Empty(t, tail)
}
