package models

import "time"

// ScheduleKind tags a scraped listing row; values match the Turkish labels the
// front end already renders.
type ScheduleKind string

const (
	ScheduleKindSeries ScheduleKind = "dizi"
	ScheduleKindMovie  ScheduleKind = "film"
)

// Sport selects the fixture list on the match schedule page.
type Sport string

const (
	SportFootball   Sport = "futbol"
	SportBasketball Sport = "basketbol"
)

// ScheduleItem is one programme scraped from a TV listings page.
type ScheduleItem struct {
	Time        string       `json:"time"` // HH:MM
	Title       string       `json:"title"`
	Channel     string       `json:"channel"`
	ChannelLogo string       `json:"channelLogo,omitempty"`
	Type        ScheduleKind `json:"type,omitempty"`
}

// Match is one televised fixture.
type Match struct {
	Time     string   `json:"time"`
	HomeTeam string   `json:"homeTeam"`
	AwayTeam string   `json:"awayTeam"`
	Channels []string `json:"channels"`
	Sport    Sport    `json:"sport"`
}

// ChannelSchedule groups today's programmes by channel.
type ChannelSchedule struct {
	Channel     string         `json:"channel"`
	ChannelLogo string         `json:"channelLogo,omitempty"`
	Items       []ScheduleItem `json:"items"`
}

// TVPlusProgram is a playbill entry embedded in tvplus.com.tr pages.
type TVPlusProgram struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Genres        string `json:"genres"`
	Introduce     string `json:"introduce"`
	ChannelID     string `json:"channelId"`
	ChannelName   string `json:"channelName"`
	ChannelLogo   string `json:"channelLogo"`
	StartTime     int64  `json:"startTime"` // unix millis
	EndTime       int64  `json:"endTime"`   // unix millis
	Image         string `json:"image"`
	BroadcastType string `json:"broadcastType,omitempty"`
	Time          string `json:"time,omitempty"` // HH:MM in the schedule timezone
}

// ScheduleEnvelope is the response shape of the schedule endpoints.
type ScheduleEnvelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Count   int    `json:"count"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ScheduleSnapshot is the last good scrape of a listing, persisted so a failed
// scrape can fall back to it.
type ScheduleSnapshot struct {
	Source    string    `json:"source"`
	Key       string    `json:"key"`
	Payload   []byte    `json:"payload"`
	FetchedAt time.Time `json:"fetchedAt"`
}
