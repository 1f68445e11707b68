package tvplus

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hangiplatform/models"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoPageData means the page carried no __NEXT_DATA__ script.
var ErrNoPageData = errors.New("tvplus: __NEXT_DATA__ not found")

type nextData struct {
	Props struct {
		PageProps struct {
			PageData struct {
				DayPlaybills []playbill `json:"dayPlaybills"`
			} `json:"pageData"`
		} `json:"pageProps"`
	} `json:"props"`
}

type playbill struct {
	ID            flexString `json:"id"`
	Name          flexString `json:"name"`
	Genres        flexString `json:"genres"`
	Introduce     flexString `json:"introduce"`
	ChannelID     flexString `json:"channelid"`
	ChannelName   flexString `json:"channelName"`
	ChannelLogo   flexString `json:"channelLogo"`
	StartTime     flexInt    `json:"starttime"`
	EndTime       flexInt    `json:"endtime"`
	SrcItem       flexString `json:"srcItem"`
	ExtensionInfo []struct {
		Key   flexString `json:"key"`
		Value flexString `json:"value"`
	} `json:"extensionInfo"`
}

// flexString accepts JSON strings, numbers, arrays and objects. Objects
// contribute their "name" field; anything it cannot read keeps its raw text.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		*f = flexString(b)
		return nil
	}
	*f = flexString(flatten(v, b))
	return nil
}

func flatten(v any, raw []byte) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, el := range t {
			elRaw, _ := json.Marshal(el)
			if s := flatten(el, elRaw); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		if name, ok := t["name"].(string); ok {
			return name
		}
		return string(raw)
	case nil:
		return ""
	default:
		return string(raw)
	}
}

// flexInt accepts millisecond timestamps sent as numbers or numeric strings.
// Anything else decodes to zero.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			*f = 0
			return nil
		}
		n = int64(fl)
	}
	*f = flexInt(n)
	return nil
}

// ExtractNextData returns the JSON embedded in <script id="__NEXT_DATA__">.
func ExtractNextData(html []byte) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return nil, err
	}
	raw := strings.TrimSpace(doc.Find(`script#__NEXT_DATA__`).First().Text())
	if raw == "" {
		return nil, ErrNoPageData
	}
	return []byte(raw), nil
}

// ParsePlaybills decodes the day's playbill out of a TV+ schedule page. Times
// are rendered in loc.
func ParsePlaybills(html []byte, loc *time.Location) ([]models.TVPlusProgram, error) {
	raw, err := ExtractNextData(html)
	if err != nil {
		return nil, err
	}
	var data nextData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode __NEXT_DATA__: %w", err)
	}

	bills := data.Props.PageProps.PageData.DayPlaybills
	programs := make([]models.TVPlusProgram, 0, len(bills))
	for _, b := range bills {
		p := models.TVPlusProgram{
			ID:          string(b.ID),
			Name:        string(b.Name),
			Genres:      string(b.Genres),
			Introduce:   string(b.Introduce),
			ChannelID:   string(b.ChannelID),
			ChannelName: string(b.ChannelName),
			ChannelLogo: string(b.ChannelLogo),
			StartTime:   int64(b.StartTime),
			EndTime:     int64(b.EndTime),
			Image:       string(b.SrcItem),
		}
		for _, info := range b.ExtensionInfo {
			if info.Key == "broadcastType" {
				p.BroadcastType = string(info.Value)
				break
			}
		}
		if p.StartTime > 0 {
			p.Time = FormatTime(p.StartTime, loc)
		}
		programs = append(programs, p)
	}
	return programs, nil
}

// FormatTime renders a unix millisecond timestamp as HH:MM in loc.
func FormatTime(ms int64, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(ms).In(loc).Format("15:04")
}
