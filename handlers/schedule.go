package handlers

import (
	"context"
	"net/http"

	"hangiplatform/models"
	"hangiplatform/services/schedule"
	"hangiplatform/services/tvplus"

	"github.com/gorilla/mux"
)

type scheduleService interface {
	TodaySeries(ctx context.Context) []models.ScheduleItem
	TodayMovies(ctx context.Context) []models.ScheduleItem
	TodayMatches(ctx context.Context, sport models.Sport) []models.Match
	TodaySchedule(ctx context.Context) []models.ScheduleItem
	TodayByChannel(ctx context.Context) []models.ChannelSchedule
}

type playbillService interface {
	Today(ctx context.Context, c tvplus.Category) []models.TVPlusProgram
}

var (
	_ scheduleService = (*schedule.Service)(nil)
	_ playbillService = (*tvplus.Service)(nil)
)

// scheduleListResponse is the /api/tv-schedule shape, which names its list
// "items" rather than "data".
type scheduleListResponse struct {
	Success bool                  `json:"success"`
	Count   int                   `json:"count"`
	Items   []models.ScheduleItem `json:"items"`
}

// ScheduleHandler serves today's TV listings. Scrapers never fail outward, so
// every response is a success envelope, possibly empty.
type ScheduleHandler struct {
	schedule scheduleService
	tvplus   playbillService
}

func NewScheduleHandler(schedule scheduleService, tvplus playbillService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule, tvplus: tvplus}
}

func (h *ScheduleHandler) TodaySchedule(w http.ResponseWriter, r *http.Request) {
	items := h.schedule.TodaySchedule(r.Context())
	writeJSON(w, http.StatusOK, scheduleListResponse{Success: true, Count: len(items), Items: items})
}

func (h *ScheduleHandler) ByChannel(w http.ResponseWriter, r *http.Request) {
	groups := h.schedule.TodayByChannel(r.Context())
	writeJSON(w, http.StatusOK, models.ScheduleEnvelope{Success: true, Data: groups, Count: len(groups)})
}

func (h *ScheduleHandler) TodaySeries(w http.ResponseWriter, r *http.Request) {
	items := h.schedule.TodaySeries(r.Context())
	writeJSON(w, http.StatusOK, models.ScheduleEnvelope{Success: true, Data: items, Count: len(items)})
}

func (h *ScheduleHandler) TodayMovies(w http.ResponseWriter, r *http.Request) {
	items := h.schedule.TodayMovies(r.Context())
	writeJSON(w, http.StatusOK, models.ScheduleEnvelope{Success: true, Data: items, Count: len(items)})
}

func (h *ScheduleHandler) TodayMatches(w http.ResponseWriter, r *http.Request) {
	sport, err := schedule.ParseSport(r.URL.Query().Get("sport"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ScheduleEnvelope{
			Data:  []models.Match{},
			Error: "sport must be futbol or basketbol",
		})
		return
	}
	matches := h.schedule.TodayMatches(r.Context(), sport)
	writeJSON(w, http.StatusOK, models.ScheduleEnvelope{Success: true, Data: matches, Count: len(matches)})
}

// Playbill serves /api/yayin-akisi/{category} from TV+.
func (h *ScheduleHandler) Playbill(w http.ResponseWriter, r *http.Request) {
	category, err := tvplus.ParseCategory(mux.Vars(r)["category"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, models.ScheduleEnvelope{Data: []models.TVPlusProgram{}, Error: "unknown category"})
		return
	}
	programs := h.tvplus.Today(r.Context(), category)
	writeJSON(w, http.StatusOK, models.ScheduleEnvelope{Success: true, Data: programs, Count: len(programs)})
}
