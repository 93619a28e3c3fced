package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gilponto/ponto-backend-go/internal/domain/punch"
	"github.com/gilponto/ponto-backend-go/internal/handler/http/response"
)

// maxPunchBody bounds a punch request; a compressed webcam frame is well under it.
const maxPunchBody = 8 << 20

type KioskHandler interface {
	Identify(w http.ResponseWriter, r *http.Request)
	Punch(w http.ResponseWriter, r *http.Request)
	Recent(w http.ResponseWriter, r *http.Request)
}

type kioskHandlerImpl struct {
	punchService punch.PunchService
}

func NewKioskHandler(punchService punch.PunchService) KioskHandler {
	return &kioskHandlerImpl{
		punchService: punchService,
	}
}

// Identify implements KioskHandler.
func (h *kioskHandlerImpl) Identify(w http.ResponseWriter, r *http.Request) {
	var req punch.IdentifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.punchService.Identify(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Punch implements KioskHandler.
func (h *kioskHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	var req punch.PunchRequest

	r.Body = http.MaxBytesReader(w, r.Body, maxPunchBody)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Punch decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.punchService.Punch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, result.Greeting.Title, result)
}

// Recent implements KioskHandler.
func (h *kioskHandlerImpl) Recent(w http.ResponseWriter, r *http.Request) {
	req := punch.RecentRequest{}
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsedLimit, err := strconv.Atoi(l); err == nil {
			req.Limit = parsedLimit
		}
	}

	result, err := h.punchService.Recent(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.List(w, result)
}
