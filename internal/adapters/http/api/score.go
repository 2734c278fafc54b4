package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/qscore/internal/domain/model"
	"github.com/okian/qscore/internal/domain/stats"
)

// maxItemBytes bounds the body size per accepted item.
const maxItemBytes = 4 << 10

// scoreRequest is the body of POST /v1/score.
type scoreRequest struct {
	Items     []stats.RawItem `json:"items"`
	Direction string          `json:"direction"`
}

type scoredItem struct {
	ItemID     string  `json:"item_id"`
	Score      float64 `json:"score"`
	Label      string  `json:"label,omitempty"`
	Class      string  `json:"class"`
	Suppressed bool    `json:"suppressed"`
	BelowFloor bool    `json:"below_floor"`
	Hidden     bool    `json:"hidden"`
}

type diagnosticView struct {
	ItemID  string `json:"item_id,omitempty"`
	Index   int    `json:"index"`
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type scoreResponse struct {
	PassID      string           `json:"pass_id"`
	Strategy    string           `json:"strategy"`
	Items       []scoredItem     `json:"items"`
	Direction   string           `json:"direction,omitempty"`
	Ranked      []string         `json:"ranked,omitempty"`
	Hidden      []string         `json:"hidden,omitempty"`
	Diagnostics []diagnosticView `json:"diagnostics"`
}

// ScoreHandler handles scoring requests.
type ScoreHandler struct {
	deps     ScoreDependencies
	maxItems int
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies, maxItems int) *ScoreHandler {
	return &ScoreHandler{deps: deps, maxItems: maxItems}
}

// HandleScore handles POST /v1/score requests.
func (h *ScoreHandler) HandleScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.score"

	r.Body = http.MaxBytesReader(w, r.Body, int64(h.maxItems)*maxItemBytes)
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()

	var req scoreRequest
	if err := dec.Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "too_large", WrapKind(op, ErrTooLarge, err))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if len(req.Items) > h.maxItems {
		writeError(w, http.StatusRequestEntityTooLarge, "too_large",
			WrapKind(op, ErrTooLarge, fmt.Errorf("%d items, limit %d", len(req.Items), h.maxItems)))
		return
	}
	dir, err := parseDirection(req.Direction)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	ev, err := h.deps.Evaluate(r.Context(), req.Items, dir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}

	resp := scoreResponse{
		PassID:      ev.PassID,
		Strategy:    string(ev.Strategy),
		Items:       make([]scoredItem, 0, len(ev.Results)),
		Direction:   string(ev.Direction),
		Hidden:      ev.Hidden,
		Diagnostics: make([]diagnosticView, 0, len(ev.Diagnostics)),
	}
	for i, res := range ev.Results {
		item := scoredItem{
			ItemID:     res.ItemID,
			Score:      res.RawScore,
			Class:      string(res.Class),
			Suppressed: res.Suppressed,
			BelowFloor: res.BelowFloor,
			Hidden:     ev.IsHiddenAt(i),
		}
		if ev.ShowScores {
			item.Label = res.Label()
		}
		resp.Items = append(resp.Items, item)
	}
	if ev.Ranked != nil {
		resp.Ranked = make([]string, len(ev.Ranked))
		for i, e := range ev.Ranked {
			resp.Ranked[i] = e.ItemID
		}
	}
	for _, d := range ev.Diagnostics {
		resp.Diagnostics = append(resp.Diagnostics, diagnosticView{
			ItemID:  d.ItemID,
			Index:   d.Index,
			Kind:    d.Kind,
			Field:   d.Field,
			Message: d.Message,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseDirection keeps an empty direction empty so auto sort decides.
func parseDirection(s string) (model.Direction, error) {
	if s == "" {
		return "", nil
	}
	return model.ParseDirection(s)
}
