package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/qscore/internal/config"
)

type settingRequest struct {
	Value *string `json:"value"`
}

type settingsResponse struct {
	Settings    config.Quality `json:"settings"`
	Adjustments []string       `json:"adjustments"`
}

type toggleResponse struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

// SettingsHandler handles user settings requests.
type SettingsHandler struct {
	deps SettingsDependencies
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(deps SettingsDependencies) *SettingsHandler {
	return &SettingsHandler{deps: deps}
}

// HandleGetSettings handles GET /v1/settings requests.
func (h *SettingsHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_settings"
	q, adj, err := h.deps.Settings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	resp := settingsResponse{Settings: q, Adjustments: make([]string, 0, len(adj))}
	for _, e := range adj {
		resp.Adjustments = append(resp.Adjustments, e.Error())
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandlePutSetting handles PUT /v1/settings/{key} requests.
func (h *SettingsHandler) HandlePutSetting(w http.ResponseWriter, r *http.Request) {
	const op = "api.put_setting"
	key := r.PathValue("key")

	var req settingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing value")))
		return
	}
	if err := h.deps.UpdateSetting(r.Context(), key, *req.Value); err != nil {
		writeSettingError(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleToggleSetting handles POST /v1/settings/toggle/{key} requests.
func (h *SettingsHandler) HandleToggleSetting(w http.ResponseWriter, r *http.Request) {
	const op = "api.toggle_setting"
	key := r.PathValue("key")

	v, err := h.deps.ToggleSetting(r.Context(), key)
	if err != nil {
		writeSettingError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, toggleResponse{Key: key, Value: v})
}

// writeSettingError maps rejected settings to 400 and anything else to 500.
func writeSettingError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, config.ErrUnknownSetting), errors.Is(err, config.ErrInvalidConfig):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}
