package handler

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dukerupert/questboard/internal/store"
	"github.com/dukerupert/questboard/internal/websocket"
)

type SettingsHandler struct {
	broadcaster
	settings *store.SettingsStore
	logger   *slog.Logger
}

func NewSettingsHandler(ss *store.SettingsStore, hub *websocket.Hub, logger *slog.Logger) *SettingsHandler {
	return &SettingsHandler{broadcaster: broadcaster{hub}, settings: ss, logger: logger}
}

func (h *SettingsHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.settings.GetThemeSettings()
	if err != nil {
		writeStoreError(w, h.logger, "get theme settings", err)
		return
	}
	writeJSON(w, http.StatusOK, theme)
}

type themeRequest struct {
	ThemeMode     *string `json:"theme_mode" validate:"omitempty,oneof=light dark"`
	ChildAppTitle *string `json:"child_app_title" validate:"omitempty,min=1,max=60"`
}

func (h *SettingsHandler) UpdateTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if !decode(w, r, &req) {
		return
	}

	updates := map[string]*string{
		"theme_mode":      req.ThemeMode,
		"child_app_title": req.ChildAppTitle,
	}
	for key, value := range updates {
		if value == nil {
			continue
		}
		if err := h.settings.Set(key, *value); err != nil {
			writeStoreError(w, h.logger, fmt.Sprintf("save %s", key), err)
			return
		}
	}

	h.broadcast("settings", websocket.ActionUpdated, "theme", nil)
	h.GetTheme(w, r)
}
