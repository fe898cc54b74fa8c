package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"multipiste/config"
	"multipiste/core/multitrack"
	"multipiste/logger"

	"github.com/gorilla/mux"
)

// APIHandler 处理曲目查询与下载请求
type APIHandler struct {
	library *multitrack.Library
	cfg     *config.Config
}

// NewAPIHandler 创建新的API处理器
func NewAPIHandler(library *multitrack.Library, cfg *config.Config) *APIHandler {
	return &APIHandler{library: library, cfg: cfg}
}

// RegisterRoutes 注册API路由
func (h *APIHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/track", h.GetTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/tracks/user/{user}", h.GetUserTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/track/{id}", h.GetTrackHandler).Methods(http.MethodGet)
	router.HandleFunc("/track/user/{user}/id/{id}", h.GetUserTrackHandler).Methods(http.MethodGet)
	router.HandleFunc("/multitrack-dyn/user/{user}/song/{song}/file/{file}", h.DownloadSoundHandler).Methods(http.MethodGet)
}

// GetTracksHandler 返回默认曲库中的曲目 ID 列表
func (h *APIHandler) GetTracksHandler(w http.ResponseWriter, r *http.Request) {
	trackList, err := h.library.ListTracks(r.Context())
	if err != nil {
		writeError(w, r, err, "No track found")
		return
	}
	writeJSON(w, r, http.StatusOK, trackList)
}

// GetUserTracksHandler 返回某个用户曲库中的曲目 ID 列表
func (h *APIHandler) GetUserTracksHandler(w http.ResponseWriter, r *http.Request) {
	user := mux.Vars(r)["user"]

	trackList, err := h.library.ListUserTracks(r.Context(), user)
	if err != nil {
		writeError(w, r, err, "No track found")
		return
	}
	writeJSON(w, r, http.StatusOK, trackList)
}

// GetTrackHandler 返回默认曲库中的单个曲目
func (h *APIHandler) GetTrackHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	track, err := h.library.Track(r.Context(), id)
	if err != nil {
		writeError(w, r, err, trackNotFound(id))
		return
	}
	writeJSON(w, r, http.StatusOK, track)
}

// GetUserTrackHandler 返回某个用户曲库中的单个曲目
func (h *APIHandler) GetUserTrackHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	user, id := vars["user"], vars["id"]

	track, err := h.library.UserTrack(r.Context(), user, id)
	if err != nil {
		writeError(w, r, err, trackNotFound(id))
		return
	}
	writeJSON(w, r, http.StatusOK, track)
}

func trackNotFound(id string) string {
	return `Track not found with id "` + id + `"`
}

// writeError 将领域错误映射为 HTTP 状态码
func writeError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, context.Canceled):
		// 客户端已断开，无需响应
		logger.Debug("Request cancelled", logger.String("path", r.URL.Path))
	case errors.Is(err, multitrack.ErrNotFound):
		writeText(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, multitrack.ErrMissingID):
		writeText(w, http.StatusBadRequest, "Need to provide an ID")
	case errors.Is(err, multitrack.ErrInvalidPath):
		logger.Warn("Rejected path",
			logger.String("path", r.URL.Path),
			logger.ErrorField(err))
		writeText(w, http.StatusBadRequest, "Invalid path")
	default:
		logger.Error("Request failed",
			logger.String("path", r.URL.Path),
			logger.String("requestId", RequestID(r.Context())),
			logger.ErrorField(err))
		writeText(w, http.StatusInternalServerError, "Internal server error")
	}
}

// writeText 写入纯文本响应
func writeText(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	io.WriteString(w, msg)
}

// writeJSON 先完整编码再写出，避免写出半截响应
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
