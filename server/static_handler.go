package server

import (
	"net/http"
	"path/filepath"

	"multipiste/config"
	"multipiste/core/alias"
	"multipiste/core/multitrack"
	"multipiste/logger"

	"github.com/gorilla/mux"
)

// StaticHandler 提供首页、用户页面与客户端静态资源
type StaticHandler struct {
	cfg          *config.Config
	paths        multitrack.Paths
	aliasEnabled bool
}

// NewStaticHandler 创建 StaticHandler 实例
func NewStaticHandler(cfg *config.Config, paths multitrack.Paths) *StaticHandler {
	return &StaticHandler{
		cfg:   cfg,
		paths: paths,
		// 符号链接只对本地文件系统有意义
		aliasEnabled: paths.AliasEnabled() && cfg.StorageBackend == config.BackendLocal,
	}
}

// RegisterRoutes 注册页面与静态文件路由，必须最后注册
func (h *StaticHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.IndexHandler).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/user/{user}", h.UserPageHandler).Methods(http.MethodGet, http.MethodHead)
	router.PathPrefix("/").Handler(http.FileServer(http.Dir(h.cfg.ClientDir)))
}

// IndexHandler 返回根页面
func (h *StaticHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, h.cfg.IndexFile)
}

// UserPageHandler 返回客户端页面，用户在前端解析；必要时创建用户别名
func (h *StaticHandler) UserPageHandler(w http.ResponseWriter, r *http.Request) {
	if h.aliasEnabled {
		h.ensureAlias(mux.Vars(r)["user"])
	}
	http.ServeFile(w, r, filepath.Join(h.cfg.ClientDir, "index.html"))
}

// ensureAlias 失败只记录日志，不影响页面响应
func (h *StaticHandler) ensureAlias(user string) {
	target, err := h.paths.UserTrackRoot(user)
	if err != nil {
		logger.Warn("Skip alias for invalid user", logger.String("user", user), logger.ErrorField(err))
		return
	}
	link, err := h.paths.AliasPath(user)
	if err != nil {
		logger.Warn("Skip alias for invalid user", logger.String("user", user), logger.ErrorField(err))
		return
	}

	created, err := alias.Ensure(target, link)
	if err != nil {
		logger.Error("Failed to create user alias",
			logger.String("user", user),
			logger.String("link", link),
			logger.ErrorField(err))
		return
	}
	if created {
		logger.Info("Created user alias",
			logger.String("user", user),
			logger.String("link", link),
			logger.String("target", target))
	}
}
