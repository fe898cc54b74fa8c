package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"multipiste/core/multitrack"
	"multipiste/logger"

	"github.com/gorilla/mux"
)

// DownloadSoundHandler 以附件形式流式返回某个乐器音轨文件
func (h *APIHandler) DownloadSoundHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	user, song, file := vars["user"], vars["song"], vars["file"]

	sound, err := h.library.OpenSound(r.Context(), user, song, file)
	if err != nil {
		if errors.Is(err, multitrack.ErrNotFound) {
			writeText(w, http.StatusNotFound, fmt.Sprintf("404 – File %s not found.", file))
			return
		}
		writeError(w, r, err, "")
		return
	}
	defer sound.Close()

	contentType, ok := multitrack.MimeType(file)
	if !ok {
		contentType = multitrack.DefaultContentType
	}
	w.Header().Set("Content-Type", contentType)
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": file})
	if disposition == "" {
		disposition = "attachment"
	}
	w.Header().Set("Content-Disposition", disposition)
	if sound.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(sound.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	// 客户端断开后读取立即失败，io.Copy 返回后由 defer 关闭文件
	written, err := io.Copy(w, &ctxReader{ctx: r.Context(), r: sound})
	if err != nil {
		logger.Warn("Sound download interrupted",
			logger.String("user", user),
			logger.String("song", song),
			logger.String("file", file),
			logger.Int64("written", written),
			logger.ErrorField(err))
	}
}

// ctxReader 在请求上下文取消后停止读取
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
