package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shouni/gemini-video-kit/pkg/character"
	"github.com/shouni/gemini-video-kit/pkg/domain"
	"github.com/shouni/gemini-video-kit/pkg/media"
	"github.com/shouni/gemini-video-kit/pkg/studio"
)

type handler struct {
	studio    *studio.Studio
	images    ImageLoader
	maxUpload int64
}

func (h *handler) register(group *gin.RouterGroup) {
	group.GET("/aspect-ratios", h.handleAspectRatios)

	group.GET("/characters", h.handleListCharacters)
	group.POST("/characters", h.handleCreateCharacter)
	group.DELETE("/characters/:id", h.handleDeleteCharacter)
	group.POST("/characters/:id/select", h.handleSelectCharacter)

	group.POST("/generations", h.handleStartGeneration)
	group.GET("/generations/current", h.handleCurrentGeneration)

	group.GET("/videos/:id", h.handleGetVideo)
	group.DELETE("/videos/:id", h.handleRevokeVideo)
}

type characterRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	MIMEType string `json:"mime_type"`
}

type generationRequest struct {
	Prompt          string `json:"prompt"`
	AspectRatio     string `json:"aspect_ratio"`
	CharacterID     string `json:"character_id"`
	ImageURL        string `json:"image_url"`
	MIMEType        string `json:"mime_type"`
	DurationSeconds *int32 `json:"duration_seconds"`
}

type statusResponse struct {
	studio.Status
	VideoURL string `json:"video_url,omitempty"`
}

func (h *handler) handleAspectRatios(c *gin.Context) {
	c.JSON(http.StatusOK, domain.AspectRatioOptions)
}

func (h *handler) handleListCharacters(c *gin.Context) {
	gallery := h.studio.Gallery()
	selectedID := ""
	if sel, ok := gallery.Selected(); ok {
		selectedID = sel.ID
	}
	c.JSON(http.StatusOK, gin.H{"characters": gallery.List(), "selected_id": selectedID})
}

func (h *handler) handleCreateCharacter(c *gin.Context) {
	gallery := h.studio.Gallery()

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, err := c.FormFile("image")
		if err != nil {
			writeError(c, http.StatusBadRequest, fmt.Errorf("image ファイルが必要です: %w", err))
			return
		}
		f, err := file.Open()
		if err != nil {
			writeError(c, http.StatusBadRequest, err)
			return
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
		if err != nil {
			writeError(c, http.StatusBadRequest, err)
			return
		}
		if int64(len(data)) > h.maxUpload {
			writeError(c, http.StatusRequestEntityTooLarge, fmt.Errorf("画像が大きすぎます (上限 %d バイト)", h.maxUpload))
			return
		}
		h.respondCharacter(c)(gallery.AddImage(c.PostForm("name"), data))
		return
	}

	var req characterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	if isRemoteURL(req.ImageURL) {
		if h.images == nil {
			writeError(c, http.StatusBadRequest, errors.New("画像 URL からの登録は無効です"))
			return
		}
		data, err := h.images.Load(c.Request.Context(), req.ImageURL)
		if err != nil {
			writeError(c, http.StatusBadRequest, err)
			return
		}
		h.respondCharacter(c)(gallery.AddImage(req.Name, data))
		return
	}
	h.respondCharacter(c)(gallery.Add(req.Name, req.ImageURL, req.MIMEType))
}

func (h *handler) respondCharacter(c *gin.Context) func(domain.Character, error) {
	return func(ch domain.Character, err error) {
		if err != nil {
			writeError(c, http.StatusBadRequest, err)
			return
		}
		c.JSON(http.StatusCreated, ch)
	}
}

func (h *handler) handleDeleteCharacter(c *gin.Context) {
	if err := h.studio.Gallery().Delete(c.Param("id")); err != nil {
		writeError(c, characterStatus(err), err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) handleSelectCharacter(c *gin.Context) {
	selected, err := h.studio.Gallery().Toggle(c.Param("id"))
	if err != nil {
		writeError(c, characterStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "selected": selected})
}

func (h *handler) handleStartGeneration(c *gin.Context) {
	var req generationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}

	in := studio.Input{
		Prompt:          req.Prompt,
		AspectRatio:     domain.AspectRatio(req.AspectRatio),
		CharacterID:     req.CharacterID,
		DurationSeconds: req.DurationSeconds,
	}
	if req.ImageURL != "" {
		in.Image = &domain.ReferenceImage{DataURL: req.ImageURL, MIMEType: req.MIMEType}
	}

	if err := h.studio.Start(in); err != nil {
		if errors.Is(err, studio.ErrBusy) {
			writeError(c, http.StatusConflict, errors.New("別の動画を生成中です。完了までお待ちください。"))
			return
		}
		writeError(c, statusForError(err), err)
		return
	}
	c.JSON(http.StatusAccepted, newStatusResponse(h.studio.Status()))
}

func (h *handler) handleCurrentGeneration(c *gin.Context) {
	c.JSON(http.StatusOK, newStatusResponse(h.studio.Status()))
}

func (h *handler) handleGetVideo(c *gin.Context) {
	data, handle, ok := h.studio.Store().Open(c.Param("id"))
	if !ok {
		writeError(c, http.StatusNotFound, errors.New("動画が見つかりません"))
		return
	}
	if c.Query("download") == "1" {
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, domain.DownloadFileName(handle.CreatedAt)))
	}
	c.Data(http.StatusOK, handle.MIMEType, data)
}

func (h *handler) handleRevokeVideo(c *gin.Context) {
	if !h.studio.Revoke(c.Param("id")) {
		writeError(c, http.StatusNotFound, errors.New("動画が見つかりません"))
		return
	}
	c.Status(http.StatusNoContent)
}

func newStatusResponse(st studio.Status) statusResponse {
	resp := statusResponse{Status: st}
	if st.Video != nil {
		resp.VideoURL = "/api/videos/" + strings.TrimPrefix(st.Video.LocalHandle, media.URLPrefix)
	}
	return resp
}

func isRemoteURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func characterStatus(err error) int {
	if errors.Is(err, character.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
