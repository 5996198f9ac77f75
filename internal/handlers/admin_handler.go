package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/familyalbum/server/internal/gallery"
	"github.com/familyalbum/server/internal/middleware"
	"github.com/familyalbum/server/internal/models"
	"github.com/familyalbum/server/internal/observability"
	"github.com/familyalbum/server/internal/repository"
	"github.com/familyalbum/server/internal/services"
)

// maxUploadFileSize caps each file in an upload batch
const maxUploadFileSize = 15 << 20

// AdminHandler handles the admin console endpoints
type AdminHandler struct {
	repo         repository.PhotoRepo
	branding     repository.BrandingRepo
	sessions     *services.SessionService
	storage      *services.MediaStorageService
	variants     *services.VariantService
	exif         *services.EXIFService
	push         *services.PushService
	metrics      *observability.AlbumMetrics
	mediaBaseURL string
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	repo repository.PhotoRepo,
	branding repository.BrandingRepo,
	sessions *services.SessionService,
	storage *services.MediaStorageService,
	variants *services.VariantService,
	exif *services.EXIFService,
	push *services.PushService,
	metrics *observability.AlbumMetrics,
	mediaBaseURL string,
) *AdminHandler {
	return &AdminHandler{
		repo:         repo,
		branding:     branding,
		sessions:     sessions,
		storage:      storage,
		variants:     variants,
		exif:         exif,
		push:         push,
		metrics:      metrics,
		mediaBaseURL: mediaBaseURL,
	}
}

// Auth handles POST /api/admin/auth
func (h *AdminHandler) Auth(w http.ResponseWriter, r *http.Request) {
	var req models.AdminAuthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "요청 본문이 올바르지 않습니다.")
		return
	}

	if err := h.sessions.VerifyPassword(req.Password); err != nil {
		h.metrics.RecordAuthAttempt(r.Context(), false)
		respondAppError(w, r, err)
		return
	}
	h.metrics.RecordAuthAttempt(r.Context(), true)

	now := time.Now().UTC()
	token, err := h.sessions.IssueToken(now)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	expires := h.sessions.ExpiresAt(now)
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respondJSON(w, http.StatusOK, models.SessionResponse{
		Authenticated: true,
		ExpiresAt:     &expires,
	})
}

// Logout handles POST /api/admin/logout
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, models.SessionResponse{Authenticated: false})
}

// Session handles GET /api/admin/session
func (h *AdminHandler) Session(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || !h.sessions.VerifyToken(cookie.Value, time.Now()) {
		respondJSON(w, http.StatusOK, models.SessionResponse{Authenticated: false})
		return
	}

	issuedAt, ok := h.sessions.IssuedAt(cookie.Value)
	if !ok {
		respondJSON(w, http.StatusOK, models.SessionResponse{Authenticated: false})
		return
	}
	expires := h.sessions.ExpiresAt(issuedAt)

	respondJSON(w, http.StatusOK, models.SessionResponse{
		Authenticated: true,
		ExpiresAt:     &expires,
	})
}

// ListPhotos handles GET /api/admin/photos. Unlike the public feed it also
// returns admin-only records.
func (h *AdminHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit")
	if !ok {
		return
	}
	if limit == 0 && r.URL.Query().Get("limit") == "" {
		limit = repository.DefaultPageLimit
	}

	page, err := h.repo.ListPage(r.Context(), repository.ListPageOptions{
		Cursor:     decodeCursorParam(r),
		Limit:      limit,
		Visibility: models.VisibilityAdmin,
	})
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	summary, err := h.repo.ListSummary(r.Context(), gallery.DateRange{}, models.VisibilityAdmin)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, photoPageResponse{
		Items:      page.Items,
		NextCursor: page.NextCursor,
		Summary:    summary,
	})
}

// UpdatePhoto handles PATCH /api/admin/photos/{id}
func (h *AdminHandler) UpdatePhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "사진 ID가 필요합니다.")
		return
	}

	var req models.PhotoUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "요청 본문이 올바르지 않습니다.")
		return
	}

	photo, err := h.repo.UpdateMetadata(r.Context(), id, req.ToUpdate())
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, photo)
}

// DeletePhoto handles DELETE /api/admin/photos/{id}. The stored blobs are
// garbage-collected best-effort after the record is removed.
func (h *AdminHandler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "사진 ID가 필요합니다.")
		return
	}

	deleted, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		respondAppError(w, r, err)
		return
	}

	h.storage.Delete(deleted.StoragePath)
	if deleted.ThumbPath != nil {
		h.storage.Delete(*deleted.ThumbPath)
	}

	w.WriteHeader(http.StatusNoContent)
}

// Upload handles POST /api/admin/upload. Each file is validated, stored, and
// recorded independently; one bad file never fails the batch.
func (h *AdminHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "multipart/form-data 요청이어야 합니다.")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		files = r.MultipartForm.File["file"]
	}
	if len(files) == 0 {
		respondError(w, http.StatusBadRequest, "업로드할 파일이 없습니다.")
		return
	}

	visibility := models.ParseVisibility(r.FormValue("visibility"))
	caption := r.FormValue("caption")
	eventNames := splitEventNames(r.FormValue("eventNames"))

	result := models.UploadBatchResponse{
		Uploaded: []*models.Photo{},
		Failed:   []models.UploadFailure{},
	}

	for _, header := range files {
		photo, err := h.uploadOne(r.Context(), header, caption, eventNames, visibility)
		if err != nil {
			h.metrics.RecordPhotoUpload(r.Context(), header.Size, false)
			result.Failed = append(result.Failed, models.UploadFailure{
				FileName: header.Filename,
				Reason:   failureReason(err),
			})
			continue
		}
		h.metrics.RecordPhotoUpload(r.Context(), photo.FileSize, true)
		result.Uploaded = append(result.Uploaded, photo)
	}

	if len(result.Uploaded) > 0 {
		go h.notifyUpload(len(result.Uploaded))
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *AdminHandler) uploadOne(
	ctx context.Context,
	header *multipart.FileHeader,
	caption string,
	eventNames []string,
	visibility models.Visibility,
) (*models.Photo, error) {
	if !h.storage.AllowedExtension(header.Filename) {
		return nil, models.ErrInvalidExtension
	}
	if header.Size > maxUploadFileSize {
		return nil, models.ErrFileTooLarge
	}

	file, err := header.Open()
	if err != nil {
		return nil, models.UpstreamError("failed to open uploaded file", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, models.UpstreamError("failed to read uploaded file", err)
	}

	exifData := h.exif.ExtractFromBytes(data)
	takenAt := time.Now().UTC()
	if exifData.DateTaken != nil {
		takenAt = *exifData.DateTaken
	}

	storedPath, err := h.storage.Store(bytes.NewReader(data), header.Filename, takenAt, int64(len(data)))
	if err != nil {
		return nil, err
	}

	photo, err := models.NewPhoto(models.NewPhotoParams{
		StoragePath:  storedPath,
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		FileSize:     int64(len(data)),
		Caption:      caption,
		TakenAt:      &takenAt,
		EventNames:   eventNames,
		Visibility:   visibility,
	})
	if err != nil {
		h.storage.Delete(storedPath)
		return nil, err
	}

	if thumbPath, err := h.variants.GenerateThumbnail(data, photo.ID, storedPath, exifData.Orientation); err == nil {
		photo.ThumbPath = &thumbPath
	} else {
		observability.Logger().WarnContext(ctx, "thumbnail generation failed",
			"file", header.Filename, "error", err)
	}

	if err := h.repo.Add(ctx, photo); err != nil {
		// orphaned blob cleanup is best-effort
		h.storage.Delete(storedPath)
		if photo.ThumbPath != nil {
			h.storage.Delete(*photo.ThumbPath)
		}
		return nil, err
	}

	return photo, nil
}

func (h *AdminHandler) notifyUpload(count int) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := h.push.Broadcast(ctx, services.Notification{
		Title: "가족 앨범",
		Body:  fmt.Sprintf("새로운 사진 %d장이 올라왔어요!", count),
		URL:   "/",
	})
	if err != nil && models.KindOf(err) != models.KindNotConfigured {
		observability.Logger().WarnContext(ctx, "upload notification failed", "error", err)
	}
}

// GetBranding handles GET /api/admin/pwa-branding
func (h *AdminHandler) GetBranding(w http.ResponseWriter, r *http.Request) {
	branding, err := h.branding.Get(r.Context())
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	if branding == nil {
		respondError(w, http.StatusNotFound, "브랜딩 설정이 없습니다.")
		return
	}

	respondJSON(w, http.StatusOK, h.brandingResponse(branding))
}

// SaveBranding handles POST /api/admin/pwa-branding. One uploaded logo is
// rendered into the four PWA icon rasters.
func (h *AdminHandler) SaveBranding(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(16 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "multipart/form-data 요청이어야 합니다.")
		return
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		respondError(w, http.StatusBadRequest, "logo 파일이 필요합니다.")
		return
	}
	defer file.Close()

	if !h.storage.AllowedExtension(header.Filename) {
		respondAppError(w, r, models.ErrInvalidExtension)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "logo 파일을 읽지 못했습니다.")
		return
	}

	icons, err := h.variants.RenderBrandingIcons(data)
	if err != nil {
		respondError(w, http.StatusBadRequest, "logo 이미지를 처리하지 못했습니다.")
		return
	}

	logoPath := "branding/logo" + strings.ToLower(filepath.Ext(header.Filename))
	if err := h.storage.StoreAt(logoPath, data); err != nil {
		respondAppError(w, r, err)
		return
	}

	branding := &models.Branding{LogoPath: logoPath}
	for _, icon := range icons {
		path := "branding/" + icon.Name
		if err := h.storage.StoreAt(path, icon.Data); err != nil {
			respondAppError(w, r, err)
			return
		}
		switch icon.Name {
		case "icon-192.png":
			branding.Icon192Path = path
		case "icon-512.png":
			branding.Icon512Path = path
		case "icon-maskable-192.png":
			branding.Maskable192Path = path
		case "icon-maskable-512.png":
			branding.Maskable512Path = path
		}
	}

	if err := h.branding.Save(r.Context(), branding); err != nil {
		respondAppError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, h.brandingResponse(branding))
}

// DeleteBranding handles DELETE /api/admin/pwa-branding
func (h *AdminHandler) DeleteBranding(w http.ResponseWriter, r *http.Request) {
	removed, err := h.branding.Delete(r.Context())
	if err != nil {
		respondAppError(w, r, err)
		return
	}
	if removed != nil {
		for _, path := range removed.Paths() {
			h.storage.Delete(path)
		}
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) brandingResponse(b *models.Branding) models.BrandingResponse {
	return models.BrandingResponse{
		LogoURL:        h.mediaBaseURL + "/" + b.LogoPath,
		Icon192URL:     h.mediaBaseURL + "/" + b.Icon192Path,
		Icon512URL:     h.mediaBaseURL + "/" + b.Icon512Path,
		Maskable192URL: h.mediaBaseURL + "/" + b.Maskable192Path,
		Maskable512URL: h.mediaBaseURL + "/" + b.Maskable512Path,
		UpdatedAt:      b.UpdatedAt,
	}
}

func splitEventNames(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			names = append(names, trimmed)
		}
	}
	return names
}

// failureReason extracts a user-facing reason for a per-file failure
func failureReason(err error) string {
	switch models.KindOf(err) {
	case models.KindValidation:
		return err.Error()
	default:
		return "파일을 저장하지 못했습니다."
	}
}
