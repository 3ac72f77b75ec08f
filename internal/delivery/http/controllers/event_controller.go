package controllers

import (
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"donationtracker/internal/delivery/http/helpers"
	"donationtracker/internal/delivery/http/middleware"
	"donationtracker/internal/domain"
)

// maxUploadBytes bounds a multipart event request, image included.
const maxUploadBytes = 10 << 20

const msgInvalidImage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// ListEvents godoc
// @Summary List events
// @Description Events ordered by date, newest first. search matches title, description or location (case-insensitive). Ten events per page.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param search query string false "Substring of title, description or location"
// @Param page query int false "1-indexed page"
// @Success 200 {object} controllers.EventListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (invalid page)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/ [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	page, err := helpers.ParsePage(r)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "")
		return
	}
	params := domain.PaginationParams{Page: page, PageSize: helpers.DefaultPageSize}
	search := strings.TrimSpace(r.URL.Query().Get("search"))

	events, total, err := c.Service.ListEvents(r.Context(), search, params)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, helpers.NewPage(r, params, total, newEventResponses(events)))
}

// CreateEvent godoc
// @Summary Create an event
// @Description Admin or HR only. Accepts JSON, or multipart/form-data with an optional image file.
// @Tags events
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param event body EventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/ [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "Authentication credentials were not provided.")
		return
	}
	req := &EventRequest{}
	upload, ok := c.decodeEvent(w, r, req)
	if !ok {
		return
	}
	if upload != nil && !c.storeImage(w, r, user, upload, req) {
		return
	}
	event := req.toEvent()
	if err := c.Service.CreateEvent(r.Context(), user, event); err != nil {
		writeServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, newEventResponse(event))
}

// GetEvent godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/ [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		return
	}
	event, err := c.Service.GetEvent(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newEventResponse(event))
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Admin or HR only. PUT requires title, description and date; PATCH changes only the fields sent. Accepts JSON or multipart/form-data with an image file.
// @Tags events
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param event body EventRequest true "Event fields"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or validation_error"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/ [put]
// @Router /events/{id}/ [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "Authentication credentials were not provided.")
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		return
	}
	req := &EventRequest{partial: r.Method == http.MethodPatch}
	upload, ok := c.decodeEvent(w, r, req)
	if !ok {
		return
	}
	if upload != nil {
		if _, err := c.Service.GetEvent(r.Context(), id); err != nil {
			writeServiceError(w, r, c.Logger, err, "event not found")
			return
		}
		if !c.storeImage(w, r, user, upload, req) {
			return
		}
	}
	event, err := c.Service.UpdateEvent(r.Context(), user, id, req.toUpdate())
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, newEventResponse(event))
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Admin or HR only. Deletes the event and all of its donations.
// @Tags events
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 204 "No Content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{id}/ [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "Authentication credentials were not provided.")
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), user, id); err != nil {
		writeServiceError(w, r, c.Logger, err, "event not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeEvent fills req from a JSON or multipart body and validates it. It returns the uploaded
// image, if any. On failure the error response has been written.
func (c *EventController) decodeEvent(w http.ResponseWriter, r *http.Request, req *EventRequest) (*multipart.FileHeader, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return nil, helpers.DecodeAndValidate(w, r, req)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "Multipart form parse error - "+err.Error())
		return nil, false
	}
	form := r.MultipartForm
	field := func(key string) NullableString {
		if vs, ok := form.Value[key]; ok && len(vs) > 0 {
			v := vs[0]
			return NullableString{Set: true, Value: &v}
		}
		return NullableString{}
	}
	req.Title = field("title")
	req.Description = field("description")
	req.Date = field("date")
	req.Location = field("location")
	req.Image = field("image")

	var upload *multipart.FileHeader
	if files := form.File["image"]; len(files) > 0 {
		upload = files[0]
	}
	return upload, helpers.Check(w, req)
}

// storeImage saves the uploaded image and points req at its URL.
func (c *EventController) storeImage(w http.ResponseWriter, r *http.Request, user *domain.User, upload *multipart.FileHeader, req *EventRequest) bool {
	f, err := upload.Open()
	if err != nil {
		helpers.WriteValidationError(w, helpers.FieldErrors{"image": {msgInvalidImage}})
		return false
	}
	defer f.Close()

	contentType, ok := sniffImage(f)
	if !ok {
		helpers.WriteValidationError(w, helpers.FieldErrors{"image": {msgInvalidImage}})
		return false
	}
	url, err := c.Service.SaveImage(r.Context(), user, upload.Filename, contentType, f)
	if err != nil {
		writeServiceError(w, r, c.Logger, err, "event not found")
		return false
	}
	req.Image = NullableString{Set: true, Value: &url}
	return true
}

// sniffImage detects the content type from the first bytes and rewinds f.
func sniffImage(f multipart.File) (string, bool) {
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return "", false
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", false
	}
	contentType := http.DetectContentType(head[:n])
	return contentType, strings.HasPrefix(contentType, "image/")
}
