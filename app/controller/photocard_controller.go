package controller

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"kardly-server/app/auth"
	"kardly-server/models"
	"kardly-server/service"
	"kardly-server/utils"
)

const (
	imageField = "image"
	// room for the non-file parts and multipart framing on top of the image itself
	multipartOverhead = 1 << 20
)

// fieldError is one entry of the "errors" list of a VALIDATION_ERROR response
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PhotocardController handles HTTP requests for photocards
type PhotocardController struct {
	log            *zap.Logger
	service        service.PhotocardServiceInterface
	inspector      *service.ImageInspector
	maxUploadBytes int64
}

// NewPhotocardController creates a new PhotocardController
func NewPhotocardController(log *zap.Logger, svc service.PhotocardServiceInterface, inspector *service.ImageInspector, maxUploadBytes int64) *PhotocardController {
	return &PhotocardController{
		log:            log,
		service:        svc,
		inspector:      inspector,
		maxUploadBytes: maxUploadBytes,
	}
}

// AddPhotocard handles POST /api/add_photocard
// Multipart form: image (file, required), group_id, member_id, album_id (optional uuids)
func (c *PhotocardController) AddPhotocard(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadBytes+multipartOverhead)
	if err := r.ParseMultipartForm(c.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.writeFailure(w, r, service.ErrFileTooLarge)
			return
		}
		c.log.Debug("malformed multipart body", zap.Error(err))
		c.writeFailure(w, r, errMissingImage)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	header, err := singleImage(r.MultipartForm)
	if err != nil {
		c.writeFailure(w, r, err)
		return
	}
	if header.Size > c.maxUploadBytes {
		c.writeFailure(w, r, service.ErrFileTooLarge)
		return
	}
	if !service.AllowedContentType(header.Header.Get("Content-Type")) {
		c.writeFailure(w, r, service.ErrUnsupportedImage)
		return
	}

	refs, fieldErrs := parseReferences(r.MultipartForm)
	if len(fieldErrs) > 0 {
		_ = utils.WriteJSON(w, http.StatusBadRequest, utils.Envelope{
			"return_code": models.CodeValidationError,
			"message":     "Validation failed",
			"errors":      fieldErrs,
		})
		return
	}

	data, err := readFile(header)
	if err != nil {
		c.log.Error("failed to read uploaded file", zap.Error(err))
		c.writeFailure(w, r, err)
		return
	}

	info, err := c.inspector.Inspect(header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		c.writeFailure(w, r, err)
		return
	}

	intent := models.UploadIntent{
		Filename:    header.Filename,
		ContentType: info.ContentType,
		Data:        data,
		References:  refs,
	}
	if p, ok := auth.FromContext(r.Context()); ok {
		intent.Owner = &p.UserID
	}

	created, err := c.service.Create(r.Context(), intent)
	if err != nil {
		c.writeFailure(w, r, err)
		return
	}

	_ = utils.WriteSuccess(w, http.StatusCreated, utils.Envelope{
		"photocard_id": created.PhotocardID,
		"image_url":    created.ImageURL,
		"message":      "Photocard added successfully",
	})
}

func (c *PhotocardController) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	outcome := service.Classify(err)
	if outcome.Status >= http.StatusInternalServerError {
		c.log.Error("add photocard failed", zap.String("code", string(outcome.Code)), zap.Error(err))
	} else {
		c.log.Info("add photocard rejected", zap.String("code", string(outcome.Code)), zap.Error(err))
	}
	_ = utils.WriteOutcome(w, outcome)
}

// singleImage returns the one uploaded file, which must sit under the image field
func singleImage(form *multipart.Form) (*multipart.FileHeader, error) {
	total := 0
	for _, headers := range form.File {
		total += len(headers)
	}
	if total > 1 {
		return nil, service.ErrTooManyFiles
	}

	headers := form.File[imageField]
	if len(headers) == 0 {
		return nil, errMissingImage
	}
	return headers[0], nil
}

var errMissingImage = service.NewInputError("Image file is required")

// parseReferences reads the optional reference fields. Empty values count as absent.
func parseReferences(form *multipart.Form) (models.CardReferences, []fieldError) {
	var refs models.CardReferences
	var fieldErrs []fieldError

	parse := func(field string, dst **uuid.UUID) {
		raw := strings.TrimSpace(formValue(form, field))
		if raw == "" {
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			fieldErrs = append(fieldErrs, fieldError{Field: field, Message: field + " must be a valid UUID"})
			return
		}
		*dst = &id
	}

	parse("group_id", &refs.GroupID)
	parse("member_id", &refs.MemberID)
	parse("album_id", &refs.AlbumID)
	return refs, fieldErrs
}

func formValue(form *multipart.Form, field string) string {
	if vs := form.Value[field]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

func readFile(header *multipart.FileHeader) (_ []byte, err error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return io.ReadAll(f)
}
