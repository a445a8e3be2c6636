package handler

import (
	"errors"
	"net/http"

	fileapp "github.com/publication-admin/internal/application/file"
	"github.com/publication-admin/internal/pkg/validate"
)

// multipartOverhead leaves room for form boundaries and headers on top of the image limit.
const multipartOverhead = 1 << 20

// FileHandler handles media uploads.
type FileHandler struct {
	svc       fileapp.Service
	errs      *ErrorWriter
	sizeLimit int64
}

func NewFileHandler(svc fileapp.Service, errs *ErrorWriter, sizeLimit int64) *FileHandler {
	return &FileHandler{svc: svc, errs: errs, sizeLimit: sizeLimit}
}

func (h *FileHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.sizeLimit+multipartOverhead)
	if err := r.ParseMultipartForm(h.sizeLimit + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errs.Write(w, r, fileField("Too large file"))
			return
		}
		h.errs.Write(w, r, fileField("Invalid multipart form"))
		return
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		h.errs.Write(w, r, fileField("Field required"))
		return
	}
	defer f.Close()

	uploaded, err := h.svc.UploadImage(r.Context(), fileapp.UploadInput{
		Reader:      f,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	})
	if err != nil {
		h.errs.Write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, uploaded)
}

func fileField(msg string) *validate.Error {
	return &validate.Error{Fields: []validate.FieldError{{Type: "value_error", Loc: []string{"body", "file"}, Msg: msg}}}
}
