package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sushihentaime/writeflow/internal/common"
	"github.com/sushihentaime/writeflow/internal/mediaservice"
)

// multipartOverhead leaves room for the form boundaries around the file.
const multipartOverhead = 1 << 20

func (app *application) uploadMediaHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, mediaservice.MaxUploadSize+multipartOverhead)

	err := r.ParseMultipartForm(mediaservice.MaxUploadSize + multipartOverhead)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		switch {
		case errors.As(err, &maxBytesError):
			app.failedValidationErrorResponse(w, r, map[string]string{"file": fmt.Sprintf("must not be larger than %d bytes", mediaservice.MaxUploadSize)})
		default:
			app.badRequestErrorResponse(w, r, errors.New("request body must be a multipart form"))
		}
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		app.failedValidationErrorResponse(w, r, map[string]string{"file": "must be provided"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, mediaservice.MaxUploadSize+1))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	media, err := app.mediaService.Upload(r.Context(), app.getUserContext(r), header.Filename, data)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"media": media}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listMediaHandler(w http.ResponseWriter, r *http.Request) {
	v := common.NewValidator()
	p := app.readPagination(r.URL.Query(), v)
	if !v.Valid() {
		app.failedValidationErrorResponse(w, r, v.Errors)
		return
	}

	page, err := app.mediaService.List(r.Context(), app.getUserContext(r), p)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"media": page.Media, "pagination": page.Pagination}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteMediaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	err = app.mediaService.Delete(r.Context(), app.getUserContext(r), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "media successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
