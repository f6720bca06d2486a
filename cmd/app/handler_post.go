package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sushihentaime/writeflow/internal/blogservice"
	"github.com/sushihentaime/writeflow/internal/common"
)

func (app *application) searchPostsHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	v := common.NewValidator()

	filter := blogservice.SearchFilter{
		Query:      app.readString(qs, "q", ""),
		Category:   app.readString(qs, "category", ""),
		Tag:        app.readString(qs, "tag", ""),
		Pagination: app.readPagination(qs, v),
	}

	if !v.Valid() {
		app.failedValidationErrorResponse(w, r, v.Errors)
		return
	}

	res, err := app.blogService.Search(r.Context(), filter)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": res.Posts, "pagination": res.Pagination}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) createPostHandler(w http.ResponseWriter, r *http.Request) {
	var input blogservice.CreatePostRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.blogService.CreatePost(r.Context(), app.getUserContext(r), &input)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getPostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	post, err := app.blogService.GetPost(r.Context(), app.getUserContext(r), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) readPostHandler(w http.ResponseWriter, r *http.Request) {
	slug := httprouter.ParamsFromContext(r.Context()).ByName("slug")

	post, err := app.blogService.GetPublishedPostBySlug(r.Context(), slug)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updatePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	var input blogservice.UpdatePostRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	post, err := app.blogService.UpdatePost(r.Context(), app.getUserContext(r), id, &input)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"post": post}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deletePostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	err = app.blogService.DeletePost(r.Context(), app.getUserContext(r), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "post successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listOwnPostsHandler(w http.ResponseWriter, r *http.Request) {
	status := blogservice.Status(app.readString(r.URL.Query(), "status", ""))

	posts, err := app.blogService.ListOwnPosts(r.Context(), app.getUserContext(r), status)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"posts": posts}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) recordViewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	counters, err := app.blogService.RecordView(r.Context(), app.getUserContext(r), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"view_count": counters.ViewCount, "like_count": counters.LikeCount}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) likeStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	status, err := app.blogService.LikeStatus(r.Context(), app.getUserContext(r), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"like_count": status.LikeCount, "user_liked": status.UserLiked}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) toggleLikeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	res, err := app.blogService.ToggleLike(r.Context(), app.getUserContext(r), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"liked": res.Liked, "like_count": res.LikeCount}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
