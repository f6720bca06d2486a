package main

import (
	"errors"
	"net/http"

	"github.com/sushihentaime/writeflow/internal/userservice"
)

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	var input userservice.RegisterRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, token, err := app.userService.Register(r.Context(), &input)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	app.setAuthCookie(w, token)

	err = app.writeJSON(w, http.StatusCreated, envelope{"user": user, "token": token}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type loginUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (app *application) loginUserHandler(w http.ResponseWriter, r *http.Request) {
	var input loginUserRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, token, err := app.userService.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrInvalidCredentials):
			app.invalidCredentialsErrorResponse(w, r)
		default:
			app.serviceErrorResponse(w, r, err)
		}
		return
	}

	app.setAuthCookie(w, token)

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user, "token": token}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) logoutUserHandler(w http.ResponseWriter, r *http.Request) {
	app.clearAuthCookie(w)

	err := app.writeJSON(w, http.StatusOK, envelope{"message": "logged out successfully"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	user := app.getUserContext(r)

	err := app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var input userservice.UpdateProfileRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, err := app.userService.UpdateProfile(r.Context(), app.getUserContext(r), &input)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type requestOTPRequest struct {
	Purpose string `json:"purpose"`
}

func (app *application) requestOTPHandler(w http.ResponseWriter, r *http.Request) {
	var input requestOTPRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.userService.RequestOTP(r.Context(), app.getUserContext(r), input.Purpose)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrAlreadyAuthor):
			app.badRequestErrorResponse(w, r, err)
		default:
			app.serviceErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusAccepted, envelope{"message": "a verification code has been sent to your email address"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type becomeAuthorRequest struct {
	Code string `json:"code"`
}

func (app *application) becomeAuthorHandler(w http.ResponseWriter, r *http.Request) {
	var input becomeAuthorRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, err := app.userService.BecomeAuthor(r.Context(), app.getUserContext(r), input.Code)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrAlreadyAuthor),
			errors.Is(err, userservice.ErrInvalidOTP),
			errors.Is(err, userservice.ErrExpiredOTP):
			app.badRequestErrorResponse(w, r, err)
		default:
			app.serviceErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getAuthorHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	profile, err := app.userService.GetPublicProfile(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	posts, err := app.blogService.ListPublishedByAuthor(r.Context(), id)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"author": profile, "posts": posts}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := app.userService.ListUsers(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"users": users}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type updateUserRoleRequest struct {
	Role userservice.Role `json:"role"`
}

func (app *application) updateUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	var input updateUserRoleRequest

	err = app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	user, err := app.userService.UpdateUserRole(r.Context(), id, input.Role)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.notFoundErrorResponse(w, r)
		return
	}

	err = app.userService.DeleteUser(r.Context(), app.getUserContext(r), id)
	if err != nil {
		switch {
		case errors.Is(err, userservice.ErrSelfDeletion):
			app.badRequestErrorResponse(w, r, err)
		default:
			app.serviceErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "user successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
