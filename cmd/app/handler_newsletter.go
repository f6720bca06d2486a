package main

import (
	"errors"
	"net/http"

	"github.com/sushihentaime/writeflow/internal/newsletterservice"
)

type newsletterEmailRequest struct {
	Email string `json:"email"`
}

func (app *application) subscribeHandler(w http.ResponseWriter, r *http.Request) {
	var input newsletterEmailRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	_, err = app.newsletterService.Subscribe(r.Context(), input.Email)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "successfully subscribed to newsletter"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) unsubscribeHandler(w http.ResponseWriter, r *http.Request) {
	var input newsletterEmailRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.newsletterService.Unsubscribe(r.Context(), input.Email)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "successfully unsubscribed from newsletter"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listSubscribersHandler(w http.ResponseWriter, r *http.Request) {
	subscribers, err := app.newsletterService.ListSubscribers(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"subscribers": subscribers}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) sendNewsletterHandler(w http.ResponseWriter, r *http.Request) {
	var input newsletterservice.SendRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	sent, err := app.newsletterService.Send(r.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, newsletterservice.ErrNoActiveSubscribers):
			app.badRequestErrorResponse(w, r, err)
		default:
			app.serviceErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "newsletter sent", "subscriber_count": sent}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
