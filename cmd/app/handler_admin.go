package main

import "net/http"

func (app *application) adminStatsHandler(w http.ResponseWriter, r *http.Request) {
	stats := app.adminService.Stats(r.Context())

	err := app.writeJSON(w, http.StatusOK, envelope{"stats": stats}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
