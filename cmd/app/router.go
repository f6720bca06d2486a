package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sushihentaime/writeflow/internal/userservice"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	writers := []userservice.Role{userservice.RoleAuthor, userservice.RoleAdmin}
	admin := userservice.RoleAdmin

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)

	// user service
	router.HandlerFunc(http.MethodPost, "/v1/auth/register", app.limitByIP(app.registerUserHandler))
	router.HandlerFunc(http.MethodPost, "/v1/auth/login", app.limitByIP(app.loginUserHandler))
	router.HandlerFunc(http.MethodPost, "/v1/auth/logout", app.logoutUserHandler)
	router.HandlerFunc(http.MethodPost, "/v1/auth/otp", app.limitByIP(app.requireAuthUser(app.requestOTPHandler)))
	router.HandlerFunc(http.MethodPost, "/v1/auth/become-author", app.limitByIP(app.requireAuthUser(app.becomeAuthorHandler)))
	router.HandlerFunc(http.MethodGet, "/v1/profile", app.requireAuthUser(app.getProfileHandler))
	router.HandlerFunc(http.MethodPut, "/v1/profile", app.requireAuthUser(app.updateProfileHandler))
	router.HandlerFunc(http.MethodGet, "/v1/profile/posts", app.requireRole(app.listOwnPostsHandler, writers...))
	router.HandlerFunc(http.MethodGet, "/v1/authors/:id", app.getAuthorHandler)

	// blog service
	router.HandlerFunc(http.MethodGet, "/v1/posts", app.searchPostsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/posts", app.requireRole(app.createPostHandler, writers...))
	router.HandlerFunc(http.MethodGet, "/v1/posts/:id", app.getPostHandler)
	router.HandlerFunc(http.MethodPut, "/v1/posts/:id", app.requireAuthUser(app.updatePostHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/posts/:id", app.requireAuthUser(app.deletePostHandler))
	router.HandlerFunc(http.MethodPost, "/v1/posts/:id/views", app.recordViewHandler)
	router.HandlerFunc(http.MethodGet, "/v1/posts/:id/like", app.likeStatusHandler)
	router.HandlerFunc(http.MethodPost, "/v1/posts/:id/like", app.requireAuthUser(app.toggleLikeHandler))
	router.HandlerFunc(http.MethodGet, "/v1/read/:slug", app.readPostHandler)

	// comment service
	router.HandlerFunc(http.MethodGet, "/v1/posts/:id/comments", app.listCommentsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/posts/:id/comments", app.requireAuthUser(app.createCommentHandler))
	router.HandlerFunc(http.MethodPut, "/v1/comments/:id", app.requireAuthUser(app.updateCommentHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/comments/:id", app.requireAuthUser(app.deleteCommentHandler))

	// taxonomy
	router.HandlerFunc(http.MethodGet, "/v1/categories", app.listCategoriesHandler)
	router.HandlerFunc(http.MethodPost, "/v1/categories", app.requireRole(app.createCategoryHandler, admin))
	router.HandlerFunc(http.MethodPut, "/v1/categories/:id", app.requireRole(app.updateCategoryHandler, admin))
	router.HandlerFunc(http.MethodDelete, "/v1/categories/:id", app.requireRole(app.deleteCategoryHandler, admin))
	router.HandlerFunc(http.MethodGet, "/v1/tags", app.listTagsHandler)
	router.HandlerFunc(http.MethodPost, "/v1/tags", app.requireRole(app.createTagHandler, writers...))
	router.HandlerFunc(http.MethodPut, "/v1/tags/:id", app.requireRole(app.updateTagHandler, admin))
	router.HandlerFunc(http.MethodDelete, "/v1/tags/:id", app.requireRole(app.deleteTagHandler, admin))

	// media service
	router.HandlerFunc(http.MethodGet, "/v1/media", app.requireAuthUser(app.listMediaHandler))
	router.HandlerFunc(http.MethodPost, "/v1/media", app.requireAuthUser(app.uploadMediaHandler))
	router.HandlerFunc(http.MethodDelete, "/v1/media/:id", app.requireAuthUser(app.deleteMediaHandler))

	// newsletter service
	router.HandlerFunc(http.MethodPost, "/v1/newsletter/subscribe", app.limitByIP(app.subscribeHandler))
	router.HandlerFunc(http.MethodPost, "/v1/newsletter/unsubscribe", app.unsubscribeHandler)

	// admin
	router.HandlerFunc(http.MethodGet, "/v1/admin/stats", app.requireRole(app.adminStatsHandler, admin))
	router.HandlerFunc(http.MethodGet, "/v1/admin/users", app.requireRole(app.listUsersHandler, admin))
	router.HandlerFunc(http.MethodPut, "/v1/admin/users/:id", app.requireRole(app.updateUserRoleHandler, admin))
	router.HandlerFunc(http.MethodDelete, "/v1/admin/users/:id", app.requireRole(app.deleteUserHandler, admin))
	router.HandlerFunc(http.MethodGet, "/v1/admin/newsletter/subscribers", app.requireRole(app.listSubscribersHandler, admin))
	router.HandlerFunc(http.MethodPost, "/v1/admin/newsletter/send", app.requireRole(app.sendNewsletterHandler, admin))

	return app.recoverPanic(app.enableCORS(app.rateLimit(app.logRequest(app.authenticate(router)))))
}
