package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"agroverse/advisory"
	"agroverse/middleware"
	"agroverse/ratelim"
	"agroverse/utils"
)

// Index is a simple health check handler.
func Index(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"status": "ok"})
}

func AddHealthRoutes(router *httprouter.Router) {
	router.GET("/health", Index)
}

// AddAdvisoryRoutes requires a bearer token once a JWT secret is configured.
func AddAdvisoryRoutes(router *httprouter.Router, h *advisory.Handlers, rateLimiter *ratelim.RateLimiter) {
	router.GET(advisory.WeatherPath, rateLimiter.Limit(middleware.Authenticate(h.Weather)))
	router.GET(advisory.NewsPath, rateLimiter.Limit(middleware.Authenticate(h.News)))
}

// RoutesWrapper registers every route the advisory proxy serves.
func RoutesWrapper(router *httprouter.Router, h *advisory.Handlers, rateLimiter *ratelim.RateLimiter) {
	AddHealthRoutes(router)
	AddAdvisoryRoutes(router, h, rateLimiter)
}
