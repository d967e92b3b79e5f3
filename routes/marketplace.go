package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/HarshJain-sudo/oldmachine-backend/controllers"
	"github.com/HarshJain-sudo/oldmachine-backend/controllers/auth"
	"github.com/HarshJain-sudo/oldmachine-backend/middleware"
)

// registerMarketplaceRoutes wires the auth and catalog surface. Auth
// endpoints sit behind an IP limiter; catalog endpoints accept optional
// bearer tokens.
func registerMarketplaceRoutes(mp *mux.Router) {
	// 60 auth calls per IP per hour on top of the per-phone OTP limits.
	authLimiter := middleware.NewIPRateLimiter(60, time.Hour)

	mp.Handle("/login_or_sign_up/v1/",
		authLimiter.Middleware(http.HandlerFunc(auth.LoginOrSignUp))).Methods(http.MethodPost)
	mp.Handle("/verify_otp/v1/",
		authLimiter.Middleware(http.HandlerFunc(auth.VerifyOTP))).Methods(http.MethodPost)
	mp.Handle("/refresh_token/v1/",
		authLimiter.Middleware(http.HandlerFunc(auth.Refresh))).Methods(http.MethodPost)

	mp.Handle("/categories_details/get/v1/",
		middleware.OptionalAuthMiddleware(http.HandlerFunc(controllers.CategoriesDetails))).Methods(http.MethodGet)
	mp.Handle("/category_products_details/get/v1/",
		middleware.OptionalAuthMiddleware(http.HandlerFunc(controllers.CategoryProductsDetails))).Methods(http.MethodGet)
	mp.Handle("/product_details/get/v1/{product_code}/",
		middleware.OptionalAuthMiddleware(http.HandlerFunc(controllers.ProductDetails))).Methods(http.MethodGet)
	mp.Handle("/product_listings/search/v1/",
		middleware.OptionalAuthMiddleware(http.HandlerFunc(controllers.ProductListingsSearch))).Methods(http.MethodPost)
}
