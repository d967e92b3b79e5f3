package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/HarshJain-sudo/oldmachine-backend/controllers/sellerportal"
	"github.com/HarshJain-sudo/oldmachine-backend/middleware"
)

// registerSellerPortalRoutes wires the seller drill-down, form schema,
// form-config admin and product surfaces. Everything requires a bearer
// token; the form-config admin additionally requires a staff account.
func registerSellerPortalRoutes(sp *mux.Router) {
	sp.Use(middleware.AuthMiddleware)

	sp.Handle("/categories/roots/",
		http.HandlerFunc(sellerportal.RootCategories)).Methods(http.MethodGet)
	sp.Handle("/categories/with-forms/",
		http.HandlerFunc(sellerportal.CategoriesWithForms)).Methods(http.MethodGet)
	sp.Handle("/categories/{category_code}/children/",
		http.HandlerFunc(sellerportal.ChildCategories)).Methods(http.MethodGet)

	sp.Handle("/form/{category_code}/",
		http.HandlerFunc(sellerportal.CategoryForm)).Methods(http.MethodGet)

	admin := sp.PathPrefix("/category-form-configs").Subrouter()
	admin.Use(middleware.StaffMiddleware)
	admin.Handle("/", http.HandlerFunc(sellerportal.ListFormConfigs)).Methods(http.MethodGet)
	admin.Handle("/", http.HandlerFunc(sellerportal.CreateFormConfig)).Methods(http.MethodPost)
	admin.Handle("/{category_code}/", http.HandlerFunc(sellerportal.GetFormConfig)).Methods(http.MethodGet)
	admin.Handle("/{category_code}/", http.HandlerFunc(sellerportal.UpdateFormConfig)).Methods(http.MethodPut)
	admin.Handle("/{category_code}/", http.HandlerFunc(sellerportal.DeleteFormConfig)).Methods(http.MethodDelete)

	sp.Handle("/products/",
		http.HandlerFunc(sellerportal.ListSellerProducts)).Methods(http.MethodGet)
	sp.Handle("/products/",
		http.HandlerFunc(sellerportal.CreateSellerProduct)).Methods(http.MethodPost)
	sp.Handle("/products/{product_id}/",
		http.HandlerFunc(sellerportal.GetSellerProduct)).Methods(http.MethodGet)
	sp.Handle("/products/{product_id}/",
		http.HandlerFunc(sellerportal.UpdateSellerProduct)).Methods(http.MethodPut)
	sp.Handle("/products/{product_id}/",
		http.HandlerFunc(sellerportal.DeleteSellerProduct)).Methods(http.MethodDelete)
}
