// Package routes wires the HTTP surface onto the controllers.
package routes

import (
	"github.com/shashiranjanraj/villageangel/app/controllers"
	appgql "github.com/shashiranjanraj/villageangel/app/graphql"
	"github.com/shashiranjanraj/villageangel/app/models"
	"github.com/shashiranjanraj/villageangel/app/services"
	"github.com/shashiranjanraj/villageangel/pkg/graphql"
	"github.com/shashiranjanraj/villageangel/pkg/logger"
	"github.com/shashiranjanraj/villageangel/pkg/middleware"
	"github.com/shashiranjanraj/villageangel/pkg/rbac"
	"github.com/shashiranjanraj/villageangel/pkg/router"
)

// RegisterAPI mounts every route under /api/v1.
func RegisterAPI(r *router.Router) {
	auth := controllers.NewAuthController()
	catalog := controllers.NewCatalogController()
	cart := controllers.NewCartController()
	orders := controllers.NewOrderController()
	admin := controllers.NewAdminController()

	lookup := middleware.UserLookup(services.NewAuthService().Lookup)
	authed := middleware.Auth(lookup)
	adminOnly := rbac.HasRole(models.RoleAdmin)

	api := r.Group("/api/v1")

	// Auth
	api.Post("/auth/register", "auth.register", auth.Register)
	api.Post("/auth/login", "auth.login", auth.Login)
	api.Post("/auth/refresh", "auth.refresh", auth.Refresh)
	api.Post("/auth/logout", "auth.logout", auth.Logout)
	api.Post("/auth/verify-otp", "auth.verify_otp", auth.Activate)
	api.Post("/auth/resend-verification", "auth.resend_verification", auth.ResendActivation)
	api.Post("/auth/forgot-password", "auth.forgot_password", auth.ForgotPassword)
	api.Post("/auth/verify-reset-otp", "auth.verify_reset_otp", auth.VerifyResetOTP)
	api.Post("/auth/reset-password", "auth.reset_password", auth.ResetPassword)
	api.Get("/auth/profile", "auth.profile", auth.Profile, authed)

	// Public catalogue
	api.Get("/categories", "categories.index", catalog.Categories)
	api.Get("/categories/{id}", "categories.show", catalog.Category)
	api.Get("/products", "products.index", catalog.Products)
	api.Get("/products/{id}", "products.show", catalog.Product)

	// The original storefront's paths, mounted beside the REST table so
	// deployed clients keep working. getCatergory keeps its historical
	// spelling.
	user := api.Group("/user")
	user.Post("/register", "user.register", auth.Register)
	user.Post("/login", "user.login", auth.Login)
	user.Post("/refresh", "user.refresh", auth.Refresh)
	user.Post("/forgot-password", "user.forgot_password", auth.ForgotPassword)
	user.Post("/reset-password", "user.reset_password", auth.ResetPassword)
	user.Post("/verify-otp", "user.verify_otp", auth.VerifyResetOTP)
	user.Post("/resend-verification-otp", "user.resend_verification", auth.ResendActivation)
	user.Post("/resend-forgot-password-otp", "user.resend_forgot_password", auth.ForgotPassword)

	category := api.Group("/category")
	category.Get("/getCatergory", "category.list", catalog.Categories)
	category.Get("/products-by-category", "category.products", catalog.Products)
	category.Get("/getProduct", "category.product", catalog.Product)

	// Cart
	cartGroup := api.Group("/cart", authed)
	cartGroup.Get("", "cart.show", cart.Show)
	cartGroup.Post("", "cart.add", cart.AddItem)
	cartGroup.Post("/items", "cart.items.add", cart.AddItem)
	cartGroup.Put("/items/{itemId}", "cart.items.update", cart.UpdateItem)
	cartGroup.Delete("/items/{itemId}", "cart.items.remove", cart.RemoveItem)

	// Orders
	orderGroup := api.Group("/orders", authed)
	orderGroup.Post("", "orders.place", orders.Place)
	orderGroup.Get("", "orders.mine", orders.Mine)
	orderGroup.Get("/{id}", "orders.show", orders.Show)

	// Admin console
	adminGroup := api.Group("/admin", authed, adminOnly)
	adminGroup.Get("/users", "admin.users.index", admin.Users)
	adminGroup.Put("/users/{id}/verify", "admin.users.verify", admin.VerifyKYC)
	adminGroup.Put("/users/{id}/credit", "admin.users.credit", admin.SetCredit)
	adminGroup.Get("/orders", "admin.orders.index", admin.Orders)
	adminGroup.Put("/orders/{id}/approve", "admin.orders.approve", admin.ApproveOrder)
	adminGroup.Put("/orders/{id}/ship", "admin.orders.ship", admin.ShipOrder)
	adminGroup.Post("/categories", "admin.categories.create", catalog.CreateCategory)
	adminGroup.Put("/categories/{id}", "admin.categories.update", catalog.UpdateCategory)
	adminGroup.Delete("/categories/{id}", "admin.categories.delete", catalog.DeleteCategory)
	adminGroup.Post("/products", "admin.products.create", catalog.CreateProduct)
	adminGroup.Put("/products/{id}", "admin.products.update", catalog.UpdateProduct)
	adminGroup.Delete("/products/{id}", "admin.products.delete", catalog.DeleteProduct)
	adminGroup.Post("/uploads/images", "admin.uploads.images", catalog.UploadImage)

	// The original console's paths.
	adminGroup.Get("/unverified-users", "admin.users.unverified", admin.UnverifiedUsers)
	adminGroup.Patch("/verifyUser", "admin.users.verify_user", admin.VerifyKYC)
	adminGroup.Post("/create-category", "admin.create_category", catalog.CreateCategory)
	adminGroup.Post("/create-product", "admin.create_product", catalog.CreateProduct)
	adminGroup.Get("/orders/pending", "admin.orders.pending", admin.PendingOrders)
	adminGroup.Post("/orders/approve", "admin.orders.approve_pending", admin.ApproveOrder)
	adminGroup.Post("/orders/shipped", "admin.orders.mark_shipped", admin.ShipOrder)
	adminGroup.Post("/set-credit-limit", "admin.credit.set", admin.SetCredit)
	adminGroup.Post("/update-credit-limit", "admin.credit.update", admin.SetCredit)
	adminGroup.Post("/upload-image", "admin.upload_image", catalog.UploadImage)

	// Live order feed for the admin console
	f := feed()
	adminGroup.Get("/orders/stream", "admin.orders.stream", f.serveSSE)
	adminGroup.Get("/orders/ws", "admin.orders.ws", f.serveWS)
	api.Group("/ws", authed, adminOnly).Get("/admin", "ws.admin", f.serveWS)

	// Read-only GraphQL catalogue
	schema, err := appgql.NewCatalogSchema()
	if err != nil {
		logger.Error("routes: graphql schema", "error", err)
	} else {
		gql := graphql.Handler(schema)
		api.Get("/graphql", "graphql.get", gql)
		api.Post("/graphql", "graphql.post", gql)
	}
}
