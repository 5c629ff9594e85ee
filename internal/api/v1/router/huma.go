package router

import (
	"net/http"
	"os"

	"linkhub/internal/api/v1/handler"
	"linkhub/internal/config"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// SetupHumaAPI creates a Huma API instance on a fresh chi router. The
// middlewares run for every route, raw handlers included.
func SetupHumaAPI(cfg *config.Config, logger zerolog.Logger, middlewares ...func(http.Handler) http.Handler) (*chi.Mux, huma.API) {
	chiRouter := chi.NewRouter()
	chiRouter.Use(middlewares...)

	handler.UseErrorModel()

	// Get version from environment or default to development
	version := os.Getenv("GIT_COMMIT_SHA")
	if version == "" {
		version = "development"
	}

	humaConfig := huma.DefaultConfig("LinkHub API", version)
	humaConfig.Info.Description = "LinkHub link-in-bio API"
	humaConfig.Servers = []*huma.Server{{URL: cfg.APIBaseURL}}
	// Response bodies stay exactly as documented, without a $schema link.
	humaConfig.CreateHooks = nil

	api := humachi.New(chiRouter, humaConfig)

	logger.Info().Str("version", version).Msg("Huma API initialized")
	return chiRouter, api
}

// RegisterRoutes registers all Huma operations
func RegisterRoutes(
	api huma.API,
	authHandler *handler.AuthHandler,
	linkHandler *handler.LinkHandler,
	profileHandler *handler.ProfileHandler,
	userHandler *handler.UserHandler,
	analyticsHandler *handler.AnalyticsHandler,
	subscriberHandler *handler.SubscriberHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	logger zerolog.Logger,
) {
	logger.Info().Msg("Registering routes")
	count := 0
	register := func(op huma.Operation) huma.Operation {
		count++
		return op
	}

	// ========== AUTH OPERATIONS ==========
	huma.Register(api, register(huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/api/auth/register",
		Summary:       "Register",
		Description:   "Creates an account with email and password along with its public profile",
		Tags:          []string{"auth"},
		DefaultStatus: http.StatusCreated,
	}), authHandler.Register)

	huma.Register(api, register(huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Log in",
		Description: "Checks credentials, returns a session token and sets the session cookie",
		Tags:        []string{"auth"},
	}), authHandler.Login)

	huma.Register(api, register(huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/auth/logout",
		Summary:     "Log out",
		Description: "Clears the session cookie",
		Tags:        []string{"auth"},
	}), authHandler.Logout)

	// ========== LINK OPERATIONS ==========
	huma.Register(api, register(huma.Operation{
		OperationID: "listLinks",
		Method:      http.MethodGet,
		Path:        "/api/links",
		Summary:     "List links",
		Description: "Returns the caller's links in display order, inactive ones included",
		Tags:        []string{"links"},
	}), linkHandler.ListLinks)

	huma.Register(api, register(huma.Operation{
		OperationID:   "createLink",
		Method:        http.MethodPost,
		Path:          "/api/links",
		Summary:       "Create a link",
		Description:   "Adds a link. The Free plan is limited to 5 links",
		Tags:          []string{"links"},
		DefaultStatus: http.StatusCreated,
	}), linkHandler.CreateLink)

	huma.Register(api, register(huma.Operation{
		OperationID: "reorderLinks",
		Method:      http.MethodPut,
		Path:        "/api/links/reorder",
		Summary:     "Reorder links",
		Description: "Rewrites the display order to the given id sequence",
		Tags:        []string{"links"},
	}), linkHandler.ReorderLinks)

	huma.Register(api, register(huma.Operation{
		OperationID: "updateLink",
		Method:      http.MethodPatch,
		Path:        "/api/links/{id}",
		Summary:     "Update a link",
		Description: "Updates any subset of a link's fields",
		Tags:        []string{"links"},
	}), linkHandler.UpdateLink)

	huma.Register(api, register(huma.Operation{
		OperationID: "deleteLink",
		Method:      http.MethodDelete,
		Path:        "/api/links/{id}",
		Summary:     "Delete a link",
		Description: "Deletes a link owned by the caller",
		Tags:        []string{"links"},
	}), linkHandler.DeleteLink)

	// ========== PROFILE OPERATIONS ==========
	huma.Register(api, register(huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/profile",
		Summary:     "Get profile",
		Description: "Returns the caller's account basics, appearance settings and plan",
		Tags:        []string{"profile"},
	}), profileHandler.GetProfile)

	huma.Register(api, register(huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPatch,
		Path:        "/api/profile",
		Summary:     "Update profile",
		Description: "Updates appearance and page settings. Custom colors, email capture and the tip jar need Pro",
		Tags:        []string{"profile"},
	}), profileHandler.UpdateProfile)

	huma.Register(api, register(huma.Operation{
		OperationID: "getPublicProfile",
		Method:      http.MethodGet,
		Path:        "/api/public/{username}",
		Summary:     "Get a public page",
		Description: "Returns the data needed to render a public page and records a page view",
		Tags:        []string{"public"},
	}), profileHandler.GetPublicProfile)

	huma.Register(api, register(huma.Operation{
		OperationID: "getPublicPage",
		Method:      http.MethodGet,
		Path:        "/{username}",
		Summary:     "Public page",
		Description: "Same as /api/public/{username}",
		Tags:        []string{"public"},
	}), profileHandler.GetPublicProfile)

	// ========== USERNAME & ACCOUNT OPERATIONS ==========
	huma.Register(api, register(huma.Operation{
		OperationID: "checkUsername",
		Method:      http.MethodGet,
		Path:        "/api/username/check",
		Summary:     "Check username availability",
		Tags:        []string{"users"},
	}), userHandler.CheckUsername)

	huma.Register(api, register(huma.Operation{
		OperationID: "updateUsername",
		Method:      http.MethodPatch,
		Path:        "/api/username",
		Summary:     "Change username",
		Tags:        []string{"users"},
	}), userHandler.UpdateUsername)

	huma.Register(api, register(huma.Operation{
		OperationID: "getMe",
		Method:      http.MethodGet,
		Path:        "/api/user/me",
		Summary:     "Get account",
		Description: "Retrieves the authenticated user's account and plan",
		Tags:        []string{"users"},
	}), userHandler.GetMe)

	huma.Register(api, register(huma.Operation{
		OperationID: "deleteAccount",
		Method:      http.MethodDelete,
		Path:        "/api/user/delete",
		Summary:     "Delete account",
		Description: "Cancels any Razorpay subscription and deletes the account with all its data",
		Tags:        []string{"users"},
	}), userHandler.DeleteAccount)

	// ========== ANALYTICS OPERATIONS ==========
	huma.Register(api, register(huma.Operation{
		OperationID: "getAnalytics",
		Method:      http.MethodGet,
		Path:        "/api/analytics",
		Summary:     "Analytics summary",
		Description: "Page views, clicks, top links and breakdowns for a window of days",
		Tags:        []string{"analytics"},
	}), analyticsHandler.GetAnalytics)

	huma.Register(api, register(huma.Operation{
		OperationID: "trackClick",
		Method:      http.MethodPost,
		Path:        "/api/analytics/click",
		Summary:     "Track a link click",
		Tags:        []string{"analytics"},
	}), analyticsHandler.TrackClick)

	// ========== EMAIL CAPTURE OPERATIONS ==========
	huma.Register(api, register(huma.Operation{
		OperationID: "subscribe",
		Method:      http.MethodPost,
		Path:        "/api/subscribe",
		Summary:     "Subscribe to a page",
		Description: "Stores a visitor email for the page owner",
		Tags:        []string{"subscribers"},
	}), subscriberHandler.Subscribe)

	huma.Register(api, register(huma.Operation{
		OperationID: "listSubscribers",
		Method:      http.MethodGet,
		Path:        "/api/subscribers",
		Summary:     "List subscribers",
		Tags:        []string{"subscribers"},
	}), subscriberHandler.ListSubscribers)

	// ========== BILLING OPERATIONS ==========
	huma.Register(api, register(huma.Operation{
		OperationID: "getSubscriptionStatus",
		Method:      http.MethodGet,
		Path:        "/api/user/subscription-status",
		Summary:     "Subscription status",
		Description: "Current plan state. Polled by clients after a UPI payment",
		Tags:        []string{"billing"},
	}), subscriptionHandler.GetStatus)

	huma.Register(api, register(huma.Operation{
		OperationID: "razorpayCheckout",
		Method:      http.MethodPost,
		Path:        "/api/razorpay/checkout",
		Summary:     "Start a Razorpay checkout",
		Description: "Creates a Razorpay subscription when a plan exists for the currency, otherwise a one-off order",
		Tags:        []string{"billing"},
	}), subscriptionHandler.RazorpayCheckout)

	huma.Register(api, register(huma.Operation{
		OperationID: "razorpayVerify",
		Method:      http.MethodPost,
		Path:        "/api/razorpay/verify",
		Summary:     "Verify a Razorpay payment",
		Tags:        []string{"billing"},
	}), subscriptionHandler.RazorpayVerify)

	huma.Register(api, register(huma.Operation{
		OperationID: "razorpayCancel",
		Method:      http.MethodPost,
		Path:        "/api/razorpay/cancel",
		Summary:     "Cancel the Razorpay subscription",
		Description: "Cancels at the end of the billing cycle. Access lasts until the stored end date",
		Tags:        []string{"billing"},
	}), subscriptionHandler.RazorpayCancel)

	huma.Register(api, register(huma.Operation{
		OperationID: "stripeCheckout",
		Method:      http.MethodPost,
		Path:        "/api/stripe/checkout",
		Summary:     "Start a Stripe checkout",
		Description: "Returns a checkout session URL, or the billing portal for existing subscribers",
		Tags:        []string{"billing"},
	}), subscriptionHandler.StripeCheckout)

	logger.Info().Int("total_operations", count).Msg("All operations registered successfully")
}
