package authkit

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// DefaultCookieName is the cookie carrying the signed session token.
const DefaultCookieName = "rezume_session"

// DefaultCookieTTL matches the token expiration NewDefaultConfig configures.
const DefaultCookieTTL = 72 * time.Hour

// HTTPControllerRoutes holds the mounted paths
type HTTPControllerRoutes struct {
	Login    string
	Signup   string
	Provider string
	Logout   string
	Session  string
}

// HTTPController exposes the Manager's operations as a JSON API. It is a
// consumer of the core contract like any UI would be: it validates request
// shapes, delegates to the flows, and reflects the resulting state.
type HTTPController struct {
	Debug      bool
	Logger     Logger
	Manager    *Manager
	Tokens     TokenService
	Routes     *HTTPControllerRoutes
	CookieName string
	CookieTTL  time.Duration
}

// HTTPControllerOption configures the controller
type HTTPControllerOption func(*HTTPController) *HTTPController

// WithControllerManager sets the Manager the controller fronts.
func WithControllerManager(manager *Manager) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.Manager = manager
		return c
	}
}

// WithControllerTokens sets the TokenService used for the session cookie.
func WithControllerTokens(tokens TokenService) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.Tokens = tokens
		return c
	}
}

// WithControllerLogger overrides the controller logger.
func WithControllerLogger(logger Logger) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		if logger != nil {
			c.Logger = logger
		}
		return c
	}
}

// WithControllerCookieTTL sets the session cookie lifetime. Keep it in step
// with the TokenService expiration so the cookie never outlives its token.
func WithControllerCookieTTL(ttl time.Duration) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		if ttl > 0 {
			c.CookieTTL = ttl
		}
		return c
	}
}

// WithControllerDebug enables request payload dumps.
func WithControllerDebug(debug bool) HTTPControllerOption {
	return func(c *HTTPController) *HTTPController {
		c.Debug = debug
		return c
	}
}

// NewHTTPController builds a controller with the default routes
func NewHTTPController(opts ...HTTPControllerOption) *HTTPController {
	c := &HTTPController{
		Logger:     defLogger{},
		CookieName: DefaultCookieName,
		CookieTTL:  DefaultCookieTTL,
		Routes: &HTTPControllerRoutes{
			Login:    "/auth/login",
			Signup:   "/auth/signup",
			Provider: "/auth/provider/:provider",
			Logout:   "/auth/logout",
			Session:  "/auth/session",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Manager == nil {
		panic("Missing Manager in auth controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenService in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the controller on app
func RegisterAuthRoutes(app *fiber.App, opts ...HTTPControllerOption) *HTTPController {
	controller := NewHTTPController(opts...)

	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Post(controller.Routes.Signup, controller.SignupPost)
	app.Post(controller.Routes.Provider, controller.ProviderPost)
	app.Post(controller.Routes.Logout, controller.LogoutPost)
	app.Get(controller.Routes.Session, controller.SessionGet)

	return controller
}

// LoginPost handles the password flow
func (a *HTTPController) LoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginCredentials)

	if err := ctx.BodyParser(payload); err != nil {
		return a.renderError(ctx, fiber.StatusBadRequest, "invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"validation": err.Error(),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH LOGIN ======")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	if err := a.Manager.Login(ctx.UserContext(), *payload); err != nil {
		return a.renderFlowError(ctx, err)
	}

	return a.renderSession(ctx)
}

// SignupPost handles registration
func (a *HTTPController) SignupPost(ctx *fiber.Ctx) error {
	payload := new(SignupCredentials)

	if err := ctx.BodyParser(payload); err != nil {
		return a.renderError(ctx, fiber.StatusBadRequest, "invalid request body")
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"validation": err.Error(),
		})
	}

	if a.Debug {
		fmt.Println("======= AUTH SIGNUP =====")
		fmt.Println(print.MaybePrettyJSON(payload))
		fmt.Println("=========================")
	}

	if err := a.Manager.Signup(ctx.UserContext(), *payload); err != nil {
		return a.renderFlowError(ctx, err)
	}

	return a.renderSession(ctx)
}

// ProviderPost handles the simulated social flow
func (a *HTTPController) ProviderPost(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")

	if err := a.Manager.LoginWithProvider(ctx.UserContext(), provider); err != nil {
		return a.renderFlowError(ctx, err)
	}

	return a.renderSession(ctx)
}

// LogoutPost drops the session and expires the cookie
func (a *HTTPController) LogoutPost(ctx *fiber.Ctx) error {
	if err := a.Manager.Logout(ctx.UserContext()); err != nil {
		a.Logger.Error("logout failed: %v", err)
		return a.renderError(ctx, fiber.StatusInternalServerError, "logout failed")
	}

	ctx.Cookie(&fiber.Cookie{
		Name:     a.CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return ctx.SendStatus(fiber.StatusNoContent)
}

// SessionGet reflects the current state snapshot
func (a *HTTPController) SessionGet(ctx *fiber.Ctx) error {
	return ctx.JSON(a.Manager.State())
}

// RequireSession is middleware gating routes behind a valid session cookie.
// The identity travels on the request's user context for handlers downstream.
func (a *HTTPController) RequireSession() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := ctx.Cookies(a.CookieName)
		if token == "" {
			return a.renderError(ctx, fiber.StatusUnauthorized, "missing session")
		}

		claims, err := a.Tokens.Validate(token)
		if err != nil {
			return a.renderError(ctx, fiber.StatusUnauthorized, "invalid session")
		}

		ctx.SetUserContext(WithIdentity(ctx.UserContext(), claims.Identity()))
		return ctx.Next()
	}
}

// renderSession mints the cookie for the authenticated identity and returns
// the state snapshot.
func (a *HTTPController) renderSession(ctx *fiber.Ctx) error {
	state := a.Manager.State()

	if state.User != nil {
		token, err := a.Tokens.Generate(state.User)
		if err != nil {
			a.Logger.Error("failed to mint session token: %v", err)
		} else {
			ctx.Cookie(&fiber.Cookie{
				Name:     a.CookieName,
				Value:    token,
				Expires:  time.Now().Add(a.CookieTTL),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
	}

	return ctx.JSON(state)
}

func (a *HTTPController) renderFlowError(ctx *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich.Code > 0 {
		status = int(rich.Code)
	}

	return ctx.Status(status).JSON(fiber.Map{
		"error": FlowErrorMessage(err),
	})
}

func (a *HTTPController) renderError(ctx *fiber.Ctx, status int, message string) error {
	return ctx.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
