package enroll

import (
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// ActivityView is the wire representation of one activity in the listing.
type ActivityView struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// TokenResponse is the wire representation of an issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// ProfileResponse is the wire representation of the authenticated user.
type ProfileResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// EnrollmentController serves the activity listing and the signup and
// unregister endpoints.
type EnrollmentController struct {
	Debug  bool
	Logger Logger
	Repo   RepositoryManager
}

type EnrollmentControllerOption func(*EnrollmentController) *EnrollmentController

func NewEnrollmentController(opts ...EnrollmentControllerOption) *EnrollmentController {
	c := &EnrollmentController{
		Logger: defLogger{},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in enrollment controller...")
	}

	return c
}

func WithEnrollmentRepo(repo RepositoryManager) EnrollmentControllerOption {
	return func(c *EnrollmentController) *EnrollmentController {
		c.Repo = repo
		return c
	}
}

func WithEnrollmentLogger(logger Logger) EnrollmentControllerOption {
	return func(c *EnrollmentController) *EnrollmentController {
		c.Logger = logger
		return c
	}
}

func RegisterEnrollmentRoutes[T any](app router.Router[T], opts ...EnrollmentControllerOption) {
	controller := NewEnrollmentController(opts...)

	app.Get("/activities", controller.ActivitiesIndex).
		SetName("activities.index")

	app.Post("/activities/:name/signup", controller.SignupPost).
		SetName("activities.signup")

	app.Delete("/activities/:name/unregister", controller.UnregisterDelete).
		SetName("activities.unregister")
}

// ActivitiesIndex returns every activity keyed by name, each with its
// current participant emails in signup order.
func (a *EnrollmentController) ActivitiesIndex(ctx router.Context) error {
	rosters, err := a.Repo.Activities().ListWithParticipants(ctx.Context())
	if err != nil {
		a.Logger.Error("activities index error: %v", err)
		return respondError(ctx, err)
	}

	out := make(map[string]ActivityView, len(rosters))
	for _, roster := range rosters {
		out[roster.Activity.Name] = ActivityView{
			Description:     roster.Activity.Description,
			Schedule:        roster.Activity.Schedule,
			MaxParticipants: roster.Activity.MaxParticipants,
			Participants:    roster.Participants,
		}
	}

	if a.Debug {
		fmt.Println(print.MaybeHighlightJSON(out))
	}

	return ctx.JSON(router.StatusOK, out)
}

// EnrollmentRequest is built from the activity path param and email query
// param shared by signup and unregister.
type EnrollmentRequest struct {
	Activity string `json:"activity"`
	Email    string `json:"email"`
}

// Validate will run validation rules
func (r EnrollmentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Activity,
			validation.Required,
		),
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
	)
}

func enrollmentRequestFromCtx(ctx router.Context) EnrollmentRequest {
	return EnrollmentRequest{
		Activity: ctx.Param("name"),
		Email:    ctx.Query("email", ""),
	}
}

func (a *EnrollmentController) SignupPost(ctx router.Context) error {
	payload := enrollmentRequestFromCtx(ctx)

	if err := payload.Validate(); err != nil {
		a.Logger.Error("signup validate payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	signup := NewSignupHandler(a.Repo)
	if err := signup.Execute(ctx.Context(), SignupMessage{
		Activity: payload.Activity,
		Email:    payload.Email,
	}); err != nil {
		a.Logger.Error("signup execute: %v", err)
		return respondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"message": fmt.Sprintf("Signed up %s for %s", payload.Email, payload.Activity),
	})
}

func (a *EnrollmentController) UnregisterDelete(ctx router.Context) error {
	payload := enrollmentRequestFromCtx(ctx)

	if err := payload.Validate(); err != nil {
		a.Logger.Error("unregister validate payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	unregister := NewUnregisterHandler(a.Repo)
	if err := unregister.Execute(ctx.Context(), UnregisterMessage{
		Activity: payload.Activity,
		Email:    payload.Email,
	}); err != nil {
		a.Logger.Error("unregister execute: %v", err)
		return respondError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"message": fmt.Sprintf("Unregistered %s from %s", payload.Email, payload.Activity),
	})
}

// AuthController serves registration, login and the profile endpoint.
type AuthController struct {
	Debug      bool
	Logger     Logger
	Repo       RepositoryManager
	Auther     Authenticator
	ContextKey string
}

type AuthControllerOption func(*AuthController) *AuthController

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger:     defLogger{},
		ContextKey: "user",
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	return c
}

func WithAuthRepo(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithAuthAuther(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithAuthLogger(logger Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Logger = logger
		return c
	}
}

func WithAuthContextKey(key string) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if key != "" {
			c.ContextKey = key
		}
		return c
	}
}

func RegisterAuthRoutes[T any](app router.Router[T], protected router.MiddlewareFunc, opts ...AuthControllerOption) {
	controller := NewAuthController(opts...)

	app.Post("/auth/register", controller.RegisterPost).
		SetName("auth.register")

	app.Post("/auth/login", controller.LoginPost).
		SetName("auth.login")

	app.Get("/auth/me", controller.MeShow, protected).
		SetName("auth.me")
}

// CredentialsPayload is the form payload shared by register and login. The
// username field carries the account email.
type CredentialsPayload struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r CredentialsPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Username,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) RegisterPost(ctx router.Context) error {
	payload := new(CredentialsPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("register user parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse form",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("register user validate payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	if a.Debug {
		fmt.Println(print.MaybePrettyJSON(payload))
	}

	registerUser := NewRegisterUserHandler(a.Repo)
	user, err := registerUser.Execute(ctx.Context(), RegisterUserMessage{
		Email:    payload.Username,
		Password: payload.Password,
	})
	if err != nil {
		a.Logger.Error("register user execute: %v", err)
		return respondError(ctx, err)
	}

	token, err := a.Auther.TokenService().Generate(identityFromUser(user))
	if err != nil {
		a.Logger.Error("register user token: %v", err)
		return respondError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (a *AuthController) LoginPost(ctx router.Context) error {
	payload := new(CredentialsPayload)

	if err := ctx.Bind(payload); err != nil {
		a.Logger.Error("login parse payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": "failed to parse form",
		})
	}

	if err := payload.Validate(); err != nil {
		a.Logger.Error("login validate payload: %v", err)
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": err.Error(),
		})
	}

	token, err := a.Auther.Login(ctx.Context(), payload.Username, payload.Password)
	if err != nil {
		a.Logger.Error("login error: %v", err)
		// every credential failure collapses into one client error so the
		// response cannot be used to enumerate accounts
		return ctx.JSON(router.StatusBadRequest, map[string]string{
			"error": ErrMismatchedHashAndPassword.Message,
			"code":  TextCodeBadCredentials,
		})
	}

	return ctx.JSON(router.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (a *AuthController) MeShow(ctx router.Context) error {
	claims, ok := GetRouterClaims(ctx, a.ContextKey)
	if !ok {
		return UnauthorizedErrorHandler(a.Logger)(ctx, ErrUnableToFindSession)
	}

	identity, err := a.Auther.IdentityFromClaims(ctx.Context(), claims)
	if err != nil {
		return UnauthorizedErrorHandler(a.Logger)(ctx, err)
	}

	return ctx.JSON(router.StatusOK, ProfileResponse{
		Email: identity.Email(),
		Name:  identity.Name(),
		Role:  identity.Role(),
	})
}
