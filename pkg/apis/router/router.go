package router

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sukryu/pSite/pkg/apis/handlers"
	"github.com/sukryu/pSite/pkg/apis/site/v1alpha1"
	"github.com/sukryu/pSite/pkg/controllers"
	"github.com/sukryu/pSite/pkg/mail"
	"github.com/sukryu/pSite/pkg/middleware"
	"github.com/sukryu/pSite/pkg/store/resources"
	"github.com/sukryu/pSite/pkg/utils/jwt"
)

type Config struct {
	Production     bool
	RequestTimeout time.Duration
	// RateRequests per RateWindow and client IP on the public scope; 0 disables it.
	RateRequests int
	RateWindow   time.Duration
}

type Dependencies struct {
	Stores  *resources.Stores
	Tokens  *jwt.JWTManager
	Mailer  mail.Mailer
	Images  controllers.ImageStorage
	DB      handlers.Pinger
	Metrics *middleware.Metrics
	Logger  *slog.Logger
}

type Router struct {
	cfg     Config
	tokens  *jwt.JWTManager
	metrics *middleware.Metrics
	logger  *slog.Logger

	authHandler    *handlers.AuthHandler
	contactHandler *handlers.ContactHandler
	imageHandler   *handlers.ImageHandler
	healthHandler  *handlers.HealthHandler

	roles      *handlers.ResourceHandler[v1alpha1.Role]
	users      *handlers.ResourceHandler[v1alpha1.User]
	categories *handlers.ResourceHandler[v1alpha1.PostCategory]
	posts      *handlers.ResourceHandler[v1alpha1.Post]
	techs      *handlers.ResourceHandler[v1alpha1.Tech]
	projects   *handlers.ResourceHandler[v1alpha1.Project]
	hobbies    *handlers.ResourceHandler[v1alpha1.Hobby]
	settings   *handlers.ResourceHandler[v1alpha1.Setting]
}

func NewRouter(cfg Config, deps Dependencies) *Router {
	s := deps.Stores
	handlers.RegisterValidators()

	return &Router{
		cfg:     cfg,
		tokens:  deps.Tokens,
		metrics: deps.Metrics,
		logger:  deps.Logger,

		authHandler:    handlers.NewAuthHandler(controllers.NewAuthController(s.Users, deps.Tokens, deps.Logger)),
		contactHandler: handlers.NewContactHandler(controllers.NewContactController(s.Contacts, deps.Mailer, deps.Logger)),
		imageHandler:   handlers.NewImageHandler(controllers.NewImageController(deps.Images)),
		healthHandler:  handlers.NewHealthHandler(deps.DB),

		roles: handlers.NewResourceHandler(
			controllers.NewResourceController(s.Roles, resources.RoleColumns),
			handlers.Decode((*v1alpha1.RoleRequest).ToModel),
			handlers.IDKey, resources.RoleSpec),
		users: handlers.NewResourceHandler(
			controllers.NewUserController(s.Users, resources.UserColumns),
			handlers.Decode((*v1alpha1.UserRequest).ToModel),
			handlers.UUIDKey, resources.UserSpec),
		categories: handlers.NewResourceHandler(
			controllers.NewResourceController(s.Categories, resources.CategoryColumns),
			handlers.Decode((*v1alpha1.CategoryRequest).ToModel),
			handlers.IDKey, resources.CategorySpec),
		posts: handlers.NewResourceHandler(
			controllers.NewResourceController(s.Posts, resources.PostColumns),
			handlers.Decode((*v1alpha1.PostRequest).ToModel),
			handlers.FieldKey("slug"), resources.PostSpec),
		techs: handlers.NewResourceHandler(
			controllers.NewResourceController(s.Techs, resources.TechColumns),
			handlers.Decode((*v1alpha1.TechRequest).ToModel),
			handlers.IDKey, resources.TechSpec),
		projects: handlers.NewResourceHandler(
			controllers.NewProjectController(s.Projects, resources.ProjectColumns),
			handlers.Decode((*v1alpha1.ProjectRequest).ToModel),
			handlers.IDKey, resources.ProjectSpec),
		hobbies: handlers.NewResourceHandler(
			controllers.NewResourceController(s.Hobbies, resources.HobbyColumns),
			handlers.Decode((*v1alpha1.HobbyRequest).ToModel),
			handlers.IDKey, resources.HobbySpec),
		settings: handlers.NewResourceHandler(
			controllers.NewResourceController(s.Settings, resources.SettingColumns),
			handlers.Decode((*v1alpha1.SettingRequest).ToModel),
			handlers.FieldKey("param"), resources.SettingSpec),
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery(r.logger))
	router.Use(middleware.RequestLogger(r.logger))
	router.Use(middleware.SecureHeaders(r.cfg.Production))
	if r.metrics != nil {
		router.Use(r.metrics.Middleware())
		router.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}
	router.Use(middleware.RequestTimeout(r.cfg.RequestTimeout))
	// 에러 핸들링 미들웨어
	router.Use(middleware.ErrorMiddleware(r.logger))

	router.GET("/health", r.healthHandler.Check)
	router.GET("/assets/:filename", r.imageHandler.Serve)

	// Public routes
	public := router.Group("/pub")
	if r.cfg.RateRequests > 0 {
		public.Use(middleware.RateLimit(r.cfg.RateRequests, r.cfg.RateWindow))
	}
	{
		public.POST("/login", r.authHandler.Login)
		public.GET("/users/:key", r.users.PublicGet(nil))
		public.GET("/posts", r.posts.PublicList(resources.PublicPostSpec))
		public.GET("/posts/:key", r.posts.PublicGet(postVisible))
		public.GET("/projects", r.projects.PublicList(resources.PublicProjectSpec))
		public.GET("/hobbies", r.hobbies.PublicList(resources.PublicHobbySpec))
		public.GET("/settings/:key", r.settings.PublicGet(nil))
		public.GET("/assets/:filename", r.imageHandler.Serve)
		public.POST("/contact", r.contactHandler.Send)
	}

	// Protected routes
	protected := router.Group("/pro")
	protected.Use(middleware.JWTAuth(r.tokens, r.logger))
	{
		r.users.Register(protected, "/users")
		r.roles.Register(protected, "/roles")
		r.categories.Register(protected, "/post-categories")
		r.posts.Register(protected, "/posts")
		r.techs.Register(protected, "/techs")
		r.projects.Register(protected, "/projects")
		r.hobbies.Register(protected, "/hobbies")
		r.settings.Register(protected, "/settings")

		protected.GET("/contacts", r.contactHandler.List)
		protected.POST("/image", r.imageHandler.Upload)
		protected.GET("/images", r.imageHandler.List)
	}

	return router
}

// postVisible hides drafts and posts whose category or author was deleted;
// soft-deleted associations are not preloaded.
func postVisible(p *v1alpha1.Post) bool {
	return p.Published && p.Category != nil && p.Author != nil
}
