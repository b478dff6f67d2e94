package routes

import (
	"time"

	"learnstack-service/internal/adapters/assistant"
	"learnstack-service/internal/adapters/events"
	"learnstack-service/internal/adapters/mailer"
	"learnstack-service/internal/adapters/oauth"
	"learnstack-service/internal/adapters/storage"
	"learnstack-service/internal/api/handlers"
	"learnstack-service/internal/api/middleware"
	"learnstack-service/internal/config"
	"learnstack-service/internal/repositories/mysql"
	"learnstack-service/internal/services"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type Router struct {
	engine           *gin.Engine
	authHandler      *handlers.AuthHandler
	userHandler      *handlers.UserHandler
	questionHandler  *handlers.QuestionHandler
	assistantHandler *handlers.AssistantHandler
	rateLimitMW      *middleware.RateLimitMiddleware
	authMW           *middleware.AuthMiddleware
}

func NewRouter(
	cfg *config.Config,
	db *gorm.DB,
	redisService *services.RedisService,
	minioClient *storage.MinIOClient,
	publisher events.Publisher,
	completer assistant.Completer,
	mail mailer.Mailer,
	google oauth.TokenVerifier,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	gin.EnableJsonDecoderDisallowUnknownFields()
	engine := gin.New()

	// Add middlewares
	engine.Use(gin.Recovery())
	engine.Use(middleware.CORS())
	engine.Use(middleware.LogApi())

	// Initialize repositories
	questionRepo := mysql.NewQuestionRepository(db)
	userRepo := mysql.NewUserRepository(db)
	assistantRepo := mysql.NewAssistantRepository(db)

	// Initialize services
	badgeService := services.NewBadgeService()
	userService := services.NewUserService(userRepo, mail, google, cfg.JWT)
	questionService := services.NewQuestionService(questionRepo, userRepo, badgeService, publisher)
	votingService := services.NewVotingService(questionRepo, userRepo, badgeService, publisher)
	assistantService := services.NewAssistantService(assistantRepo, completer, minioClient)

	return &Router{
		engine:           engine,
		authHandler:      handlers.NewAuthHandler(userService),
		userHandler:      handlers.NewUserHandler(userService, minioClient),
		questionHandler:  handlers.NewQuestionHandler(questionService, votingService, minioClient),
		assistantHandler: handlers.NewAssistantHandler(assistantService),
		rateLimitMW:      middleware.NewRateLimitMiddleware(redisService),
		authMW:           middleware.NewAuthMiddleware(cfg.JWT.Secret),
	}
}

func (r *Router) SetupRoutes() {
	r.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.engine.Group("/api/v1")

	// Authenticated routes
	auth := api.Group("/")
	auth.Use(r.authMW.RequireAuth())
	{
		// User routes
		users := auth.Group("/users")
		users.Use(r.rateLimitMW.RateLimit(100, time.Minute)) // 100 requests per minute
		{
			users.GET("/profile", r.userHandler.Profile)
			users.POST("/avatar", r.userHandler.UploadAvatar)
		}

		// Question writes; reads are public below
		questions := auth.Group("/questions")
		questions.Use(r.rateLimitMW.RateLimit(100, time.Minute)) // 100 requests per minute
		{
			questions.POST("/", r.questionHandler.Create)
			questions.PUT("/:id/vote", r.questionHandler.VoteQuestion)
			questions.POST("/:id/answers", r.questionHandler.AddAnswer)
			questions.PUT("/:id/answers/:answerId/vote", r.questionHandler.VoteAnswer)
		}

		// Assistant routes
		ai := auth.Group("/assistant")
		ai.Use(r.rateLimitMW.RateLimit(30, time.Minute)) // 30 requests per minute
		{
			ai.GET("/chats", r.assistantHandler.ListChats)
			ai.POST("/chats", r.assistantHandler.CreateChat)
			ai.GET("/chats/:id/messages", r.assistantHandler.GetMessages)
			ai.POST("/chats/:id/messages", r.assistantHandler.SendMessage)
			ai.POST("/ai", r.assistantHandler.Complete)
			ai.POST("/upload", r.assistantHandler.SummarizeDocument)
		}

		// Session teardown needs the caller's identity
		auth.POST("/auth/logout", r.authHandler.Logout)
	}

	// Public routes (no authentication required)
	public := api.Group("/")
	{
		reads := public.Group("/questions")
		reads.Use(r.rateLimitMW.RateLimitIP(200, time.Minute)) // 200 requests per minute per IP
		{
			reads.GET("/", r.questionHandler.List)
			reads.GET("/:id", r.questionHandler.Get)
		}

		authRoutes := public.Group("/auth")
		authRoutes.Use(r.rateLimitMW.RateLimitIP(50, time.Minute)) // 50 requests per minute per IP
		{
			authRoutes.POST("/register", r.authHandler.Register)
			authRoutes.POST("/verify", r.authHandler.Verify)
			authRoutes.POST("/login", r.authHandler.Login)
			authRoutes.POST("/google", r.authHandler.GoogleLogin)
			authRoutes.POST("/forgot-password", r.authHandler.ForgotPassword)
			authRoutes.POST("/verify-otp/:email", r.authHandler.VerifyOTP)
			authRoutes.POST("/change-password/:email", r.authHandler.ChangePassword)
		}
	}
}

func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
