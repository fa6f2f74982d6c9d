package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/taskboard/internal/services"
)

type Handler interface {
	HandleLogin(c *gin.Context)
	HandleRefresh(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleLogout(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)
	HandleAdminMiddleware(c *gin.Context)

	HandleCreateTask(c *gin.Context)
	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleSetTaskStatus(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleGetNotifications(c *gin.Context)
	HandleCreateNotification(c *gin.Context)
	HandleMarkNotificationRead(c *gin.Context)
	HandleMarkAllNotificationsRead(c *gin.Context)
	HandleDeleteNotification(c *gin.Context)
	HandleNotificationStream(c *gin.Context)

	HandleGetMe(c *gin.Context)
	HandleUpdateProfile(c *gin.Context)

	HandleDashboardStats(c *gin.Context)
	HandleGetUsers(c *gin.Context)
	HandleChangeRole(c *gin.Context)
	HandleDeleteUser(c *gin.Context)

	HandleHealth(c *gin.Context)
}

// NotificationStream upgrades a request into a push channel of the
// user's new notifications.
type NotificationStream interface {
	Serve(w http.ResponseWriter, r *http.Request, userID string) error
}

type handlerImpl struct {
	logger        zerolog.Logger
	auth          services.AuthService
	sessions      services.SessionService
	tasks         services.TaskService
	notifications services.NotificationService
	users         services.UserService
	admin         services.AdminService
	stream        NotificationStream
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	sessionService services.SessionService,
	taskService services.TaskService,
	notificationService services.NotificationService,
	userService services.UserService,
	adminService services.AdminService,
	stream NotificationStream,
) Handler {
	return &handlerImpl{
		logger:        logger,
		auth:          authService,
		sessions:      sessionService,
		tasks:         taskService,
		notifications: notificationService,
		users:         userService,
		admin:         adminService,
		stream:        stream,
	}
}

// Register mounts every route on r.
func Register(r gin.IRouter, h Handler) {
	r.GET("/health", h.HandleHealth)

	auth := r.Group("/auth")
	auth.POST("/register", h.HandleRegister)
	auth.POST("/login", h.HandleLogin)
	auth.POST("/refresh", h.HandleRefresh)
	auth.POST("/logout", h.HandleAuthMiddleware, h.HandleLogout)

	tasks := r.Group("/tasks", h.HandleAuthMiddleware)
	tasks.POST("", h.HandleCreateTask)
	tasks.GET("", h.HandleGetTasks)
	tasks.GET("/:id", h.HandleGetTask)
	tasks.PUT("/:id", h.HandleUpdateTask)
	tasks.PATCH("/:id/status", h.HandleSetTaskStatus)
	tasks.DELETE("/:id", h.HandleDeleteTask)

	notifications := r.Group("/notifications", h.HandleAuthMiddleware)
	notifications.GET("", h.HandleGetNotifications)
	notifications.POST("", h.HandleCreateNotification)
	notifications.GET("/ws", h.HandleNotificationStream)
	notifications.PUT("/read-all", h.HandleMarkAllNotificationsRead)
	notifications.PUT("/:id/read", h.HandleMarkNotificationRead)
	notifications.DELETE("/:id", h.HandleDeleteNotification)

	users := r.Group("/users", h.HandleAuthMiddleware)
	users.GET("/me", h.HandleGetMe)
	users.PUT("/profile", h.HandleUpdateProfile)

	admin := r.Group("/admin", h.HandleAuthMiddleware, h.HandleAdminMiddleware)
	admin.GET("/dashboard-stats", h.HandleDashboardStats)
	admin.GET("/users", h.HandleGetUsers)
	admin.PUT("/users/:id/role", h.HandleChangeRole)
	admin.DELETE("/users/:id", h.HandleDeleteUser)
}

func (h *handlerImpl) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
