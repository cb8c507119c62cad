package route

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"terminal-terrace/academic/internal/auth"
	"terminal-terrace/academic/internal/evaluation"
	"terminal-terrace/academic/internal/middleware"
	"terminal-terrace/academic/internal/module"
	"terminal-terrace/academic/internal/permission"
	"terminal-terrace/academic/internal/profile"
	"terminal-terrace/academic/internal/student"
	"terminal-terrace/academic/internal/teacher"
	"terminal-terrace/academic/internal/token"
	"terminal-terrace/academic/internal/unit"
	"terminal-terrace/academic/internal/user"
)

const defaultOrigin = "http://localhost:5173"

// Options 路由依赖
type Options struct {
	DB          *gorm.DB
	Issuer      *token.Issuer
	Logger      *zap.Logger
	FrontendURL string
}

func initRoute(r *gin.Engine, opts Options) {
	db, log := opts.DB, opts.Logger

	// 初始化依赖
	permissions := permission.NewService(db, log)

	public := r.Group("")
	authed := r.Group("", middleware.JWTAuth(opts.Issuer))

	auth.RegisterRoutes(public, authed, auth.NewAuthService(db, opts.Issuer, log))
	profile.RegisterRoutes(authed, profile.NewProfileService(db, opts.Issuer, log))
	student.RegisterRoutes(authed, student.NewStudentService(db, log))
	teacher.RegisterRoutes(authed, teacher.NewTeacherService(db, log))
	module.RegisterRoutes(authed, module.NewModuleService(db, permissions, log))
	unit.RegisterRoutes(authed, unit.NewUnitService(db, permissions, log))
	evaluation.RegisterRoutes(authed, evaluation.NewEvaluationService(db, permissions, log))
	user.RegisterRoutes(authed, user.NewUserService(db, opts.Issuer, log))
}

func SetupRouter(opts Options) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(opts.Logger), middleware.Recovery(opts.Logger))

	origin := opts.FrontendURL
	if origin == "" {
		origin = defaultOrigin // 默认值
	}

	// 设置跨域请求
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{origin},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))

	initRoute(r, opts)

	return r
}
