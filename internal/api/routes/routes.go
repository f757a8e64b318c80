package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yoockh/skillproctor/internal/api/handlers"
	"github.com/yoockh/skillproctor/internal/api/middleware"
	"github.com/yoockh/skillproctor/internal/auth"
	"github.com/yoockh/skillproctor/internal/metrics"
)

type Deps struct {
	Tokens *auth.Tokens

	Health     *handlers.HealthHandler
	Auth       *handlers.AuthHandler
	Admin      *handlers.AdminHandler
	Student    *handlers.StudentHandler
	Proctoring *handlers.ProctoringHandler
	Live       *handlers.LiveHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/health", d.Health.Health)
	r.GET("/metrics", metrics.Handler())

	r.POST("/admin/login", d.Auth.AdminLogin)
	r.POST("/candidate/login", d.Auth.CandidateLogin)

	jwt := middleware.JWTAuth(d.Tokens)

	admin := r.Group("/admin", jwt, middleware.RequireAdmin())
	admin.POST("/upload-resume", d.Admin.UploadResume)
	admin.GET("/candidates", d.Admin.ListCandidates)
	admin.GET("/candidates/:candidate_id", d.Admin.GetCandidate)
	admin.DELETE("/candidates/:candidate_id", d.Admin.DeleteCandidate)
	admin.POST("/generate-test/:candidate_id", d.Admin.GenerateTest)
	admin.POST("/generate-report/:candidate_id", d.Admin.GenerateReport)
	admin.GET("/reports", d.Admin.ListReports)
	admin.GET("/report/:candidate_id", d.Admin.GetReport)
	admin.GET("/dashboard", d.Admin.Dashboard)
	admin.POST("/reset-database", d.Admin.ResetDatabase)
	admin.GET("/proctoring/:candidate_id/live", d.Live.Proctoring)

	student := r.Group("/student", jwt, middleware.RequireCandidate())
	student.GET("/test-info", d.Student.TestInfo)
	student.POST("/start-mcq/:test_id", d.Student.StartMCQ)
	student.POST("/submit-mcq", d.Student.SubmitMCQ)
	student.POST("/start-coding/:test_id", d.Student.StartCoding)
	student.POST("/submit-code", d.Student.SubmitCode)
	student.POST("/finish-coding/:test_id", d.Student.FinishCoding)
	student.POST("/run-code", d.Student.RunCode)
	student.POST("/run-sql", d.Student.RunSQL)
	student.POST("/evaluate-sql", d.Student.EvaluateSQL)
	student.POST("/finish-sql", d.Student.FinishSQL)
	student.POST("/start-interview/:interview_id", d.Student.StartInterview)
	student.POST("/answer-interview", d.Student.AnswerInterview)
	student.POST("/answer-interview-audio", d.Student.AnswerInterviewAudio)

	proctoring := r.Group("/proctoring", jwt)
	proctoring.POST("/log", middleware.RequireCandidate(), d.Proctoring.Log)
	proctoring.GET("/logs/:candidate_id", middleware.RequireAdmin(), d.Proctoring.List)
	proctoring.GET("/summary/:candidate_id", middleware.RequireAdmin(), d.Proctoring.Summary)
}
