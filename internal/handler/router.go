package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-api/internal/middleware"
	"github.com/noah-isme/sis-api/internal/models"
)

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Auth        *AuthHandler
	Students    *StudentHandler
	Courses     *CourseHandler
	Enrollments *EnrollmentHandler
	Programs    *ProgramHandler
	Standing    *StandingHandler
	Transcripts *TranscriptHandler
	Pmd         *PmdHandler
	Rafeh       *RafehHandler
	Records     *RecordsHandler
	Audit       *AuditHandler
}

// Owners resolve the student owning a nested resource so students can read their own records.
type Owners struct {
	Enrollment middleware.OwnerResolver
	Transcript middleware.OwnerResolver
}

// Register mounts the API. Writes are admin only; students may read the
// records of their linked student.
func Register(api *gin.RouterGroup, h Handlers, tokens middleware.TokenValidator, owners Owners) {
	api.POST("/auth/login", h.Auth.Login)
	// the signed token is the credential
	api.GET("/transcript-downloads", h.Transcripts.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(tokens))
	admin := middleware.RequireRoles(models.RoleAdmin)
	self := middleware.StudentScope("id")
	ownsEnrollment := middleware.OwnerScope("id", owners.Enrollment)

	authed.GET("/auth/me", h.Auth.Me)
	authed.POST("/auth/change-password", h.Auth.ChangePassword)
	authed.POST("/users", admin, h.Auth.CreateUser)

	authed.GET("/programs", h.Programs.List)
	authed.GET("/programs/:id", h.Programs.Get)
	authed.GET("/programs/:id/curriculum", h.Programs.Curriculum)

	authed.GET("/courses", h.Courses.List)
	authed.GET("/courses/:id", h.Courses.Get)
	authed.GET("/course-codes/:code", h.Courses.GetByCode)
	authed.POST("/courses", admin, h.Courses.Create)

	authed.GET("/students", admin, h.Students.List)
	authed.POST("/students", admin, h.Students.Create)
	authed.GET("/student-codes/:code", admin, h.Students.GetByCode)
	authed.GET("/students/:id", self, h.Students.Get)
	authed.PUT("/students/:id", admin, h.Students.Update)
	authed.GET("/students/:id/courses", self, h.Students.Courses)
	authed.GET("/students/:id/standing", self, h.Standing.Get)
	authed.POST("/students/:id/standing/sync", admin, h.Standing.Sync)
	authed.GET("/students/:id/transcript", self, h.Transcripts.Preview)
	authed.GET("/students/:id/transcripts", self, h.Transcripts.List)
	authed.POST("/students/:id/transcripts", self, h.Transcripts.Generate)
	authed.GET("/students/:id/attendance", self, h.Records.StudentAttendance)
	authed.GET("/students/:id/financial", self, h.Records.Financial)
	authed.POST("/students/:id/financial", admin, h.Records.AddFinancial)
	authed.GET("/students/:id/training", self, h.Records.Training)
	authed.POST("/students/:id/training", admin, h.Records.AddTraining)
	authed.GET("/students/:id/rafeh", self, h.Rafeh.List)

	authed.POST("/enrollments", admin, h.Enrollments.Create)
	authed.GET("/enrollments/:id", ownsEnrollment, h.Enrollments.Get)
	authed.DELETE("/enrollments/:id", admin, h.Enrollments.Delete)
	authed.PUT("/enrollments/:id/marks", admin, h.Enrollments.UpdateMarks)
	authed.GET("/enrollments/:id/components", ownsEnrollment, h.Enrollments.Components)
	authed.PUT("/enrollments/:id/components", admin, h.Enrollments.SaveComponents)
	authed.GET("/enrollments/:id/attendance", ownsEnrollment, h.Records.EnrollmentAttendance)
	authed.GET("/enrollments/:id/pmd", ownsEnrollment, h.Pmd.ListForEnrollment)

	authed.GET("/transcripts/:id", middleware.OwnerScope("id", owners.Transcript), h.Transcripts.Get)

	authed.POST("/attendance", admin, h.Records.RecordAttendance)
	authed.POST("/pmd", admin, h.Pmd.Submit)
	authed.GET("/pmd", admin, h.Pmd.ListPending)
	authed.POST("/pmd/:id/approve", admin, h.Pmd.Approve)
	authed.POST("/rafeh", admin, h.Rafeh.Apply)
	authed.GET("/audit-logs", admin, h.Audit.List)
}
