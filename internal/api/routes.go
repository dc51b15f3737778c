package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)

	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", handler.Register)
	auth.Post("/login", handler.Login)
	auth.Post("/forgot-password", handler.ForgotPassword)
	auth.Post("/reset-password", handler.ResetPassword)
	auth.Post("/logout", handler.AuthRequired, handler.Logout)
	auth.Post("/change-password", handler.AuthRequired, handler.ChangePassword)
	auth.Post("/regenerate-recovery-code", handler.AuthRequired, handler.RegenerateRecoveryCode)

	profile := api.Group("/profile", handler.AuthRequired)
	profile.Get("", handler.GetProfile)
	profile.Put("", handler.UpdateProfile)
	profile.Delete("", handler.DeleteAccount)

	api.Post("/onboarding/complete", handler.AuthRequired, handler.CompleteOnboarding)

	timeline := api.Group("/timeline", handler.AuthRequired, handler.PatientOnly)
	timeline.Get("", handler.GetTimeline)
	timeline.Post("/:id/complete", handler.CompleteTimelineEvent)
	timeline.Post("/:id/pending", handler.ReopenTimelineEvent)
	timeline.Put("/:id/date", handler.RescheduleTimelineEvent)

	checkin := api.Group("/checkin", handler.AuthRequired, handler.PatientOnly)
	checkin.Get("/questions", handler.GetCheckinQuestions)
	checkin.Get("/today", handler.GetCheckinToday)
	checkin.Post("", handler.SubmitCheckin)
	checkin.Get("/history", handler.GetCheckinHistory)

	risk := api.Group("/risk", handler.AuthRequired, handler.PatientOnly)
	risk.Get("/latest", handler.GetLatestRisk)
	risk.Get("/history", handler.GetRiskHistory)

	metrics := api.Group("/metrics", handler.AuthRequired, handler.PatientOnly)
	metrics.Post("", handler.RecordMetric)
	metrics.Get("/:type", handler.GetMetricHistory)
	metrics.Get("/:type/latest", handler.GetLatestMetric)

	vault := api.Group("/vault", handler.AuthRequired, handler.PatientOnly)
	vault.Post("", handler.UploadDocument)
	vault.Get("", handler.ListDocuments)
	vault.Get("/:id", handler.GetDocument)
	vault.Post("/:id/analyze", handler.AnalyzeDocument)
	vault.Get("/:id/download-token", handler.DocumentDownloadToken)
	vault.Delete("/:id", handler.DeleteDocument)

	// Token-gated, so no auth middleware; the token itself carries the claim.
	api.Get("/vault-download", handler.DownloadDocument)

	care := api.Group("/care", handler.AuthRequired)
	care.Get("/doctors", handler.ListDoctors)
	care.Post("/links", handler.PatientOnly, handler.RequestCareLink)
	care.Get("/links", handler.GetCareLinks)
	care.Post("/links/:id/resolve", handler.DoctorOnly, handler.ResolveCareLink)
	care.Delete("/links/:id", handler.ArchiveCareLink)
	care.Post("/messages", handler.SendConsultation)
	care.Get("/messages", handler.GetConsultations)
	care.Get("/messages/unread", handler.GetUnreadCount)

	doctor := api.Group("/doctor", handler.AuthRequired, handler.DoctorOnly)
	doctor.Get("/roster", handler.GetRoster)
	doctor.Get("/stats", handler.GetDashboardStats)
	doctor.Get("/analytics", handler.GetPanelAnalytics)
	doctor.Get("/patients/:id", handler.GetPatientDetail)
	doctor.Get("/patients/:id/export/csv", handler.ExportCSV)
	doctor.Get("/patients/:id/export/json", handler.ExportJSON)
	doctor.Get("/patients/:id/export/xlsx", handler.ExportXLSX)

	export := api.Group("/export", handler.AuthRequired, handler.PatientOnly)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/json", handler.ExportJSON)
	export.Get("/xlsx", handler.ExportXLSX)

	api.Get("/insights/weekly", handler.AuthRequired, handler.PatientOnly, handler.GetWeeklyInsight)
}
