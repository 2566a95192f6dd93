package service

import (
	"EliteRegistry/internal/service/achievement"
	"EliteRegistry/internal/service/auth"
	"EliteRegistry/internal/service/catalog"
	"EliteRegistry/internal/service/certificate"
	"EliteRegistry/internal/service/enrollment"
	"EliteRegistry/internal/service/report"
)

type Collection struct {
	Auth        *auth.AuthService
	Catalog     *catalog.CatalogService
	Enrollment  *enrollment.EnrollmentService
	Certificate *certificate.CertificateService
	Achievement *achievement.AchievementService
	Report      *report.ReportService
}
