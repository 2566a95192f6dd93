package app

import (
	"EliteRegistry/internal/app/server"
	"EliteRegistry/internal/config"
	"EliteRegistry/internal/delivery/http"
	"EliteRegistry/internal/events"
	"EliteRegistry/internal/service"
	"EliteRegistry/internal/service/achievement"
	"EliteRegistry/internal/service/auth"
	"EliteRegistry/internal/service/catalog"
	"EliteRegistry/internal/service/certificate"
	"EliteRegistry/internal/service/enrollment"
	"EliteRegistry/internal/service/report"
	"EliteRegistry/internal/storage/elastic"
	"EliteRegistry/internal/storage/minio_storage"
	"EliteRegistry/pkg/logger"
	"context"
	"os"
	"os/signal"
	"syscall"
)

func Run(cfg *config.Config) {
	log := logger.New(cfg.Env)
	log.Info("Starting with Env: "+cfg.Env, "storage", cfg.Storage.Driver)

	ctx := context.Background()

	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		log.FatalErr("error opening storage", err, "driver", cfg.Storage.Driver)
	}
	defer repos.close()

	bus := events.NewBus(log)

	catalogService := catalog.NewCatalogService(log, repos.courses, newSearchRepo(ctx, cfg, log))
	achievementService := achievement.NewAchievementService(log, repos.achievements)
	enrollmentService := enrollment.NewEnrollmentService(repos.enrollments, repos.courses, bus)

	bus.Subscribe(events.EnrollmentCreated, "student-counter", catalogService.StudentCounter)
	bus.Subscribe(events.CourseCompleted, "achievements", achievementService.OnCourseCompleted)
	bus.Subscribe(events.QuizGraded, "achievements", achievementService.OnQuizGraded)

	jwtManager := auth.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	authService := auth.NewAuthService(log, jwtManager, repos.users, repos.tokens)
	if cfg.Admin.Username != "" && cfg.Admin.Password != "" {
		if err := authService.EnsureAdmin(ctx, cfg.Admin.Username, cfg.Admin.Password); err != nil {
			log.FatalErr("error creating admin user", err)
		}
	}

	u := service.Collection{
		Auth:        authService,
		Catalog:     catalogService,
		Enrollment:  enrollmentService,
		Certificate: newCertificateService(ctx, cfg, log, repos.enrollments),
		Achievement: achievementService,
		Report:      report.NewReportService(repos.enrollments, repos.courses, repos.users),
	}

	r := http.InitRoutes(log, u, http.Options{
		AllowOrigins:  cfg.CORS.AllowOrigins,
		StorageDriver: cfg.Storage.Driver,
	})

	srv := server.New(cfg.HTTPServer.Address, cfg.HTTPServer.Timeout, cfg.HTTPServer.IdleTimeout, r)
	srv.Start()
	log.Info("http server started", "address", cfg.HTTPServer.Address)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Info("app signal: " + s.String())
	case err := <-srv.Notify():
		log.ErrorErr("http server stopped", err)
	}
	if err := srv.Shutdown(); err != nil {
		log.ErrorErr("error shutting down http server", err)
	}
}

// newSearchRepo returns a nil interface when search is not configured.
func newSearchRepo(ctx context.Context, cfg *config.Config, log logger.Log) courseSearch {
	if len(cfg.ES.Hosts) == 0 {
		log.Info("elasticsearch not configured, using store scan for search")
		return nil
	}
	client, err := elastic.NewElasticClient(cfg.ES.Username, cfg.ES.Password, cfg.ES.Hosts)
	if err != nil {
		log.FatalErr("error connecting to elasticsearch", err)
	}
	repo := elastic.NewCourseSearchRepository(client, cfg.ES.Index)
	if err := repo.CreateIndexIfNotExist(ctx); err != nil {
		log.FatalErr("error creating search index", err, "index", cfg.ES.Index)
	}
	return repo
}

func newCertificateService(ctx context.Context, cfg *config.Config, log logger.Log, enrollments enrollmentStore) *certificate.CertificateService {
	if cfg.Minio.Endpoint == "" {
		log.Info("minio not configured, certificate publishing disabled")
		return certificate.NewCertificateService(enrollments, nil)
	}
	ms, err := minio_storage.NewMinioStorage(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.Region, cfg.Minio.UseSSL)
	if err != nil {
		log.FatalErr("error creating minio client", err)
	}
	certs, err := minio_storage.NewCertificateStorage(ctx, ms, cfg.Minio.CertificateBucket, cfg.Minio.PresignTTL)
	if err != nil {
		log.FatalErr("error preparing certificate bucket", err, "bucket", cfg.Minio.CertificateBucket)
	}
	return certificate.NewCertificateService(enrollments, certs)
}
