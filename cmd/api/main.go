package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/schoolcare/infirmary-api/internal/config"
	"github.com/schoolcare/infirmary-api/internal/handler"
	appointmentHandler "github.com/schoolcare/infirmary-api/internal/handler/appointment"
	patientHandler "github.com/schoolcare/infirmary-api/internal/handler/patient"
	referenceHandler "github.com/schoolcare/infirmary-api/internal/handler/reference"
	reportHandler "github.com/schoolcare/infirmary-api/internal/handler/report"
	"github.com/schoolcare/infirmary-api/internal/model"
	"github.com/schoolcare/infirmary-api/internal/repository/postgres"
	"github.com/schoolcare/infirmary-api/internal/router"
	appointmentService "github.com/schoolcare/infirmary-api/internal/service/appointment"
	medicalService "github.com/schoolcare/infirmary-api/internal/service/medical"
	patientService "github.com/schoolcare/infirmary-api/internal/service/patient"
	reportService "github.com/schoolcare/infirmary-api/internal/service/report"
	"github.com/schoolcare/infirmary-api/pkg/logger"
	"github.com/schoolcare/infirmary-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Pretty)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	m := metrics.NewMetrics("infirmary", "api")
	postgres.SetMetrics(m)
	go func() {
		for range time.Tick(15 * time.Second) {
			m.DatabaseConnections.Set(float64(db.Stats().OpenConnections))
		}
	}()

	// Repositories
	studentStore := postgres.NewStudentStore(db)
	employeeStore := postgres.NewEmployeeStore(db)
	visitorStore := postgres.NewVisitorStore(db)
	classGroupStore := postgres.NewClassGroupStore(db)
	departmentStore := postgres.NewDepartmentStore(db)
	infirmaryStore := postgres.NewInfirmaryStore(db)
	nurseStore := postgres.NewNurseStore(db)
	studentApptStore := postgres.NewStudentAppointmentStore(db)
	employeeApptStore := postgres.NewEmployeeAppointmentStore(db)
	visitorApptStore := postgres.NewVisitorAppointmentStore(db)
	studentInfoStore := postgres.NewStudentInfoStore(db)
	employeeInfoStore := postgres.NewEmployeeInfoStore(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)

	// Services
	studentSvc := patientService.NewService[model.Student](studentStore)
	employeeSvc := patientService.NewService[model.Employee](employeeStore)
	visitorSvc := patientService.NewService[model.Visitor](visitorStore)
	classGroupSvc := patientService.NewService[model.ClassGroup](classGroupStore)
	departmentSvc := patientService.NewService[model.Department](departmentStore)
	infirmarySvc := patientService.NewService[model.Infirmary](infirmaryStore)
	nurseSvc := patientService.NewService[model.Nurse](nurseStore)
	studentInfoSvc := medicalService.NewService[model.StudentInfo, *model.StudentInfo](studentInfoStore)
	employeeInfoSvc := medicalService.NewService[model.EmployeeInfo, *model.EmployeeInfo](employeeInfoStore)
	appointmentSvc := appointmentService.NewService(studentApptStore, employeeApptStore, visitorApptStore)
	reportSvc := reportService.NewService(appointmentRepo, cfg.Dashboard.ChartCategories)

	// Handlers
	h := handler.NewHandler(db)
	patientH := patientHandler.NewHandler(studentSvc, employeeSvc, visitorSvc, studentInfoSvc, employeeInfoSvc)
	referenceH := referenceHandler.NewHandler(classGroupSvc, departmentSvc, infirmarySvc, nurseSvc)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc, reportSvc)
	reportH := reportHandler.NewHandler(reportSvc, m)

	r := router.NewRouter(cfg, h, patientH, referenceH, appointmentH, reportH)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
