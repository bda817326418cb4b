package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/jwtauth/v5"

	"github.com/cmlabs-hris/leave-management-go/internal/config"
	appHTTP "github.com/cmlabs-hris/leave-management-go/internal/handler/http"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/cron"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/database"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/email"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/identity"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/storage"
	"github.com/cmlabs-hris/leave-management-go/internal/repository/postgresql"
	calendarService "github.com/cmlabs-hris/leave-management-go/internal/service/calendar"
	"github.com/cmlabs-hris/leave-management-go/internal/service/file"
	holidayService "github.com/cmlabs-hris/leave-management-go/internal/service/holiday"
	leaveService "github.com/cmlabs-hris/leave-management-go/internal/service/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/service/notify"
	reportService "github.com/cmlabs-hris/leave-management-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	balanceRepo := postgresql.NewBalanceRepository(db)
	requestRepo := postgresql.NewRequestRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)

	tokenAuth := jwtauth.New("HS256", []byte(cfg.JWT.Secret), nil)
	resolver := identity.NewClient(cfg.Identity.BaseURL)

	var fileStorage storage.FileStorage
	switch cfg.Storage.Type {
	case "local":
		fileStorage, err = storage.NewLocalStorage(cfg.Storage.BasePath, cfg.Storage.BaseURL)
		if err != nil {
			log.Fatal("Failed to initialize local storage: ", err)
		}
	default:
		log.Fatal("Unsupported storage type: ", cfg.Storage.Type)
	}
	fileSvc := file.NewFileService(fileStorage)

	emailSvc, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		log.Fatal("Failed to initialize email service: ", err)
	}
	dispatcher := notify.NewService(emailSvc, resolver)

	leaveSvc := leaveService.NewLeaveService(db, balanceRepo, requestRepo, resolver, dispatcher)
	calendarSvc := calendarService.NewCalendarService(requestRepo, holidayRepo, resolver)
	holidaySvc := holidayService.NewHolidayService(holidayRepo)
	reportSvc := reportService.NewReportService(balanceRepo, requestRepo, resolver)

	leaveHandler := appHTTP.NewLeaveHandler(leaveSvc, fileSvc)
	calendarHandler := appHTTP.NewCalendarHandler(calendarSvc)
	holidayHandler := appHTTP.NewHolidayHandler(holidaySvc)
	reportHandler := appHTTP.NewReportHandler(reportSvc)

	router := appHTTP.NewRouter(cfg, tokenAuth, leaveHandler, calendarHandler, holidayHandler, reportHandler)

	scheduler := cron.NewScheduler()
	cron.NewLeaveJobs(leaveSvc).RegisterJobs(scheduler)
	scheduler.Start()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown", slog.Any("error", err))
	}

	// Let in-flight notification deliveries finish
	dispatcher.Wait()
}
