package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/yoockh/skillproctor/config"
	"github.com/yoockh/skillproctor/internal/ai"
	"github.com/yoockh/skillproctor/internal/api/handlers"
	"github.com/yoockh/skillproctor/internal/api/middleware"
	"github.com/yoockh/skillproctor/internal/api/routes"
	"github.com/yoockh/skillproctor/internal/auth"
	"github.com/yoockh/skillproctor/internal/cache"
	"github.com/yoockh/skillproctor/internal/grading"
	"github.com/yoockh/skillproctor/internal/interview"
	"github.com/yoockh/skillproctor/internal/lock"
	"github.com/yoockh/skillproctor/internal/metrics"
	"github.com/yoockh/skillproctor/internal/providers/llm"
	"github.com/yoockh/skillproctor/internal/providers/stt"
	"github.com/yoockh/skillproctor/internal/pubsub"
	mongorepo "github.com/yoockh/skillproctor/internal/repositories/mongo"
	pgrepo "github.com/yoockh/skillproctor/internal/repositories/postgres"
	"github.com/yoockh/skillproctor/internal/resume"
	"github.com/yoockh/skillproctor/internal/sandbox"
	"github.com/yoockh/skillproctor/internal/services"
	"github.com/yoockh/skillproctor/internal/storage"
	"github.com/yoockh/skillproctor/internal/workers"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	in, err := connect(needs{mongo: true, redis: true})
	if err != nil {
		return err
	}
	defer in.close()
	log := in.log

	if m, _ := cmd.Flags().GetBool("migrate"); m {
		if err := pgrepo.Migrate(in.db); err != nil {
			return err
		}
		log.Info("schema migrated")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return errors.New("JWT_SECRET environment variable is not set")
	}
	ttl := 12 * time.Hour
	if v := os.Getenv("JWT_TTL"); v != "" {
		if ttl, err = time.ParseDuration(v); err != nil {
			return err
		}
	}
	tokens := auth.NewTokens(secret, "skillproctor", ttl)

	a := in.assessment

	// redis-backed coordination, or in-process fallbacks for a single replica
	var (
		locker lock.Locker       = lock.NewKeyedMutex()
		store  cache.Cache       = cache.NewMemoryCache()
		pub    pubsub.Publisher  = pubsub.Nop{}
		sub    pubsub.Subscriber = pubsub.Nop{}
	)
	if in.redis != nil {
		bus := pubsub.NewRedisBus(in.redis)
		locker = lock.NewRedisLocker(in.redis, a.LockTTL, log)
		store = cache.NewRedisCache(in.redis, "skillproctor:")
		pub, sub = bus, bus
	}

	var provider llm.Provider
	llmCfg := llm.ConfigFromEnv()
	llmCfg.Timeout = a.GenerationTimeout
	if p, err := llm.NewProvider(ctx, llmCfg); err != nil {
		log.WithError(err).WithField("provider", llmCfg.Provider).Warn("llm provider unavailable; generation will use fallbacks")
	} else {
		provider = p
	}
	gen := ai.NewGenerator(provider, log)

	deps := services.CandidateServiceDeps{
		Extractor: resume.NewKeywordExtractor(),
	}
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		gcs, err := storage.NewGCSUploader(ctx, bucket)
		if err != nil {
			return err
		}
		defer gcs.Close()
		deps.Uploader, deps.Signer = gcs, gcs
		log.WithField("bucket", bucket).Info("resume storage enabled")
	}

	var speech stt.Provider
	if strings.EqualFold(os.Getenv("STT_ENABLED"), "true") {
		gs, err := stt.NewGoogleSpeech(ctx, os.Getenv("STT_LANGUAGE"))
		if err != nil {
			return err
		}
		defer gs.Close()
		speech = gs
	}

	db := in.db
	reports := pgrepo.NewReportRepo(db)
	events := mongorepo.NewProctoringRepo(in.mongo)
	deps.Reports = reports
	deps.Events = events
	deps.Maintenance = pgrepo.NewMaintenanceRepo(db)

	p := &services.Pipeline{
		Tx:         pgrepo.NewTxManager(db),
		Candidates: pgrepo.NewCandidateRepo(db),
		MCQ:        pgrepo.NewMCQRepo(db),
		Coding:     pgrepo.NewCodingRepo(db),
		Interviews: pgrepo.NewInterviewRepo(db),
		Locker:     locker,
		Cache:      store,
		Log:        log,
		Settings:   settingsFrom(a),
	}

	exec := sandbox.NewProcessExecutor(log)
	judge := grading.NewJudge(exec, grading.JudgeConfig{
		Timeout:       a.JudgeTimeout,
		PreviewLen:    a.PreviewLen,
		ErrPreviewLen: a.ErrPreviewLen,
	})
	loop := interview.NewLoop(gen, interview.Config{
		TotalQuestions: a.InterviewQuestions,
		PassingScore:   a.InterviewPassingScore,
		ContextWindow:  a.ContextWindow,
	})

	authSvc := services.NewAuthService(pgrepo.NewAdminRepo(db), p.Candidates, tokens, log)
	candidateSvc := services.NewCandidateService(p, deps)
	reportSvc := services.NewReportService(p, reports, events, gen)
	testSvc := services.NewTestService(p, gen)
	mcqSvc := services.NewMCQService(p)
	codingSvc := services.NewCodingService(p, judge, exec, grading.NewSQLJudge(grading.SQLJudgeConfig{
		RowLimit: a.SQLRowLimit,
		MaxRows:  a.SQLMaxRows,
		Timeout:  a.JudgeTimeout,
	}))

	var reportQueue services.ReportQueue = services.InlineReports{Reports: reportSvc}
	if in.redis != nil {
		pool := &workers.ReportWorkerPool{
			Redis:   in.redis,
			Reports: reportSvc,
			Timeout: a.GenerationTimeout + time.Minute,
			Logger:  log,
		}
		if err := pool.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stop()
			pool.Wait()
		}()
		reportQueue = &workers.RedisReportQueue{Redis: in.redis}
	}
	interviewSvc := services.NewInterviewService(p, loop, speech, reportQueue)
	proctoringSvc := services.NewProctoringService(p, events, pub)

	health := map[string]handlers.Check{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"mongo": func(ctx context.Context) error { return in.mongo.Client().Ping(ctx, nil) },
	}
	if in.redis != nil {
		health["redis"] = func(ctx context.Context) error { return in.redis.Ping(ctx).Err() }
	}

	gin.SetMode(os.Getenv("GIN_MODE"))
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log), metrics.Middleware())

	routes.RegisterRoutes(r, routes.Deps{
		Tokens:     tokens,
		Health:     handlers.NewHealthHandler(health),
		Auth:       handlers.NewAuthHandler(authSvc),
		Admin:      handlers.NewAdminHandler(candidateSvc, testSvc, reportSvc),
		Student:    handlers.NewStudentHandler(candidateSvc, mcqSvc, codingSvc, interviewSvc),
		Proctoring: handlers.NewProctoringHandler(proctoringSvc),
		Live:       handlers.NewLiveHandler(candidateSvc, sub),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", port).Info("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func settingsFrom(a config.Assessment) services.Settings {
	return services.Settings{
		MCQQuestions:           a.MCQQuestions,
		CodingProblems:         a.CodingProblems,
		MCQDuration:            a.MCQDuration,
		MCQPassingScore:        a.MCQPassingScore,
		CodingPassingScore:     a.CodingPassingScore,
		CodingPointsPerProblem: a.CodingPointsPerProblem,
		InterviewQuestions:     a.InterviewQuestions,
		InterviewPassingScore:  a.InterviewPassingScore,
		DashboardTTL:           a.DashboardTTL,
		LockWait:               a.LockWait,
	}
}
