package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/joseph-ayodele/budget-pipeline/constants"
	"github.com/joseph-ayodele/budget-pipeline/internal/common"
	"github.com/joseph-ayodele/budget-pipeline/internal/ocr"
	"github.com/joseph-ayodele/budget-pipeline/internal/repository"
	"github.com/joseph-ayodele/budget-pipeline/internal/storage"
	"github.com/joseph-ayodele/budget-pipeline/internal/worker"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// DB pool
	pool, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("creating DB pool", "error", err)
		os.Exit(1)
	}
	defer repository.Close(pool, logger)

	if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout, logger); err != nil {
		logger.Error("DB health failed", "error", err)
		os.Exit(1)
	}
	logger.Info("DB health OK")

	// Blob store
	blobs, err := storage.NewS3Store(ctx, cfg.S3, logger)
	if err != nil {
		logger.Error("creating blob store", "error", err)
		os.Exit(1)
	}

	// Stores and processors
	jobs := repository.NewJobStore(pool, logger)
	receipts := repository.NewReceiptStore(pool, logger)
	txns := repository.NewTransactionStore(pool, logger)
	users := repository.NewUserStore(pool, logger)
	extractor := ocr.NewExtractor(ocr.Config{
		Tesseract: cfg.OCR.Tesseract,
		Language:  cfg.OCR.Language,
		PSM:       cfg.OCR.PSM,
	}, logger)

	// Optional one-shot recovery of jobs orphaned in processing by a
	// previous crash.
	if cfg.Worker.RequeueStaleAfter > 0 {
		n, err := jobs.RequeueStale(ctx, cfg.Worker.RequeueStaleAfter)
		if err != nil {
			logger.Error("requeue stale jobs", "error", err)
			os.Exit(1)
		}
		logger.Info("stale jobs requeued", "count", n)
	}

	w := worker.New(jobs, cfg.Worker.PollInterval, logger)
	w.Register(constants.JobKindReceipt, worker.NewReceiptProcessor(jobs, receipts, txns, blobs, extractor, logger))
	w.Register(constants.JobKindExport, worker.NewExportProcessor(jobs, txns, blobs, logger))
	w.Register(constants.JobKindDeletion, worker.NewDeletionProcessor(jobs, users, logger))
	w.Start()

	// Prometheus metrics (worker_jobs_total, worker_job_latency_seconds).
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsSrv := &http.Server{Addr: cfg.Worker.MetricsAddr, Handler: metricsMux}
	go func() {
		logger.Info("metrics serving", "addr", cfg.Worker.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics serve", "error", err)
		}
	}()

	// Liveness endpoint for the orchestrator.
	grpcServer := grpc.NewServer()
	hs := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.Worker.HealthAddr)
	if err != nil {
		logger.Error("listen", "addr", cfg.Worker.HealthAddr, "error", err)
		os.Exit(1)
	}
	logger.Info("health serving", "addr", cfg.Worker.HealthAddr)

	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("grpc serve", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	_ = metricsSrv.Shutdown(context.Background())
	grpcServer.GracefulStop()
	w.Stop()
	fmt.Println("stopped.")
}
