package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthgrpc "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	napv1 "github.com/nupi-ai/nupi/api/nap/v1"

	"github.com/aneeshpen/simple-aws-polly-tts/internal/adapterinfo"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/config"
	"github.com/aneeshpen/simple-aws-polly-tts/internal/server"
)

const shutdownGrace = 5 * time.Second

// lazyTTSServer answers Unavailable until the real service is installed, so the
// port can be bound before the cloud clients are ready.
type lazyTTSServer struct {
	napv1.UnimplementedTextToSpeechServiceServer
	server atomic.Pointer[napv1.TextToSpeechServiceServer]
}

func (l *lazyTTSServer) setServer(srv napv1.TextToSpeechServiceServer) {
	l.server.Store(&srv)
}

func (l *lazyTTSServer) StreamSynthesis(req *napv1.StreamSynthesisRequest, stream napv1.TextToSpeechService_StreamSynthesisServer) error {
	srv := l.server.Load()
	if srv == nil {
		return status.Error(codes.Unavailable, "TTS service is initializing, please retry in a moment")
	}
	return (*srv).StreamSynthesis(req, stream)
}

func runServer(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("starting server",
		"name", adapterinfo.Info.Name,
		"slug", adapterinfo.Info.Slug,
		"version", adapterinfo.Version(),
		"listen_addr", cfg.ListenAddr,
		"provider", cfg.Provider,
		"voice_id", cfg.VoiceID,
		"engine", cfg.Engine,
		"bucket", cfg.Bucket,
		"serve_publish", cfg.ServePublish,
	)

	lis, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("bind listener: %w", err)
	}
	defer lis.Close()
	logger.Info("listener bound, port ready", "addr", lis.Addr().String())

	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	healthgrpc.RegisterHealthServer(grpcServer, healthServer)

	serviceName := napv1.TextToSpeechService_ServiceDesc.ServiceName
	setServing := func(st healthgrpc.HealthCheckResponse_ServingStatus) {
		healthServer.SetServingStatus("", st)
		healthServer.SetServingStatus(serviceName, st)
	}
	setServing(healthgrpc.HealthCheckResponse_NOT_SERVING)

	lazyService := &lazyTTSServer{}
	napv1.RegisterTextToSpeechServiceServer(grpcServer, lazyService)

	serverErr := make(chan error, 1)
	go func() {
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			serverErr <- err
		}
	}()
	logger.Info("gRPC server started (NOT_SERVING while initializing)")

	d, err := buildDeps(ctx, cfg, logger)
	if err != nil {
		grpcServer.Stop()
		return err
	}
	defer d.Close()

	lazyService.setServer(server.New(cfg, logger, d.synth, d.pub, d.metrics))
	setServing(healthgrpc.HealthCheckResponse_SERVING)
	logger.Info("ready to serve requests")

	select {
	case err := <-serverErr:
		return fmt.Errorf("gRPC server terminated: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutdown requested, stopping gRPC server")
	setServing(healthgrpc.HealthCheckResponse_NOT_SERVING)

	stopped := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(shutdownGrace):
		logger.Warn("graceful stop timed out, forcing stop")
		grpcServer.Stop()
	}

	logger.Info("server stopped", "metrics", d.metrics.Snapshot())
	return nil
}
