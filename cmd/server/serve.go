package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/auth"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/db"
	portalgrpc "github.com/Abdelwahab08/islamic-projectttt-sub002/internal/grpc"
	internalhttp "github.com/Abdelwahab08/islamic-projectttt-sub002/internal/http"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/jobs"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/ratelimit"
	"github.com/Abdelwahab08/islamic-projectttt-sub002/internal/repository"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the internal gRPC service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			defer func() { _ = log.Sync() }()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if cfg.MigrationsEnabled {
				if err := db.RunMigrations(cfg.DatabaseURL, log); err != nil {
					return fmt.Errorf("migrations failed: %w", err)
				}
			}

			pool, err := db.NewPool(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("db connection failed: %w", err)
			}
			defer pool.Close()
			store := repository.NewStore(pool)

			var redisClient *redis.Client
			if cfg.RedisAddr != "" {
				redisClient = redis.NewClient(&redis.Options{
					Addr:     cfg.RedisAddr,
					Password: cfg.RedisPassword,
				})
				pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
				err := redisClient.Ping(pingCtx).Err()
				cancel()
				if err != nil {
					return fmt.Errorf("redis ping failed: %w", err)
				}
				defer func() {
					if err := redisClient.Close(); err != nil {
						log.Warn("redis close error", zap.Error(err))
					}
				}()
			} else {
				log.Warn("redis not configured: logout only clears the cookie and login attempts are not limited")
			}

			server, err := internalhttp.NewServer(cfg, store, internalhttp.Deps{
				Revoker: auth.NewRevoker(redisClient),
				Limiter: ratelimit.New(redisClient, cfg.LoginAttemptLimit, cfg.LoginAttemptWindow),
				Logger:  log,
			})
			if err != nil {
				return fmt.Errorf("server init failed: %w", err)
			}
			httpServer := &http.Server{
				Addr:              cfg.HTTPAddr,
				Handler:           server.Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			var grpcServer *grpc.Server
			if cfg.ServiceAuthToken != "" {
				interceptor, err := portalgrpc.NewServiceAuthUnaryInterceptor(cfg.ServiceAuthTokens()...)
				if err != nil {
					return fmt.Errorf("grpc service auth init failed: %w", err)
				}
				grpcServer = grpc.NewServer(grpc.UnaryInterceptor(interceptor))
				portalgrpc.RegisterIdentityQueryServiceServer(grpcServer, portalgrpc.NewIdentityServer(store, log))
			} else {
				log.Warn("SERVICE_AUTH_TOKEN not set: identity gRPC service disabled")
			}

			jobs.StartPendingApplicationsJob(ctx, cfg.PendingJobInterval, store, log)

			errs := make(chan error, 2)
			go func() {
				log.Info("http listening", zap.String("addr", cfg.HTTPAddr))
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errs <- fmt.Errorf("http server error: %w", err)
				}
			}()
			if grpcServer != nil {
				go func() {
					listener, err := net.Listen("tcp", cfg.GRPCAddr)
					if err != nil {
						errs <- fmt.Errorf("grpc listen error: %w", err)
						return
					}
					log.Info("grpc listening", zap.String("addr", cfg.GRPCAddr))
					if err := grpcServer.Serve(listener); err != nil {
						errs <- fmt.Errorf("grpc server error: %w", err)
					}
				}()
			}

			var runErr error
			select {
			case <-ctx.Done():
			case runErr = <-errs:
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				log.Warn("shutdown error", zap.Error(err))
			}
			if grpcServer != nil {
				grpcServer.GracefulStop()
			}
			return runErr
		},
	}
}
