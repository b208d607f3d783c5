package cmd

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alon-amarilio/SPL25-Assignment3/client"
	"github.com/alon-amarilio/SPL25-Assignment3/internal/env"
	"github.com/alon-amarilio/SPL25-Assignment3/pkg/metrics"
)

var (
	// The port to serve debug http requests on
	httpPort string

	// Whether to serve the debug http endpoints at all
	withHTTP bool
)

func init() {
	flags := StartCmd.PersistentFlags()

	flags.StringVar(&httpPort, "http-port", "7362", "The port to serve debug HTTP requests on")
	flags.BoolVar(&withHTTP, "http", false, "Serve the debug HTTP endpoints (/ping, /metrics)")
}

var StartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the interactive game-update client",
	Long: `Start the interactive game-update client

Reads operator commands from stdin, one per line:

	login {host:port} {username} {password}
	join {channel}
	exit {channel}
	report {file}
	summary {channel} {user} {file}
	logout

`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		ctx, signalStop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
		defer signalStop()

		log, err := env.MakeLogger()
		if err != nil {
			return err
		}

		conf, err := env.LoadConfig(ctx)
		if err != nil {
			return err
		}

		var s *http.Server

		if withHTTP || conf.DebugHTTP {
			router := setupRouter(conf.DebugHTTP, log)

			// Ping test
			router.GET("/ping", func(c *gin.Context) {
				c.String(http.StatusOK, "pong")
			})

			router.GET("/metrics", gin.WrapH(metrics.Handler()))

			s = &http.Server{
				Addr:    net.JoinHostPort("127.0.0.1", httpPort),
				Handler: router,
			}

			// Initializing the server in a goroutine so that
			// it won't block the interactive loop below
			go func() {
				if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Http server errored", zap.Error(err))
				}
			}()
		}

		log.Info("Client starting",
			zap.Any("config", conf),
			zap.String("httpPort", httpPort))

		runErr := client.Run(ctx, os.Stdin, os.Stdout, client.Options{
			Realm: conf.Realm,
			Log:   log.Named("client"),
		})

		if errors.Is(runErr, context.Canceled) {
			runErr = nil
		}

		signalStop()

		if s != nil {
			// The context is used to inform the server it has 5 seconds to
			// finish the request it is currently handling
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			s.SetKeepAlivesEnabled(false)

			if err := s.Shutdown(shutdownCtx); err != nil {
				log.Error("Http server forced to shutdown", zap.Error(err))
			}
		}

		log.Info("Exiting")
		return runErr
	},
}

func setupRouter(debugHTTP bool, log *zap.Logger) *gin.Engine {
	gin.DisableConsoleColor()
	if !debugHTTP {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Add a ginzap middleware, which:
	//   - Logs all requests, like a combined access and error log.
	//   - RFC3339 with UTC time format.
	r.Use(ginzap.Ginzap(log, time.RFC3339, true))

	// Logs all panic to error log
	//   - stack means whether output the stack info.
	r.Use(ginzap.RecoveryWithZap(log, true))

	return r
}
