package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	auth "Hover/internal/auth"
	batch "Hover/internal/calc/batch"
	ceiling "Hover/internal/calc/ceiling"
	hover "Hover/internal/calc/hover"
	importer "Hover/internal/calc/importer"
	report "Hover/internal/calc/report"
	chart "Hover/internal/chart"
	config "Hover/internal/config"
	"Hover/internal/log"
)

var wg sync.WaitGroup

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func loadCharts(cfg config.Config) (*chart.Set, error) {
	if cfg.ChartFile == "" {
		return chart.Default()
	}
	return chart.Load(cfg.ChartFile)
}

func HandleList(router *mux.Router, cfg config.Config, charts *chart.Set, logger *log.Logger) {
	calc := charts.Calculator()

	authEnv := &auth.Authenv{
		JWTkey:       []byte(cfg.TokenKey),
		Login:        cfg.OperatorLogin,
		PasswordHash: []byte(cfg.OperatorPasswordHash),
		Logger:       logger,
		SecureCookie: cfg.TLS(),
	}
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	hoverH := &hover.Handler{Calc: calc, Logger: logger}
	batchH := &batch.Handler{Calc: calc}
	ceilingH := &ceiling.Handler{Calc: calc}
	importerH := &importer.Handler{Calc: calc}
	reportH := &report.Handler{Calc: calc, Logger: logger}

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/charts", hoverH.Charts).Methods("GET")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	secureApi.HandleFunc("/tools/hover/calc", hoverH.Calculate).Methods("POST")
	secureApi.HandleFunc("/tools/hover/batch", batchH.Hover).Methods("POST")
	secureApi.HandleFunc("/tools/hover/ceiling", ceilingH.Ceiling).Methods("POST")
	secureApi.HandleFunc("/tools/hover/import", importerH.Hover).Methods("POST")
	secureApi.HandleFunc("/tools/hover/report", reportH.Generate).Methods("POST")
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	logger := log.New(cfg.LogLevel, cfg.LogDir)

	charts, err := loadCharts(cfg)
	if err != nil {
		logger.Error("unable to load charts", "error", err)
		os.Exit(1)
	}
	logger.Info("charts loaded",
		"aircraft", charts.Aircraft,
		"ige_lines", len(charts.IGE.Temperatures()),
		"oge_lines", len(charts.OGE.Temperatures()))
	if cfg.OperatorLogin == "" || cfg.OperatorPasswordHash == "" {
		logger.Warn("OPERATOR_LOGIN or OPERATOR_PASSWORD_HASH not set; logins will be refused")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	router := mux.NewRouter()
	HandleList(router, cfg, charts, logger)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           logger.Middleware(CORS(router)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "addr", cfg.Addr, "tls", cfg.TLS())
		var err error
		if cfg.TLS() {
			err = server.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}

	wg.Wait()
	logger.Info("server stopped")
}
