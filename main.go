package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fabris-vote/fabris/auth"
	"github.com/fabris-vote/fabris/cliparse"
	"github.com/fabris-vote/fabris/localstore"
	"github.com/fabris-vote/fabris/middleware"
	"github.com/fabris-vote/fabris/models"
	"github.com/fabris-vote/fabris/pgstore"
	"github.com/fabris-vote/fabris/router"
	"github.com/fabris-vote/fabris/store"
)

// bootstrapAdmin creates the configured super admin on first start, when no
// users exist yet.
func bootstrapAdmin(st store.Store, cfg cliparse.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	users, err := st.Users()
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	admin, err := st.AddUser(models.User{
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Role:         models.RoleSuperAdmin,
		Active:       true,
	})
	if err != nil {
		return err
	}
	slog.Info("bootstrap admin created", "user_id", admin.ID, "email", admin.Email)
	return nil
}

func main() {
	// Development secrets may live in a .env file
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Open the record store
	var st store.Store
	switch cfg.Driver {
	case cliparse.DriverPostgres:
		st, err = pgstore.Open(cfg.DatabaseURL)
	default:
		st, err = localstore.Open(cfg.DataPath)
	}
	if err != nil {
		slog.Error("store open failed", "driver", cfg.Driver, "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("Store ready", "driver", cfg.Driver)

	if err := bootstrapAdmin(st, cfg); err != nil {
		slog.Error("admin bootstrap failed", "error", err)
		os.Exit(1)
	}

	// Create router
	mux := router.NewRouter(st, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
