package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "github.com/tripathiaman777/Railway-Ticket-Booking/internal/config"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/db"
	router "github.com/tripathiaman777/Railway-Ticket-Booking/internal/http"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/repositories"
	"github.com/tripathiaman777/Railway-Ticket-Booking/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
)

type options struct {
	migrate bool
	seed    bool
	store   string
	policy  string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := pflag.NewFlagSet("railway", pflag.ContinueOnError)
	fs.BoolVar(&o.migrate, "migrate", false, "create missing tables before serving")
	fs.BoolVar(&o.seed, "seed", false, "seed the coach berths when the berths table is empty")
	fs.StringVar(&o.store, "store", "", "persistence backend: mysql or memory (overrides STORE)")
	fs.StringVar(&o.policy, "policy", "", "coach policy YAML file (overrides POLICY_FILE)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return o, nil
}

// applyOptions lets command-line flags override the environment.
func applyOptions(env intconfig.Env, o options) (intconfig.Env, error) {
	if o.store != "" {
		store, err := intconfig.ParseStore(o.store)
		if err != nil {
			return intconfig.Env{}, fmt.Errorf("--store: %w", err)
		}
		env.Store = store
	}
	if o.policy != "" {
		env.PolicyFile = o.policy
	}
	return env, nil
}

// openStore returns the configured store and a cleanup func.
func openStore(ctx context.Context, env intconfig.Env, o options, policy intconfig.CoachPolicy) (repositories.Store, func(), error) {
	if env.Store == intconfig.StoreMemory {
		log.Printf("[DB] using in-memory store with %d confirmed and %d RAC berths", policy.ConfirmedBerths, policy.RACBerths)
		return repositories.NewMemoryStore(db.CoachLayout(policy), policy.RACPerBerth), func() {}, nil
	}

	conn, err := intconfig.ConnectDB(env)
	if err != nil {
		return nil, nil, err
	}
	if o.migrate {
		if err := db.EnsureSchema(ctx, conn); err != nil {
			intconfig.CloseDB()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		log.Println("[DB] schema ready")
	}
	if o.seed {
		n, err := db.SeedBerths(ctx, conn, policy)
		if err != nil {
			intconfig.CloseDB()
			return nil, nil, fmt.Errorf("seed: %w", err)
		}
		log.Printf("[DB] seeded %d berths", n)
	}
	return repositories.NewMySQLStore(conn, policy), intconfig.CloseDB, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("invalid flags: %v", err)
	}
	env, err := intconfig.LoadEnv()
	if err != nil {
		log.Fatalf("load env: %v", err)
	}
	if env, err = applyOptions(env, opts); err != nil {
		log.Fatalf("invalid flags: %v", err)
	}
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	policy, err := intconfig.LoadPolicy(env.PolicyFile)
	if err != nil {
		log.Fatalf("load policy: %v", err)
	}

	setupCtx, cancelSetup := context.WithTimeout(context.Background(), 30*time.Second)
	store, closeStore, err := openStore(setupCtx, env, opts, policy)
	cancelSetup()
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer closeStore()

	r := router.NewRouter(env, store, services.NewTicketService(store, policy))

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped.")
}
