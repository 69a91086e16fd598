package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"quizGo/admin"
	"quizGo/auth"
	"quizGo/config"
	"quizGo/logger"
	"quizGo/seed"
	"quizGo/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New("quizgo")

	backend, cleanup, err := openBackend(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("failed to open store backend")
	}
	defer cleanup()

	st := store.New(backend, log)

	mgr := auth.NewManager(st, log)
	mgr.EnsureAdminSeed()

	if cfg.SeedDemoData {
		seed.GenerateIfNeeded(st, log, 25)
	}

	dash := admin.NewDashboard(st, mgr, log)
	stop := dash.Watch(func(snap admin.Snapshot) {
		log.WithFields(logrus.Fields{
			"total_users":       snap.Stats.TotalUsers,
			"active_users":      snap.Stats.ActiveUsers,
			"completed_quizzes": snap.Stats.CompletedQuizzes,
			"average_score":     snap.Stats.AverageScore,
		}).Info("dashboard refreshed")
	})
	defer stop()

	log.Info("quizgo dashboard running, press Ctrl+C to exit")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down")
}

// openBackend picks the Postgres backend when DB_CONNECTION is set, otherwise
// the shared file store.
func openBackend(cfg config.Settings, log *logrus.Entry) (store.Backend, func(), error) {
	if cfg.DBConnection != "" {
		pg, err := store.NewPostgresBackend(cfg.DBConnection, log)
		if err != nil {
			return nil, nil, err
		}
		log.Info("connected to postgres store")
		return pg, pg.Close, nil
	}

	f, err := store.NewFileBackend(cfg.StorePath, log)
	if err != nil {
		return nil, nil, err
	}
	log.WithField("path", cfg.StorePath).Info("using file store")
	return f, f.Close, nil
}
