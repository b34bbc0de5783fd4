package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"

	"vibeboxing/internal/auth"
	"vibeboxing/internal/combo"
	"vibeboxing/internal/config"
	"vibeboxing/internal/db"
	apperrors "vibeboxing/internal/errors"
	"vibeboxing/internal/logging"
	"vibeboxing/internal/mail"
	"vibeboxing/internal/metrics"
	"vibeboxing/internal/repository"
	"vibeboxing/internal/service"
)

const (
	demoEmail    = "demo@vibeboxing.local"
	demoPassword = "treino123"
)

type seedCombo struct {
	name   string
	stance combo.Stance
	guard  string
	steps  [][]string
}

// Move names resolve against the orthodox catalog.
var demoCombos = []seedCombo{
	{"Jab-Direto", combo.StanceOrthodox, "tradicional", [][]string{{"Jab E ↑"}, {"Direto D ↑"}}},
	{"1-2-Slip-2", combo.StanceOrthodox, "tradicional", [][]string{{"Jab E ↑"}, {"Direto D ↑"}, {"Slip E"}, {"Direto D ↑"}}},
	{"Corpo e cabeça", combo.StanceOrthodox, "peekaboo", [][]string{{"Jab E ↓", "Jab E ↑"}, {"Cruzado E ↑"}, {"Passo atrás"}}},
	{"Saída lateral", combo.StanceSouthpaw, "philly", [][]string{{"Bloqueio alto E"}, {"Upper D ↑"}, {"Giro D"}}},
}

func main() {
	logger := logging.Setup("vibeboxing-seed", "dev", "text", os.Stdout)
	if err := run(context.Background(), logger); err != nil {
		logging.LogError(context.Background(), logger, "seed failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	gormDB, err := db.Open(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB, false); err != nil {
		return err
	}
	logger.Info("connected to database", "driver", cfg.DB.Driver)

	users := repository.NewUserRepository(gormDB)
	sessions := auth.NewMemorySessionStore(auth.SessionTTL, auth.SessionTTL)
	defer sessions.Close()

	authService := service.NewAuthService(service.AuthDeps{
		Users:    users,
		Tokens:   auth.NewJWTService(cfg.Auth.JWTSecret),
		Sessions: sessions,
		Hasher:   auth.NewBcryptHasher(0),
		Mailer:   mail.New(mail.Config{}),
		Logger:   logger,
	})
	comboService := service.NewComboService(repository.NewComboRepository(gormDB), metrics.New())

	res, err := authService.Register(ctx, service.RegisterInput{Email: demoEmail, Password: demoPassword, Name: "Demo"})
	if errors.Is(err, apperrors.ErrEmailTaken) {
		logger.Info("demo user already exists, nothing to do", "email", demoEmail)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Info("created demo user", "email", demoEmail, "password", demoPassword)

	catalog := make(map[string]combo.Move)
	for _, m := range combo.Moves(combo.StanceOrthodox, "") {
		catalog[m.Name] = m
	}

	created := 0
	for _, sc := range demoCombos {
		steps := make([]combo.Step, len(sc.steps))
		for i, names := range sc.steps {
			for _, name := range names {
				steps[i].Moves = append(steps[i].Moves, catalog[name])
			}
		}
		raw, err := json.Marshal(combo.MirrorSteps(steps, sc.stance))
		if err != nil {
			return err
		}
		if _, err := comboService.Create(ctx, res.User.ID, service.ComboDraft{
			Name:   sc.name,
			Stance: sc.stance,
			Guard:  sc.guard,
			Steps:  raw,
		}); err != nil {
			logging.LogError(ctx, logger, "create demo combo", err)
			continue
		}
		created++
	}

	logger.Info("seed completed", "combos", created, "total", len(demoCombos))
	return nil
}
