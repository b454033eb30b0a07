package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New monta o logger padrão dos binários do tracker. Em env "local" usa o
// encoder de desenvolvimento; fora disso, JSON de produção. LOG_LEVEL
// sobrescreve o nível quando definido.
func New(serviceName string, env string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		lvl, err := zapcore.ParseLevel(raw)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	// app e service entram em toda linha para filtrar por binário nos logs
	return cfg.Build(
		zap.Fields(
			zap.String("app", "lotofacil-tracker"),
			zap.String("service", serviceName),
			zap.String("env", env),
		),
	)
}
