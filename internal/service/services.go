package service

import (
	"github.com/MKhiriev/go-user-auth/internal/config"
	"github.com/MKhiriev/go-user-auth/internal/crypto"
	"github.com/MKhiriev/go-user-auth/internal/logger"
	"github.com/MKhiriev/go-user-auth/internal/store"
	"github.com/MKhiriev/go-user-auth/internal/utils"
)

type Services struct {
	AuthService AuthService
}

func NewServices(storages *store.Storages, cfg config.App, logger *logger.Logger) *Services {
	authService := NewAuthService(
		storages.UserRepository,
		crypto.NewBcryptHasher(cfg.BcryptCost),
		utils.NewUUIDGenerator(),
		logger,
	)

	return &Services{
		AuthService: NewAuthMetricsService().Wrap(authService),
	}
}
