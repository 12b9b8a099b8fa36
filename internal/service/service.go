// Package service holds the orchestration layer: multi-entity writes,
// cascade deletes and the role checks that gate them. Every operation
// takes the caller's identity explicitly; nothing about the requesting
// user rides along on the entities themselves.
package service

import (
	"ecolabs/internal/mailer"
	"ecolabs/internal/storage"
	"ecolabs/internal/store"
	"ecolabs/pkg/types"

	"github.com/sirupsen/logrus"
)

type Service struct {
	store   *store.Store
	storage *storage.Storage
	mailer  *mailer.Mailer
	logger  *logrus.Logger
	config  *types.Config
}

func New(st *store.Store, fileStorage *storage.Storage, m *mailer.Mailer, logger *logrus.Logger, config *types.Config) *Service {
	return &Service{
		store:   st,
		storage: fileStorage,
		mailer:  m,
		logger:  logger,
		config:  config,
	}
}

func requireAdmin(caller types.Caller) error {
	if !caller.IsAdmin() {
		return types.ForbiddenError("this action requires an administrator account")
	}
	return nil
}
