package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"ecolabs/internal/service"
	"ecolabs/internal/storage"
	"ecolabs/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

const (
	cookieAccessToken  = "ecolabs_access_token"
	cookieRefreshToken = "ecolabs_refresh_token"
)

type Service struct {
	logger  *logrus.Logger
	config  *types.Config
	app     *service.Service
	storage *storage.Storage
	cookie  *securecookie.SecureCookie

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	app *service.Service,
	fileStorage *storage.Storage,
) *Service {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger:  logger,
		config:  config,
		app:     app,
		storage: fileStorage,
		cookie:  securecookie.New(hashKey, blockKey),
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/api/auth/register", s.handleRegister, http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin, http.MethodPost)
	r.HandleFunc("/api/auth/refresh", s.handleRefresh, http.MethodPost)
	r.HandleFunc("/api/auth/logout", s.handleLogout, http.MethodPost)
	r.HandleFunc("/api/auth/forgot-password", s.handleForgotPassword, http.MethodPost)
	r.HandleFunc("/api/auth/reset-password", s.handleResetPassword, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/landowners", s.handleListLandowners, http.MethodGet)
		r.HandleFunc("/api/landowners", s.handleAddLandowner, http.MethodPost)
		r.HandleFunc("/api/landowners/:landownerID", s.handleGetLandowner, http.MethodGet)
		r.HandleFunc("/api/landowners/:landownerID", s.handleDeleteLandowner, http.MethodDelete)

		r.HandleFunc("/api/users", s.handleListUsers, http.MethodGet)
		r.HandleFunc("/api/users/me", s.handleCurrentUser, http.MethodGet)
		r.HandleFunc("/api/users/:userID", s.handleUpdateUser, http.MethodPatch)
		r.HandleFunc("/api/users/:userID/archive", s.handleToggleArchiveUser, http.MethodPatch)
		r.HandleFunc("/api/users/:userID/note", s.handleUpdateUserNote, http.MethodPatch)

		r.HandleFunc("/api/properties", s.handleListProperties, http.MethodGet)
		r.HandleFunc("/api/properties/:propertyID", s.handleGetProperty, http.MethodGet)
		r.HandleFunc("/api/properties/:propertyID", s.handleUpdateProperty, http.MethodPatch)
		r.HandleFunc("/api/properties/:propertyID", s.handleDeleteProperty, http.MethodDelete)
		r.HandleFunc("/api/properties/:propertyID/archive", s.handleToggleArchiveProperty, http.MethodPatch)
		r.HandleFunc("/api/properties/:propertyID/note", s.handleUpdatePropertyNote, http.MethodPatch)
		r.HandleFunc("/api/properties/:propertyID/files", s.handleAddPropertyFiles, http.MethodPost)
		r.HandleFunc("/api/properties/:propertyID/files", s.handleRemovePropertyFile, http.MethodDelete)
		r.HandleFunc("/api/properties/:propertyID/transfer", s.handleTransferProperty, http.MethodPatch)
		r.HandleFunc("/api/properties/:propertyID/bid-status", s.handleBidStatus, http.MethodGet)
		r.HandleFunc("/api/properties/:propertyID/researchers", s.handleResearchersToProperty, http.MethodGet)
		r.HandleFunc("/api/properties/:propertyID/assign", s.handleAssignResearcher, http.MethodPost)
		r.HandleFunc("/api/properties/:propertyID/assign/:researcherID", s.handleUnassignResearcher, http.MethodDelete)

		r.HandleFunc("/api/bids", s.handleListBids, http.MethodGet)
		r.HandleFunc("/api/bids", s.handlePlaceBid, http.MethodPost)
		r.HandleFunc("/api/bids/:bidID", s.handleGetBid, http.MethodGet)
		r.HandleFunc("/api/bids/:bidID", s.handleRemoveBid, http.MethodDelete)
		r.HandleFunc("/api/bids/:bidID/status", s.handleChangeBidStatus, http.MethodPatch)

		r.HandleFunc("/api/researchers", s.handleListResearchers, http.MethodGet)
		r.HandleFunc("/api/researchers", s.handleAddResearcher, http.MethodPost)
		r.HandleFunc("/api/researchers/:researcherID", s.handleGetResearcher, http.MethodGet)
		r.HandleFunc("/api/researchers/:researcherID", s.handleDeleteResearcher, http.MethodDelete)
		r.HandleFunc("/api/researchers/:researcherID/status", s.handleSetResearcherStatus, http.MethodPatch)
		r.HandleFunc("/api/researchers/:researcherID/properties", s.handleAssignedProperties, http.MethodGet)
		r.HandleFunc("/api/researchers/:researcherID/reports", s.handleResearcherReports, http.MethodGet)

		r.HandleFunc("/api/universities", s.handleListUniversities, http.MethodGet)
		r.HandleFunc("/api/universities", s.handleAddUniversity, http.MethodPost)
		r.HandleFunc("/api/universities/:universityID", s.handleGetUniversity, http.MethodGet)
		r.HandleFunc("/api/universities/:universityID", s.handleDeleteUniversity, http.MethodDelete)
		r.HandleFunc("/api/universities/:universityID/researchers", s.handleUniversityResearchers, http.MethodGet)

		r.HandleFunc("/api/reports", s.handleAddReport, http.MethodPost)
		r.HandleFunc("/api/reports/:reportID", s.handleUpdateReport, http.MethodPatch)
		r.HandleFunc("/api/reports/:reportID", s.handleRemoveReport, http.MethodDelete)
		r.HandleFunc("/api/reports/:reportID/archive", s.handleToggleArchiveReport, http.MethodPatch)
	})
}
