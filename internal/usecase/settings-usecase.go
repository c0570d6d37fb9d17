package usecase

import (
	"context"
	"errors"
	"fmt"
	"github.com/iamvkosarev/repair-chat-bot/internal/model"
	"github.com/sirupsen/logrus"
	"strings"
	"sync"
)

const (
	credentialKey = "openai_api_key"
	vehicleKey    = "selected_vehicle_model"
)

type KeyValueStorage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type SettingsUsecaseDeps struct {
	Storage KeyValueStorage
	Logger  logrus.FieldLogger
}

// SettingsUsecase holds the credential and vehicle profile of one owner.
type SettingsUsecase struct {
	SettingsUsecaseDeps
	owner      string
	vocabulary model.Vocabulary

	mu         sync.RWMutex
	credential string
	vehicle    string
}

func NewSettingsUsecase(
	ctx context.Context,
	deps SettingsUsecaseDeps,
	owner string,
	vocabulary model.Vocabulary,
	defaultCredential string,
) *SettingsUsecase {
	s := &SettingsUsecase{
		SettingsUsecaseDeps: deps,
		owner:               owner,
		vocabulary:          vocabulary,
		credential:          defaultCredential,
	}
	if credential, ok := s.restore(ctx, credentialKey); ok {
		s.credential = credential
	}
	if vehicle, ok := s.restore(ctx, vehicleKey); ok && vocabulary.HasVehicle(vehicle) {
		s.vehicle = vehicle
	}
	return s
}

func (s *SettingsUsecase) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

func (s *SettingsUsecase) HasCredential() bool {
	return s.Credential() != ""
}

func (s *SettingsUsecase) SetCredential(ctx context.Context, credential string) error {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return model.ErrMissingCredential
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Storage.Set(ctx, getOwnerKey(s.owner, credentialKey), credential); err != nil {
		return fmt.Errorf("failed to persist credential: %w", err)
	}
	s.credential = credential
	return nil
}

func (s *SettingsUsecase) VehicleProfile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vehicle
}

func (s *SettingsUsecase) ValidateVehicleProfile(vehicle string) error {
	if !s.vocabulary.HasVehicle(vehicle) {
		return fmt.Errorf("%w: %s", model.ErrUnknownVehicle, vehicle)
	}
	return nil
}

func (s *SettingsUsecase) SetVehicleProfile(ctx context.Context, vehicle string) error {
	if err := s.ValidateVehicleProfile(vehicle); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.Storage.Set(ctx, getOwnerKey(s.owner, vehicleKey), vehicle); err != nil {
		return fmt.Errorf("failed to persist vehicle profile: %w", err)
	}
	s.vehicle = vehicle
	return nil
}

func (s *SettingsUsecase) restore(ctx context.Context, key string) (string, bool) {
	value, err := s.Storage.Get(ctx, getOwnerKey(s.owner, key))
	if err != nil {
		if !errors.Is(err, model.ErrKeyNotFound) {
			s.Logger.WithError(err).WithField("owner", s.owner).Warnf("failed to restore %s", key)
		}
		return "", false
	}
	return value, true
}

func getOwnerKey(owner, key string) string {
	return fmt.Sprintf("%s_%s", owner, key)
}
