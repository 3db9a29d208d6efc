package waivers

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	waiverRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/waiver"
	"github.com/m04kA/Sauna-BookingService/internal/service/waivers/models"
	"github.com/m04kA/Sauna-BookingService/pkg/ptr"
)

//go:embed waiver_v1.txt
var waiverText string

// Service сервис подписания отказов от ответственности
type Service struct {
	repo   WaiverRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса
func NewService(repo WaiverRepository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Text текущая версия текста отказа
func (s *Service) Text() *models.TextResponse {
	return &models.TextResponse{Version: domain.CurrentWaiverVersion, Text: waiverText}
}

// Sign сохраняет подписанный отказ вместе с полным текстом версии
func (s *Service) Sign(ctx context.Context, req *models.SignRequest) (*models.WaiverResponse, error) {
	if err := validateSign(req); err != nil {
		s.logger.Warn("Sign: validation failed: %v", err)
		return nil, err
	}

	w, err := s.repo.Create(ctx, &domain.Waiver{
		AccountID:             req.AccountID,
		Name:                  strings.TrimSpace(req.Name),
		Email:                 strings.TrimSpace(req.Email),
		Phone:                 req.Phone,
		EmergencyContactName:  ptr.Ptr(strings.TrimSpace(req.EmergencyContactName)),
		EmergencyContactPhone: ptr.Ptr(strings.TrimSpace(req.EmergencyContactPhone)),
		Version:               domain.CurrentWaiverVersion,
		Text:                  waiverText,
		UserAgent:             req.UserAgent,
	})
	if err != nil {
		s.logger.Error("Sign: failed to store waiver for %s: %v", req.Email, err)
		return nil, fmt.Errorf("%w: Sign - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Sign: waiver id=%d signed by %s", w.ID, w.Email)
	return models.FromDomainWaiver(w), nil
}

// GetByID подписанный отказ
func (s *Service) GetByID(ctx context.Context, id int64) (*models.WaiverResponse, error) {
	w, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, waiverRepo.ErrWaiverNotFound) {
		return nil, ErrWaiverNotFound
	}
	if err != nil {
		s.logger.Error("GetByID: repository error for waiver id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainWaiver(w), nil
}

func validateSign(req *models.SignRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if !req.Agreed {
		return ErrNotAgreed
	}
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return fmt.Errorf("%w: invalid email", ErrInvalidInput)
	}
	if strings.TrimSpace(req.EmergencyContactName) == "" || strings.TrimSpace(req.EmergencyContactPhone) == "" {
		return fmt.Errorf("%w: emergency contact is required", ErrInvalidInput)
	}
	return nil
}
