package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"tsinda/internal/model"
	"tsinda/internal/repository"

	"github.com/rs/zerolog"
)

// ContactService stores contact-form messages and relays them to the
// external form endpoint.
type ContactService interface {
	Submit(ctx context.Context, m *model.ContactMessage) error
}

type contactService struct {
	repo       repository.ContactRepository
	relayURL   string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewContactService creates a new ContactService.
func NewContactService(repo repository.ContactRepository, relayURL string, httpClient *http.Client, logger zerolog.Logger) ContactService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &contactService{
		repo:       repo,
		relayURL:   relayURL,
		httpClient: httpClient,
		logger:     logger.With().Str("service", "ContactService").Logger(),
	}
}

func (s *contactService) Submit(ctx context.Context, m *model.ContactMessage) error {
	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error().Err(err).Str("email", m.Email).Msg("Failed to store contact message")
		return err
	}
	if err := s.relay(ctx, m); err != nil {
		s.logger.Error().Err(err).Str("message_id", m.ID).Msg("Failed to relay contact message")
		return err
	}
	return nil
}

// relay posts the message to the external form endpoint. Any non-2xx
// response counts as a delivery failure.
func (s *contactService) relay(ctx context.Context, m *model.ContactMessage) error {
	payload, err := json.Marshal(map[string]string{
		"name":    m.Name,
		"email":   m.Email,
		"message": m.Message,
	})
	if err != nil {
		return fmt.Errorf("marshal contact payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.relayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("relay contact message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("relay responded with status %d", resp.StatusCode)
	}
	return nil
}
