package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"pagient/internal/app/client/config"
	"pagient/internal/domain/entity"
)

const tokenPath = "/oauth/token"

// httpClient talks to the pagient REST backend. Every request carries the
// session's bearer token when one is present. An unauthorized response from
// any endpoint except the token endpoint itself force-expires the session.
type httpClient struct {
	client    *http.Client
	log       *slog.Logger
	baseURL   string
	session   *Session
	userAgent string

	// currentPath supplies the view the user is on when a request fails with
	// unauthorized; it becomes the post-login return target.
	currentPath func() string
}

func NewHTTPClient(cfg *config.Config, session *Session, log *slog.Logger) *httpClient {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	return &httpClient{
		client:      client,
		log:         log,
		baseURL:     cfg.BaseURL(),
		session:     session,
		userAgent:   "Pagient-Client/1.0",
		currentPath: func() string { return RouteRoot },
	}
}

// SetPathProvider overrides where the client looks up the active view path.
func (h *httpClient) SetPathProvider(fn func() string) {
	h.currentPath = fn
}

// CreateToken authenticates and returns a fresh token. A refused credential
// pair maps to ErrAuthRejected; the central expiry handling deliberately
// skips this endpoint.
func (h *httpClient) CreateToken(ctx context.Context, username, password string) (string, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, tokenPath, Credentials{
		Username: username,
		Password: password,
	})
	if err != nil {
		return "", err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		resp.Body.Close()
		return "", ErrAuthRejected
	}

	var tokenResp struct {
		Token string `json:"token"`
	}

	if err := h.parseResponse(resp, &tokenResp); err != nil {
		return "", err
	}

	return tokenResp.Token, nil
}

// DeleteToken terminates the session on the backend.
func (h *httpClient) DeleteToken(ctx context.Context) error {
	resp, err := h.doRequest(ctx, http.MethodDelete, tokenPath, nil)
	if err != nil {
		return err
	}

	return h.parseResponse(resp, nil)
}

// GetClients fetches the client collection.
func (h *httpClient) GetClients(ctx context.Context) ([]entity.Client, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/clients", nil)
	if err != nil {
		return nil, err
	}

	var clients []entity.Client
	if err := h.parseResponse(resp, &clients); err != nil {
		return nil, err
	}

	return clients, nil
}

// GetPagers fetches the pager collection.
func (h *httpClient) GetPagers(ctx context.Context) ([]entity.Pager, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/pagers", nil)
	if err != nil {
		return nil, err
	}

	var pagers []entity.Pager
	if err := h.parseResponse(resp, &pagers); err != nil {
		return nil, err
	}

	return pagers, nil
}

// GetPatients fetches the patient collection.
func (h *httpClient) GetPatients(ctx context.Context) ([]entity.Patient, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, "/api/patients", nil)
	if err != nil {
		return nil, err
	}

	var patients []entity.Patient
	if err := h.parseResponse(resp, &patients); err != nil {
		return nil, err
	}

	return patients, nil
}

// GetPatient fetches a single patient by id.
func (h *httpClient) GetPatient(ctx context.Context, id uint) (*entity.Patient, error) {
	resp, err := h.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/patients/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var patient entity.Patient
	if err := h.parseResponse(resp, &patient); err != nil {
		return nil, err
	}

	return &patient, nil
}

// AddPatient creates a patient on the backend.
func (h *httpClient) AddPatient(ctx context.Context, patient *entity.Patient) error {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/patients", patient)
	if err != nil {
		return err
	}

	return h.parseResponse(resp, nil)
}

// UpdatePatient submits the full patient record.
func (h *httpClient) UpdatePatient(ctx context.Context, patient *entity.Patient) error {
	resp, err := h.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/patients/%d", patient.ID), patient)
	if err != nil {
		return err
	}

	return h.parseResponse(resp, nil)
}

// DeletePatient removes the patient on the backend.
func (h *httpClient) DeletePatient(ctx context.Context, id uint) error {
	resp, err := h.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/patients/%d", id), nil)
	if err != nil {
		return err
	}

	return h.parseResponse(resp, nil)
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if token := h.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	h.log.Debug("sending request",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	// Central session-expiry handling. The token endpoint is excluded: a 401
	// there means rejected credentials, not an expired session.
	if resp.StatusCode == http.StatusUnauthorized && path != tokenPath {
		resp.Body.Close()
		h.session.Expire(h.currentPath())
		return nil, ErrAuthExpired
	}

	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	h.log.Debug("received response",
		"status", resp.StatusCode,
		"bytes", len(body),
	)

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("server error: %s", errResp.Error)
		}
		return fmt.Errorf("server returned status: %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
