package ticketcode

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"ovation/internal/models"

	"github.com/google/uuid"
)

// Issuer turns a confirmed booking into an opaque ticket code. Issuance is
// best-effort: a failure here never invalidates the booking, the caller
// records the pending state and retries later.
type Issuer interface {
	Issue(booking *models.Booking) (string, error)
}

// Payload is what gets encoded into the ticket code. Scanners decode it to
// verify a ticket at the venue door.
type Payload struct {
	Ref         string `json:"ref"`
	BookingID   int64  `json:"booking_id"`
	EventID     int64  `json:"event_id"`
	BuyerID     int64  `json:"buyer_id"`
	TicketCount int    `json:"ticket_count"`
	IssuedAt    int64  `json:"issued_at"`
}

// LocalIssuer encodes the ticket payload in-process. Used when no external
// issuing service is configured.
type LocalIssuer struct{}

func NewLocalIssuer() *LocalIssuer {
	return &LocalIssuer{}
}

func (i *LocalIssuer) Issue(booking *models.Booking) (string, error) {
	payload := Payload{
		Ref:         uuid.New().String(),
		BookingID:   booking.ID,
		EventID:     booking.EventID,
		BuyerID:     booking.BuyerID,
		TicketCount: booking.TicketCount,
		IssuedAt:    time.Now().Unix(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal ticket payload: %w", err)
	}

	return base64.URLEncoding.EncodeToString(data), nil
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// HTTPIssuer calls an external code-generation service. Only the
// success/failure signal matters to the core; the returned code is opaque.
type HTTPIssuer struct {
	baseURL string
	client  *http.Client
}

func NewHTTPIssuer(cfg Config) *HTTPIssuer {
	return &HTTPIssuer{
		baseURL: cfg.BaseURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type issueRequest struct {
	BookingID   int64 `json:"booking_id"`
	EventID     int64 `json:"event_id"`
	BuyerID     int64 `json:"buyer_id"`
	TicketCount int   `json:"ticket_count"`
}

type issueResponse struct {
	Code string `json:"code"`
}

func (i *HTTPIssuer) Issue(booking *models.Booking) (string, error) {
	reqBody, err := json.Marshal(issueRequest{
		BookingID:   booking.ID,
		EventID:     booking.EventID,
		BuyerID:     booking.BuyerID,
		TicketCount: booking.TicketCount,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal issue request: %w", err)
	}

	resp, err := i.client.Post(i.baseURL+"/issue", "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("issuer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("issuer returned status %d", resp.StatusCode)
	}

	var issueResp issueResponse
	if err := json.NewDecoder(resp.Body).Decode(&issueResp); err != nil {
		return "", fmt.Errorf("failed to decode issuer response: %w", err)
	}

	if issueResp.Code == "" {
		return "", fmt.Errorf("issuer returned empty code")
	}

	return issueResp.Code, nil
}
