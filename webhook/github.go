package webhook

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"alertbridge/internal"
)

// GitHub webhook protocol headers.
const (
	headerDelivery  = "X-GitHub-Delivery"
	headerEvent     = "X-GitHub-Event"
	headerSignature = "X-Hub-Signature-256"
)

// SupportedEvent is the only event kind the bridge acts on. Anything
// else is acknowledged and skipped so GitHub does not redeliver.
const SupportedEvent = "dependabot_alert"

const defaultMaxBodyBytes = 1 << 20

// CredentialExchanger converts an installation id into a short-lived
// installation access token.
type CredentialExchanger interface {
	InstallationToken(ctx context.Context, installationID int64) (string, error)
}

// Dispatcher issues the repository_dispatch call for one normalized
// alert.
type Dispatcher interface {
	Dispatch(ctx context.Context, token, owner, repo string, payload internal.DispatchPayload) error
}

// Rejection is a terminal pipeline outcome short of a dispatch. The
// set below is closed; every failure path maps to exactly one of them.
type Rejection struct {
	Status int
	Code   string
}

var (
	rejectNotFound        = Rejection{http.StatusNotFound, "not_found"}
	rejectMissingHeaders  = Rejection{http.StatusBadRequest, "missing_headers"}
	rejectPayloadTooLarge = Rejection{http.StatusRequestEntityTooLarge, "payload_too_large"}
	rejectInvalidBody     = Rejection{http.StatusBadRequest, "invalid_body"}
	rejectInvalidJSON     = Rejection{http.StatusBadRequest, "invalid_json"}
	rejectMissingURL      = Rejection{http.StatusBadRequest, "missing_url"}
	rejectBadSignature    = Rejection{http.StatusUnauthorized, "invalid_signature"}
	rejectInternal        = Rejection{http.StatusInternalServerError, "internal_error"}
)

// HandlerConfig carries the request-gate settings for the handler.
type HandlerConfig struct {
	Secret       string
	MaxBodyBytes int64
	Timeout      time.Duration
}

// GitHubHandler runs the gate, verify, normalize, exchange, dispatch
// pipeline for one delivery. Each request is independent; the handler
// holds no mutable state.
type GitHubHandler struct {
	secret       []byte
	maxBodyBytes int64
	timeout      time.Duration
	exchanger    CredentialExchanger
	dispatcher   Dispatcher
	logger       *log.Logger
}

func NewGitHubHandler(cfg HandlerConfig, exchanger CredentialExchanger, dispatcher Dispatcher, logger *log.Logger) (*GitHubHandler, error) {
	if cfg.Secret == "" {
		return nil, errors.New("webhook secret is required")
	}
	if exchanger == nil {
		return nil, errors.New("credential exchanger is required")
	}
	if dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = log.Default()
	}
	return &GitHubHandler{
		secret:       []byte(cfg.Secret),
		maxBodyBytes: cfg.MaxBodyBytes,
		timeout:      cfg.Timeout,
		exchanger:    exchanger,
		dispatcher:   dispatcher,
		logger:       logger,
	}, nil
}

func (h *GitHubHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || (r.URL.Path != "/" && r.URL.Path != "/webhook") {
		h.reject(w, rejectNotFound)
		return
	}

	deliveryID := r.Header.Get(headerDelivery)
	eventKind := r.Header.Get(headerEvent)
	signature := r.Header.Get(headerSignature)
	if deliveryID == "" || eventKind == "" || signature == "" {
		h.reject(w, rejectMissingHeaders)
		return
	}
	internal.IncDelivery(eventKind)

	if eventKind != SupportedEvent {
		internal.IncSkipped()
		writeJSON(w, http.StatusAccepted, map[string]string{
			"status": "skipped",
			"reason": "unsupported_event",
		})
		return
	}

	// The raw bytes are what the sender signed; they must never be
	// re-serialized before verification.
	rawBody, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.reject(w, rejectPayloadTooLarge)
			return
		}
		h.reject(w, rejectInvalidBody)
		return
	}

	if !VerifySignature(h.secret, rawBody, signature) {
		h.logger.Printf("delivery %s: signature mismatch", deliveryID)
		h.reject(w, rejectBadSignature)
		return
	}

	payload, err := internal.DecodeAlert(rawBody)
	if err != nil {
		h.reject(w, rejectInvalidJSON)
		return
	}

	dispatch, err := payload.Normalize()
	if err != nil {
		if errors.Is(err, internal.ErrMissingRepository) {
			h.reject(w, rejectMissingURL)
			return
		}
		// Authentic delivery with a semantically defective payload.
		// Detail goes to the log, the response body stays generic.
		h.logger.Printf("delivery %s: validate: %v", deliveryID, err)
		h.reject(w, rejectInternal)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	token, err := h.exchanger.InstallationToken(ctx, payload.Installation.ID)
	if err != nil {
		h.logger.Printf("delivery %s: token exchange: %v", deliveryID, err)
		h.reject(w, rejectInternal)
		return
	}

	owner := payload.Repository.Owner.Login
	repo := payload.Repository.Name
	if err := h.dispatcher.Dispatch(ctx, token, owner, repo, dispatch); err != nil {
		h.logger.Printf("delivery %s: dispatch %s/%s: %v", deliveryID, owner, repo, err)
		h.reject(w, rejectInternal)
		return
	}

	internal.IncDispatch()
	h.logger.Printf("delivery %s: dispatched alert %d to %s/%s", deliveryID, dispatch.AlertNumber, owner, repo)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "dispatched"})
}

func (h *GitHubHandler) reject(w http.ResponseWriter, rej Rejection) {
	internal.IncRejection(rej.Code)
	writeError(w, rej.Status, rej.Code)
}
