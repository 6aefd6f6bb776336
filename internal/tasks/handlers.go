package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/idea-portal/internal/mail"
	"github.com/hibiken/asynq"
)

type Handler struct {
	sender mail.Sender
	logger *slog.Logger
	otpTTL time.Duration
}

func NewHandler(sender mail.Sender, logger *slog.Logger, otpTTL time.Duration) *Handler {
	return &Handler{
		sender: sender,
		logger: logger,
		otpTTL: otpTTL,
	}
}

func (h *Handler) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeOTPMail, h.HandleOTPMail)
}

func (h *Handler) HandleOTPMail(ctx context.Context, t *asynq.Task) error {
	var payload OTPMailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.Email == "" || payload.Code == "" {
		return fmt.Errorf("incomplete otp payload: %w", asynq.SkipRetry)
	}

	msg, err := mail.OTPMessage(payload.Email, payload.Code, h.otpTTL)
	if err != nil {
		return err
	}
	if err := h.sender.Send(ctx, msg); err != nil {
		h.logger.Error("otp mail delivery failed", "email", payload.Email, "error", err)
		return err
	}

	h.logger.Info("otp mail delivered", "email", payload.Email)
	return nil
}
