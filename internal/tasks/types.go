package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type names
const (
	TypeOTPMail = "mail:otp"
)

// OTPMailPayload carries a signup code to its recipient
type OTPMailPayload struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func NewOTPMailTask(payload OTPMailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOTPMail, data), nil
}
