package services

import (
	"fmt"

	"authapi/internal/utils"
)

// SMSService — запасной канал доставки кодов (когда у пользователя указан телефон).
type SMSService struct {
	Client *utils.SMSClient
}

func NewSMSService(client *utils.SMSClient) *SMSService {
	return &SMSService{Client: client}
}

func (s *SMSService) SendVerificationCode(phone, code string) error {
	text := fmt.Sprintf("Your verification code: %s. It expires in 10 minutes.", code)
	if _, err := s.Client.SendSMS(phone, text); err != nil {
		return fmt.Errorf("sms send: %w", err)
	}
	return nil
}
