package handlers

import (
	"errors"

	"taskvest/internal/auth"
	"taskvest/internal/money"
)

var errInvalidAmount = errors.New("invalid amount")

func parseAmountMinor(raw string) (int64, error) {
	amount, err := money.ParseMinor(raw)
	if err != nil || amount <= 0 {
		return 0, errInvalidAmount
	}
	return amount, nil
}

func parseWSToken(secret, token string) (string, error) {
	claims, err := auth.ParseToken(secret, token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
