package verification

import (
	"context"
	"errors"
	"fmt"
)

var ErrVerifierDisabled = errors.New("verification service is not configured")

// Result is the face-presence signal and greeting for one punch snapshot.
type Result struct {
	FaceDetected bool   `json:"faceDetected"`
	Message      string `json:"message"`
}

// Verifier checks a snapshot against the name the employee claims.
// image is base64, with or without a data URL prefix.
type Verifier interface {
	Verify(ctx context.Context, image string, employeeName string) (Result, error)
}

// Fallback is the result used whenever verification fails. It never blocks a punch.
func Fallback(employeeName string) Result {
	return Result{
		FaceDetected: true,
		Message:      fmt.Sprintf("Olá %s, ponto registrado (Verificação Offline).", employeeName),
	}
}

// VerifyOrFallback runs v and substitutes Fallback on any error, including a nil v.
func VerifyOrFallback(ctx context.Context, v Verifier, image, employeeName string) (Result, error) {
	if v == nil {
		return Fallback(employeeName), ErrVerifierDisabled
	}
	res, err := v.Verify(ctx, image, employeeName)
	if err != nil {
		return Fallback(employeeName), err
	}
	return res, nil
}
