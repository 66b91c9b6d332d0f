package access

import "errors"

// Taxonomía de errores del protocolo. Los cuatro primeros son recuperables
// por el usuario (pedirle a la madre un token nuevo); Unauthorized y
// NoActiveGrant son terminales para el request. Un fallo transitorio del
// store se propaga como error envuelto común: jamás se convierte en deny.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrTokenNotFound    = errors.New("token not found")
	ErrTokenMismatch    = errors.New("token does not belong to booklet")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenAlreadyUsed = errors.New("token already used")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrNoActiveGrant    = errors.New("no active grant")

	// ErrActiveGrantExists lo devuelve GrantRepository.Create cuando el par
	// (libreta, doctor) ya tiene un grant vigente. Es una señal interna del
	// store: el servicio la resuelve releyendo el grant ganador, nunca llega
	// a un handler.
	ErrActiveGrantExists = errors.New("active grant already exists")
)
