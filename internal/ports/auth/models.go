package auth

// Claims representa la información extraída del token de sesión.
// UserID identifica tanto a madres como a doctores; el rol no se guarda
// acá porque la autorización por libreta la decide el guard de access.
type Claims struct {
	UserID string
	Email  string
}
