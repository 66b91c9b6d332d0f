package booklets

import (
	"context"
	"errors"
)

// OwnerOf expone el motherUserID de una libreta.
// Se usa desde el guard de acceso para evitar ciclos de imports
// (booklets <-> access).
//
// Si la libreta no existe devuelve ("", nil): el guard debe responder igual
// ante "no existe" y "sin acceso" para no filtrar existencia. Un error real
// del store sí se propaga, para que el caller lo trate como reintentable y
// no como denegación.
func (s *Service) OwnerOf(ctx context.Context, bookletID string) (string, error) {
	b, err := s.GetByID(ctx, bookletID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
			return "", nil
		}
		return "", err
	}
	return b.MotherUserID, nil
}
