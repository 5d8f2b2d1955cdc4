package sqlite

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/jhoicas/Costeo-api/internal/domain"
)

// translate convierte errores de restricción en errores de dominio. gorm los traduce con
// TranslateError; el texto del driver queda como respaldo.
func translate(err error, onForeignKey error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"),
		strings.Contains(err.Error(), "PRIMARY KEY constraint failed"):
		return domain.ErrDuplicate
	case onForeignKey != nil && (errors.Is(err, gorm.ErrForeignKeyViolated) ||
		strings.Contains(err.Error(), "FOREIGN KEY constraint failed")):
		return onForeignKey
	}
	return err
}
