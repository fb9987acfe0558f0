package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Códigos SQLSTATE que los adaptadores traducen a errores de dominio.
const codeUniqueViolation = "23505"

// pgErrCode extrae el código SQLSTATE de un error de pgx; cadena vacía si el error
// no viene de Postgres.
func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation indica violación de constraint único. Los adaptadores la usan
// para traducir duplicados (vale ya vendido, RUT repetido) a domain.ErrDuplicate.
func isUniqueViolation(err error) bool {
	return pgErrCode(err) == codeUniqueViolation
}
