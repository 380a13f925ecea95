package psqlbuilder

import (
	"fmt"

	"github.com/Masterminds/squirrel"
)

// Поддерживаемые драйверы БД
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// For возвращает построитель запросов с форматом плейсхолдеров для драйвера:
// $1, $2... для PostgreSQL и ? для SQLite
func For(driver string) (squirrel.StatementBuilderType, error) {
	switch driver {
	case DriverPostgres:
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar), nil
	case DriverSQLite:
		return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question), nil
	default:
		return squirrel.StatementBuilderType{}, fmt.Errorf("psqlbuilder: unsupported driver %q", driver)
	}
}
