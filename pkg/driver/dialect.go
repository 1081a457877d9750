package driver

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Dialect captures the formatting differences between SQL engines that the
// base driver's command builders depend on. Anything beyond these knobs is
// handled by overriding the builder on the concrete driver.
type Dialect struct {
	// Name is the dialect name (e.g. "sqlite", "postgres").
	Name string

	// BoolTrue and BoolFalse are the boolean literal spellings.
	BoolTrue  string
	BoolFalse string

	// DefaultSchema is used when neither the config nor the table reference
	// names a schema.
	DefaultSchema string

	// SupportsProcedures reports whether ProcCommand is available.
	SupportsProcedures bool

	// ProcKeyword introduces a procedure call (e.g. "CALL").
	ProcKeyword string
}

// StandardDialect returns an ANSI-flavored dialect with the given name.
func StandardDialect(name string) Dialect {
	return Dialect{
		Name:               name,
		BoolTrue:           "TRUE",
		BoolFalse:          "FALSE",
		DefaultSchema:      "public",
		SupportsProcedures: true,
		ProcKeyword:        "CALL",
	}
}

// formatter implements core.Formatter for one dialect.
type formatter struct {
	d Dialect
}

// Ident quotes an identifier with double quotes, doubling embedded quotes.
// Qualified names (schema.table) quote each part separately.
func (f formatter) Ident(name string) string {
	parts := strings.Split(name, ".")
	for i, part := range parts {
		parts[i] = `"` + strings.ReplaceAll(part, `"`, `""`) + `"`
	}
	return strings.Join(parts, ".")
}

// Literal renders a Go value as a SQL literal.
func (f formatter) Literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if val {
			return f.d.BoolTrue
		}
		return f.d.BoolFalse
	case string:
		return "'" + strings.ReplaceAll(val, "'", "''") + "'"
	case []byte:
		return "'" + strings.ReplaceAll(string(val), "'", "''") + "'"
	case int:
		return strconv.Itoa(val)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case int64:
		return strconv.FormatInt(val, 10)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case time.Time:
		return "'" + val.UTC().Format("2006-01-02 15:04:05.999999") + "'"
	default:
		return "'" + strings.ReplaceAll(fmt.Sprint(val), "'", "''") + "'"
	}
}
