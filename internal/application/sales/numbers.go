package sales

import (
	"fmt"
	"time"
)

// valeNumberPrefix antecede el consecutivo diario de vales.
const valeNumberPrefix = "VP"

// FormatValeNumber arma el número legible del vale: prefijo + fecha + consecutivo
// diario con relleno, ej. VP20250602-0001.
func FormatValeNumber(day time.Time, sequence int) string {
	return fmt.Sprintf("%s%s-%04d", valeNumberPrefix, day.Format("20060102"), sequence)
}
