package purchasing

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/bodega-api/internal/domain/entity"
)

// normalize recibe el Caser del llamador: cases.Caser no es seguro entre goroutines.
func normalize(c cases.Caser, s string) string {
	return c.String(strings.TrimSpace(s))
}

// MatchLines devuelve los índices de las líneas cuya descripción coincide con el código
// o con el nombre del producto (sin distinguir mayúsculas, sin espacios extremos).
// Todas las coincidencias se devuelven; cada línea aparece a lo sumo una vez.
func MatchLines(product *entity.Product, lines []entity.OrderLine) []int {
	c := cases.Fold()
	code, name := normalize(c, product.Code), normalize(c, product.Name)
	var idx []int
	for i, l := range lines {
		d := normalize(c, l.Description)
		if (code != "" && d == code) || (name != "" && d == name) {
			idx = append(idx, i)
		}
	}
	return idx
}
