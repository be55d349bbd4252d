// internal/core/domain/pagination.go
package domain

// PaginationCursor describe la posición de una consulta paginada.
// Pertenece a una sola invocación de un adaptador.
type PaginationCursor struct {
	Page     int
	PageSize int
	Total    int
}

// Done indica que no quedan páginas: page*pageSize >= total.
// Una página 0 nunca está terminada (aún no se ha leído nada).
func (c PaginationCursor) Done() bool {
	if c.Page <= 0 {
		return false
	}
	return c.Page*c.PageSize >= c.Total
}

// Next retorna el cursor de la página siguiente.
func (c PaginationCursor) Next() PaginationCursor {
	c.Page++
	return c
}

// LastPage retorna la última página que anuncia el proveedor (al menos Page).
func (c PaginationCursor) LastPage() int {
	if c.PageSize <= 0 {
		return c.Page
	}
	last := (c.Total + c.PageSize - 1) / c.PageSize
	if last < c.Page {
		return c.Page
	}
	return last
}

// Remaining lista las páginas posteriores a Page, sin pasar de maxPages
// (maxPages <= 0 significa sin techo).
func (c PaginationCursor) Remaining(maxPages int) []int {
	last := c.LastPage()
	if maxPages > 0 && last > maxPages {
		last = maxPages
	}
	var pages []int
	for p := c.Page + 1; p <= last; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Truncated indica si el techo maxPages deja páginas sin pedir.
func (c PaginationCursor) Truncated(maxPages int) bool {
	return maxPages > 0 && c.LastPage() > maxPages
}
