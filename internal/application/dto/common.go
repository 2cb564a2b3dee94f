package dto

import (
	"slices"
	"strings"

	"github.com/jhoicas/inventory-core/internal/domain"
	"github.com/jhoicas/inventory-core/internal/domain/repository"
)

// PageRequest parámetros de paginación: page (base 0), size y sort "campo,asc|desc".
type PageRequest struct {
	Page int    `query:"page"`
	Size int    `query:"size"`
	Sort string `query:"sort"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	// MaxPage mantiene page*size muy por debajo del rango de int y de OFFSET.
	MaxPage = 10_000_000
)

// Normalize aplica valores por defecto y límites.
func (p *PageRequest) Normalize() {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
}

// Validate normaliza y rechaza páginas fuera de rango.
func (p *PageRequest) Validate() error {
	p.Normalize()
	if p.Page > MaxPage {
		return domain.InvalidArgument("page fuera de rango (máximo %d)", MaxPage)
	}
	return nil
}

// Offset posición del primer elemento de la página.
func (p PageRequest) Offset() int { return p.Page * p.Size }

// Page objeto de página del contrato REST.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// NewPage arma la página a partir del total de elementos.
func NewPage[T any](content []T, total int64, req PageRequest) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if req.Size > 0 {
		pages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Content:       content,
		TotalPages:    pages,
		TotalElements: total,
		Number:        req.Page,
		Size:          req.Size,
		First:         req.Page == 0,
		Last:          req.Page >= pages-1,
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ListQuery traduce la página a consulta de repositorio. sort admite "campo" o "campo,asc|desc";
// el campo debe estar en allowed.
func (p PageRequest) ListQuery(allowed []string) (repository.ListQuery, error) {
	if err := p.Validate(); err != nil {
		return repository.ListQuery{}, err
	}
	q := repository.ListQuery{Offset: p.Offset(), Limit: p.Size}
	if strings.TrimSpace(p.Sort) == "" {
		return q, nil
	}
	field, dir, _ := strings.Cut(p.Sort, ",")
	field = strings.TrimSpace(field)
	if !slices.Contains(allowed, field) {
		return q, domain.InvalidArgument("no se puede ordenar por %q", field)
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "", "asc":
	case "desc":
		q.SortDesc = true
	default:
		return q, domain.InvalidArgument("dirección de orden inválida %q", dir)
	}
	q.SortField = field
	return q, nil
}
