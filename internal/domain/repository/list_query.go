package repository

// ListQuery paginación por offset y orden por un campo de la lista blanca del repositorio.
// SortField vacío = orden por defecto del repositorio.
type ListQuery struct {
	Offset    int
	Limit     int
	SortField string
	SortDesc  bool
}
