package catalog

import (
	"strings"

	"staybook/internal/models"
)

// Catalog хранит список отелей из конфигурации.
// Список неизменяемый после создания, поэтому блокировки не нужны.
type Catalog struct {
	hotels []models.Hotel
	byName map[string]models.Hotel
}

// New builds a catalog from the configured hotel list.
func New(hotels []models.Hotel) *Catalog {
	c := &Catalog{
		hotels: append([]models.Hotel(nil), hotels...),
		byName: make(map[string]models.Hotel, len(hotels)),
	}
	for _, h := range hotels {
		c.byName[strings.ToLower(h.Name)] = h
	}
	return c
}

// List returns all hotels in configuration order.
func (c *Catalog) List() []models.Hotel {
	return append([]models.Hotel(nil), c.hotels...)
}

// GetByName looks up a hotel by name, case-insensitively.
func (c *Catalog) GetByName(name string) (models.Hotel, bool) {
	h, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	return h, ok
}

// Filter returns hotels matching the location substring and price ceiling.
// Пустой location и нулевой maxPrice означают «без фильтра».
func (c *Catalog) Filter(location string, maxPrice int64) []models.Hotel {
	location = strings.ToLower(strings.TrimSpace(location))

	result := make([]models.Hotel, 0, len(c.hotels))
	for _, h := range c.hotels {
		if location != "" && !strings.Contains(strings.ToLower(h.Location), location) {
			continue
		}
		if maxPrice > 0 && h.Price > maxPrice {
			continue
		}
		result = append(result, h)
	}
	return result
}
