package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"staybook/internal/models"
)

func testHotels() []models.Hotel {
	return []models.Hotel{
		{Name: "Grand Palace", Location: "Moscow", Category: "deluxe", Price: 12000},
		{Name: "Sea Breeze", Location: "Sochi", Category: "standard", Price: 5500},
		{Name: "Old Town Inn", Location: "Moscow", Category: "standard", Price: 4200},
	}
}

func TestList(t *testing.T) {
	c := New(testHotels())

	hotels := c.List()
	assert.Len(t, hotels, 3)
	assert.Equal(t, "Grand Palace", hotels[0].Name)

	// Изменение возвращённого среза не должно трогать каталог.
	hotels[0].Name = "Hacked"
	assert.Equal(t, "Grand Palace", c.List()[0].Name)
}

func TestGetByName(t *testing.T) {
	c := New(testHotels())

	h, ok := c.GetByName("sea breeze")
	assert.True(t, ok)
	assert.Equal(t, int64(5500), h.Price)

	h, ok = c.GetByName("  Grand Palace ")
	assert.True(t, ok)
	assert.Equal(t, "Moscow", h.Location)

	_, ok = c.GetByName("no such hotel")
	assert.False(t, ok)
}

func TestFilter(t *testing.T) {
	c := New(testHotels())

	assert.Len(t, c.Filter("moscow", 0), 2)
	assert.Len(t, c.Filter("", 6000), 2)
	assert.Len(t, c.Filter("moscow", 5000), 1)
	assert.Len(t, c.Filter("", 0), 3)
	assert.Empty(t, c.Filter("paris", 0))
}
