package models

// Hotel is a bookable listing. The catalog is embedded in the config file,
// so the struct carries yaml tags alongside json.
type Hotel struct {
	Name     string `yaml:"name" json:"name"`
	Location string `yaml:"location" json:"location"`
	Category string `yaml:"category" json:"category"`
	Price    int64  `yaml:"price" json:"price"`
}
