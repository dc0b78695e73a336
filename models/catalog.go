package models

// Service is a bookable offering of a shop. A booking may combine several;
// total price and duration are the sums.
type Service struct {
	ID              string  `bson:"id" json:"id"`
	ShopID          string  `bson:"shopId" json:"shopId"`
	Name            string  `bson:"name" json:"name"`
	Description     string  `bson:"description,omitempty" json:"description,omitempty"`
	Category        string  `bson:"category,omitempty" json:"category,omitempty"`
	DurationMinutes int     `bson:"durationMinutes" json:"durationMinutes"`
	Price           float64 `bson:"price" json:"price"`
	Active          bool    `bson:"active" json:"active"`
}

// Barber is a service provider attached to a shop.
type Barber struct {
	ID              string  `bson:"id" json:"id"`
	ShopID          string  `bson:"shopId" json:"shopId"`
	Name            string  `bson:"name" json:"name"`
	Bio             string  `bson:"bio,omitempty" json:"bio,omitempty"`
	ExperienceYears int     `bson:"experienceYears,omitempty" json:"experienceYears,omitempty"`
	Rating          float64 `bson:"rating,omitempty" json:"rating,omitempty"`
	Active          bool    `bson:"active" json:"active"`
}

// Shop is a barbershop a customer books against.
type Shop struct {
	ID      string `bson:"id" json:"id"`
	Name    string `bson:"name" json:"name"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// TotalDuration sums the duration of the given services in minutes.
func TotalDuration(services []Service) int {
	total := 0
	for _, s := range services {
		total += s.DurationMinutes
	}
	return total
}

// TotalPrice sums the price of the given services.
func TotalPrice(services []Service) float64 {
	total := 0.0
	for _, s := range services {
		total += s.Price
	}
	return total
}
