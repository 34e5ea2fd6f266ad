package factories

import (
	"math/rand"

	"github.com/chrisdamba/ridersim/internal/models"
	"github.com/jaswdr/faker"
	"github.com/lucsky/cuid"
)

// RiderFactory gives riders a unique cuid and a human name. Names come from a
// faker seeded per run, so the same run seed always produces the same roster
// names.
type RiderFactory struct {
	fake faker.Faker
}

func NewRiderFactory(seed int64) *RiderFactory {
	return &RiderFactory{fake: faker.NewWithSeed(rand.NewSource(seed))}
}

func (rf *RiderFactory) CreateRider(index int) *models.Rider {
	return &models.Rider{
		ID:    cuid.New(),
		Name:  rf.fake.Person().Name(),
		Index: index,
	}
}
