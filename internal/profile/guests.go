package profile

import (
	"fmt"
	"math/rand"
)

// GuestNames is the default pool of guest profile names
var GuestNames = []string{
	"Blinky", "Pinky", "Inky", "Clyde", "Sonic", "Tails", "Knuckles", "Amy",
	"Mario", "Luigi", "Peach", "Toad", "Yoshi", "Wario", "Kirby", "Link",
	"Zelda", "Samus", "Fox", "Falco", "Ness", "Lucas", "Marth", "Ike",
	"Pit", "Olimar", "Lucina", "Daisy", "Rosalina", "Bowser", "Ridley", "Snake",
}

// GuestPool hands out guest names without repeats. It is not safe for
// concurrent use.
type GuestPool struct {
	names []string
	rng   *rand.Rand
}

// NewGuestPool creates a pool over a copy of names. A nil rng uses a
// time-seeded source.
func NewGuestPool(names []string, rng *rand.Rand) *GuestPool {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &GuestPool{
		names: append([]string(nil), names...),
		rng:   rng,
	}
}

// Len returns the number of names left
func (p *GuestPool) Len() int {
	return len(p.names)
}

// Take removes and returns a random name from the pool
func (p *GuestPool) Take() (string, error) {
	if len(p.names) == 0 {
		return "", fmt.Errorf("guest name pool exhausted")
	}
	i := p.rng.Intn(len(p.names))
	name := p.names[i]

	last := len(p.names) - 1
	p.names[i] = p.names[last]
	p.names = p.names[:last]
	return name, nil
}

// GuestProfileName returns the hidden profile directory name for a guest
func GuestProfileName(guest string) string {
	return "." + guest
}

// IsGuest reports whether a profile name belongs to a guest
func IsGuest(profileName string) bool {
	return len(profileName) > 0 && profileName[0] == '.'
}
