package app

import "math/rand"

// Topics maps each category to its secret-word pool. Categories are
// visible to all players each round; the word is withheld from the liar.
var Topics = map[string][]string{
	"Animals": {
		"elephant", "penguin", "octopus", "giraffe", "hedgehog",
		"flamingo", "chameleon", "dolphin", "raccoon", "peacock",
	},
	"Food": {
		"pizza", "sushi", "pancake", "burrito", "dumpling",
		"croissant", "lasagna", "kimchi", "waffle", "ramen",
	},
	"Places": {
		"airport", "library", "stadium", "aquarium", "lighthouse",
		"casino", "subway", "bakery", "museum", "campsite",
	},
	"Jobs": {
		"firefighter", "barista", "surgeon", "plumber", "pilot",
		"magician", "lifeguard", "locksmith", "referee", "beekeeper",
	},
	"Sports": {
		"bowling", "fencing", "curling", "archery", "snowboarding",
		"badminton", "rowing", "darts", "judo", "handball",
	},
	"Household Objects": {
		"umbrella", "toaster", "doorbell", "curtain", "ladder",
		"scissors", "kettle", "mirror", "broom", "thermostat",
	},
	"Movies & Shows": {
		"western", "sitcom", "documentary", "musical", "thriller",
		"soap opera", "game show", "heist film", "space opera", "mockumentary",
	},
}

// Subject is one (category, word) draw
type Subject struct {
	Category string
	Word     string
}

// Key returns the used-pool key for this pair
func (s Subject) Key() string {
	return s.Category + "/" + s.Word
}

// PickSubject draws a uniformly random pair not in used. Once the pool is
// exhausted it falls back to the full pool and flags the reuse.
func PickSubject(used map[string]bool) (Subject, bool) {
	all := make([]Subject, 0, 64)
	fresh := make([]Subject, 0, 64)
	for category, words := range Topics {
		for _, word := range words {
			s := Subject{Category: category, Word: word}
			all = append(all, s)
			if !used[s.Key()] {
				fresh = append(fresh, s)
			}
		}
	}

	if len(fresh) > 0 {
		return fresh[rand.Intn(len(fresh))], false
	}
	return all[rand.Intn(len(all))], true
}
