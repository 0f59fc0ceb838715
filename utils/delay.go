package utils

import (
	"math/rand"
	"time"
)

// RandomDelay sleeps for a random duration between min and max.
// Pass time.Duration values like: RandomDelay(3*time.Second, 6*time.Second)
//
// Fixed delays are a detectable pattern; randomized ones read like a
// human pausing between actions.
func RandomDelay(min, max time.Duration) {
	if max <= min {
		time.Sleep(min)
		return
	}
	sleep := min + time.Duration(rand.Int63n(int64(max-min)))
	time.Sleep(sleep)
}

// RandomBetween returns a random int in [min, max] inclusive.
// Used for scroll step counts and pixel distances.
func RandomBetween(min, max int) int {
	if max <= min {
		return min
	}
	return min + rand.Intn(max-min+1)
}
