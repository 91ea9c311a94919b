package shell

import (
	"context"
	"math/rand/v2"
	"time"
)

var funFacts = []string{
	"Fun Fact: Did you know that the Eiffel Tower can be 15 cm taller during the summer due to the expansion of iron?",
	"Fun Fact: Honey never spoils. Archaeologists have found pots of honey in ancient Egyptian tombs that are over 3,000 years old and still edible.",
	"Fun Fact: Bananas are berries, but strawberries aren't.",
}

func randomFact() string {
	return funFacts[rand.IntN(len(funFacts))]
}

// showFacts prints a fun fact now and then every interval until stop is
// called. stop is safe to call more than once and returns once printing
// has ended.
func (s *implShell) showFacts(ctx context.Context) (stop func()) {
	s.printf("%s\n", randomFact())

	quit := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(s.opts.FactInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.printf("%s\n", randomFact())
			case <-quit:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	stopped := false
	return func() {
		if stopped {
			return
		}
		stopped = true
		close(quit)
		<-finished
	}
}
