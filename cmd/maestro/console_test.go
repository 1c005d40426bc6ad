package main

import (
	"sync"
	"testing"

	"github.com/maestrokit/maestro/internal/tui"
)

func TestProgramNotifier_ConcurrentSendBeforeProgramExists(t *testing.T) {
	n := &programNotifier{}

	// Watcher callbacks can fire before the TUI program is constructed;
	// messages sent in that window are dropped, not delivered to a nil
	// program, and concurrent senders must not race the pointer swap.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				n.send(tui.SystemLineMsg{Text: "skills reloaded"})
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 100; j++ {
			n.set(nil)
		}
	}()
	wg.Wait()
}
