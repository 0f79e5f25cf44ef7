package worker

import (
	"sync"
	"testing"
	"time"
)

func TestCommandsRunInFIFOOrder(t *testing.T) {
	th := Spawn(func() *[]int { return &[]int{} })

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		th.Send(func(state *[]int, stop *bool) {
			*state = append(*state, i)
			wg.Done()
		})
	}
	wg.Wait()

	var result []int
	done := make(chan struct{})
	th.Send(func(state *[]int, stop *bool) {
		result = append([]int(nil), *state...)
		close(done)
	})
	<-done

	want := []int{0, 1, 2, 3, 4}
	if len(result) != len(want) {
		t.Fatalf("result = %v, want %v", result, want)
	}
	for i, w := range want {
		if result[i] != w {
			t.Errorf("result[%d] = %d, want %d", i, result[i], w)
		}
	}

	th.Close()
}

func TestCloseStopsTheWorker(t *testing.T) {
	th := Spawn(func() *int { return new(int) })
	th.Close()

	select {
	case <-th.done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop within timeout")
	}
}

func TestPanicInCommandIsRethrownOnClose(t *testing.T) {
	th := Spawn(func() *int { return new(int) })
	th.Send(func(state *int, stop *bool) {
		panic("boom")
	})

	// Give the panicking command time to run before Close observes it.
	time.Sleep(10 * time.Millisecond)

	defer func() {
		r := recover()
		if r != "boom" {
			t.Errorf("recovered %v, want \"boom\"", r)
		}
	}()
	th.Close()
}
