package notify

import (
	"fmt"
	"sync"
	"testing"

	"github.com/bobmcallan/folio-dashboard/internal/common"
)

func TestCenter_RecordsInOrder(t *testing.T) {
	c := NewCenter(10, common.NewSilentLogger())

	c.Success("Added AAPL to portfolio")
	c.TickerError("ZZZZ", "Failed to fetch data for ZZZZ")
	c.Info("hello")

	list := c.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(list))
	}
	if list[0].Level != LevelSuccess || list[0].Message != "Added AAPL to portfolio" {
		t.Errorf("unexpected first notification: %+v", list[0])
	}
	if list[1].Level != LevelError || list[1].Ticker != "ZZZZ" {
		t.Errorf("unexpected second notification: %+v", list[1])
	}
	if list[0].ID == "" || list[0].ID == list[1].ID {
		t.Error("expected unique non-empty IDs")
	}
}

func TestCenter_DropsOldest(t *testing.T) {
	c := NewCenter(3, common.NewSilentLogger())
	for i := 0; i < 5; i++ {
		c.Info(fmt.Sprintf("msg %d", i))
	}

	list := c.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 retained, got %d", len(list))
	}
	if list[0].Message != "msg 2" || list[2].Message != "msg 4" {
		t.Errorf("expected msg 2..4, got %q..%q", list[0].Message, list[2].Message)
	}
}

func TestCenter_Since(t *testing.T) {
	c := NewCenter(10, common.NewSilentLogger())
	first := c.Info("one")
	c.Info("two")
	c.Info("three")

	after := c.Since(first.ID)
	if len(after) != 2 || after[0].Message != "two" {
		t.Errorf("unexpected Since result: %+v", after)
	}
	if len(c.Since("")) != 3 {
		t.Error("empty id should return everything")
	}
	if len(c.Since("unknown")) != 3 {
		t.Error("unknown id should return everything")
	}

	latest, ok := c.Latest()
	if !ok || latest.Message != "three" {
		t.Errorf("unexpected latest: %+v", latest)
	}
}

func TestCenter_ConcurrentPush(t *testing.T) {
	c := NewCenter(DefaultCapacity, common.NewSilentLogger())
	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			c.Error(fmt.Sprintf("err %d", n))
		}(i)
		go func() {
			defer wg.Done()
			c.List()
		}()
	}
	wg.Wait()

	if len(c.List()) != DefaultCapacity {
		t.Errorf("expected %d retained, got %d", DefaultCapacity, len(c.List()))
	}
}
