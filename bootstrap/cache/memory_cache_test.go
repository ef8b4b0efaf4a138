// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestMemoryCache(t *testing.T) {
	m := NewMemoryCache()
	if m.State("not-in-cache.json") != Absent {
		t.Fatal("State() expected Absent for a non-existent file")
	}

	data, err := m.Load("not-in-cache.json")
	if len(data) != 0 || err != nil {
		t.Fatal("Load of not-in-cache.json unexpected result")
	}

	testData := []byte("test")

	if err := m.Save("file.json", testData); err != nil {
		t.Fatal("Save failed")
	}

	data, err = m.Load("file.json")
	if len(data) == 0 || err != nil || !bytes.Equal(data, testData) {
		t.Fatal("Load of file.json unexpected result")
	}

	testData[0] = 'x'
	if data[0] != 't' {
		t.Fatalf("cache doesn't contain a copy, contains %s", data)
	}

	if m.State("file.json") != Good {
		t.Fatal("State() expected Good for a freshly-saved file")
	}

	m.Timeout = 0
	time.Sleep(time.Millisecond)

	if m.State("file.json") != Expired {
		t.Fatal("State() expected Expired once Timeout has elapsed")
	}
}
