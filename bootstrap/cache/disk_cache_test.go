// OpenRDAP
// Copyright 2017 Tom Harwood
// MIT License, see the LICENSE file.

package cache

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDiskCache(t *testing.T) {
	dir, err := ioutil.TempDir("", "test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	rdapDir := filepath.Join(dir, ".openrdap")

	d := NewDiskCache()
	t.Logf("Default cache dir is %s, test cache dir is %s\n", d.Dir, rdapDir)
	d.Dir = rdapDir

	if err := d.InitDir(); err != nil {
		t.Fatalf("InitDir failed: %s\n", err)
	}

	if d.State("not-in-cache.json") != Absent {
		t.Fatal("State() expected Absent for a non-existent file")
	}

	data, err := d.Load("not-in-cache.json")
	if len(data) != 0 || err == nil {
		t.Fatal("Load of not-in-cache.json unexpected result")
	}

	testData := []byte("test")

	if err := d.Save("file.json", testData); err != nil {
		t.Fatal("Save failed")
	}

	data, err = d.Load("file.json")
	if len(data) == 0 || err != nil || !bytes.Equal(data, testData) {
		t.Fatal("Load of file.json unexpected result")
	}

	testData[0] = 'x'
	if data[0] != 't' {
		t.Fatalf("cache doesn't contain a copy, contains %s", data)
	}

	if d.State("file.json") == Expired {
		t.Fatal("State() unexpectedly Expired for a hot cache entry")
	}

	d.Timeout = 0
	time.Sleep(time.Millisecond)

	if d.State("file.json") != Expired {
		t.Fatal("State() expected Expired once Timeout has elapsed")
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	d := NewDiskCache()
	d.Dir = dir

	body := []byte(`{"version":"1.0"}`)
	envelope := Envelope{ETag: `"abc123"`, CacheControl: "max-age=3600", StatusCode: 200}

	persisted, err := Encode(envelope, body)
	if err != nil {
		t.Fatal(err)
	}

	if err := d.Save("dns.json", persisted); err != nil {
		t.Fatal(err)
	}

	loaded, err := d.Load("dns.json")
	if err != nil {
		t.Fatal(err)
	}

	gotEnvelope, gotBody := Decode(loaded)
	if gotEnvelope.ETag != envelope.ETag || !bytes.Equal(gotBody, body) {
		t.Fatalf("round trip mismatch: got envelope=%#v body=%s", gotEnvelope, gotBody)
	}
}

func TestDecodeLegacyEntryWithoutEnvelope(t *testing.T) {
	body := []byte(`{"version":"1.0"}`)

	envelope, decoded := Decode(body)
	if envelope != (Envelope{}) || !bytes.Equal(decoded, body) {
		t.Fatalf("expected a zero envelope and the original body, got %#v %s", envelope, decoded)
	}
}
