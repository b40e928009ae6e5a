// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"testing"

	"github.com/MKhiriev/go-pong-guard/models"
)

const testHashKey = "test-secret-key"

func TestHasher_Sum(t *testing.T) {
	h := NewHasher(testHashKey)
	data := []byte("test-data")

	sum1 := h.Sum(data)
	sum2 := h.Sum(data)

	if len(sum1) == 0 {
		t.Fatal("hash result is empty")
	}
	if !bytes.Equal(sum1, sum2) {
		t.Fatal("hash must be deterministic for the same input")
	}

	// verify against direct HMAC computation
	mac := hmac.New(sha256.New, []byte(testHashKey))
	mac.Write(data)
	expected := mac.Sum(nil)

	if !bytes.Equal(sum1, expected) {
		t.Fatalf("unexpected hash value\nwant: %x\ngot:  %x", expected, sum1)
	}
}

func TestHasher_WithOutcomePayload(t *testing.T) {
	h := NewHasher(testHashKey)

	body, err := json.Marshal(models.Outcome{Finished: true, Winner: models.Player1, SessionID: "s1"})
	if err != nil {
		t.Fatalf("failed to marshal outcome: %v", err)
	}

	got := h.HexSum(body)
	want := HashString(string(body), testHashKey)

	if got != want {
		t.Errorf("Hash mismatch:\n  got:  %s\n  want: %s", got, want)
	}
	if !h.Verify(body, got) {
		t.Error("Verify rejected its own digest")
	}
}

func TestHasher_DifferentKeys(t *testing.T) {
	body := []byte(`{"finished":true}`)

	hash1 := NewHasher("key-one").HexSum(body)
	hash2 := NewHasher("key-two").HexSum(body)

	if hash1 == hash2 {
		t.Error("different keys must produce different hashes for the same payload")
	}
}

func TestHasher_VerifyRejects(t *testing.T) {
	h := NewHasher(testHashKey)
	body := []byte(`{"finished":true,"winner":"Player 2"}`)
	sum := h.HexSum(body)

	tests := map[string]struct {
		body []byte
		sum  string
	}{
		"tampered body": {[]byte(`{"finished":true,"winner":"Player 1"}`), sum},
		"empty sum":     {body, ""},
		"not hex":       {body, "zz"},
		"other key":     {body, NewHasher("other").HexSum(body)},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if h.Verify(tt.body, tt.sum) {
				t.Error("Verify accepted a bad digest")
			}
		})
	}
}

func TestHasher_Concurrent(t *testing.T) {
	h := NewHasher(testHashKey)
	want := h.HexSum([]byte("pong"))

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				if got := hex.EncodeToString(h.Sum([]byte("pong"))); got != want {
					t.Errorf("concurrent hash mismatch: %s", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
