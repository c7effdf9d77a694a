package busmem

import (
	"bytes"
	"testing"
)

func TestPagedStorageReadsZeroWhenUnwritten(t *testing.T) {
	s := NewPagedStorage()

	got := s.Read(0x1234, 8)
	if !bytes.Equal(got, make([]byte, 8)) {
		t.Fatalf("unwritten read = %v, want zeros", got)
	}
}

func TestPagedStorageRoundTrip(t *testing.T) {
	s := NewPagedStorage()

	data := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	s.Write(0x2000, data)

	if got := s.Read(0x2000, 8); !bytes.Equal(got, data) {
		t.Fatalf("read back %v, want %v", got, data)
	}
}

func TestPagedStorageCrossesPages(t *testing.T) {
	s := NewPagedStorage()

	data := make([]byte, 64)
	for i := range data {
		data[i] = byte(i + 1)
	}
	addr := uint64(pageSize - 16)
	s.Write(addr, data)

	if got := s.Read(addr, 64); !bytes.Equal(got, data) {
		t.Fatalf("cross-page read back %v, want %v", got, data)
	}
}
