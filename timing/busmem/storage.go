package busmem

// A Storage is the byte-addressable backing of the responder.
type Storage interface {
	// Read fetches size bytes starting at addr.
	Read(addr uint64, size int) []byte

	// Write stores data starting at addr.
	Write(addr uint64, data []byte)
}

const pageSize = 4096

// PagedStorage is a sparse Storage backed by demand-allocated pages.
// Unwritten bytes read as zero.
type PagedStorage struct {
	pages map[uint64][]byte
}

// NewPagedStorage creates an empty PagedStorage.
func NewPagedStorage() *PagedStorage {
	return &PagedStorage{pages: make(map[uint64][]byte)}
}

func (s *PagedStorage) page(addr uint64, allocate bool) ([]byte, uint64) {
	pageID := addr / pageSize

	page, found := s.pages[pageID]
	if !found && allocate {
		page = make([]byte, pageSize)
		s.pages[pageID] = page
	}

	return page, addr % pageSize
}

// Read fetches size bytes starting at addr.
func (s *PagedStorage) Read(addr uint64, size int) []byte {
	data := make([]byte, size)

	for i := 0; i < size; {
		page, offset := s.page(addr+uint64(i), false)
		n := int(pageSize - offset)
		if n > size-i {
			n = size - i
		}

		if page != nil {
			copy(data[i:i+n], page[offset:])
		}
		i += n
	}

	return data
}

// Write stores data starting at addr.
func (s *PagedStorage) Write(addr uint64, data []byte) {
	for i := 0; i < len(data); {
		page, offset := s.page(addr+uint64(i), true)
		n := copy(page[offset:], data[i:])
		i += n
	}
}
