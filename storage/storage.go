// Package storage provides a dual-port storage model.
//
// A Storage is an abstraction over register files, buffer memories, and
// similar backing stores. It manages data in fixed-size units and allocates
// a unit only when a read or write first touches it. Access goes through
// ports; a dual-port memory is a Storage with two ports, but any number can
// be attached.
package storage

import "errors"

const unitSize = 4096

// A Storage keeps the backing data shared by its ports.
type Storage struct {
	capacity uint64
	data     map[uint64][]byte
}

// NewStorage creates a storage object with the given capacity in bytes.
func NewStorage(capacity uint64) *Storage {
	return &Storage{
		capacity: capacity,
		data:     make(map[uint64][]byte),
	}
}

// Capacity returns the storage capacity in bytes.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

// Port attaches a named access port to the storage.
func (s *Storage) Port(name string) *Port {
	return &Port{name: name, storage: s}
}

// Read returns n bytes starting at address.
func (s *Storage) Read(address, n uint64) ([]byte, error) {
	if address+n > s.capacity {
		return nil, errors.New("accessing address beyond the storage capacity")
	}

	res := make([]byte, n)
	offset := uint64(0)

	for offset < n {
		unit := s.unitFor(address + offset)
		inUnit := (address + offset) % unitSize

		copied := copy(res[offset:], unit[inUnit:])
		offset += uint64(copied)
	}

	return res, nil
}

// Write stores data starting at address.
func (s *Storage) Write(address uint64, data []byte) error {
	if address+uint64(len(data)) > s.capacity {
		return errors.New("accessing address beyond the storage capacity")
	}

	offset := uint64(0)

	for offset < uint64(len(data)) {
		unit := s.unitFor(address + offset)
		inUnit := (address + offset) % unitSize

		copied := copy(unit[inUnit:], data[offset:])
		offset += uint64(copied)
	}

	return nil
}

// unitFor returns the unit containing address, allocating it on first touch.
func (s *Storage) unitFor(address uint64) []byte {
	base := address - address%unitSize

	unit, ok := s.data[base]
	if !ok {
		unit = make([]byte, unitSize)
		s.data[base] = unit
	}

	return unit
}

// A Port is one access point into a shared Storage.
type Port struct {
	name    string
	storage *Storage
}

// Name returns the name of the port.
func (p *Port) Name() string {
	return p.name
}

// Read returns n bytes starting at address.
func (p *Port) Read(address, n uint64) ([]byte, error) {
	return p.storage.Read(address, n)
}

// Write stores data starting at address.
func (p *Port) Write(address uint64, data []byte) error {
	return p.storage.Write(address, data)
}
