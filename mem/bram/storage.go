package bram

import (
	"errors"
	"fmt"
	"sync"
)

// ErrAddressOutOfRange is returned when a storage access falls beyond the
// capacity of the storage.
var ErrAddressOutOfRange = errors.New("address out of range")

const defaultUnitSize = 1024

// A Storage keeps the words of an array.
//
// The storage is managed in units, similar to pages. Units that are never
// written do not take memory and read as zero. A storage can be read while it
// is written, for example by the monitoring server.
type Storage struct {
	sync.RWMutex

	unitSize uint64
	capacity uint64
	data     map[uint64][]uint64
}

// NewStorage creates a storage with the given capacity in words.
func NewStorage(capacity uint64) *Storage {
	return NewStorageWithUnitSize(capacity, defaultUnitSize)
}

// NewStorageWithUnitSize creates a storage that allocates unitSize words at a
// time.
func NewStorageWithUnitSize(capacity, unitSize uint64) *Storage {
	if unitSize == 0 {
		panic("unit size must not be 0")
	}

	return &Storage{
		unitSize: unitSize,
		capacity: capacity,
		data:     make(map[uint64][]uint64),
	}
}

// Capacity returns the number of words that the storage can hold.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

func (s *Storage) parseAddress(addr uint64) (baseAddr, inUnitAddr uint64) {
	inUnitAddr = addr % s.unitSize
	baseAddr = addr - inUnitAddr

	return baseAddr, inUnitAddr
}

func (s *Storage) mustBeInRange(addr uint64) error {
	if addr >= s.capacity {
		return fmt.Errorf("%w: 0x%x, capacity 0x%x",
			ErrAddressOutOfRange, addr, s.capacity)
	}

	return nil
}

// Read returns the word at the address.
func (s *Storage) Read(addr uint64) (uint64, error) {
	if err := s.mustBeInRange(addr); err != nil {
		return 0, err
	}

	baseAddr, inUnitAddr := s.parseAddress(addr)

	s.RLock()
	defer s.RUnlock()

	unit, ok := s.data[baseAddr]
	if !ok {
		return 0, nil
	}

	return unit[inUnitAddr], nil
}

// Write stores a word at the address.
func (s *Storage) Write(addr uint64, word uint64) error {
	if err := s.mustBeInRange(addr); err != nil {
		return err
	}

	baseAddr, inUnitAddr := s.parseAddress(addr)

	s.Lock()
	defer s.Unlock()

	unit, ok := s.data[baseAddr]
	if !ok {
		if word == 0 {
			return nil
		}

		unit = make([]uint64, s.unitSize)
		s.data[baseAddr] = unit
	}

	unit[inUnitAddr] = word

	return nil
}

// NumAllocatedUnits returns the number of units that hold data.
func (s *Storage) NumAllocatedUnits() int {
	s.RLock()
	defer s.RUnlock()

	return len(s.data)
}
