package byteslice

import "runtime"

// MappedFile is a read-only mapping of a whole file with an explicit
// lifetime. The pages stay mapped until Close, no matter which views or
// []byte values derived from Slice are still around. Touching any of them
// after Close faults.
type MappedFile struct {
	path string
	data []byte
	s    *Slice
}

// OpenMapped maps the file at path read-only.
func OpenMapped(path string) (*MappedFile, error) {
	data, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	m := &MappedFile{path: path, data: data}
	m.s = WrapExternal(data, m)
	return m, nil
}

// Slice returns the mapped content.
func (m *MappedFile) Slice() *Slice { return m.s }

// Len returns the file size at the time of mapping.
func (m *MappedFile) Len() int { return len(m.data) }

// Close unmaps the file. It is safe to call more than once.
func (m *MappedFile) Close() error {
	if m.data == nil {
		return nil
	}
	data := m.data
	m.data = nil
	m.s = Empty
	return unmapFile(data)
}

// mapping owns the pages behind a MapFile Slice. A runtime cleanup unmaps
// them once no Slice references it.
type mapping struct {
	path string
	size int
}

// MapFile maps the whole file at path read-only and returns a Slice over
// it. The pages stay mapped while the returned Slice, or any view derived
// from it, is reachable. Writing through the Slice faults.
//
// A []byte obtained from Bytes does not keep the mapping alive: keep the
// Slice reachable for as long as the bytes are used, or use OpenMapped
// and Close to control the lifetime explicitly.
func MapFile(path string) (*Slice, error) {
	data, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return Empty, nil
	}
	m := &mapping{path: path, size: len(data)}
	runtime.AddCleanup(m, func(b []byte) { _ = unmapFile(b) }, data)
	return WrapExternal(data, m), nil
}
