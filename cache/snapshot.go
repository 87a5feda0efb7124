package cache

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/semihalev/ucache/record"
	"github.com/semihalev/zlog/v2"
)

// Snapshot layout:
//
//	[magic:4][version:1][count:uvarint]
//	count * ([len:uvarint][name] [len:uvarint][type] [len:uvarint][class] [len:uvarint][rdata])
//	[xxhash64 of everything above:8, big-endian]
const (
	snapshotMagic   = "UCSN"
	snapshotVersion = 1
	checksumSize    = 8
)

var (
	// ErrSnapshotCorrupt is returned when a snapshot cannot be decoded.
	ErrSnapshotCorrupt = errors.New("snapshot corrupt")
	// ErrSnapshotChecksum is returned when the snapshot trailer does not match its content.
	ErrSnapshotChecksum = errors.New("snapshot checksum mismatch")
	// ErrSnapshotVersion is returned for snapshots written by an unknown format version.
	ErrSnapshotVersion = errors.New("snapshot version unsupported")
)

// (*Store).Save save writes the store to path. The snapshot is written to a
// temporary file next to path and renamed over it, so an existing snapshot
// survives a failed save.
func (s *Store) Save(path string) error {
	output, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("could not create snapshot: %w", err)
	}

	tmp := output.Name()
	defer func() {
		// no-op once the rename succeeded
		_ = os.Remove(tmp)
	}()

	if err := s.Encode(output); err != nil {
		_ = output.Close()
		return fmt.Errorf("could not write snapshot %s: %w", path, err)
	}

	if err := output.Close(); err != nil {
		return fmt.Errorf("could not close snapshot %s: %w", path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("could not replace snapshot %s: %w", path, err)
	}

	zlog.Debug("Snapshot saved", "path", path, "records", s.Len())

	return nil
}

// (*Store).Encode encode writes the store in snapshot format to w.
func (s *Store) Encode(w io.Writer) error {
	digest := xxhash.New()
	bw := bufio.NewWriter(io.MultiWriter(w, digest))

	var buf [binary.MaxVarintLen64]byte

	putString := func(v string) error {
		n := binary.PutUvarint(buf[:], uint64(len(v)))
		if _, err := bw.Write(buf[:n]); err != nil {
			return err
		}
		_, err := bw.WriteString(v)
		return err
	}

	if _, err := bw.WriteString(snapshotMagic); err != nil {
		return err
	}
	if err := bw.WriteByte(snapshotVersion); err != nil {
		return err
	}

	n := binary.PutUvarint(buf[:], uint64(s.Len()))
	if _, err := bw.Write(buf[:n]); err != nil {
		return err
	}

	for r := range s.Records() {
		for _, field := range []string{r.Name, r.Type, r.Class, r.Rdata} {
			if err := putString(field); err != nil {
				return err
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return err
	}

	var sum [checksumSize]byte
	binary.BigEndian.PutUint64(sum[:], digest.Sum64())

	_, err := w.Write(sum[:])
	return err
}

// Load reads a snapshot written by Save.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read snapshot: %w", err)
	}

	s, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("could not load snapshot %s: %w", path, err)
	}

	zlog.Debug("Snapshot loaded", "path", path, "records", s.Len())

	return s, nil
}

// Decode decodes a snapshot held in memory.
func Decode(data []byte) (*Store, error) {
	if len(data) < len(snapshotMagic)+1+checksumSize {
		return nil, ErrSnapshotCorrupt
	}

	body, trailer := data[:len(data)-checksumSize], data[len(data)-checksumSize:]
	if xxhash.Sum64(body) != binary.BigEndian.Uint64(trailer) {
		return nil, ErrSnapshotChecksum
	}

	if string(body[:len(snapshotMagic)]) != snapshotMagic {
		return nil, ErrSnapshotCorrupt
	}
	if body[len(snapshotMagic)] != snapshotVersion {
		return nil, ErrSnapshotVersion
	}

	r := bytes.NewReader(body[len(snapshotMagic)+1:])

	count, err := binary.ReadUvarint(r)
	if err != nil {
		return nil, ErrSnapshotCorrupt
	}

	readString := func() (string, error) {
		l, err := binary.ReadUvarint(r)
		if err != nil {
			return "", ErrSnapshotCorrupt
		}
		if l > uint64(r.Len()) {
			return "", ErrSnapshotCorrupt
		}

		b := make([]byte, l)
		if _, err := io.ReadFull(r, b); err != nil {
			return "", ErrSnapshotCorrupt
		}

		return string(b), nil
	}

	s := New()

	for i := uint64(0); i < count; i++ {
		var fields [4]string
		for j := range fields {
			if fields[j], err = readString(); err != nil {
				return nil, err
			}
		}

		s.Add(record.New(fields[0], fields[1], fields[2], fields[3]))
	}

	if r.Len() != 0 {
		return nil, ErrSnapshotCorrupt
	}

	return s, nil
}
