// Package nlattr is a schema-driven codec for Generic Netlink attribute
// payloads (the TLV trees nested inside a GENL message body). Callers supply
// a schema description and a symbolic-name-to-numeric-id table; the package
// compiles a codec tree that can build a value tree into on-wire bytes, or
// parse on-wire bytes back into a value tree.
//
// Outer netlink/genl message headers, socket I/O, and the CTRL_GETFAMILY
// family lookup are outside this package's scope: callers hand it an
// attribute payload already stripped of headers, and prepend headers to
// whatever it returns.
package nlattr

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// headerSize is the size in bytes of a TLV header: two host-order uint16
// fields, length then type id. This matches unix.SizeofRtAttr exactly,
// since Generic Netlink attributes share the same {len, type} header shape
// as routing attributes.
const headerSize = unix.SizeofRtAttr

// align4 rounds n up to the next multiple of 4, per nlattr's on-wire
// alignment requirement.
func align4(n int) int {
	return (n + unix.RTA_ALIGNTO - 1) &^ (unix.RTA_ALIGNTO - 1)
}

// pad appends zero bytes to buf until its length is 4-byte aligned.
func pad(buf []byte) []byte {
	n := align4(len(buf)) - len(buf)
	if n == 0 {
		return buf
	}
	return append(buf, make([]byte, n)...)
}

// putUint16 stores v into b in host byte order. b must be at least 2 bytes.
func putUint16(b []byte, v uint16) {
	*(*uint16)(unsafe.Pointer(&b[0])) = v
}

// getUint16 reads a host byte order uint16 from b. b must be at least 2 bytes.
func getUint16(b []byte) uint16 {
	return *(*uint16)(unsafe.Pointer(&b[0]))
}

// putHeader writes a TLV header (length then type id) to the front of buf.
func putHeader(buf []byte, length, typeID uint16) {
	putUint16(buf[0:2], length)
	putUint16(buf[2:4], typeID)
}

// getHeader reads a TLV header from the front of buf.
func getHeader(buf []byte) (length, typeID uint16) {
	return getUint16(buf[0:2]), getUint16(buf[2:4])
}

// wrapTLV builds one complete, padded TLV: header + payload + padding.
func wrapTLV(typeID uint16, payload []byte) []byte {
	length := headerSize + len(payload)
	buf := make([]byte, headerSize, align4(length))
	putHeader(buf, uint16(length), typeID)
	buf = append(buf, payload...)
	return pad(buf)
}

// rawAttr is one decoded TLV: its type id and its unaligned payload slice
// (a view into the original buffer, not a copy).
type rawAttr struct {
	typeID  uint16
	payload []byte
}

// splitAttrs walks b as a sequence of TLVs. It fails on a truncated header,
// a zero or undersized length field, or a length that would overrun b.
func splitAttrs(b []byte) ([]rawAttr, error) {
	var attrs []rawAttr
	offset := 0
	for offset < len(b) {
		if len(b)-offset < headerSize {
			return nil, &WireError{Msg: "truncated attribute header"}
		}
		length, typeID := getHeader(b[offset:])
		if length == 0 {
			return nil, &WireError{Msg: "zero-length attribute"}
		}
		if int(length) < headerSize {
			return nil, &WireError{Msg: "attribute length smaller than header size"}
		}
		end := offset + int(length)
		if end > len(b) {
			return nil, &WireError{Msg: "attribute length overruns buffer"}
		}
		next := offset + align4(int(length))
		if next > len(b) {
			return nil, &WireError{Msg: "attribute padding overruns buffer"}
		}
		attrs = append(attrs, rawAttr{
			typeID:  typeID,
			payload: b[offset+headerSize : end],
		})
		offset = next
	}
	return attrs, nil
}
