package parquet

import "github.com/google/uuid"

// encodeUUID converts a write-path value into the 16 raw bytes a UUID
// logical column stores (spec §3.1 logical binary "uuid"). Accepts a
// uuid.UUID, a [16]byte, or the textual 8-4-4-4-12 form.
func encodeUUID(v interface{}) (interface{}, error) {
	switch x := v.(type) {
	case uuid.UUID:
		b := x
		return b[:], nil
	case [16]byte:
		return x[:], nil
	case string:
		u, err := uuid.Parse(x)
		if err != nil {
			return nil, &Error{Kind: UnsupportedTarget, Reason: "invalid uuid text: " + err.Error()}
		}
		return u[:], nil
	default:
		return nil, &Error{Kind: UnsupportedTarget, Reason: "value not assignable to uuid"}
	}
}

// decodeUUIDText renders the raw 16 bytes of a UUID column as its textual
// 8-4-4-4-12 form (spec §4.3: "UUID read as string uses the textual form").
func decodeUUIDText(raw []byte) (string, error) {
	u, err := decodeUUIDValue(raw)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// decodeUUIDValue parses the raw 16 bytes of a UUID column into uuid.UUID.
func decodeUUIDValue(raw []byte) (uuid.UUID, error) {
	var u uuid.UUID
	if len(raw) != 16 {
		return u, &Error{Kind: UnsupportedTarget, Reason: "uuid column value is not 16 bytes"}
	}
	copy(u[:], raw)
	return u, nil
}
