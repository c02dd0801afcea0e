package schema

import "strings"

// KeyType is the remote data structure a tab mirrors.
type KeyType uint8

const (
	// TypeUnknown is the zero value; no tab content is reconciled for it.
	TypeUnknown KeyType = iota
	// TypeString is a plain string value. It is loaded whole, never reconciled.
	TypeString
	// TypeHash is a field/value map.
	TypeHash
	// TypeList is an ordered list that may repeat values.
	TypeList
	// TypeSet is an unordered set of unique members.
	TypeSet
	// TypeZSet is a set of unique members with scores.
	TypeZSet
	// TypeStream is an append-only log of entries keyed by id.
	TypeStream
)

var keyTypeNames = [...]string{
	TypeUnknown: "",
	TypeString:  "STRING",
	TypeHash:    "HASH",
	TypeList:    "LIST",
	TypeSet:     "SET",
	TypeZSet:    "ZSET",
	TypeStream:  "STREAM",
}

var keyTypeColors = [...][2]string{
	TypeString: {"#8B5CF6", "#F2EDFB"},
	TypeHash:   {"#3B82F6", "#E4F0FC"},
	TypeList:   {"#10B981", "#E3F3EB"},
	TypeSet:    {"#F59E0B", "#FDF1DF"},
	TypeZSet:   {"#EF4444", "#FAEAED"},
	TypeStream: {"#EC4899", "#FDE6F1"},
}

// ParseKeyType maps a type tag such as "hash" or "ZSET" to a KeyType.
func ParseKeyType(tag string) (KeyType, error) {
	upper := strings.ToUpper(strings.TrimSpace(tag))
	if upper == "" {
		return TypeUnknown, ErrInvalidKeyType
	}
	for i, name := range keyTypeNames {
		if name == upper {
			return KeyType(i), nil
		}
	}
	return TypeUnknown, ErrInvalidKeyType
}

// String returns the upper-case tag of the type.
func (t KeyType) String() string {
	if !t.Valid() {
		return "UNKNOWN"
	}
	return keyTypeNames[t]
}

// Valid reports whether t is one of the six known types.
func (t KeyType) Valid() bool {
	return t > TypeUnknown && int(t) < len(keyTypeNames)
}

// MarkColor returns the foreground mark color for the type, or "" when unknown.
func (t KeyType) MarkColor() string {
	if !t.Valid() {
		return ""
	}
	return keyTypeColors[t][0]
}

// BgColor returns the background mark color for the type, or "" when unknown.
func (t KeyType) BgColor() string {
	if !t.Valid() {
		return ""
	}
	return keyTypeColors[t][1]
}

// MarshalText encodes the type as its tag.
func (t KeyType) MarshalText() ([]byte, error) {
	if t == TypeUnknown {
		return []byte{}, nil
	}
	if !t.Valid() {
		return nil, ErrInvalidKeyType
	}
	return []byte(keyTypeNames[t]), nil
}

// UnmarshalText decodes a type tag. An empty tag decodes to TypeUnknown.
func (t *KeyType) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*t = TypeUnknown
		return nil
	}
	parsed, err := ParseKeyType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
