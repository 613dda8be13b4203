package archive

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Field type tags
const (
	TypeInt    byte = 'i'
	TypeFloat  byte = 'f'
	TypeString byte = 's'
	TypeBool   byte = 'b'
)

// ErrNotFound is returned by Load for a missing key
var ErrNotFound = errors.New("archive: key not found")

// Field is one tagged value of a record
type Field struct {
	Name  string
	Type  byte
	Value string
}

// Record is an ordered list of named, typed fields encoded as name:type:value,
type Record struct {
	fields []Field
}

// Serializable values store themselves as records
type Serializable interface {
	MarshalRecord(r *Record)
	UnmarshalRecord(r *Record) error
}

var (
	nameReplacer  = strings.NewReplacer(",", ".", ":", ".", "\r\n", " ", "\n", " ", "\r", " ")
	valueReplacer = strings.NewReplacer(",", ".", "\r\n", " ", "\n", " ", "\r", " ")
)

// set replaces the field with the same name or appends a new one
func (r *Record) set(name string, typ byte, value string) *Record {
	name = nameReplacer.Replace(name)
	for i := range r.fields {
		if r.fields[i].Name == name {
			r.fields[i] = Field{Name: name, Type: typ, Value: value}
			return r
		}
	}
	r.fields = append(r.fields, Field{Name: name, Type: typ, Value: value})
	return r
}

// SetInt stores an integer field
func (r *Record) SetInt(name string, v int64) *Record {
	return r.set(name, TypeInt, strconv.FormatInt(v, 10))
}

// SetFloat stores a float field
func (r *Record) SetFloat(name string, v float64) *Record {
	return r.set(name, TypeFloat, strconv.FormatFloat(v, 'g', -1, 64))
}

// SetString stores a string field; ',' becomes '.' and line breaks become spaces
func (r *Record) SetString(name, v string) *Record {
	return r.set(name, TypeString, valueReplacer.Replace(v))
}

// SetBool stores a boolean field
func (r *Record) SetBool(name string, v bool) *Record {
	return r.set(name, TypeBool, strconv.FormatBool(v))
}

func (r *Record) lookup(name string, typ byte) (string, bool) {
	for _, f := range r.fields {
		if f.Name == name && f.Type == typ {
			return f.Value, true
		}
	}
	return "", false
}

// GetInt returns an integer field
func (r *Record) GetInt(name string) (int64, bool) {
	s, ok := r.lookup(name, TypeInt)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, 64)
	return v, err == nil
}

// GetFloat returns a float field
func (r *Record) GetFloat(name string) (float64, bool) {
	s, ok := r.lookup(name, TypeFloat)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// GetString returns a string field
func (r *Record) GetString(name string) (string, bool) {
	return r.lookup(name, TypeString)
}

// GetBool returns a boolean field
func (r *Record) GetBool(name string) (bool, bool) {
	s, ok := r.lookup(name, TypeBool)
	if !ok {
		return false, false
	}
	v, err := strconv.ParseBool(s)
	return v, err == nil
}

// Fields returns the fields in encoding order
func (r *Record) Fields() []Field {
	return r.fields
}

// Encode renders the record, every field ends with a comma
func (r *Record) Encode() string {
	var sb strings.Builder
	for _, f := range r.fields {
		sb.WriteString(f.Name)
		sb.WriteByte(':')
		sb.WriteByte(f.Type)
		sb.WriteByte(':')
		sb.WriteString(f.Value)
		sb.WriteByte(',')
	}
	return sb.String()
}

// ParseRecord decodes an encoded record
func ParseRecord(s string) (*Record, error) {
	r := &Record{}
	for part := range strings.SplitSeq(s, ",") {
		if part == "" {
			continue
		}
		name, rest, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("record field %q: missing type", part)
		}
		typ, value, ok := strings.Cut(rest, ":")
		if !ok || len(typ) != 1 {
			return nil, fmt.Errorf("record field %q: bad type", part)
		}
		switch typ[0] {
		case TypeInt, TypeFloat, TypeString, TypeBool:
		default:
			return nil, fmt.Errorf("record field %q: unknown type %q", part, typ)
		}
		r.fields = append(r.fields, Field{Name: name, Type: typ[0], Value: value})
	}
	return r, nil
}

// Save stores v under key
func Save(a *Archive, key string, v Serializable) error {
	r := &Record{}
	v.MarshalRecord(r)
	if !a.Set(key, r.Encode()) {
		return fmt.Errorf("save %q: %w", key, a.LastError())
	}
	return nil
}

// Load restores v from key
func Load(a *Archive, key string, v Serializable) error {
	s, ok := a.Get(key)
	if !ok {
		if err := a.LastError(); err != nil {
			return fmt.Errorf("load %q: %w", key, err)
		}
		return fmt.Errorf("load %q: %w", key, ErrNotFound)
	}
	r, err := ParseRecord(s)
	if err != nil {
		return fmt.Errorf("load %q: %w", key, err)
	}
	return v.UnmarshalRecord(r)
}
