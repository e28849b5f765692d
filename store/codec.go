package store

import (
	"encoding/json"

	"github.com/underground-railroad/railroad/domain"
	"github.com/underground-railroad/railroad/railerr"
	"github.com/underground-railroad/railroad/types"
)

// encodeJSON marshals v to JSON, wrapping any error as a KindSerialization
// railerr so callers never need to know the encoding underneath.
func encodeJSON(op string, v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", railerr.Wrap(railerr.KindSerialization, op, "encode", err)
	}
	return string(b), nil
}

func decodeJSON(op, data string, v interface{}) error {
	if data == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return railerr.Wrap(railerr.KindSerialization, op, "decode", err)
	}
	return nil
}

func encodeRegion(op string, r types.Region) (string, error) { return encodeJSON(op, r) }
func decodeRegion(op, data string) (types.Region, error) {
	var r types.Region
	err := decodeJSON(op, data, &r)
	return r, err
}

func encodeRegions(op string, rs []types.Region) (string, error) { return encodeJSON(op, rs) }
func decodeRegions(op, data string) ([]types.Region, error) {
	var rs []types.Region
	err := decodeJSON(op, data, &rs)
	return rs, err
}

func encodeCapabilities(op string, caps []domain.Capability) (string, error) {
	return encodeJSON(op, caps)
}
func decodeCapabilities(op, data string) ([]domain.Capability, error) {
	var caps []domain.Capability
	err := decodeJSON(op, data, &caps)
	return caps, err
}

func encodeAccommodations(op string, accs []domain.Accommodation) (string, error) {
	return encodeJSON(op, accs)
}
func decodeAccommodations(op, data string) ([]domain.Accommodation, error) {
	var accs []domain.Accommodation
	err := decodeJSON(op, data, &accs)
	return accs, err
}

func encodeNeeds(op string, needs []domain.Need) (string, error) { return encodeJSON(op, needs) }
func decodeNeeds(op, data string) ([]domain.Need, error) {
	var needs []domain.Need
	err := decodeJSON(op, data, &needs)
	return needs, err
}

func encodeStrings(op string, ss []string) (string, error) { return encodeJSON(op, ss) }
func decodeStrings(op, data string) ([]string, error) {
	var ss []string
	err := decodeJSON(op, data, &ss)
	return ss, err
}
