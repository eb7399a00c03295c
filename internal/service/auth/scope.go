package auth

import (
	"encoding/json"
	"strings"
)

// scopeClaim accepts both the space-delimited string form of the scope
// claim and a JSON array of scope strings.
type scopeClaim []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *scopeClaim) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = strings.Fields(single)
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

// MarshalJSON implements json.Marshaler using the space-delimited form.
func (s scopeClaim) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.Join(s, " "))
}
