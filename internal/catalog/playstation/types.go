package playstation

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Category is one section of the PlayStation Plus games list.
type Category struct {
	Category string `json:"category"`
	Games    []Game `json:"games"`
}

// Game is a single entry of a category.
type Game struct {
	Name   string     `json:"name"`
	Device DeviceList `json:"device"`
}

// DeviceList holds the platforms a game runs on. The endpoint sends either a
// single string ("PS4,PS5") or an array of strings; Joined records which form
// was received so the payload cache stores it unchanged.
type DeviceList struct {
	Devices []string
	Joined  bool
}

// UnmarshalJSON accepts a string, an array of strings or null.
func (d *DeviceList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = DeviceList{}
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*d = DeviceList{Joined: true}
		if single != "" {
			d.Devices = []string{single}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("device must be a string or a list of strings: %w", err)
	}
	*d = DeviceList{Devices: many}
	return nil
}

// MarshalJSON writes the list back in the form it was received.
func (d DeviceList) MarshalJSON() ([]byte, error) {
	if d.Joined {
		return json.Marshal(strings.Join(d.Devices, ","))
	}
	return json.Marshal(d.Devices)
}

// Has reports whether the list names platform. Array entries must equal
// platform; a joined string only has to contain it.
func (d DeviceList) Has(platform string) bool {
	if d.Joined {
		for _, device := range d.Devices {
			if strings.Contains(device, platform) {
				return true
			}
		}
		return false
	}
	return slices.Contains(d.Devices, platform)
}
