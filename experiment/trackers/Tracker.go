// Package trackers implements Trackers, which record data generated
// during an experiment and save it to disk once the experiment ends.
package trackers

import (
	"encoding/gob"
	"fmt"
	"os"

	ts "github.com/gorlkit/gorlkit/timestep"
)

// Tracker keeps track of experiment data and saves the data after the
// experiment has finished. An experiment sends every environment
// TimeStep to each of its Trackers through Track; each Tracker decides
// which data from the TimeStep it caches.
type Tracker interface {
	Track(t ts.TimeStep)
	Save() error
}

// LoadData loads and returns the data saved by a Tracker
func LoadData(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("loaddata: could not open data file: %v",
			err)
	}
	defer file.Close()

	dec := gob.NewDecoder(file)
	var data []float64
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("loaddata: could not decode data: %v", err)
	}

	return data, nil
}

// saveData gob-encodes a Tracker's data to disk
func saveData(filename string, data []float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("savedata: could not create save file: %v", err)
	}
	defer file.Close()

	enc := gob.NewEncoder(file)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("savedata: could not encode data: %v", err)
	}
	return nil
}
