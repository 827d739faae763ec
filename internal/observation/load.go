package observation

import (
	"fmt"
	"io"
	"os"

	"github.com/bytedance/sonic"

	"github.com/HamletTheHamster/gammaplot/internal/flux"
	"github.com/HamletTheHamster/gammaplot/internal/sky"
)

type coordDoc struct {
	Lon   float64 `json:"lon"`
	Lat   float64 `json:"lat"`
	Frame string  `json:"frame,omitempty"`
}

type eventDoc struct {
	Lon    float64 `json:"lon"`
	Lat    float64 `json:"lat"`
	Energy float64 `json:"energy,omitempty"` // TeV
	Time   float64 `json:"time,omitempty"`   // MJD
}

type observationDoc struct {
	ObsID    int64      `json:"obs_id"`
	Pointing *coordDoc  `json:"pointing"`
	RadMax   []float64  `json:"rad_max"`
	Events   []eventDoc `json:"events"`
}

// Load reads an observation document from path.
func Load(path string) (*Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open observation: %w", err)
	}
	defer f.Close()

	obs, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return obs, nil
}

// Decode parses a JSON observation document. Events inherit the pointing
// frame.
func Decode(r io.Reader) (*Observation, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read observation: %w", err)
	}

	var doc observationDoc
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidObservation, err)
	}
	if doc.Pointing == nil {
		return nil, fmt.Errorf("%w: run %d has no pointing", ErrInvalidObservation, doc.ObsID)
	}

	frame, err := sky.ParseFrame(doc.Pointing.Frame)
	if err != nil {
		return nil, fmt.Errorf("%w: run %d: %w", ErrInvalidObservation, doc.ObsID, err)
	}

	obs := &Observation{
		ID:           doc.ObsID,
		Pointing:     sky.Coord{Lon: doc.Pointing.Lon, Lat: doc.Pointing.Lat, Frame: frame},
		RadMaxValues: doc.RadMax,
		Events:       make([]Event, len(doc.Events)),
	}
	for i, e := range doc.Events {
		obs.Events[i] = Event{
			Coord:  sky.Coord{Lon: e.Lon, Lat: e.Lat, Frame: frame},
			Energy: flux.Energy(e.Energy) * flux.TeV,
			Time:   e.Time,
		}
	}
	if err := obs.Validate(); err != nil {
		return nil, err
	}
	return obs, nil
}
