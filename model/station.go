package model

// Station is one of the shop's fixed working positions. Station 1 is the
// only one with a wash basin; services flagged NeedsWash must use it.
type Station struct {
	Number       int  `json:"number"`
	HasWashBasin bool `json:"has_wash_basin"`
}

// Stations returns the three fixed shop stations.
func Stations() [3]Station {
	return [3]Station{
		{Number: 1, HasWashBasin: true},
		{Number: 2, HasWashBasin: false},
		{Number: 3, HasWashBasin: false},
	}
}
